package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/api"
	"github.com/shrey-bhatia/koharu/internal/pipeline"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read header timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.StringFlag{
			Name:        "detector",
			Usage:       "path to comictextdetector.onnx",
			Destination: &detectorModel,
		},
		&cli.StringFlag{
			Name:        "inpaint-model",
			Usage:       "path to the LaMa .onnx export",
			Destination: &inpaintModel,
		},
	}
	flags = append(flags, ocrModelFlags()...)
	flags = append(flags, runtimeFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the REST API",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			log := buildLogger()

			p, err := pipeline.New(pipeline.Config{
				Library:       ortLibrary,
				DetectorModel: detectorModel,
				OCRModel:      ocrModel,
				OCREncoder:    ocrEncoder,
				OCRDecoder:    ocrDecoder,
				OCRVocab:      ocrVocab,
				InpaintModel:  inpaintModel,
			}, log)
			if err != nil {
				return err
			}
			defer p.Close()

			server := api.NewPipelineServer(p, log.With("component", "api"))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
