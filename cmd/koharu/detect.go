package main

import (
	"context"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/pipeline"
)

func detectCmd() *cli.Command {
	var (
		imagePath     string
		confThreshold float64
		nmsThreshold  float64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "detector",
			Aliases:     []string{"d"},
			Usage:       "path to comictextdetector.onnx",
			Destination: &detectorModel,
		},
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "path to the page image",
			Required:    true,
			Destination: &imagePath,
		},
		&cli.Float64Flag{
			Name:        "confidence-threshold",
			Usage:       "minimum detection confidence",
			Value:       0.25,
			Destination: &confThreshold,
		},
		&cli.Float64Flag{
			Name:        "nms-threshold",
			Usage:       "IoU threshold for non-maximum suppression",
			Value:       0.45,
			Destination: &nmsThreshold,
		},
	}
	flags = append(flags, runtimeFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "detect",
		Usage: "Detect text blocks in a manga page",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			if cfg.ConfidenceThreshold != nil && !cmd.IsSet("confidence-threshold") {
				confThreshold = *cfg.ConfidenceThreshold
			}
			if cfg.NMSThreshold != nil && !cmd.IsSet("nms-threshold") {
				nmsThreshold = *cfg.NMSThreshold
			}
			log := buildLogger()

			p, err := pipeline.New(pipeline.Config{
				Library:       ortLibrary,
				DetectorModel: detectorModel,
			}, log)
			if err != nil {
				return err
			}
			defer p.Close()

			detector, err := p.Detector()
			if err != nil {
				return err
			}

			img, err := loadImage(imagePath)
			if err != nil {
				return err
			}

			regions, err := detector.Detect(ctx, img, float32(confThreshold), float32(nmsThreshold))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(regions)
		},
	}
}
