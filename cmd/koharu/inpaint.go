package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/pipeline"
)

func inpaintCmd() *cli.Command {
	var (
		imagePath  string
		maskPath   string
		outputPath string
		noResize   bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "inpaint-model",
			Usage:       "path to the LaMa .onnx export",
			Destination: &inpaintModel,
		},
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "path to the page image",
			Required:    true,
			Destination: &imagePath,
		},
		&cli.StringFlag{
			Name:        "mask",
			Usage:       "path to the mask image (non-zero pixels are inpainted)",
			Required:    true,
			Destination: &maskPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output PNG path",
			Value:       "inpainted.png",
			Destination: &outputPath,
		},
		&cli.BoolFlag{
			Name:        "no-resize",
			Usage:       "keep the original resolution, padding instead of resizing to 512x512",
			Destination: &noResize,
		},
	}
	flags = append(flags, runtimeFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "inpaint",
		Usage: "Remove masked text from a manga page",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			log := buildLogger()

			p, err := pipeline.New(pipeline.Config{
				Library:      ortLibrary,
				InpaintModel: inpaintModel,
			}, log)
			if err != nil {
				return err
			}
			defer p.Close()

			inpainter, err := p.Inpainter()
			if err != nil {
				return err
			}

			img, err := loadImage(imagePath)
			if err != nil {
				return err
			}
			mask, err := loadImage(maskPath)
			if err != nil {
				return err
			}

			var result image.Image
			if noResize {
				result, err = inpainter.InpaintPadded(ctx, img, mask)
			} else {
				result, err = inpainter.Inpaint(ctx, img, mask)
			}
			if err != nil {
				return err
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer out.Close()

			if err := png.Encode(out, result); err != nil {
				return fmt.Errorf("encode output: %w", err)
			}

			log.Info("inpainted page written", "output", outputPath)
			return nil
		},
	}
}
