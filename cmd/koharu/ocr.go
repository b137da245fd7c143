package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/ocr"
	"github.com/shrey-bhatia/koharu/internal/pipeline"
)

func ocrCmd() *cli.Command {
	var imagePath string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "path to the image region to recognize",
			Required:    true,
			Destination: &imagePath,
		},
	}
	flags = append(flags, ocrModelFlags()...)
	flags = append(flags, runtimeFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:  "ocr",
		Usage: "Recognize Japanese text in an image region",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			log := buildLogger()

			p, err := pipeline.New(pipeline.Config{
				Library:    ortLibrary,
				OCRModel:   ocrModel,
				OCREncoder: ocrEncoder,
				OCRDecoder: ocrDecoder,
				OCRVocab:   ocrVocab,
			}, log)
			if err != nil {
				return err
			}
			defer p.Close()

			engine, err := p.OCR()
			if err != nil {
				return err
			}

			img, err := loadImage(imagePath)
			if err != nil {
				return err
			}

			text, err := engine.Recognize(ctx, ocr.ImageInput(img))
			if err != nil {
				return err
			}

			fmt.Println(text)
			return nil
		},
	}
}
