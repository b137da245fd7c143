package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/dataset"
)

func datasetCmd() *cli.Command {
	var (
		rootDir string
		outDir  string
		books   []string
	)

	convert := &cli.Command{
		Name:  "convert",
		Usage: "Convert Manga109 annotations to a YOLO training layout",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "manga109-dir",
				Usage:       "Manga109 dataset root directory",
				Required:    true,
				Destination: &rootDir,
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Aliases:     []string{"o"},
				Usage:       "output directory for the YOLO layout",
				Required:    true,
				Destination: &outDir,
			},
			&cli.StringSliceFlag{
				Name:        "books",
				Usage:       "books to convert (default: all)",
				Destination: &books,
			},
		}, loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := buildLogger()
			return dataset.Convert(dataset.ConvertConfig{
				Root:   rootDir,
				OutDir: outDir,
				Books:  books,
			}, log)
		},
	}

	return &cli.Command{
		Name:     "dataset",
		Usage:    "Dataset tooling",
		Commands: []*cli.Command{convert},
	}
}
