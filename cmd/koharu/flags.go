package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/shrey-bhatia/koharu/internal/logger"
)

var (
	ortLibrary    string
	detectorModel string
	ocrModel      string
	ocrEncoder    string
	ocrDecoder    string
	ocrVocab      string
	inpaintModel  string
	logLevel      string
	logFormat     string
)

func runtimeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "ort-library",
			Usage:       "path to the onnxruntime shared library",
			Destination: &ortLibrary,
		},
	}
}

func ocrModelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to the fused manga-ocr .onnx export",
			Destination: &ocrModel,
		},
		&cli.StringFlag{
			Name:        "encoder",
			Usage:       "path to encoder_model.onnx (two-stage export)",
			Destination: &ocrEncoder,
		},
		&cli.StringFlag{
			Name:        "decoder",
			Usage:       "path to decoder_model.onnx (two-stage export)",
			Destination: &ocrDecoder,
		},
		&cli.StringFlag{
			Name:        "vocab",
			Usage:       "path to vocab.txt",
			Destination: &ocrVocab,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func buildLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Default()
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
