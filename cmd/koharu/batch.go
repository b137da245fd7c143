package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/ocr"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// batchCmd demonstrates batched inference: all inputs are stacked
// along the batch dimension and the model runs once, instead of once
// per image. Works with any model whose first input is a dynamic
// batch of 3x224x224 images (e.g. the manga-ocr encoder).
func batchCmd() *cli.Command {
	var modelPath string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "model",
			Aliases:     []string{"m"},
			Usage:       "path to the .onnx model",
			Required:    true,
			Destination: &modelPath,
		},
	}
	flags = append(flags, runtimeFlags()...)
	flags = append(flags, loggingFlags()...)

	return &cli.Command{
		Name:      "batch",
		Usage:     "Run batched inference over multiple images at once",
		ArgsUsage: "IMAGE [IMAGE...]",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			log := buildLogger()

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("at least one image argument is required")
			}

			rt, err := onnxrt.Init(onnxrt.Config{LibraryPath: ortLibrary}, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			sess, err := rt.OpenSession(modelPath)
			if err != nil {
				return err
			}
			defer sess.Close()

			inputNames := sess.InputNames()
			if len(inputNames) != 1 {
				return fmt.Errorf("batch demo needs a single-input model, got %v", inputNames)
			}

			// Stack every preprocessed image along the batch axis.
			single := 3 * ocr.InputSize * ocr.InputSize
			stacked := make([]float32, 0, len(paths)*single)
			for _, path := range paths {
				img, err := loadImage(path)
				if err != nil {
					return err
				}
				stacked = append(stacked, ocr.Preprocess(img)...)
			}

			input, err := ort.NewTensor(
				ort.NewShape(int64(len(paths)), 3, ocr.InputSize, ocr.InputSize),
				stacked,
			)
			if err != nil {
				return fmt.Errorf("batch tensor: %w", err)
			}
			defer input.Destroy()

			outputs, err := sess.Run(map[string]ort.Value{inputNames[0]: input})
			if err != nil {
				return err
			}
			defer onnxrt.DestroyAll(outputs)

			for i, name := range sess.OutputNames() {
				if t, ok := outputs[i].(*ort.Tensor[float32]); ok {
					data := t.GetData()
					fmt.Printf("%s: %d values (%d per image)\n", name, len(data), len(data)/len(paths))
				} else {
					fmt.Printf("%s: non-float output\n", name)
				}
			}

			log.Info("batch complete", "images", len(paths))
			return nil
		},
	}
}
