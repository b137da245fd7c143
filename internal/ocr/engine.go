// Package ocr recognizes Japanese text in manga panels with the
// manga-ocr ONNX exports: image preprocessing, greedy sequence
// decoding, and output normalization.
package ocr

import (
	"context"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/decoder"
	"github.com/shrey-bhatia/koharu/internal/jptext"
	"github.com/shrey-bhatia/koharu/internal/logger"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// ModelPaths selects the decode strategy. Either Fused, or both
// Encoder and Decoder, must be set; Vocab is always required.
type ModelPaths struct {
	// Fused is the single-model export (inputs: image, token_ids).
	Fused string
	// Encoder/Decoder are the two-stage export (pixel_values;
	// encoder_hidden_states + input_ids).
	Encoder string
	Decoder string
	Vocab   string
}

// Engine recognizes text in a single image region.
type Engine struct {
	model model
	dec   *decoder.Decoder
	log   logger.Logger
}

// NewEngine loads the vocabulary and model sessions. The two export
// variants behave identically behind Recognize.
func NewEngine(rt *onnxrt.Runtime, paths ModelPaths, log logger.Logger) (*Engine, error) {
	dec, err := decoder.NewFromFile(paths.Vocab)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}

	m, err := openModel(rt, paths)
	if err != nil {
		return nil, err
	}

	log.Info("ocr engine ready", "vocab_size", dec.VocabSize(), "two_stage", paths.Fused == "")

	return &Engine{model: m, dec: dec, log: log}, nil
}

func openModel(rt *onnxrt.Runtime, paths ModelPaths) (model, error) {
	switch {
	case paths.Fused != "":
		sess, err := rt.OpenSession(paths.Fused)
		if err != nil {
			return nil, err
		}
		return &fusedModel{sess: sess}, nil

	case paths.Encoder != "" && paths.Decoder != "":
		enc, err := rt.OpenSession(paths.Encoder)
		if err != nil {
			return nil, err
		}
		dec, err := rt.OpenSession(paths.Decoder)
		if err != nil {
			enc.Close()
			return nil, err
		}
		return &splitModel{encoder: enc, decoder: dec}, nil

	default:
		return nil, fmt.Errorf("ocr model paths: need fused model or encoder+decoder pair")
	}
}

// Recognize runs the full pipeline on one input: preprocess, decode,
// vocabulary mapping, text normalization.
func (e *Engine) Recognize(ctx context.Context, in Input) (string, error) {
	data, err := in.tensorData()
	if err != nil {
		return "", err
	}

	pixels, err := ort.NewTensor(ort.NewShape(1, 3, InputSize, InputSize), data)
	if err != nil {
		return "", fmt.Errorf("pixel tensor: %w", err)
	}
	defer pixels.Destroy()

	ids, err := e.model.generate(ctx, pixels, e.dec)
	if err != nil {
		return "", err
	}

	text := e.dec.Text(ids)
	return jptext.Normalize(text), nil
}

// Close releases the model sessions.
func (e *Engine) Close() error {
	return e.model.Close()
}
