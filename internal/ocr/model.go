package ocr

import (
	"context"
	"errors"
	"fmt"
	"slices"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/decoder"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// model is one decode strategy: given the prepared pixel tensor it
// produces the token identifier sequence. The two implementations
// (fused single model, split encoder/decoder) are interchangeable and
// share the decoder contract and constants.
type model interface {
	generate(ctx context.Context, pixels *ort.Tensor[float32], dec *decoder.Decoder) ([]int64, error)
	Close() error
}

// fusedModel is the single-session export: one graph taking the image
// and the token sequence on every step.
type fusedModel struct {
	sess *onnxrt.Session
}

func (m *fusedModel) generate(ctx context.Context, pixels *ort.Tensor[float32], dec *decoder.Decoder) ([]int64, error) {
	scorer := decoder.ScorerFunc(func(ctx context.Context, ids []int64) ([]float32, error) {
		idsTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(ids))), slices.Clone(ids))
		if err != nil {
			return nil, fmt.Errorf("token tensor: %w", err)
		}
		defer idsTensor.Destroy()

		outputs, err := m.sess.Run(map[string]ort.Value{
			"image":     pixels,
			"token_ids": idsTensor,
		})
		if err != nil {
			return nil, err
		}
		defer onnxrt.DestroyAll(outputs)

		return lastPositionScores(m.sess, outputs, len(ids))
	})

	return dec.Generate(ctx, scorer)
}

func (m *fusedModel) Close() error {
	return m.sess.Close()
}

// splitModel is the two-stage export: the encoder runs once per image,
// the decoder runs once per step against the fixed encoder output.
type splitModel struct {
	encoder *onnxrt.Session
	decoder *onnxrt.Session
}

func (m *splitModel) generate(ctx context.Context, pixels *ort.Tensor[float32], dec *decoder.Decoder) ([]int64, error) {
	encOutputs, err := m.encoder.Run(map[string]ort.Value{
		"pixel_values": pixels,
	})
	if err != nil {
		return nil, err
	}
	defer onnxrt.DestroyAll(encOutputs)

	hidden := encOutputs[0]

	scorer := decoder.ScorerFunc(func(ctx context.Context, ids []int64) ([]float32, error) {
		idsTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(ids))), slices.Clone(ids))
		if err != nil {
			return nil, fmt.Errorf("token tensor: %w", err)
		}
		defer idsTensor.Destroy()

		outputs, err := m.decoder.Run(map[string]ort.Value{
			"encoder_hidden_states": hidden,
			"input_ids":             idsTensor,
		})
		if err != nil {
			return nil, err
		}
		defer onnxrt.DestroyAll(outputs)

		return lastPositionScores(m.decoder, outputs, len(ids))
	})

	return dec.Generate(ctx, scorer)
}

func (m *splitModel) Close() error {
	return errors.Join(m.encoder.Close(), m.decoder.Close())
}

// lastPositionScores extracts the score vector for the final sequence
// position from the logits output, shaped [1, seqLen, vocab].
func lastPositionScores(sess *onnxrt.Session, outputs []ort.Value, seqLen int) ([]float32, error) {
	out, err := sess.Output(outputs, "logits")
	if err != nil {
		return nil, err
	}
	logits, ok := out.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("logits output is not a float32 tensor")
	}

	return slicePosition(logits.GetData(), seqLen)
}

// slicePosition returns a copy of the last position's scores from a
// flat [1, seqLen, vocab] logits buffer.
func slicePosition(data []float32, seqLen int) ([]float32, error) {
	if seqLen <= 0 || len(data) == 0 || len(data)%seqLen != 0 {
		return nil, fmt.Errorf("logits length %d does not divide sequence length %d", len(data), seqLen)
	}
	vocab := len(data) / seqLen
	return slices.Clone(data[len(data)-vocab:]), nil
}
