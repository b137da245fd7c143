// Package decoder implements greedy autoregressive token decoding
// against an external scoring function, plus the vocabulary mapping
// from token identifiers to text.
package decoder

import (
	"context"
	"strings"
)

// Token identifiers shared by all manga-ocr model exports. These are
// baked into the trained models and must not change.
const (
	StartToken int64 = 2
	StopToken  int64 = 3

	// Identifiers below ReservedTokens are control markers
	// (padding, unknown, start, stop) and never map to text.
	ReservedTokens int64 = 5

	// MaxSteps bounds one decode. Hitting the bound yields a
	// truncated sequence, not an error.
	MaxSteps = 300
)

// Scorer produces one score per vocabulary entry for the next position
// given the token sequence so far. Implementations are expected to be
// pure functions of their inputs; errors abort the decode and are
// returned to the caller unchanged.
type Scorer interface {
	Score(ctx context.Context, tokenIDs []int64) ([]float32, error)
}

// ScorerFunc adapts a function to the Scorer interface.
type ScorerFunc func(ctx context.Context, tokenIDs []int64) ([]float32, error)

func (f ScorerFunc) Score(ctx context.Context, tokenIDs []int64) ([]float32, error) {
	return f(ctx, tokenIDs)
}

// Decoder drives token-by-token generation and maps the resulting
// identifiers to text through an immutable vocabulary.
type Decoder struct {
	vocab    []string
	maxSteps int
}

// New creates a Decoder over the given vocabulary. The slice is not
// copied; callers must not mutate it afterwards.
func New(vocab []string) *Decoder {
	return &Decoder{vocab: vocab, maxSteps: MaxSteps}
}

// VocabSize reports the number of vocabulary entries.
func (d *Decoder) VocabSize() int {
	return len(d.vocab)
}

// Generate runs the greedy decode loop: starting from StartToken, it
// repeatedly asks the scorer for the next position's scores, appends
// the arg-max identifier, and halts when StopToken is produced or
// MaxSteps is reached. A truncated sequence is a normal result.
func (d *Decoder) Generate(ctx context.Context, scorer Scorer) ([]int64, error) {
	ids := make([]int64, 1, d.maxSteps+1)
	ids[0] = StartToken

	for step := 0; step < d.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scores, err := scorer.Score(ctx, ids)
		if err != nil {
			return nil, err
		}

		next := argmax(scores)
		ids = append(ids, next)

		if next == StopToken {
			break
		}
	}

	return ids, nil
}

// Text maps a token identifier sequence to text, dropping control
// identifiers and any identifier outside the vocabulary.
func (d *Decoder) Text(ids []int64) string {
	var sb strings.Builder
	for _, id := range ids {
		if id < ReservedTokens || id >= int64(len(d.vocab)) {
			continue
		}
		sb.WriteString(d.vocab[id])
	}
	return sb.String()
}

// Decode runs Generate followed by Text.
func (d *Decoder) Decode(ctx context.Context, scorer Scorer) (string, error) {
	ids, err := d.Generate(ctx, scorer)
	if err != nil {
		return "", err
	}
	return d.Text(ids), nil
}

// argmax returns the index of the maximum score. Ties resolve to the
// lowest index.
func argmax(scores []float32) int64 {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return int64(best)
}
