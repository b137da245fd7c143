package decoder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// scriptedScorer returns a one-hot score vector selecting the next
// identifier from the script, and keeps producing the last entry once
// the script is exhausted.
type scriptedScorer struct {
	script    []int64
	vocabSize int
	calls     int
}

func (s *scriptedScorer) Score(_ context.Context, tokenIDs []int64) ([]float32, error) {
	idx := s.calls
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.calls++

	scores := make([]float32, s.vocabSize)
	scores[s.script[idx]] = 1
	return scores, nil
}

func TestGenerateStartsWithStartToken(t *testing.T) {
	t.Parallel()

	d := New(make([]string, 10))
	scorer := &scriptedScorer{script: []int64{StopToken}, vocabSize: 10}

	ids, err := d.Generate(context.Background(), scorer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if ids[0] != StartToken {
		t.Fatalf("first identifier: got %d, want %d", ids[0], StartToken)
	}
}

func TestGenerateHaltsOnStopToken(t *testing.T) {
	t.Parallel()

	d := New(make([]string, 10))
	scorer := &scriptedScorer{script: []int64{7, 9, StopToken}, vocabSize: 10}

	ids, err := d.Generate(context.Background(), scorer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := []int64{StartToken, 7, 9, StopToken}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("sequence: got %v, want %v", ids, want)
	}
	// Stop after k generated tokens means exactly k+1 scoring calls.
	if scorer.calls != 3 {
		t.Fatalf("scoring calls: got %d, want 3", scorer.calls)
	}
}

func TestGenerateTruncatesAtMaxSteps(t *testing.T) {
	t.Parallel()

	d := New(make([]string, 10))
	// Never emits the stop token.
	scorer := &scriptedScorer{script: []int64{7}, vocabSize: 10}

	ids, err := d.Generate(context.Background(), scorer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(ids) != MaxSteps+1 {
		t.Fatalf("truncated sequence length: got %d, want %d", len(ids), MaxSteps+1)
	}
	if scorer.calls != MaxSteps {
		t.Fatalf("scoring calls: got %d, want %d", scorer.calls, MaxSteps)
	}
}

func TestGeneratePropagatesScorerError(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("malformed input")
	d := New(make([]string, 10))
	scorer := ScorerFunc(func(context.Context, []int64) ([]float32, error) {
		return nil, errBroken
	})

	_, err := d.Generate(context.Background(), scorer)
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected scorer error to propagate, got %v", err)
	}
}

func TestGenerateStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	d := New(make([]string, 10))
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	scorer := ScorerFunc(func(context.Context, []int64) ([]float32, error) {
		calls++
		cancel()
		scores := make([]float32, 10)
		scores[7] = 1
		return scores, nil
	})

	_, err := d.Generate(ctx, scorer)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	// Cancellation between steps: the scorer is not called again.
	if calls != 1 {
		t.Fatalf("scoring calls after cancel: got %d, want 1", calls)
	}
}

func TestTextDropsControlTokens(t *testing.T) {
	t.Parallel()

	vocab := []string{"<pad>", "<unk>", "<s>", "</s>", "<mask>", "あ", "い"}
	d := New(vocab)

	got := d.Text([]int64{2, 5, 6, 3})
	if got != "あい" {
		t.Fatalf("Text: got %q, want %q", got, "あい")
	}
}

func TestTextIgnoresOutOfRangeIdentifiers(t *testing.T) {
	t.Parallel()

	d := New([]string{"<pad>", "<unk>", "<s>", "</s>", "<mask>", "あ"})
	if got := d.Text([]int64{2, 5, 99, 3}); got != "あ" {
		t.Fatalf("Text: got %q, want %q", got, "あ")
	}
}

func TestDecodeEndToEnd(t *testing.T) {
	t.Parallel()

	vocab := []string{"<pad>", "<unk>", "<s>", "</s>", "<mask>", "今", "日"}
	d := New(vocab)
	scorer := &scriptedScorer{script: []int64{5, 6, StopToken}, vocabSize: len(vocab)}

	got, err := d.Decode(context.Background(), scorer)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "今日" {
		t.Fatalf("Decode: got %q, want %q", got, "今日")
	}
}

func TestArgmaxTiesResolveToLowestIndex(t *testing.T) {
	t.Parallel()

	if got := argmax([]float32{0, 1, 1, 0}); got != 1 {
		t.Fatalf("argmax tie: got %d, want 1", got)
	}
}

func TestLoadVocab(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte("<pad>\n<unk>\n<s>\n</s>\n<mask>\nあ\nい\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	vocab, err := LoadVocab(path)
	if err != nil {
		t.Fatalf("LoadVocab: %v", err)
	}
	want := []string{"<pad>", "<unk>", "<s>", "</s>", "<mask>", "あ", "い"}
	if !reflect.DeepEqual(vocab, want) {
		t.Fatalf("vocab: got %v, want %v", vocab, want)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing vocab file")
	}
}
