package decoder

import (
	"bufio"
	"fmt"
	"os"
)

// LoadVocab reads a vocabulary file with one entry per line; the line
// index is the token identifier.
func LoadVocab(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab file: %w", err)
	}
	defer f.Close()

	var vocab []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		vocab = append(vocab, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab file %s: %w", path, err)
	}
	return vocab, nil
}

// NewFromFile loads the vocabulary at path and constructs a Decoder
// over it. A load failure is fatal; decoding never begins.
func NewFromFile(path string) (*Decoder, error) {
	vocab, err := LoadVocab(path)
	if err != nil {
		return nil, err
	}
	return New(vocab), nil
}
