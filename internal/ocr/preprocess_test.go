package ocr

import (
	"image"
	"image/color"
	"math"
	"reflect"
	"testing"
)

func TestPreprocessShapeAndRange(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 100, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 2), G: uint8(y * 4), B: 128, A: 255})
		}
	}

	data := Preprocess(img)
	if len(data) != 3*InputSize*InputSize {
		t.Fatalf("tensor length: got %d, want %d", len(data), 3*InputSize*InputSize)
	}
	for i, v := range data {
		if v < -1 || v > 1 {
			t.Fatalf("value %d out of [-1,1]: %f", i, v)
		}
	}
}

func TestPreprocessReplicatesGrayChannels(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0, A: 255})
		}
	}

	data := Preprocess(img)
	plane := InputSize * InputSize
	for i := 0; i < plane; i++ {
		if data[i] != data[plane+i] || data[i] != data[2*plane+i] {
			t.Fatalf("channels differ at %d: %f %f %f", i, data[i], data[plane+i], data[2*plane+i])
		}
	}
}

func TestPreprocessWhiteImage(t *testing.T) {
	t.Parallel()

	img := image.NewGray(image.Rect(0, 0, 224, 224))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	data := Preprocess(img)
	for i, v := range data {
		if math.Abs(float64(v-1)) > 1e-5 {
			t.Fatalf("white pixel %d: got %f, want 1", i, v)
		}
	}
}

func TestInputVariants(t *testing.T) {
	t.Parallel()

	raw := make([]float32, 3*InputSize*InputSize)
	raw[0] = 0.5

	got, err := TensorInput(raw).tensorData()
	if err != nil {
		t.Fatalf("tensor input: %v", err)
	}
	if !reflect.DeepEqual(got, raw) {
		t.Fatal("tensor input should pass through unchanged")
	}

	if _, err := TensorInput(make([]float32, 10)).tensorData(); err == nil {
		t.Fatal("expected error for wrong-size tensor input")
	}

	if _, err := (Input{}).tensorData(); err == nil {
		t.Fatal("expected error for empty input")
	}

	img := image.NewGray(image.Rect(0, 0, 10, 10))
	data, err := ImageInput(img).tensorData()
	if err != nil {
		t.Fatalf("image input: %v", err)
	}
	if len(data) != 3*InputSize*InputSize {
		t.Fatalf("image input tensor length: got %d", len(data))
	}
}

func TestSlicePosition(t *testing.T) {
	t.Parallel()

	// [1, 2, 3] logits: two positions, vocab of three.
	data := []float32{0, 1, 2, 10, 11, 12}

	got, err := slicePosition(data, 2)
	if err != nil {
		t.Fatalf("slicePosition: %v", err)
	}
	want := []float32{10, 11, 12}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("last position: got %v, want %v", got, want)
	}

	if _, err := slicePosition(data, 4); err == nil {
		t.Fatal("expected error for non-dividing sequence length")
	}
	if _, err := slicePosition(nil, 1); err == nil {
		t.Fatal("expected error for empty logits")
	}
}
