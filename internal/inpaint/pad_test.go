package inpaint

import (
	"image"
	"reflect"
	"testing"
)

func newGray(w, h int) *image.Gray {
	return image.NewGray(image.Rect(0, 0, w, h))
}

func TestCeilModulo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		x, mod, want int
	}{
		{8, 8, 8},
		{9, 8, 16},
		{1, 8, 8},
		{16, 8, 16},
		{511, 8, 512},
	}
	for _, tc := range tests {
		if got := CeilModulo(tc.x, tc.mod); got != tc.want {
			t.Errorf("CeilModulo(%d, %d): got %d, want %d", tc.x, tc.mod, got, tc.want)
		}
	}
}

func TestPadToModuloNoop(t *testing.T) {
	t.Parallel()

	data := []float32{1, 2, 3, 4}
	out, h, w := PadToModulo(data, 1, 2, 2, 2)
	if h != 2 || w != 2 {
		t.Fatalf("dims: got %dx%d, want 2x2", h, w)
	}
	if !reflect.DeepEqual(out, data) {
		t.Fatal("aligned input should pass through unchanged")
	}
}

func TestPadToModuloMirrors(t *testing.T) {
	t.Parallel()

	// 1 channel, 2x3 -> padded to 2x4 with the last column mirrored.
	data := []float32{
		1, 2, 3,
		4, 5, 6,
	}
	out, h, w := PadToModulo(data, 1, 2, 3, 2)
	if h != 2 || w != 4 {
		t.Fatalf("dims: got %dx%d, want 2x4", h, w)
	}
	want := []float32{
		1, 2, 3, 3,
		4, 5, 6, 6,
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("padded: got %v, want %v", out, want)
	}
}

func TestTensorToImageClamps(t *testing.T) {
	t.Parallel()

	// 1x1 RGB with out-of-range values.
	img, err := tensorToImage([]float32{-10, 300, 127.6}, 1, 1)
	if err != nil {
		t.Fatalf("tensorToImage: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 128 {
		t.Fatalf("clamped pixel: got (%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestTensorToImageLengthCheck(t *testing.T) {
	t.Parallel()

	if _, err := tensorToImage(make([]float32, 5), 2, 2); err == nil {
		t.Fatal("expected error for wrong-size buffer")
	}
}

func TestMaskTensorBinarizes(t *testing.T) {
	t.Parallel()

	mask := newGray(InputSize, InputSize)
	mask.Pix[0] = 200
	mask.Pix[1] = 1

	data := maskTensor(mask, InputSize, InputSize)
	if data[0] != 1 || data[1] != 1 {
		t.Fatalf("non-zero pixels must binarize to 1, got %f %f", data[0], data[1])
	}
	if data[2] != 0 {
		t.Fatalf("zero pixel must stay 0, got %f", data[2])
	}
}

func TestPaddedInputsAlignsDimensions(t *testing.T) {
	t.Parallel()

	// 10x6 aligns to 16x8 at modulo 8.
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	mask := newGray(10, 6)
	mask.Pix[5*mask.Stride+9] = 255 // bottom-right corner

	imageData, maskData, padW, padH := paddedInputs(img, mask)
	if padW != 16 || padH != 8 {
		t.Fatalf("padded dims: got %dx%d, want 16x8", padW, padH)
	}
	if len(imageData) != 3*padW*padH {
		t.Fatalf("image tensor length: got %d, want %d", len(imageData), 3*padW*padH)
	}
	if len(maskData) != padW*padH {
		t.Fatalf("mask tensor length: got %d, want %d", len(maskData), padW*padH)
	}

	// The corner mask pixel mirrors into the padded rows and columns.
	if maskData[5*padW+9] != 1 {
		t.Fatal("original mask pixel lost")
	}
	if maskData[5*padW+10] != 1 || maskData[6*padW+9] != 1 {
		t.Fatal("edge pixel must mirror into the padding")
	}
}

func TestPaddedInputsNoopWhenAligned(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	_, _, padW, padH := paddedInputs(img, newGray(16, 8))
	if padW != 16 || padH != 8 {
		t.Fatalf("aligned input must keep its size, got %dx%d", padW, padH)
	}
}
