package ocr

import (
	"image"

	"github.com/up-zero/gotool/imageutil"
	"golang.org/x/image/draw"
)

// InputSize is the square side length the recognition models expect.
const InputSize = 224

const tensorLen = 3 * InputSize * InputSize

// Preprocess converts an image to the model's input tensor: grayscale,
// resized to 224x224, scaled to [0,1], normalized to [-1,1], laid out
// CHW with the gray value replicated across the three channels.
func Preprocess(img image.Image) []float32 {
	gray := imageutil.Grayscale(img)

	resized := image.NewGray(image.Rect(0, 0, InputSize, InputSize))
	draw.CatmullRom.Scale(resized, resized.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	data := make([]float32, tensorLen)
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			v := float32(resized.Pix[y*resized.Stride+x])
			v = (v/255 - 0.5) / 0.5
			idx := y*InputSize + x
			data[idx] = v
			data[InputSize*InputSize+idx] = v
			data[2*InputSize*InputSize+idx] = v
		}
	}
	return data
}
