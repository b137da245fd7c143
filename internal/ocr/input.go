package ocr

import (
	"fmt"
	"image"
)

// Input is the accepted image-like value for recognition: either a
// decoded image or an already prepared CHW tensor. The variant is
// resolved to a tensor at the engine boundary, before the decode loop.
type Input struct {
	img    image.Image
	tensor []float32
}

// ImageInput wraps a decoded image.
func ImageInput(img image.Image) Input {
	return Input{img: img}
}

// TensorInput wraps a prepared 3x224x224 CHW float tensor, normalized
// the way Preprocess normalizes.
func TensorInput(data []float32) Input {
	return Input{tensor: data}
}

// tensorData resolves the variant to the dense tensor representation.
func (in Input) tensorData() ([]float32, error) {
	switch {
	case in.tensor != nil:
		if len(in.tensor) != tensorLen {
			return nil, fmt.Errorf("tensor input: got %d values, want %d", len(in.tensor), tensorLen)
		}
		return in.tensor, nil
	case in.img != nil:
		return Preprocess(in.img), nil
	default:
		return nil, fmt.Errorf("empty input")
	}
}
