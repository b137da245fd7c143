// Package inpaint removes text from manga pages with the LaMa ONNX
// export: masked regions are filled from the surrounding artwork.
package inpaint

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/up-zero/gotool/imageutil"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/logger"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// InputSize is the square side length the fixed-size path feeds the
// LaMa export.
const InputSize = 512

// padModulo is the downsampling alignment the model requires on the
// variable-size path.
const padModulo = 8

// Inpainter wraps the LaMa session.
type Inpainter struct {
	sess *onnxrt.Session
	log  logger.Logger
}

// NewInpainter loads the inpainting model.
func NewInpainter(rt *onnxrt.Runtime, modelPath string, log logger.Logger) (*Inpainter, error) {
	sess, err := rt.OpenSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load inpainter: %w", err)
	}
	return &Inpainter{sess: sess, log: log}, nil
}

// Inpaint fills the masked area of img. Non-zero mask pixels mark the
// area to inpaint. Both inputs are resized to 512x512 for the model
// and the result is resized back to the original image's size.
func (p *Inpainter) Inpaint(ctx context.Context, img, mask image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()

	imageData := imageTensor(imageutil.Resize(img, InputSize, InputSize), InputSize, InputSize)
	maskData := maskTensor(imageutil.Grayscale(imageutil.Resize(mask, InputSize, InputSize)), InputSize, InputSize)

	restored, err := p.run(imageData, maskData, InputSize, InputSize)
	if err != nil {
		return nil, err
	}

	p.log.Debug("inpaint complete", "width", origW, "height", origH)
	return imageutil.Resize(restored, origW, origH), nil
}

// InpaintPadded fills the masked area without resizing: both inputs
// keep their resolution and are mirror-padded on the bottom and right
// to the model's downsampling alignment, then the padding is cropped
// off the result. Image and mask must have the same size.
func (p *Inpainter) InpaintPadded(ctx context.Context, img, mask image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	origW := img.Bounds().Dx()
	origH := img.Bounds().Dy()
	if mask.Bounds().Dx() != origW || mask.Bounds().Dy() != origH {
		return nil, fmt.Errorf("mask size %dx%d does not match image %dx%d",
			mask.Bounds().Dx(), mask.Bounds().Dy(), origW, origH)
	}

	imageData, maskData, padW, padH := paddedInputs(img, imageutil.Grayscale(mask))

	restored, err := p.run(imageData, maskData, padW, padH)
	if err != nil {
		return nil, err
	}

	p.log.Debug("inpaint complete", "width", origW, "height", origH, "padded_width", padW, "padded_height", padH)
	if padW == origW && padH == origH {
		return restored, nil
	}
	return restored.SubImage(image.Rect(0, 0, origW, origH)), nil
}

// run feeds one prepared image/mask pair and converts the output back
// to pixels. Tensors are NCHW, so the shape carries height first.
func (p *Inpainter) run(imageData, maskData []float32, width, height int) (*image.RGBA, error) {
	imageInput, err := ort.NewTensor(ort.NewShape(1, 3, int64(height), int64(width)), imageData)
	if err != nil {
		return nil, fmt.Errorf("image tensor: %w", err)
	}
	defer imageInput.Destroy()

	maskInput, err := ort.NewTensor(ort.NewShape(1, 1, int64(height), int64(width)), maskData)
	if err != nil {
		return nil, fmt.Errorf("mask tensor: %w", err)
	}
	defer maskInput.Destroy()

	outputs, err := p.sess.Run(map[string]ort.Value{
		"image": imageInput,
		"mask":  maskInput,
	})
	if err != nil {
		return nil, err
	}
	defer onnxrt.DestroyAll(outputs)

	out, err := p.sess.Output(outputs, "output")
	if err != nil {
		return nil, err
	}
	result, ok := out.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("output is not a float32 tensor")
	}

	return tensorToImage(result.GetData(), width, height)
}

// Close releases the session.
func (p *Inpainter) Close() error {
	return p.sess.Close()
}

// paddedInputs prepares full-resolution tensors for the no-resize
// path, mirror-padding both to the model's alignment.
func paddedInputs(img image.Image, mask *image.Gray) (imageData, maskData []float32, padW, padH int) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	imageData = imageTensor(img, w, h)
	maskData = maskTensor(mask, w, h)

	imageData, padH, padW = PadToModulo(imageData, 3, h, w, padModulo)
	maskData, _, _ = PadToModulo(maskData, 1, h, w, padModulo)
	return imageData, maskData, padW, padH
}

// imageTensor lays an RGB image out CHW, scaled to [0,1].
func imageTensor(img image.Image, width, height int) []float32 {
	data := make([]float32, 3*width*height)
	area := width * height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			idx := y*width + x
			data[idx] = float32(r>>8) / 255
			data[area+idx] = float32(g>>8) / 255
			data[2*area+idx] = float32(b>>8) / 255
		}
	}
	return data
}

// maskTensor binarizes the mask: any non-zero pixel becomes 1.
func maskTensor(mask *image.Gray, width, height int) []float32 {
	data := make([]float32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] > 0 {
				data[y*width+x] = 1
			}
		}
	}
	return data
}

// tensorToImage converts the model's CHW output (values already in
// 0..255) back to an RGBA image, clamping out-of-range values.
func tensorToImage(data []float32, width, height int) (*image.RGBA, error) {
	if len(data) != 3*width*height {
		return nil, fmt.Errorf("output length %d, want %d", len(data), 3*width*height)
	}

	area := width * height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			img.SetRGBA(x, y, color.RGBA{
				R: clampByte(data[idx]),
				G: clampByte(data[area+idx]),
				B: clampByte(data[2*area+idx]),
				A: 255,
			})
		}
	}
	return img, nil
}

func clampByte(v float32) uint8 {
	return uint8(math.Round(math.Min(255, math.Max(0, float64(v)))))
}
