// Package detect finds text blocks in manga pages with the
// comictextdetector ONNX export.
package detect

import (
	"context"
	"fmt"
	"image"

	"github.com/up-zero/gotool/imageutil"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/shrey-bhatia/koharu/internal/logger"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// InputSize is the square side length the detector expects.
const InputSize = 1024

const (
	// DefaultConfidenceThreshold drops low-confidence candidates
	// before non-maximum suppression.
	DefaultConfidenceThreshold float32 = 0.25
	// DefaultNMSThreshold is the IoU above which overlapping boxes
	// of the same class are suppressed.
	DefaultNMSThreshold float32 = 0.45
)

// Region is one detected text block in original-image coordinates.
type Region struct {
	X1 float32 `json:"x1"`
	Y1 float32 `json:"y1"`
	X2 float32 `json:"x2"`
	Y2 float32 `json:"y2"`
	// Class is 1 when the first class score wins, 0 otherwise,
	// matching the export's score column ordering.
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
}

// Detector wraps the comictextdetector session.
type Detector struct {
	sess *onnxrt.Session
	log  logger.Logger
}

// NewDetector loads the detector model.
func NewDetector(rt *onnxrt.Runtime, modelPath string, log logger.Logger) (*Detector, error) {
	sess, err := rt.OpenSession(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load detector: %w", err)
	}
	return &Detector{sess: sess, log: log}, nil
}

// Detect runs the model on img and returns surviving regions, scaled
// back to the original image size.
func (d *Detector) Detect(ctx context.Context, img image.Image, confThreshold, nmsThreshold float32) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if confThreshold <= 0 {
		confThreshold = DefaultConfidenceThreshold
	}
	if nmsThreshold <= 0 {
		nmsThreshold = DefaultNMSThreshold
	}

	bounds := img.Bounds()
	wRatio := float32(bounds.Dx()) / InputSize
	hRatio := float32(bounds.Dy()) / InputSize

	data := preprocess(img)
	input, err := ort.NewTensor(ort.NewShape(1, 3, InputSize, InputSize), data)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer input.Destroy()

	outputs, err := d.sess.Run(map[string]ort.Value{"images": input})
	if err != nil {
		return nil, err
	}
	defer onnxrt.DestroyAll(outputs)

	out, err := d.sess.Output(outputs, "blk")
	if err != nil {
		return nil, err
	}
	blk, ok := out.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("blk output is not a float32 tensor")
	}

	regions, err := postprocess(blk.GetData(), wRatio, hRatio, confThreshold, nmsThreshold)
	if err != nil {
		return nil, err
	}

	d.log.Debug("detection complete", "regions", len(regions))
	return regions, nil
}

// Close releases the session.
func (d *Detector) Close() error {
	return d.sess.Close()
}

// preprocess resizes to 1024x1024 and lays the pixels out CHW, scaled
// to [0,1].
func preprocess(img image.Image) []float32 {
	resized := imageutil.Resize(img, InputSize, InputSize)

	data := make([]float32, 3*InputSize*InputSize)
	area := InputSize * InputSize
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			idx := y*InputSize + x
			data[idx] = float32(r>>8) / 255
			data[area+idx] = float32(g>>8) / 255
			data[2*area+idx] = float32(b>>8) / 255
		}
	}
	return data
}
