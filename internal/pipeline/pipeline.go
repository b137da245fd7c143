// Package pipeline wires the ONNX runtime and the model engines into
// one process-wide object with an explicit lifecycle: constructed once
// at startup, passed to whoever needs it, closed at shutdown.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/shrey-bhatia/koharu/internal/detect"
	"github.com/shrey-bhatia/koharu/internal/inpaint"
	"github.com/shrey-bhatia/koharu/internal/logger"
	"github.com/shrey-bhatia/koharu/internal/ocr"
	"github.com/shrey-bhatia/koharu/internal/onnxrt"
)

// ErrNotConfigured is returned when a stage's model was not configured.
var ErrNotConfigured = errors.New("stage not configured")

// Config names the model files each stage needs. A stage with no
// model path is simply absent from the pipeline.
type Config struct {
	// Library is the onnxruntime shared library path (optional).
	Library string

	// Detector model.
	DetectorModel string

	// OCR models: either the fused export, or the encoder/decoder
	// pair, plus the vocabulary.
	OCRModel   string
	OCREncoder string
	OCRDecoder string
	OCRVocab   string

	// Inpainting model.
	InpaintModel string
}

// Pipeline holds the initialized runtime and engines.
type Pipeline struct {
	rt        *onnxrt.Runtime
	detector  *detect.Detector
	ocr       *ocr.Engine
	inpainter *inpaint.Inpainter
	log       logger.Logger
}

// New initializes the runtime and loads every configured engine.
// On failure everything already loaded is torn down.
func New(cfg Config, log logger.Logger) (*Pipeline, error) {
	rt, err := onnxrt.Init(onnxrt.Config{LibraryPath: cfg.Library}, log)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{rt: rt, log: log}

	if cfg.DetectorModel != "" {
		p.detector, err = detect.NewDetector(rt, cfg.DetectorModel, log.With("component", "detect"))
		if err != nil {
			p.Close()
			return nil, err
		}
	}

	if cfg.OCRModel != "" || cfg.OCREncoder != "" {
		p.ocr, err = ocr.NewEngine(rt, ocr.ModelPaths{
			Fused:   cfg.OCRModel,
			Encoder: cfg.OCREncoder,
			Decoder: cfg.OCRDecoder,
			Vocab:   cfg.OCRVocab,
		}, log.With("component", "ocr"))
		if err != nil {
			p.Close()
			return nil, err
		}
	}

	if cfg.InpaintModel != "" {
		p.inpainter, err = inpaint.NewInpainter(rt, cfg.InpaintModel, log.With("component", "inpaint"))
		if err != nil {
			p.Close()
			return nil, err
		}
	}

	return p, nil
}

// Detector returns the detection engine.
func (p *Pipeline) Detector() (*detect.Detector, error) {
	if p.detector == nil {
		return nil, fmt.Errorf("detector: %w", ErrNotConfigured)
	}
	return p.detector, nil
}

// OCR returns the recognition engine.
func (p *Pipeline) OCR() (*ocr.Engine, error) {
	if p.ocr == nil {
		return nil, fmt.Errorf("ocr: %w", ErrNotConfigured)
	}
	return p.ocr, nil
}

// Inpainter returns the inpainting engine.
func (p *Pipeline) Inpainter() (*inpaint.Inpainter, error) {
	if p.inpainter == nil {
		return nil, fmt.Errorf("inpaint: %w", ErrNotConfigured)
	}
	return p.inpainter, nil
}

// Close tears down engines and then the runtime.
func (p *Pipeline) Close() error {
	var errs []error
	if p.detector != nil {
		errs = append(errs, p.detector.Close())
		p.detector = nil
	}
	if p.ocr != nil {
		errs = append(errs, p.ocr.Close())
		p.ocr = nil
	}
	if p.inpainter != nil {
		errs = append(errs, p.inpainter.Close())
		p.inpainter = nil
	}
	if p.rt != nil {
		errs = append(errs, p.rt.Close())
		p.rt = nil
	}
	return errors.Join(errs...)
}
