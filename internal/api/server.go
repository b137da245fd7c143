// Package api exposes the koharu pipeline over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/shrey-bhatia/koharu/internal/detect"
	"github.com/shrey-bhatia/koharu/internal/logger"
	"github.com/shrey-bhatia/koharu/internal/ocr"
	"github.com/shrey-bhatia/koharu/internal/pipeline"
)

// Recognizer recognizes text in one image region.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// Detector finds text blocks in a page image.
type Detector interface {
	Detect(ctx context.Context, img image.Image, confThreshold, nmsThreshold float32) ([]detect.Region, error)
}

// Inpainter fills masked regions of a page image.
type Inpainter interface {
	Inpaint(ctx context.Context, img, mask image.Image) (image.Image, error)
}

// Server handles the pipeline HTTP endpoints. Any nil engine makes
// its endpoint respond 503.
type Server struct {
	recognizer Recognizer
	detector   Detector
	inpainter  Inpainter
	log        logger.Logger
}

// NewServer builds a Server over the given engines.
func NewServer(rec Recognizer, det Detector, inp Inpainter, log logger.Logger) *Server {
	return &Server{recognizer: rec, detector: det, inpainter: inp, log: log}
}

// NewPipelineServer adapts a Pipeline's configured engines.
func NewPipelineServer(p *pipeline.Pipeline, log logger.Logger) *Server {
	s := &Server{log: log}
	if eng, err := p.OCR(); err == nil {
		s.recognizer = ocrAdapter{eng}
	}
	if det, err := p.Detector(); err == nil {
		s.detector = det
	}
	if inp, err := p.Inpainter(); err == nil {
		s.inpainter = inp
	}
	return s
}

type ocrAdapter struct {
	engine *ocr.Engine
}

func (a ocrAdapter) Recognize(ctx context.Context, img image.Image) (string, error) {
	return a.engine.Recognize(ctx, ocr.ImageInput(img))
}

// Register mounts the routes.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/api/ocr", s.handleOCR)
	e.POST("/api/detection", s.handleDetection)
	e.POST("/api/inpaint", s.handleInpaint)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleOCR(c *echo.Context) error {
	if s.recognizer == nil {
		return writeUnavailable(c, "ocr")
	}

	req, err := decodeJSON[OCRRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("image: %v", err))
	}

	text, err := s.recognizer.Recognize(c.Request().Context(), img)
	if err != nil {
		return writeInternal(c, err)
	}

	return c.JSON(http.StatusOK, OCRResponse{ID: requestID(), Text: text})
}

func (s *Server) handleDetection(c *echo.Context) error {
	if s.detector == nil {
		return writeUnavailable(c, "detection")
	}

	req, err := decodeJSON[DetectionRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("image: %v", err))
	}

	regions, err := s.detector.Detect(c.Request().Context(), img, req.ConfidenceThreshold, req.NMSThreshold)
	if err != nil {
		return writeInternal(c, err)
	}

	dtos := make([]RegionDTO, 0, len(regions))
	for _, r := range regions {
		dtos = append(dtos, RegionDTO{
			X1: r.X1, Y1: r.Y1, X2: r.X2, Y2: r.Y2,
			Class:      r.Class,
			Confidence: r.Confidence,
		})
	}

	return c.JSON(http.StatusOK, DetectionResponse{ID: requestID(), Regions: dtos})
}

func (s *Server) handleInpaint(c *echo.Context) error {
	if s.inpainter == nil {
		return writeUnavailable(c, "inpaint")
	}

	req, err := decodeJSON[InpaintRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	img, err := decodeImage(req.Image)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("image: %v", err))
	}
	mask, err := decodeImage(req.Mask)
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("mask: %v", err))
	}

	result, err := s.inpainter.Inpaint(c.Request().Context(), img, mask)
	if err != nil {
		return writeInternal(c, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return writeInternal(c, fmt.Errorf("encode result: %w", err))
	}

	return c.JSON(http.StatusOK, InpaintResponse{ID: requestID(), Image: buf.Bytes()})
}

func requestID() string {
	return "req_" + uuid.NewString()
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("decode request: %w", err)
	}
	return v, nil
}

func decodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty")
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

func writeBadRequest(c *echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func writeUnavailable(c *echo.Context, stage string) error {
	return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: stage + " engine not loaded"})
}

func writeInternal(c *echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
