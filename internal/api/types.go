package api

// OCRRequest carries one image region to recognize. Image bytes are
// base64-encoded in JSON.
type OCRRequest struct {
	Image []byte `json:"image"`
}

type OCRResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DetectionRequest carries one page image. Zero thresholds select the
// defaults.
type DetectionRequest struct {
	Image               []byte  `json:"image"`
	ConfidenceThreshold float32 `json:"confidence_threshold,omitempty"`
	NMSThreshold        float32 `json:"nms_threshold,omitempty"`
}

type DetectionResponse struct {
	ID      string      `json:"id"`
	Regions []RegionDTO `json:"regions"`
}

// RegionDTO is one detected text block.
type RegionDTO struct {
	X1         float32 `json:"x1"`
	Y1         float32 `json:"y1"`
	X2         float32 `json:"x2"`
	Y2         float32 `json:"y2"`
	Class      int     `json:"class"`
	Confidence float32 `json:"confidence"`
}

// InpaintRequest carries a page image and the mask of regions to fill.
type InpaintRequest struct {
	Image []byte `json:"image"`
	Mask  []byte `json:"mask"`
}

// InpaintResponse returns the restored image as PNG bytes.
type InpaintResponse struct {
	ID    string `json:"id"`
	Image []byte `json:"image"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
