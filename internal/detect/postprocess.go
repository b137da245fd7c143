package detect

import (
	"fmt"
	"sort"
)

// Columns per candidate row in the blk output: cx, cy, w, h,
// confidence, and one score per class.
const blkColumns = 7

// postprocess parses the flat [1, N, 7] blk buffer, keeps candidates
// above the confidence threshold, converts center boxes to corners in
// original-image coordinates, and applies per-class NMS.
func postprocess(blk []float32, wRatio, hRatio, confThreshold, nmsThreshold float32) ([]Region, error) {
	if len(blk)%blkColumns != 0 {
		return nil, fmt.Errorf("blk output length %d is not a multiple of %d", len(blk), blkColumns)
	}

	var candidates []Region
	for i := 0; i < len(blk); i += blkColumns {
		confidence := blk[i+4]
		if confidence < confThreshold {
			continue
		}

		class := 0
		if blk[i+5] > blk[i+6] {
			class = 1
		}

		cx := blk[i+0] * wRatio
		cy := blk[i+1] * hRatio
		w := blk[i+2] * wRatio
		h := blk[i+3] * hRatio

		candidates = append(candidates, Region{
			X1:         cx - w/2,
			Y1:         cy - h/2,
			X2:         cx + w/2,
			Y2:         cy + h/2,
			Class:      class,
			Confidence: confidence,
		})
	}

	return nonMaxSuppression(candidates, nmsThreshold), nil
}

// nonMaxSuppression greedily keeps the highest-confidence region and
// drops same-class regions overlapping it beyond the IoU threshold.
func nonMaxSuppression(regions []Region, iouThreshold float32) []Region {
	if len(regions) == 0 {
		return nil
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Confidence > regions[j].Confidence
	})

	var kept []Region
	for len(regions) > 0 {
		current := regions[0]
		kept = append(kept, current)
		regions = regions[1:]

		var remaining []Region
		for _, r := range regions {
			if r.Class == current.Class && iou(current, r) > iouThreshold {
				continue
			}
			remaining = append(remaining, r)
		}
		regions = remaining
	}
	return kept
}

func iou(a, b Region) float32 {
	ix1 := max(a.X1, b.X1)
	iy1 := max(a.Y1, b.Y1)
	ix2 := min(a.X2, b.X2)
	iy2 := min(a.Y2, b.Y2)

	iw := max(0, ix2-ix1)
	ih := max(0, iy2-iy1)
	inter := iw * ih

	areaA := (a.X2 - a.X1) * (a.Y2 - a.Y1)
	areaB := (b.X2 - b.X1) * (b.Y2 - b.Y1)

	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
