package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// FitPolicy selects how a source image is mapped onto the target canvas.
// Callers must choose explicitly; there is no implicit per-caller default.
type FitPolicy string

const (
	// FitLetterbox scales the source to fit entirely within the canvas,
	// preserving its aspect ratio, centered on a white background
	FitLetterbox FitPolicy = "letterbox"

	// FitStretch scales the source to exactly fill the canvas, ignoring
	// its aspect ratio
	FitStretch FitPolicy = "stretch"
)

// AspectRatio is a requested width:height ratio for the output canvas
type AspectRatio struct {
	Width  int
	Height int
}

// Normalizer resizes arbitrary source images onto a fixed output canvas
// and re-encodes them as JPEG at a fixed quality.
type Normalizer struct {
	baseDim int
	quality int
	logger  *zap.Logger
}

// NewNormalizer creates a Normalizer. baseDim anchors the long edge of the
// output canvas; quality is the JPEG quality factor in [1,100].
func NewNormalizer(baseDim, quality int, logger *zap.Logger) *Normalizer {
	if baseDim <= 0 {
		baseDim = 1200
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Normalizer{baseDim: baseDim, quality: quality, logger: logger}
}

// CanvasSize computes the output canvas for a requested ratio. Without a
// ratio the default 4:3 canvas is used. The long edge always equals baseDim
// so the ratio is matched exactly.
func (n *Normalizer) CanvasSize(ratio *AspectRatio) (int, int) {
	if ratio == nil || ratio.Width <= 0 || ratio.Height <= 0 {
		return n.baseDim, n.baseDim * 3 / 4
	}
	if ratio.Width >= ratio.Height {
		return n.baseDim, n.baseDim * ratio.Height / ratio.Width
	}
	return n.baseDim * ratio.Width / ratio.Height, n.baseDim
}

// Normalize decodes src, fits it onto the computed canvas per policy and
// returns the encoded JPEG bytes. Undecodable input yields ErrImageDecode.
func (n *Normalizer) Normalize(src []byte, policy FitPolicy, ratio *AspectRatio) ([]byte, error) {
	decoded, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	width, height := n.CanvasSize(ratio)

	var out image.Image
	switch policy {
	case FitStretch:
		out = imaging.Resize(decoded, width, height, imaging.Lanczos)
	default:
		fitted := imaging.Fit(decoded, width, height, imaging.Lanczos)
		canvas := imaging.New(width, height, color.White)
		out = imaging.PasteCenter(canvas, fitted)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
