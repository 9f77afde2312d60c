package report

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Watermark is a translucent image overlaid on every page of a PDF report.
// The source may be a raster image or a PDF letterhead, whose first page
// is rasterized.
type Watermark struct {
	Opacity float64
	pngData []byte
	width   int
	height  int
}

// LoadWatermark reads the watermark source from disk. An unreadable or
// undecodable source returns an error; callers log it and produce the
// report without the watermark rather than failing the export.
func LoadWatermark(path string, opacity float64, logger *zap.Logger) (*Watermark, error) {
	if path == "" {
		return nil, nil
	}
	if opacity <= 0 || opacity > 1 {
		opacity = 0.15
	}

	var (
		img image.Image
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		img, err = rasterizeFirstPage(path)
	} else {
		img, err = imaging.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load watermark %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode watermark: %w", err)
	}

	bounds := img.Bounds()
	logger.Info("Watermark loaded",
		zap.String("path", path),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))

	return &Watermark{
		Opacity: opacity,
		pngData: buf.Bytes(),
		width:   bounds.Dx(),
		height:  bounds.Dy(),
	}, nil
}

// rasterizeFirstPage renders page one of a PDF document to an image
func rasterizeFirstPage(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF page: %w", err)
	}
	return img, nil
}
