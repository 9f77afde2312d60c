package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 40, G: 90, B: 160, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodeDims(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestCanvasSize(t *testing.T) {
	n := NewNormalizer(1200, 90, zap.NewNop())

	tests := []struct {
		name  string
		ratio *AspectRatio
		wantW int
		wantH int
	}{
		{name: "nil ratio defaults to 4:3", ratio: nil, wantW: 1200, wantH: 900},
		{name: "16:9 landscape", ratio: &AspectRatio{Width: 16, Height: 9}, wantW: 1200, wantH: 675},
		{name: "1:1 square", ratio: &AspectRatio{Width: 1, Height: 1}, wantW: 1200, wantH: 1200},
		{name: "3:4 portrait anchors long edge", ratio: &AspectRatio{Width: 3, Height: 4}, wantW: 900, wantH: 1200},
		{name: "invalid ratio falls back", ratio: &AspectRatio{Width: 0, Height: 9}, wantW: 1200, wantH: 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := n.CanvasSize(tt.ratio)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("CanvasSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeStretchFillsCanvas(t *testing.T) {
	n := NewNormalizer(1200, 90, zap.NewNop())
	src := encodeJPEG(t, 800, 600)

	out, err := n.Normalize(src, FitStretch, &AspectRatio{Width: 16, Height: 9})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 1200 || h != 675 {
		t.Errorf("output canvas = %dx%d, want 1200x675", w, h)
	}
}

func TestNormalizeLetterboxPreservesSourceRatio(t *testing.T) {
	n := NewNormalizer(1200, 90, zap.NewNop())
	src := encodeJPEG(t, 500, 500)

	out, err := n.Normalize(src, FitLetterbox, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	w, h := decodeDims(t, out)
	if w != 1200 || h != 900 {
		t.Errorf("output canvas = %dx%d, want 1200x900", w, h)
	}

	// A square source on a 4:3 canvas leaves white bars left and right
	img, err := imaging.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	r, g, b, _ := img.At(5, 450).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("expected white padding at left edge, got rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
	}
}

func TestNormalizeUndecodableInput(t *testing.T) {
	n := NewNormalizer(1200, 90, zap.NewNop())

	_, err := n.Normalize([]byte("not an image at all"), FitLetterbox, nil)
	if !errors.Is(err, ErrImageDecode) {
		t.Errorf("Normalize() error = %v, want ErrImageDecode", err)
	}
}

func TestNormalizeOutputIsJPEG(t *testing.T) {
	n := NewNormalizer(600, 90, zap.NewNop())
	src := encodeJPEG(t, 300, 200)

	out, err := n.Normalize(src, FitStretch, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("output format = %q, want jpeg", format)
	}
}
