package postprocess

import (
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestFitPreservesAspect(t *testing.T) {
	img := solid(400, 200, color.RGBA{R: 200, G: 100, B: 50, A: 255})
	tests := []struct {
		maxW, maxH   int
		wantW, wantH int
	}{
		{100, 100, 100, 50},
		{1000, 50, 100, 50},
		{0, 100, 200, 100},
		{800, 800, 400, 200},
	}
	for _, tt := range tests {
		b := Fit(img, tt.maxW, tt.maxH).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("Fit(%d, %d) = %dx%d, want %dx%d", tt.maxW, tt.maxH, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestAtDPR(t *testing.T) {
	c := color.RGBA{R: 10, G: 120, B: 240, A: 255}
	img := solid(300, 150, c)
	out := AtDPR(img, 1.5)
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v", b)
	}
	got := out.(*image.RGBA).RGBAAt(100, 50)
	if absDiff(got.R, c.R) > 1 || absDiff(got.G, c.G) > 1 || absDiff(got.B, c.B) > 1 {
		t.Errorf("solid colour changed: %v", got)
	}
	if AtDPR(img, 1) != image.Image(img) {
		t.Error("dpr 1 should return the input")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
