package raster

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestNewCanvasDeviceSize(t *testing.T) {
	c, err := NewCanvas(200, 100, 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b := c.Image().Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("device size = %v, want 400x200", b)
	}
	if w, h := c.Size(); w != 200 || h != 100 {
		t.Errorf("css size = %vx%v", w, h)
	}

	for _, bad := range []struct {
		w, h int
		dpr  float64
	}{{0, 10, 1}, {10, 10, 0}, {10, 10, math.NaN()}} {
		if _, err := NewCanvas(bad.w, bad.h, bad.dpr, nil); err == nil {
			t.Errorf("NewCanvas(%d, %d, %v) succeeded", bad.w, bad.h, bad.dpr)
		}
	}
}

func TestMeasureStringIndependentOfDPR(t *testing.T) {
	c1, _ := NewCanvas(100, 100, 1, nil)
	c2, _ := NewCanvas(100, 100, 2, nil)
	c1.SetFont(14, false)
	c2.SetFont(14, false)

	w1, _ := c1.MeasureString("KJFK 12.5 NM")
	w2, _ := c2.MeasureString("KJFK 12.5 NM")
	if w1 <= 0 {
		t.Fatalf("width = %v", w1)
	}
	if math.Abs(w1-w2) > 1.5 {
		t.Errorf("css width at dpr 1 = %v, at dpr 2 = %v", w1, w2)
	}
}

func TestFillUsesDeviceCoordinates(t *testing.T) {
	c, _ := NewCanvas(50, 50, 2, nil)
	c.Clear(color.White)
	c.SetColor(color.Black)
	c.DrawRectangle(10, 10, 5, 5)
	c.Fill()

	img := c.Image()
	if got := img.RGBAAt(25, 25); got.R != 0 {
		t.Errorf("pixel inside scaled rect = %v, want black", got)
	}
	if got := img.RGBAAt(12, 12); got.R != 255 {
		t.Errorf("pixel outside scaled rect = %v, want white", got)
	}
}

func TestBlitAndSnapshot(t *testing.T) {
	src, _ := NewCanvas(20, 20, 1, nil)
	src.Clear(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	snap := src.Snapshot()

	src.Clear(color.White)
	if got := snap.RGBAAt(5, 5); got.R != 10 {
		t.Errorf("snapshot aliases canvas: %v", got)
	}

	dst, _ := NewCanvas(20, 20, 1, nil)
	dst.Blit(snap)
	if got := dst.Image().RGBAAt(19, 19); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("blitted pixel = %v", got)
	}
}

func TestDrawIcon(t *testing.T) {
	icon := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(icon.Pix); i += 4 {
		icon.Pix[i], icon.Pix[i+3] = 255, 255
	}
	c, _ := NewCanvas(40, 40, 1, nil)
	c.Clear(color.White)
	c.DrawIcon(icon, 10, 10, 16, 16)

	if got := c.Image().RGBAAt(18, 18); got.R != 255 || got.G > 10 {
		t.Errorf("icon centre = %v, want red", got)
	}
	if got := c.Image().RGBAAt(2, 2); got.G != 255 {
		t.Errorf("outside icon = %v, want white", got)
	}
}

func TestFaceCacheReuse(t *testing.T) {
	fc, err := NewFaceCache()
	if err != nil {
		t.Fatal(err)
	}
	a := fc.Face(12, false)
	b := fc.Face(12.01, false)
	if a != b {
		t.Error("near-identical sizes should share a face")
	}
	if fc.Face(12, true) == a {
		t.Error("bold and regular share a face")
	}

	fork := fc.Fork()
	if fork.Face(12, false) == a {
		t.Error("forked cache handed out the parent's face")
	}
	if fork.regular != fc.regular {
		t.Error("fork re-parsed the fonts")
	}
}
