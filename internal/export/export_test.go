package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

func TestComputeDPIPrintsNominalScale(t *testing.T) {
	tests := []struct {
		denom, scale, dpr float64
	}{
		{500000, 0.004, 1},
		{500000, 0.004, 2},
		{250000, 0.0123, 1.5},
		{1000000, 0.0021, 3},
		{500000, 0.0009, 1},
	}
	for _, tt := range tests {
		dpi, err := ComputeDPI(tt.denom, tt.scale, tt.dpr)
		if err != nil {
			t.Fatalf("ComputeDPI(%v, %v, %v): %v", tt.denom, tt.scale, tt.dpr, err)
		}
		px := 10 * 1852 * tt.scale * tt.dpr
		got := PaperMM(px, dpi)
		want := GroundMM(10*1852, tt.denom)
		// Rounding the DPI to an integer costs at most half a dot per inch.
		tol := want * 0.5 / float64(dpi)
		if math.Abs(got-want) > math.Max(tol, 1e-9) {
			t.Errorf("denom %v scale %v dpr %v: dpi %d prints 10 NM as %.3f mm, want %.3f", tt.denom, tt.scale, tt.dpr, dpi, got, want)
		}
	}
}

func TestTenNMAtHalfMillion(t *testing.T) {
	// A typical interactive render: ~0.0045 px/m at dpr 2.
	dpi, err := ComputeDPI(500000, 0.0045, 2)
	if err != nil {
		t.Fatal(err)
	}
	got := PaperMM(10*1852*0.0045*2, dpi)
	if math.Abs(got-37.04) > 0.5 {
		t.Errorf("10 NM prints as %.2f mm, want 37.04 ± 0.5", got)
	}
}

func TestComputeDPIRejectsBadInput(t *testing.T) {
	for _, in := range [][3]float64{
		{0, 1, 1}, {-5, 1, 1}, {500000, 0, 1}, {500000, 1, 0}, {math.NaN(), 1, 1}, {500000, math.Inf(1), 1},
	} {
		if _, err := ComputeDPI(in[0], in[1], in[2]); err == nil {
			t.Errorf("ComputeDPI(%v) succeeded", in)
		}
	}
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for y := 0; y < 9; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 28), B: 90, A: 255})
		}
	}
	return img
}

func TestEncodePNGWritesPHYs(t *testing.T) {
	res, err := EncodePNG(testImage(), 72)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DPIKnown || res.Warning != nil {
		t.Fatalf("DPIKnown = %v, warning = %v", res.DPIKnown, res.Warning)
	}
	dpi, ok := ReadDPI(res.Data)
	if !ok || math.Abs(dpi-72) > 0.01 {
		t.Errorf("ReadDPI = %v, %v; want 72", dpi, ok)
	}

	// The result must still decode as a valid PNG.
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("decoded bounds = %v", b)
	}
}

func TestEncodePNGFallsBackWithoutDPI(t *testing.T) {
	res, err := EncodePNG(testImage(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.DPIKnown {
		t.Error("DPIKnown = true for dpi 0")
	}
	if !errors.Is(res.Warning, ErrDPIInjection) {
		t.Errorf("warning = %v, want ErrDPIInjection", res.Warning)
	}
	if _, ok := ReadDPI(res.Data); ok {
		t.Error("raw fallback carries pHYs")
	}
	if _, err := png.Decode(bytes.NewReader(res.Data)); err != nil {
		t.Errorf("fallback is not a valid png: %v", err)
	}
}

func TestInjectPHYsRejectsNonPNG(t *testing.T) {
	if _, err := InjectPHYs([]byte("GIF89a........................................"), 96); !errors.Is(err, ErrDPIInjection) {
		t.Errorf("err = %v, want ErrDPIInjection", err)
	}
	if _, err := InjectPHYs(pngSignature, 96); !errors.Is(err, ErrDPIInjection) {
		t.Errorf("truncated: err = %v, want ErrDPIInjection", err)
	}
}

func TestEncodeWebP(t *testing.T) {
	res, err := EncodeWebP(testImage(), 150)
	if err != nil {
		t.Fatal(err)
	}
	if res.DPIKnown || res.DPI != 150 || res.Format != FormatWebP {
		t.Errorf("result = %+v", res)
	}
	if !bytes.HasPrefix(res.Data, []byte("RIFF")) || !bytes.Equal(res.Data[8:12], []byte("WEBP")) {
		t.Errorf("not a webp container: % x", res.Data[:12])
	}
}
