package magvar

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localchart/internal/geodesy"
)

func testGrid() *Grid {
	// 2x3 lattice: lat 40..41, lon -74..-72, step 1.
	return &Grid{
		MinLatitude:  40,
		MaxLatitude:  41,
		MinLongitude: -74,
		MaxLongitude: -72,
		LatLongStep:  1,
		Samples: []float64{
			-12, -13, -14,
			-11, -12, -13,
		},
	}
}

func TestDeclinationInterpolates(t *testing.T) {
	g := testGrid()

	v, err := g.Declination(40, -74, 0)
	if err != nil {
		t.Fatalf("Declination: %v", err)
	}
	if v != -12 {
		t.Errorf("corner sample = %f, want -12", v)
	}

	v, err = g.Declination(40.5, -73.5, 0)
	if err != nil {
		t.Fatalf("Declination: %v", err)
	}
	want := (-12 + -13 + -11 + -12) / 4.0
	if math.Abs(v-want) > 1e-12 {
		t.Errorf("cell center = %f, want %f", v, want)
	}

	if v, _ := g.Declination(41, -72, 0); v != -13 {
		t.Errorf("far corner = %f, want -13", v)
	}
}

func TestDeclinationOutsideGrid(t *testing.T) {
	g := testGrid()
	_, err := g.Declination(10, -73, 0)
	if !errors.Is(err, geodesy.ErrDeclinationUnavailable) {
		t.Errorf("got %v, want ErrDeclinationUnavailable", err)
	}
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	g := testGrid()
	path := filepath.Join(t.TempDir(), "magnetic_grid.txt.zst")

	var buf bytes.Buffer
	if err := g.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Samples) != len(g.Samples) {
		t.Fatalf("loaded %d samples, want %d", len(loaded.Samples), len(g.Samples))
	}
	v, err := loaded.Declination(40.5, -73.5, 0)
	if err != nil || math.Abs(v+12) > 1e-9 {
		t.Errorf("loaded grid lookup = %f, %v", v, err)
	}
}

func TestParseRejectsWrongSampleCount(t *testing.T) {
	in := "40 41 -74 -72 1\n1\n2\n3\n"
	if _, err := Parse(strings.NewReader(in)); err == nil {
		t.Error("expected sample count error")
	}
}

func TestFixedProvider(t *testing.T) {
	var p geodesy.DeclinationProvider = Fixed(-14.5)
	if v, err := p.Declination(0, 0, 0); err != nil || v != -14.5 {
		t.Errorf("Fixed = %f, %v", v, err)
	}
}
