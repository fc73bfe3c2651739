package icons

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatal(err)
	}
}

func TestBuildIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "Markers")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeJPEG(t, filepath.Join(dir, "airport.jpg"))
	writePNG(t, filepath.Join(sub, "Airport.PNG"), color.NRGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(dir, "waypoint.png"), color.NRGBA{G: 255, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	idx, err := BuildIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len = %d, want 2", idx.Len())
	}
	path, ok := idx.ResolvePath(`icons\airport.jpg`)
	if !ok || filepath.Ext(path) != ".PNG" {
		t.Errorf("airport resolved to %q, %v; want the PNG", path, ok)
	}
	if _, ok := idx.ResolvePath("flyover"); ok {
		t.Error("flyover resolved in a directory without it")
	}
}

func TestBuildIndexMissingDir(t *testing.T) {
	idx, err := BuildIndex(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len = %d, want 0", idx.Len())
	}
}

func TestCacheIcon(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "waypoint.png"), color.NRGBA{B: 200, A: 128})
	if err := os.WriteFile(filepath.Join(dir, "flyover.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Open(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	img, ok := c.Icon("waypoint")
	if !ok {
		t.Fatal("waypoint icon missing")
	}
	if got := img.At(1, 1).(color.NRGBA); got != (color.NRGBA{B: 200, A: 128}) {
		t.Errorf("pixel = %v", got)
	}
	again, _ := c.Icon("waypoint")
	if again != img {
		t.Error("second lookup did not hit the cache")
	}

	if _, ok := c.Icon("flyover"); ok {
		t.Error("corrupt icon reported as available")
	}
	if _, ok := c.Icon("airport"); ok {
		t.Error("absent icon reported as available")
	}
}

func TestLoadJPEGIsOpaque(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpeg")
	writeJPEG(t, path)
	img, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if a := img.NRGBAAt(0, 0).A; a != 255 {
		t.Errorf("alpha = %d, want 255", a)
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	if _, err := Load("icon.bmp"); err == nil {
		t.Error("expected error for .bmp")
	}
}
