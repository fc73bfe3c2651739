package raster

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FaceCache parses the Go fonts once and hands out faces per pixel size.
// The cache itself is safe for concurrent use, but the faces it returns
// are not: canvases painted on different goroutines need their own cache
// from Fork.
type FaceCache struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.RWMutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size int // 1/4 px units
	bold bool
}

// NewFaceCache parses the embedded Go Regular and Go Bold fonts.
func NewFaceCache() (*FaceCache, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("raster: parse bold font: %w", err)
	}
	return &FaceCache{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

// Fork returns an empty cache sharing the parsed fonts.
func (c *FaceCache) Fork() *FaceCache {
	return &FaceCache{regular: c.regular, bold: c.bold, faces: make(map[faceKey]font.Face)}
}

var (
	defaultFaces     *FaceCache
	defaultFacesErr  error
	defaultFacesOnce sync.Once
)

// DefaultFaces returns the process-wide parsed fonts. Fork it before use.
func DefaultFaces() (*FaceCache, error) {
	defaultFacesOnce.Do(func() {
		defaultFaces, defaultFacesErr = NewFaceCache()
	})
	return defaultFaces, defaultFacesErr
}

// Face returns a face of the given size in device pixels. Sizes are
// quantised to a quarter pixel.
func (c *FaceCache) Face(sizePx float64, bold bool) font.Face {
	key := faceKey{size: int(math.Round(sizePx * 4)), bold: bold}
	if key.size < 4 {
		key.size = 4
	}

	c.mu.RLock()
	if f, ok := c.faces[key]; ok {
		c.mu.RUnlock()
		return f
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if f, ok := c.faces[key]; ok {
		return f
	}

	ttf := c.regular
	if bold {
		ttf = c.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{
		Size:    float64(key.size) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = f
	return f
}
