// Package postprocess derives smaller images from rendered charts.
package postprocess

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Fit returns img scaled down to fit within maxW x maxH, preserving aspect
// ratio. Images already small enough are returned unchanged. A non-positive
// bound leaves that axis unconstrained.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return img
	}

	scale := 1.0
	if maxW > 0 && w > maxW {
		scale = float64(maxW) / float64(w)
	}
	if maxH > 0 && h > maxH {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	if scale >= 1 {
		return img
	}
	return Downsample(img, max(1, int(math.Round(float64(w)*scale))), max(1, int(math.Round(float64(h)*scale))))
}

// Downsample resamples img to exactly w x h with CatmullRom filtering.
// Chart rasters are opaque premultiplied RGBA, so no alpha correction is
// needed; translucent inputs should be premultiplied already.
func Downsample(img image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// AtDPR converts a device-resolution image rendered at dpr back to CSS
// pixel size, the 1x preview of a high-density render.
func AtDPR(img image.Image, dpr float64) image.Image {
	if dpr <= 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())/dpr)))
	h := max(1, int(math.Round(float64(b.Dy())/dpr)))
	return Downsample(img, w, h)
}
