// Package raster is the paint target of the chart compositors: a 2D canvas
// addressed in CSS pixels and backed by a device-resolution RGBA image.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Surface is what the compositors paint on. Coordinates, line widths,
// dash lengths and font sizes are CSS pixels; the surface maps them onto
// its device pixels.
type Surface interface {
	Size() (w, h float64)
	DPR() float64

	Clear(c color.Color)
	Blit(img image.Image)

	SetColor(c color.Color)
	SetLineWidth(w float64)
	SetDash(dashes ...float64)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	NewSubPath()
	ClosePath()
	DrawCircle(x, y, r float64)
	DrawRectangle(x, y, w, h float64)

	Fill()
	FillPreserve()
	Stroke()
	StrokePreserve()
	Clip()
	ResetClip()
	Push()
	Pop()

	SetFont(size float64, bold bool)
	MeasureString(s string) (w, h float64)
	DrawString(s string, x, y, ax, ay float64)
	DrawIcon(img image.Image, x, y, w, h float64)

	Image() *image.RGBA
}

// Canvas is the fogleman/gg implementation of Surface.
type Canvas struct {
	dc    *gg.Context
	faces *FaceCache
	dpr   float64
	w, h  float64
}

// NewCanvas allocates a canvas of w x h CSS pixels at the given device
// pixel ratio. The canvas keeps its own fork of faces.
func NewCanvas(w, h int, dpr float64, faces *FaceCache) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: invalid canvas size %dx%d", w, h)
	}
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		return nil, fmt.Errorf("raster: invalid device pixel ratio %v", dpr)
	}
	if faces == nil {
		var err error
		if faces, err = DefaultFaces(); err != nil {
			return nil, err
		}
	}

	dw := int(math.Round(float64(w) * dpr))
	dh := int(math.Round(float64(h) * dpr))
	im := image.NewRGBA(image.Rect(0, 0, dw, dh))
	dc := gg.NewContextForRGBA(im)
	dc.SetFillRule(gg.FillRuleEvenOdd)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	c := &Canvas{dc: dc, faces: faces.Fork(), dpr: dpr, w: float64(w), h: float64(h)}
	c.SetFont(12, false)
	return c, nil
}

func (c *Canvas) Size() (float64, float64) { return c.w, c.h }

func (c *Canvas) DPR() float64 { return c.dpr }

func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

// Blit copies a device-resolution image onto the canvas unchanged, aligned
// to the top-left corner.
func (c *Canvas) Blit(img image.Image) {
	dst := c.dc.Image().(*image.RGBA)
	draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
}

func (c *Canvas) SetColor(col color.Color) { c.dc.SetColor(col) }

func (c *Canvas) SetLineWidth(w float64) { c.dc.SetLineWidth(w * c.dpr) }

func (c *Canvas) SetDash(dashes ...float64) {
	scaled := make([]float64, len(dashes))
	for i, d := range dashes {
		scaled[i] = d * c.dpr
	}
	c.dc.SetDash(scaled...)
}

func (c *Canvas) MoveTo(x, y float64) { c.dc.MoveTo(x*c.dpr, y*c.dpr) }

func (c *Canvas) LineTo(x, y float64) { c.dc.LineTo(x*c.dpr, y*c.dpr) }

func (c *Canvas) NewSubPath() { c.dc.NewSubPath() }

func (c *Canvas) ClosePath() { c.dc.ClosePath() }

func (c *Canvas) DrawCircle(x, y, r float64) {
	c.dc.DrawCircle(x*c.dpr, y*c.dpr, r*c.dpr)
}

func (c *Canvas) DrawRectangle(x, y, w, h float64) {
	c.dc.DrawRectangle(x*c.dpr, y*c.dpr, w*c.dpr, h*c.dpr)
}

func (c *Canvas) Fill()           { c.dc.Fill() }
func (c *Canvas) FillPreserve()   { c.dc.FillPreserve() }
func (c *Canvas) Stroke()         { c.dc.Stroke() }
func (c *Canvas) StrokePreserve() { c.dc.StrokePreserve() }
func (c *Canvas) Clip()           { c.dc.Clip() }
func (c *Canvas) ResetClip()      { c.dc.ResetClip() }
func (c *Canvas) Push()           { c.dc.Push() }
func (c *Canvas) Pop()            { c.dc.Pop() }

// SetFont selects Go Regular or Go Bold at size CSS pixels.
func (c *Canvas) SetFont(size float64, bold bool) {
	c.dc.SetFontFace(c.faces.Face(size*c.dpr, bold))
}

// MeasureString returns the text extent in CSS pixels.
func (c *Canvas) MeasureString(s string) (float64, float64) {
	w, h := c.dc.MeasureString(s)
	return w / c.dpr, h / c.dpr
}

// DrawString draws s anchored at (x, y); ax and ay are fractions of the
// text extent, so (0.5, 0.5) centres it.
func (c *Canvas) DrawString(s string, x, y, ax, ay float64) {
	c.dc.DrawStringAnchored(s, x*c.dpr, y*c.dpr, ax, ay)
}

// DrawIcon scales img into the w x h CSS pixel rectangle at (x, y).
func (c *Canvas) DrawIcon(img image.Image, x, y, w, h float64) {
	dst := c.dc.Image().(*image.RGBA)
	r := image.Rect(
		int(math.Round(x*c.dpr)), int(math.Round(y*c.dpr)),
		int(math.Round((x+w)*c.dpr)), int(math.Round((y+h)*c.dpr)),
	)
	draw.CatmullRom.Scale(dst, r, img, img.Bounds(), draw.Over, nil)
}

// Image returns the device-resolution backing image. It aliases the canvas.
func (c *Canvas) Image() *image.RGBA {
	return c.dc.Image().(*image.RGBA)
}

// Snapshot returns a copy of the backing image.
func (c *Canvas) Snapshot() *image.RGBA {
	src := c.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

var _ Surface = (*Canvas)(nil)
