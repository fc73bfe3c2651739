package chart

import (
	"image/color"
	"sync"

	"localchart/internal/mathutil"
	"localchart/internal/raster"
)

// stroke is one recorded Stroke call: the path points and the colour.
type stroke struct {
	points []mathutil.Vec2
	color  color.Color
}

// recorder wraps a real canvas and logs the paths it strokes and the
// circles it draws.
type recorder struct {
	raster.Surface

	color   color.Color
	path    []mathutil.Vec2
	strokes []stroke
	circles []float64 // radii
}

func (r *recorder) SetColor(c color.Color) {
	r.color = c
	r.Surface.SetColor(c)
}

func (r *recorder) MoveTo(x, y float64) {
	r.path = append(r.path, mathutil.Vec2{x, y})
	r.Surface.MoveTo(x, y)
}

func (r *recorder) LineTo(x, y float64) {
	r.path = append(r.path, mathutil.Vec2{x, y})
	r.Surface.LineTo(x, y)
}

func (r *recorder) DrawCircle(x, y, rad float64) {
	r.circles = append(r.circles, rad)
	r.Surface.DrawCircle(x, y, rad)
}

func (r *recorder) Stroke() {
	r.strokes = append(r.strokes, stroke{points: r.path, color: r.color})
	r.path = nil
	r.Surface.Stroke()
}

func (r *recorder) Fill() {
	r.path = nil
	r.Surface.Fill()
}

func (r *recorder) Clip() {
	r.path = nil
	r.Surface.Clip()
}

func (r *recorder) strokesIn(c color.Color) []stroke {
	var out []stroke
	for _, s := range r.strokes {
		if s.color == c {
			out = append(out, s)
		}
	}
	return out
}

// recordingSurfaces hands out recorders and remembers them in order, so a
// test can inspect the base surface (first) and overlay surface (second).
type recordingSurfaces struct {
	mu   sync.Mutex
	made []*recorder
}

func (rs *recordingSurfaces) new(w, h int, dpr float64) (raster.Surface, error) {
	c, err := raster.NewCanvas(w, h, dpr, nil)
	if err != nil {
		return nil, err
	}
	r := &recorder{Surface: c}
	rs.mu.Lock()
	rs.made = append(rs.made, r)
	rs.mu.Unlock()
	return r, nil
}

func (rs *recordingSurfaces) get(i int) *recorder {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.made[i]
}
