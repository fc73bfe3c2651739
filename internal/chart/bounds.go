package chart

import (
	"math"

	"localchart/internal/geodesy"
	"localchart/internal/mathutil"
)

const (
	boundsPaddingNM = 10.0
	fitFraction     = 0.95
)

// computeRenderContext fits the padded bounding box of the route into the
// viewport, preserving aspect ratio and leaving a 5% margin.
func computeRenderContext(r *route, cfg RenderConfig) RenderContext {
	minE, minN := math.Inf(1), math.Inf(1)
	maxE, maxN := math.Inf(-1), math.Inf(-1)
	for _, p := range r.points() {
		minE = math.Min(minE, p.Easting)
		maxE = math.Max(maxE, p.Easting)
		minN = math.Min(minN, p.Northing)
		maxN = math.Max(maxN, p.Northing)
	}

	pad := boundsPaddingNM * geodesy.MetersPerNM
	minE, maxE = minE-pad, maxE+pad
	minN, maxN = minN-pad, maxN+pad

	w, h := float64(cfg.Width), float64(cfg.Height)
	spanE, spanN := maxE-minE, maxN-minN
	scale := fitFraction * math.Min(w/spanE, h/spanN)

	return RenderContext{
		Zone:       r.zone,
		Hemisphere: r.hemisphere,
		MinE:       minE,
		MinN:       minN,
		MaxE:       maxE,
		MaxN:       maxN,
		Scale:      scale,
		OffsetX:    (w - spanE*scale) / 2,
		OffsetY:    (h - spanN*scale) / 2,
		Width:      w,
		Height:     h,
		DPR:        cfg.DevicePixelRatio,
	}
}

// visibleExtent returns the UTM range covered by the whole viewport, which
// is wider than the padded bounds on the unconstrained axis.
func (rc RenderContext) visibleExtent() (minE, minN, maxE, maxN float64) {
	minE, maxN = rc.FromScreen(mathutil.Vec2{0, 0})
	maxE, minN = rc.FromScreen(mathutil.Vec2{rc.Width, rc.Height})
	return
}
