// Package chart renders fixed-scale aeronautical local charts. A render is
// split into an expensive base layer (grid, terrain, routes, north
// indicator), cached in a State, and a cheap overlay (ticks, waypoint and
// leg labels, legends) repainted on every call.
package chart

import (
	"fmt"
	"math"

	"localchart/internal/geodesy"
	"localchart/internal/mathutil"
)

// Waypoint is a named route point. Fly-over waypoints are drawn as markers
// but left out of the route polyline and the cumulative counters.
type Waypoint struct {
	geodesy.GeoPoint
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"` // second label line, e.g. the airport name
	IsFlyOver            bool     `json:"isFlyOver,omitempty"`
	CumulativeDistanceNM *float64 `json:"cumulativeDistanceNM,omitempty"`
	CumulativeTimeMin    *float64 `json:"cumulativeTimeMin,omitempty"`
}

// RouteSegment is one leg between two points. Alternative segments are
// drawn and tick-marked on their own, outside the main counters.
type RouteSegment struct {
	From          geodesy.GeoPoint `json:"from"`
	To            geodesy.GeoPoint `json:"to"`
	IsAlternative bool             `json:"isAlternative,omitempty"`

	GroundSpeedKt             *float64 `json:"groundSpeedKt,omitempty"`
	TrueCourseDeg             *float64 `json:"trueCourseDeg,omitempty"`
	MagneticHeadingDeg        *float64 `json:"magneticHeadingDeg,omitempty"`
	ClimbMagneticHeadingDeg   *float64 `json:"climbMagneticHeadingDeg,omitempty"`
	DescentMagneticHeadingDeg *float64 `json:"descentMagneticHeadingDeg,omitempty"`
	DistanceNM                *float64 `json:"distanceNM,omitempty"`
	FuelRemaining             *float64 `json:"fuelRemaining,omitempty"`
	FuelUnit                  string   `json:"fuelUnit,omitempty"`
}

// RenderConfig controls one render. Zone 0 and hemisphere 0 are derived
// from the first waypoint.
type RenderConfig struct {
	UTMZone               int
	Hemisphere            geodesy.Hemisphere
	PrintScaleDenominator float64
	TickIntervalNM        float64
	TimeTickIntervalMin   float64
	ShowDistanceLabels    bool
	ShowTimeLabels        bool

	// Viewport in CSS pixels.
	Width            int
	Height           int
	DevicePixelRatio float64
}

// DefaultRenderConfig returns a 1:500 000 chart on a 1200x900 viewport
// with 10 NM distance ticks.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		PrintScaleDenominator: 500000,
		TickIntervalNM:        10,
		ShowDistanceLabels:    true,
		ShowTimeLabels:        true,
		Width:                 1200,
		Height:                900,
		DevicePixelRatio:      1,
	}
}

func (c RenderConfig) validate() error {
	switch {
	case c.UTMZone < 0 || c.UTMZone > 60:
		return inputErrorf("utm zone %d out of range", c.UTMZone)
	case c.Hemisphere != 0 && c.Hemisphere != geodesy.North && c.Hemisphere != geodesy.South:
		return inputErrorf("invalid hemisphere %q", rune(c.Hemisphere))
	case !(c.PrintScaleDenominator > 0) || math.IsInf(c.PrintScaleDenominator, 0):
		return inputErrorf("print scale denominator must be positive, got %v", c.PrintScaleDenominator)
	case c.TickIntervalNM < 0 || math.IsNaN(c.TickIntervalNM):
		return inputErrorf("tick interval must not be negative, got %v", c.TickIntervalNM)
	case c.TimeTickIntervalMin < 0 || math.IsNaN(c.TimeTickIntervalMin):
		return inputErrorf("time tick interval must not be negative, got %v", c.TimeTickIntervalMin)
	case c.Width <= 0 || c.Height <= 0:
		return inputErrorf("viewport %dx%d must be positive", c.Width, c.Height)
	case !(c.DevicePixelRatio > 0) || math.IsInf(c.DevicePixelRatio, 0):
		return inputErrorf("device pixel ratio must be positive, got %v", c.DevicePixelRatio)
	}
	return nil
}

// RenderContext maps UTM metres onto CSS pixels. It is computed by the base
// layer and reused unchanged by the overlay of the same render.
type RenderContext struct {
	Zone       int
	Hemisphere geodesy.Hemisphere

	MinE, MinN float64 // padded bounds origin, metres
	MaxE, MaxN float64
	Scale      float64 // CSS pixels per metre
	OffsetX    float64
	OffsetY    float64

	Width, Height float64 // CSS pixels
	DPR           float64
}

// ToScreen maps a UTM coordinate to CSS pixels with y growing down.
func (rc RenderContext) ToScreen(c geodesy.UTMCoordinate) mathutil.Vec2 {
	return mathutil.Vec2{
		rc.OffsetX + (c.Easting-rc.MinE)*rc.Scale,
		rc.Height - rc.OffsetY - (c.Northing-rc.MinN)*rc.Scale,
	}
}

// FromScreen is the inverse of ToScreen.
func (rc RenderContext) FromScreen(p mathutil.Vec2) (easting, northing float64) {
	return rc.MinE + (p[0]-rc.OffsetX)/rc.Scale,
		rc.MinN + (rc.Height-rc.OffsetY-p[1])/rc.Scale
}

// Project maps a WGS-84 position to CSS pixels.
func (rc RenderContext) Project(p geodesy.GeoPoint) (mathutil.Vec2, error) {
	c, err := geodesy.ToUTM(p.Lat, p.Lon, rc.Zone, rc.Hemisphere)
	if err != nil {
		return mathutil.Vec2{}, err
	}
	return rc.ToScreen(c), nil
}

// PixelsPerNM returns the CSS length of one nautical mile.
func (rc RenderContext) PixelsPerNM() float64 {
	return rc.Scale * geodesy.MetersPerNM
}

// Caption names the grid and print scale, e.g. "UTM 18N  1:500 000".
func (rc RenderContext) Caption(printScaleDenominator float64) string {
	return fmt.Sprintf("UTM %d%s  1:%s", rc.Zone, rc.Hemisphere, groupThousands(int64(math.Round(printScaleDenominator))))
}

func groupThousands(n int64) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + " " + s[i:]
	}
	return s
}

// Diagnostics reports how a render degraded and what the overlay drew.
type Diagnostics struct {
	TerrainAvailable     bool
	TerrainError         error
	TerrainFeatures      int
	DeclinationAvailable bool
	BaseLayerReused      bool

	DistanceTicks    int
	TimeTicks        int
	AlternativeTicks int
	LabelsPlaced     int
	LabelsSkipped    int
}
