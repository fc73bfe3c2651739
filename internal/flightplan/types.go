package flightplan

import (
	"localchart/internal/chart"
	"localchart/internal/geodesy"
)

// Plan is one flight plan file.
type Plan struct {
	Name      string     `json:"name,omitempty"`
	Waypoints []Waypoint `json:"waypoints"`
	Segments  []Segment  `json:"segments,omitempty"`
	Config    *Overrides `json:"config,omitempty"`
}

// Waypoint is given either by ident or by coordinates. Coordinates win
// when both are present.
type Waypoint struct {
	Ident                string   `json:"ident,omitempty"`
	Name                 string   `json:"name,omitempty"`
	Lat                  *float64 `json:"lat,omitempty"`
	Lon                  *float64 `json:"lon,omitempty"`
	IsFlyOver            bool     `json:"isFlyOver,omitempty"`
	CumulativeDistanceNM *float64 `json:"cumulativeDistanceNM,omitempty"`
	CumulativeTimeMin    *float64 `json:"cumulativeTimeMin,omitempty"`
}

// Segment is a chart.RouteSegment whose ends may be airport idents. The
// pointer From/To shadow the embedded fields in JSON so a missing end can
// be told apart from (0, 0).
type Segment struct {
	chart.RouteSegment
	From      *geodesy.GeoPoint `json:"from,omitempty"`
	To        *geodesy.GeoPoint `json:"to,omitempty"`
	FromIdent string            `json:"fromIdent,omitempty"`
	ToIdent   string            `json:"toIdent,omitempty"`
}

// Overrides adjusts the renderer defaults for one plan.
type Overrides struct {
	UTMZone               *int     `json:"utmZone,omitempty"`
	Hemisphere            string   `json:"hemisphere,omitempty"`
	PrintScaleDenominator *float64 `json:"printScaleDenominator,omitempty"`
	TickIntervalNM        *float64 `json:"tickIntervalNM,omitempty"`
	TimeTickIntervalMin   *float64 `json:"timeTickIntervalMin,omitempty"`
	ShowDistanceLabels    *bool    `json:"showDistanceLabels,omitempty"`
	ShowTimeLabels        *bool    `json:"showTimeLabels,omitempty"`
	Width                 *int     `json:"width,omitempty"`
	Height                *int     `json:"height,omitempty"`
	DevicePixelRatio      *float64 `json:"devicePixelRatio,omitempty"`
}

// Resolved is a plan ready to hand to chart.Renderer.Render.
type Resolved struct {
	Name      string
	Waypoints []chart.Waypoint
	Segments  []chart.RouteSegment
	Config    chart.RenderConfig
}
