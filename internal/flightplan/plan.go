package flightplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"localchart/internal/chart"
	"localchart/internal/geodesy"
)

// ErrUnknownIdent is returned when an ident is not in the airports file.
var ErrUnknownIdent = errors.New("flightplan: unknown ident")

// Load reads a JSON plan. An unnamed plan takes the file's stem.
func Load(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flightplan: read %s: %w", path, err)
	}

	var p Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("flightplan: parse %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &p, nil
}

// Resolve turns the plan into renderer input: idents become coordinates and
// the overrides are applied on top of base. airports may be nil when the
// plan uses coordinates only.
func (p *Plan) Resolve(airports *Airports, base chart.RenderConfig) (Resolved, error) {
	out := Resolved{Name: p.Name, Config: base}

	for i, w := range p.Waypoints {
		pt, ap, err := locate(airports, w.Lat, w.Lon, w.Ident)
		if err != nil {
			return Resolved{}, fmt.Errorf("flightplan: waypoint %d: %w", i, err)
		}
		name := ap.Ident
		if w.Name != "" {
			name = w.Name
		}
		out.Waypoints = append(out.Waypoints, chart.Waypoint{
			GeoPoint:             pt,
			Name:                 name,
			Description:          ap.Name,
			IsFlyOver:            w.IsFlyOver,
			CumulativeDistanceNM: w.CumulativeDistanceNM,
			CumulativeTimeMin:    w.CumulativeTimeMin,
		})
	}

	for i, s := range p.Segments {
		seg := s.RouteSegment
		var err error
		if seg.From, err = segmentEnd(airports, s.From, s.FromIdent); err != nil {
			return Resolved{}, fmt.Errorf("flightplan: segment %d start: %w", i, err)
		}
		if seg.To, err = segmentEnd(airports, s.To, s.ToIdent); err != nil {
			return Resolved{}, fmt.Errorf("flightplan: segment %d end: %w", i, err)
		}
		out.Segments = append(out.Segments, seg)
	}

	if p.Config != nil {
		cfg, err := p.Config.Apply(base)
		if err != nil {
			return Resolved{}, err
		}
		out.Config = cfg
	}
	return out, nil
}

func segmentEnd(airports *Airports, pt *geodesy.GeoPoint, ident string) (geodesy.GeoPoint, error) {
	if pt != nil {
		return *pt, nil
	}
	g, _, err := locate(airports, nil, nil, ident)
	return g, err
}

// locate returns explicit coordinates when both are set, else the airport
// named by ident. For explicit coordinates the returned Airport carries only
// the ident.
func locate(airports *Airports, lat, lon *float64, ident string) (geodesy.GeoPoint, Airport, error) {
	if lat != nil && lon != nil {
		return geodesy.GeoPoint{Lat: *lat, Lon: *lon}, Airport{Ident: ident}, nil
	}
	if ident == "" {
		return geodesy.GeoPoint{}, Airport{}, errors.New("needs lat/lon or an ident")
	}
	ap, ok := airports.Lookup(ident)
	if !ok {
		return geodesy.GeoPoint{}, Airport{}, fmt.Errorf("%w %q", ErrUnknownIdent, ident)
	}
	return geodesy.GeoPoint{Lat: ap.Lat, Lon: ap.Lon}, ap, nil
}

// Apply returns cfg with every set override replaced.
func (o *Overrides) Apply(cfg chart.RenderConfig) (chart.RenderConfig, error) {
	if o.UTMZone != nil {
		cfg.UTMZone = *o.UTMZone
	}
	if o.Hemisphere != "" {
		h, err := geodesy.ParseHemisphere(o.Hemisphere)
		if err != nil {
			return cfg, fmt.Errorf("flightplan: %w", err)
		}
		cfg.Hemisphere = h
	}
	if o.PrintScaleDenominator != nil {
		cfg.PrintScaleDenominator = *o.PrintScaleDenominator
	}
	if o.TickIntervalNM != nil {
		cfg.TickIntervalNM = *o.TickIntervalNM
	}
	if o.TimeTickIntervalMin != nil {
		cfg.TimeTickIntervalMin = *o.TimeTickIntervalMin
	}
	if o.ShowDistanceLabels != nil {
		cfg.ShowDistanceLabels = *o.ShowDistanceLabels
	}
	if o.ShowTimeLabels != nil {
		cfg.ShowTimeLabels = *o.ShowTimeLabels
	}
	if o.Width != nil {
		cfg.Width = *o.Width
	}
	if o.Height != nil {
		cfg.Height = *o.Height
	}
	if o.DevicePixelRatio != nil {
		cfg.DevicePixelRatio = *o.DevicePixelRatio
	}
	return cfg, nil
}
