// Package geodesy projects WGS-84 positions onto the UTM grid and relates
// grid, true and magnetic north at a point.
package geodesy

import (
	"fmt"
	"math"
)

// MetersPerNM is the length of one international nautical mile.
const MetersPerNM = 1852.0

// GeoPoint is a WGS-84 position in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports whether p is a usable WGS-84 position.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return &InvalidCoordinateError{Lat: p.Lat, Lon: p.Lon}
	}
	return nil
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// Hemisphere selects the false northing of a UTM zone.
type Hemisphere byte

const (
	North Hemisphere = 'N'
	South Hemisphere = 'S'
)

func (h Hemisphere) String() string {
	switch h {
	case North:
		return "N"
	case South:
		return "S"
	default:
		return "?"
	}
}

// ParseHemisphere accepts "N", "S", "north" or "south" in any case.
func ParseHemisphere(s string) (Hemisphere, error) {
	switch s {
	case "N", "n", "north", "North", "NORTH":
		return North, nil
	case "S", "s", "south", "South", "SOUTH":
		return South, nil
	}
	return 0, fmt.Errorf("geodesy: invalid hemisphere %q", s)
}

// HemisphereFor returns the hemisphere containing lat.
func HemisphereFor(lat float64) Hemisphere {
	if lat < 0 {
		return South
	}
	return North
}

// InvalidCoordinateError indicates a position outside the WGS-84 domain.
type InvalidCoordinateError struct {
	Lat, Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%f lon=%f (lat must be ±90, lon must be ±180)",
		e.Lat, e.Lon)
}

// InvalidZoneError indicates a UTM zone number outside 1..60.
type InvalidZoneError struct {
	Zone int
}

func (e *InvalidZoneError) Error() string {
	return fmt.Sprintf("invalid UTM zone %d (must be 1-60)", e.Zone)
}

// OutOfZoneError indicates a position too far from a zone's central
// meridian to be projected onto it.
type OutOfZoneError struct {
	Lat, Lon float64
	Zone     int
}

func (e *OutOfZoneError) Error() string {
	return fmt.Sprintf("position lat=%f lon=%f cannot be projected onto UTM zone %d (more than %g° from its central meridian)",
		e.Lat, e.Lon, e.Zone, MaxMeridianOffsetDeg)
}
