package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// ErrDeclinationUnavailable is returned when no declination model covers a
// position (or none is configured).
var ErrDeclinationUnavailable = errors.New("geodesy: magnetic declination unavailable")

// DeclinationProvider returns magnetic declination in degrees, positive when
// magnetic north lies east of true north.
type DeclinationProvider interface {
	Declination(lat, lon, altitudeKm float64) (float64, error)
}

// DeclinationFunc adapts a plain function to DeclinationProvider.
type DeclinationFunc func(lat, lon, altitudeKm float64) (float64, error)

func (f DeclinationFunc) Declination(lat, lon, altitudeKm float64) (float64, error) {
	return f(lat, lon, altitudeKm)
}

// GridConvergenceDeg returns the angle between grid north and true north at
// a position: (lon - centralMeridian) * sin(lat). Positive means true north
// is clockwise of grid north.
func GridConvergenceDeg(lat, lon float64, zone int) float64 {
	return (lon - CentralMeridian(zone)) * math.Sin(lat*math.Pi/180)
}

// NorthAngles holds the three north references at one point, each measured
// clockwise from grid north in degrees.
type NorthAngles struct {
	Convergence          float64
	Declination          float64
	GridToMagnetic       float64
	DeclinationAvailable bool
}

// ComputeNorthAngles combines grid convergence with the provider's
// declination. A nil provider or a provider error yields angles with
// DeclinationAvailable=false and an error wrapping ErrDeclinationUnavailable.
func ComputeNorthAngles(p GeoPoint, zone int, provider DeclinationProvider) (NorthAngles, error) {
	na := NorthAngles{Convergence: GridConvergenceDeg(p.Lat, p.Lon, zone)}
	if provider == nil {
		return na, ErrDeclinationUnavailable
	}

	decl, err := provider.Declination(p.Lat, p.Lon, 0)
	if err != nil {
		if errors.Is(err, ErrDeclinationUnavailable) {
			return na, err
		}
		return na, fmt.Errorf("%w: %v", ErrDeclinationUnavailable, err)
	}
	if math.IsNaN(decl) {
		return na, ErrDeclinationUnavailable
	}

	na.Declination = decl
	na.GridToMagnetic = na.Convergence + decl
	na.DeclinationAvailable = true
	return na, nil
}
