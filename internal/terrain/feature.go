// Package terrain models the vector features drawn beneath a chart: the
// provider interface they arrive through, their draw order and styles.
package terrain

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"localchart/internal/geodesy"
)

// FeatureType is the closed set of terrain categories a chart knows how to draw.
type FeatureType int

const (
	Water FeatureType = iota
	Wetland
	Coastline
	Beach
	Mud
	SaltPond
	Boundary
	Railway
	Road
	Airport
	City
	numFeatureTypes
)

// DrawOrder lists feature types bottom to top. Later types paint over earlier ones.
var DrawOrder = []FeatureType{
	Water, Wetland, Coastline, Beach, Mud, SaltPond, Boundary, Railway, Road, Airport, City,
}

func (t FeatureType) String() string {
	switch t {
	case Water:
		return "water"
	case Wetland:
		return "wetland"
	case Coastline:
		return "coastline"
	case Beach:
		return "beach"
	case Mud:
		return "mud"
	case SaltPond:
		return "salt_pond"
	case Boundary:
		return "boundary"
	case Railway:
		return "railway"
	case Road:
		return "road"
	case Airport:
		return "airport"
	case City:
		return "city"
	default:
		return fmt.Sprintf("FeatureType(%d)", int(t))
	}
}

// ParseFeatureType maps the provider's featureType string onto a FeatureType.
func ParseFeatureType(s string) (FeatureType, error) {
	for _, t := range DrawOrder {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("terrain: unknown feature type %q", s)
}

// Feature is one typed geographic feature. Geometry coordinates are
// (lon, lat) in WGS-84 degrees; supported geometries are orb.Point,
// orb.LineString, orb.MultiLineString, orb.Polygon and orb.MultiPolygon.
type Feature struct {
	Type       FeatureType
	Geometry   orb.Geometry
	Properties geojson.Properties
}

// Provider supplies terrain features around a set of locations.
type Provider interface {
	FetchFeatures(ctx context.Context, locations []geodesy.GeoPoint) ([]Feature, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, locations []geodesy.GeoPoint) ([]Feature, error)

func (f ProviderFunc) FetchFeatures(ctx context.Context, locations []geodesy.GeoPoint) ([]Feature, error) {
	return f(ctx, locations)
}

// RegionPaddingNM is the margin added around the locations when deciding
// which features a chart needs; it matches the chart's own bounds padding.
const RegionPaddingNM = 10.0

// Region returns the bounding box of the locations padded by padNM on every side.
func Region(locations []geodesy.GeoPoint, padNM float64) orb.Bound {
	if len(locations) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{
		Min: orb.Point{locations[0].Lon, locations[0].Lat},
		Max: orb.Point{locations[0].Lon, locations[0].Lat},
	}
	for _, p := range locations[1:] {
		b = b.Extend(orb.Point{p.Lon, p.Lat})
	}

	// One minute of latitude is one nautical mile; widen longitude by the
	// cosine of the most poleward latitude so the pad is never short.
	padLat := padNM / 60
	maxAbsLat := max(math.Abs(b.Min[1]), math.Abs(b.Max[1]))
	cosLat := math.Cos(maxAbsLat * math.Pi / 180)
	padLon := 180.0
	if cosLat > 1e-6 {
		padLon = min(padLat/cosLat, 180)
	}
	return orb.Bound{
		Min: orb.Point{max(b.Min[0]-padLon, -180), max(b.Min[1]-padLat, -90)},
		Max: orb.Point{min(b.Max[0]+padLon, 180), min(b.Max[1]+padLat, 90)},
	}
}
