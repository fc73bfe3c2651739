package terrain

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"localchart/internal/geodesy"
)

// FeatureTypeFromTags infers a feature type from OSM-style properties. It
// is used when a feature carries no explicit "feature_type".
func FeatureTypeFromTags(p geojson.Properties) (FeatureType, bool) {
	tag := func(k string) string { return stringProp(p, k) }

	switch {
	case tag("natural") == "water" || tag("waterway") == "riverbank" || tag("landuse") == "reservoir":
		return Water, true
	case tag("natural") == "wetland":
		return Wetland, true
	case tag("natural") == "coastline":
		return Coastline, true
	case tag("natural") == "beach":
		return Beach, true
	case tag("natural") == "mud" || tag("wetland") == "tidalflat":
		return Mud, true
	case tag("landuse") == "salt_pond":
		return SaltPond, true
	case tag("boundary") == "administrative":
		return Boundary, true
	case tag("railway") == "rail":
		return Railway, true
	case tag("highway") != "":
		return Road, true
	case tag("aeroway") == "aerodrome":
		return Airport, true
	case tag("place") == "city" || tag("place") == "town" || tag("place") == "village":
		return City, true
	}
	return 0, false
}

// FromGeoJSON converts a feature collection into typed features, dropping
// features whose type cannot be determined.
func FromGeoJSON(fc *geojson.FeatureCollection) []Feature {
	out := make([]Feature, 0, len(fc.Features))
	for _, gf := range fc.Features {
		if gf == nil || gf.Geometry == nil {
			continue
		}

		var (
			t  FeatureType
			ok bool
		)
		if s := stringProp(gf.Properties, "feature_type"); s != "" {
			var err error
			t, err = ParseFeatureType(s)
			ok = err == nil
		} else {
			t, ok = FeatureTypeFromTags(gf.Properties)
		}
		if !ok {
			continue
		}

		out = append(out, Feature{Type: t, Geometry: gf.Geometry, Properties: gf.Properties})
	}
	return out
}

// FileProvider serves features from a GeoJSON file loaded once at construction.
type FileProvider struct {
	features []Feature
}

// NewFileProvider reads a GeoJSON FeatureCollection.
func NewFileProvider(path string) (*FileProvider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("terrain: read %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("terrain: parse %s: %w", path, err)
	}
	return &FileProvider{features: FromGeoJSON(fc)}, nil
}

// Len returns the number of typed features in the file.
func (p *FileProvider) Len() int {
	return len(p.features)
}

// FetchFeatures returns the features intersecting the padded region around
// the locations.
func (p *FileProvider) FetchFeatures(ctx context.Context, locations []geodesy.GeoPoint) ([]Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	region := Region(locations, RegionPaddingNM)

	var out []Feature
	for _, f := range p.features {
		if region.Intersects(f.Geometry.Bound()) {
			out = append(out, f)
		}
	}
	return out, nil
}

var _ Provider = (*FileProvider)(nil)

// boundKey is a cache key for a region already rounded to 0.1°.
func boundKey(b orb.Bound) string {
	return fmt.Sprintf("%.1f,%.1f,%.1f,%.1f", b.Min[0], b.Min[1], b.Max[0], b.Max[1])
}
