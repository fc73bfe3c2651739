package terrain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func feature(t FeatureType, props geojson.Properties) Feature {
	return Feature{Type: t, Geometry: orb.Point{-73, 40}, Properties: props}
}

func TestClassifyDrawOrder(t *testing.T) {
	in := []Feature{
		feature(City, geojson.Properties{"place": "city", "name": "A"}),
		feature(Road, geojson.Properties{"highway": "primary"}),
		feature(Water, nil),
		feature(Airport, nil),
		feature(Wetland, nil),
		feature(Boundary, nil),
		feature(Water, nil),
	}

	buckets := Classify(in)
	var got []FeatureType
	for _, b := range buckets {
		got = append(got, b.Type)
	}
	want := []FeatureType{Water, Wetland, Boundary, Road, Airport, City}
	if len(got) != len(want) {
		t.Fatalf("bucket types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket types = %v, want %v", got, want)
		}
	}

	if n := len(buckets.Get(Water)); n != 2 {
		t.Errorf("water features = %d, want 2", n)
	}
	if buckets.Len() != len(in) {
		t.Errorf("total = %d, want %d", buckets.Len(), len(in))
	}
}

func TestDrawOrderIsComplete(t *testing.T) {
	if len(DrawOrder) != int(numFeatureTypes) {
		t.Fatalf("DrawOrder has %d entries, want %d", len(DrawOrder), numFeatureTypes)
	}
	for i, ft := range DrawOrder {
		if int(ft) != i {
			t.Errorf("DrawOrder[%d] = %v", i, ft)
		}
		parsed, err := ParseFeatureType(ft.String())
		if err != nil || parsed != ft {
			t.Errorf("ParseFeatureType(%q) = %v, %v", ft.String(), parsed, err)
		}
	}
}

func TestRoadStyleFallsBackToSecondary(t *testing.T) {
	secondary := RoadSecondary.Style()
	for _, hw := range []string{"secondary", "tertiary", "residential", "", "no_such_class"} {
		f := feature(Road, geojson.Properties{"highway": hw})
		if got := StyleFor(f); got.Width != secondary.Width || got.Stroke != secondary.Stroke {
			t.Errorf("highway=%q: style %+v, want secondary %+v", hw, got, secondary)
		}
	}

	// Non-string tag values must not panic either.
	f := feature(Road, geojson.Properties{"highway": 42.0})
	if got := StyleFor(f); got.Width != secondary.Width {
		t.Errorf("numeric highway tag: style %+v", got)
	}

	if ParseRoadClass("motorway_link") != RoadMotorway {
		t.Error("motorway_link should draw as motorway")
	}
	if RoadMotorway.Style().Width <= RoadSecondary.Style().Width {
		t.Error("motorway should be wider than secondary")
	}
}

func TestSelectCities(t *testing.T) {
	in := []Feature{
		feature(City, geojson.Properties{"place": "village", "name": "BigVillage", "population": "4 200"}),
		feature(City, geojson.Properties{"place": "town", "name": "SmallTown", "population": 2999.0}),
		feature(City, geojson.Properties{"place": "city", "name": "SmallCity", "population": 1000.0}),
		feature(City, geojson.Properties{"place": "town", "name": "BigTown", "population": 50000.0}),
		feature(City, geojson.Properties{"place": "city", "name": "BigCity", "population": "800,000"}),
		feature(City, geojson.Properties{"place": "town", "name": "MidTown", "population": 9000.0}),
		feature(City, geojson.Properties{"place": "hamlet", "name": "Hamlet", "population": 90000.0}),
	}

	got := SelectCities(in)
	var names []string
	for _, f := range got {
		names = append(names, Name(f))
	}
	want := []string{"BigCity", "SmallCity", "BigTown", "MidTown", "BigVillage"}
	if len(names) != len(want) {
		t.Fatalf("cities = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("cities = %v, want %v", names, want)
		}
	}
}

func TestFeatureTypeFromTags(t *testing.T) {
	tests := []struct {
		props geojson.Properties
		want  FeatureType
	}{
		{geojson.Properties{"natural": "water"}, Water},
		{geojson.Properties{"natural": "wetland"}, Wetland},
		{geojson.Properties{"natural": "coastline"}, Coastline},
		{geojson.Properties{"landuse": "salt_pond"}, SaltPond},
		{geojson.Properties{"railway": "rail"}, Railway},
		{geojson.Properties{"highway": "trunk"}, Road},
		{geojson.Properties{"aeroway": "aerodrome"}, Airport},
		{geojson.Properties{"place": "town"}, City},
	}
	for _, tt := range tests {
		got, ok := FeatureTypeFromTags(tt.props)
		if !ok || got != tt.want {
			t.Errorf("FeatureTypeFromTags(%v) = %v, %v; want %v", tt.props, got, ok, tt.want)
		}
	}
	if _, ok := FeatureTypeFromTags(geojson.Properties{"amenity": "cafe"}); ok {
		t.Error("cafe should not be classified")
	}
}
