package geodesy

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/wroge/wgs84/v2"
)

func TestCentralMeridian(t *testing.T) {
	tests := []struct {
		zone int
		want float64
	}{
		{1, -177},
		{18, -75},
		{31, 3},
		{60, 177},
	}
	for _, tt := range tests {
		if got := CentralMeridian(tt.zone); got != tt.want {
			t.Errorf("CentralMeridian(%d) = %v, want %v", tt.zone, got, tt.want)
		}
	}
}

func TestZoneFor(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     int
	}{
		{40.0, -73.0, 18},
		{-33.9, 18.4, 34},
		{60.4, 5.3, 32},  // Bergen
		{78.2, 15.6, 33}, // Longyearbyen
		{0, 179.99, 60},
		{0, -180, 1},
	}
	for _, tt := range tests {
		if got := ZoneFor(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ZoneFor(%v, %v) = %d, want %d", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func TestToUTMKnownPoint(t *testing.T) {
	// Central meridian on the equator maps onto the false easting.
	c, err := ToUTM(0, CentralMeridian(31), 31, North)
	if err != nil {
		t.Fatalf("ToUTM: %v", err)
	}
	if math.Abs(c.Easting-500000) > 1e-6 || math.Abs(c.Northing) > 1e-6 {
		t.Errorf("equator/CM = (%f, %f), want (500000, 0)", c.Easting, c.Northing)
	}

	s, err := ToUTM(-1e-9, CentralMeridian(31), 31, South)
	if err != nil {
		t.Fatalf("ToUTM south: %v", err)
	}
	if math.Abs(s.Northing-10000000) > 0.01 {
		t.Errorf("southern false northing = %f, want 10000000", s.Northing)
	}
}

func TestToUTMMatchesReference(t *testing.T) {
	// Compare against an independent EPSG implementation (WGS 84 / UTM 18N).
	toRef := wgs84.Transform(wgs84.EPSG(4326), wgs84.EPSG(32618))

	for _, p := range []GeoPoint{
		{Lat: 40.0, Lon: -73.0},
		{Lat: 41.0, Lon: -73.0},
		{Lat: 40.7, Lon: -74.0},
		{Lat: 42.3, Lon: -77.9},
	} {
		c, err := ToUTM(p.Lat, p.Lon, 18, North)
		if err != nil {
			t.Fatalf("ToUTM(%v): %v", p, err)
		}
		e, n, _ := toRef(p.Lon, p.Lat, 0)
		if math.Abs(c.Easting-e) > 0.01 || math.Abs(c.Northing-n) > 0.01 {
			t.Errorf("%v: got (%.3f, %.3f), reference (%.3f, %.3f)", p, c.Easting, c.Northing, e, n)
		}
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		zone := 1 + r.Intn(60)
		lat := -80 + r.Float64()*164
		lon := CentralMeridian(zone) - 3 + r.Float64()*6
		hemi := HemisphereFor(lat)

		c, err := ToUTM(lat, lon, zone, hemi)
		if err != nil {
			t.Fatalf("ToUTM(%f, %f, %d): %v", lat, lon, zone, err)
		}
		p, err := FromUTM(c)
		if err != nil {
			t.Fatalf("FromUTM(%+v): %v", c, err)
		}
		if math.Abs(p.Lat-lat) > 1e-6 || math.Abs(p.Lon-lon) > 1e-6 {
			t.Fatalf("round trip (%f, %f) zone %d -> (%f, %f)", lat, lon, zone, p.Lat, p.Lon)
		}
	}
}

func TestToUTMInvalidInput(t *testing.T) {
	var coordErr *InvalidCoordinateError
	if _, err := ToUTM(math.NaN(), 0, 31, North); !errors.As(err, &coordErr) {
		t.Errorf("NaN latitude: got %v, want InvalidCoordinateError", err)
	}
	if _, err := ToUTM(91, 0, 31, North); !errors.As(err, &coordErr) {
		t.Errorf("lat 91: got %v, want InvalidCoordinateError", err)
	}
	if _, err := ToUTM(0, 181, 31, North); !errors.As(err, &coordErr) {
		t.Errorf("lon 181: got %v, want InvalidCoordinateError", err)
	}

	var zoneErr *InvalidZoneError
	if _, err := ToUTM(0, 0, 61, North); !errors.As(err, &zoneErr) {
		t.Errorf("zone 61: got %v, want InvalidZoneError", err)
	}
}

func TestToUTMFarFromCentralMeridian(t *testing.T) {
	var zoneErr *OutOfZoneError
	tests := []struct {
		lat, lon float64
		zone     int
	}{
		{0, 93, 1},     // 90° east of the central meridian
		{40, -60, 18},  // three zones east
		{-30, 170, 57}, // 11° east
	}
	for _, tt := range tests {
		c, err := ToUTM(tt.lat, tt.lon, tt.zone, HemisphereFor(tt.lat))
		if !errors.As(err, &zoneErr) {
			t.Errorf("ToUTM(%v, %v, %d) = %+v, %v; want OutOfZoneError", tt.lat, tt.lon, tt.zone, c, err)
		}
	}

	// Across the antimeridian zone 60 is only 4° away.
	c, err := ToUTM(10, -179, 60, North)
	if err != nil {
		t.Fatalf("ToUTM across antimeridian: %v", err)
	}
	if math.IsNaN(c.Easting) || math.IsInf(c.Easting, 0) || c.Easting <= falseEasting {
		t.Errorf("easting = %f, want finite and east of the central meridian", c.Easting)
	}
}

func TestGridDistanceOneDegreeLatitude(t *testing.T) {
	a, _ := ToUTM(40, -73, 18, North)
	b, _ := ToUTM(41, -73, 18, North)
	nm := GridDistance(a, b) / MetersPerNM
	if nm < 59.5 || nm > 60.5 {
		t.Errorf("1° of latitude = %.2f NM, want ≈60", nm)
	}
}
