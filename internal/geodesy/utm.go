package geodesy

import (
	"math"
)

// WGS-84 ellipsoid and UTM grid parameters (EPSG:326xx / 327xx).
const (
	semiMajor     = 6378137.0
	flattening    = 1 / 298.257223563
	k0            = 0.9996
	falseEasting  = 500000.0
	falseNorthing = 10000000.0
)

// Krüger series coefficients, third order in n.
var (
	n     = flattening / (2 - flattening)
	ecc   = 2 * math.Sqrt(n) / (1 + n)
	rectA = semiMajor / (1 + n) * (1 + n*n/4 + n*n*n*n/64)

	alpha = [3]float64{
		n/2 - 2*n*n/3 + 5*n*n*n/16,
		13*n*n/48 - 3*n*n*n/5,
		61 * n * n * n / 240,
	}
	beta = [3]float64{
		n/2 - 2*n*n/3 + 37*n*n*n/96,
		n*n/48 + n*n*n/15,
		17 * n * n * n / 480,
	}
	delta = [3]float64{
		2*n - 2*n*n/3 - 2*n*n*n,
		7*n*n/3 - 8*n*n*n/5,
		56 * n * n * n / 15,
	}
)

// MaxMeridianOffsetDeg is the furthest a position may lie from the central
// meridian of the zone it is projected onto. That is one and a half zone
// widths; the series loses accuracy beyond it and diverges near 90°.
const MaxMeridianOffsetDeg = 9.0

// UTMCoordinate is a grid position in meters within one zone and hemisphere.
type UTMCoordinate struct {
	Easting    float64
	Northing   float64
	Zone       int
	Hemisphere Hemisphere
}

// CentralMeridian returns the longitude of the zone's central meridian.
func CentralMeridian(zone int) float64 {
	return float64((zone-1)*6-180) + 3
}

// ZoneFor returns the UTM zone containing the position, honouring the
// southwest Norway and Svalbard exceptions.
func ZoneFor(lat, lon float64) int {
	if lon >= 180 {
		lon -= 360
	}
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}

	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}
	if lat >= 72 && lat < 84 {
		switch {
		case lon >= 0 && lon < 9:
			return 31
		case lon >= 9 && lon < 21:
			return 33
		case lon >= 21 && lon < 33:
			return 35
		case lon >= 33 && lon < 42:
			return 37
		}
	}
	return zone
}

func validZone(zone int) error {
	if zone < 1 || zone > 60 {
		return &InvalidZoneError{Zone: zone}
	}
	return nil
}

// ToUTM projects a WGS-84 position onto the given zone and hemisphere with
// the Krüger Transverse Mercator series. Positions more than
// MaxMeridianOffsetDeg from the zone's central meridian return an
// *OutOfZoneError.
func ToUTM(lat, lon float64, zone int, hemisphere Hemisphere) (UTMCoordinate, error) {
	if err := (GeoPoint{Lat: lat, Lon: lon}).Validate(); err != nil {
		return UTMCoordinate{}, err
	}
	if err := validZone(zone); err != nil {
		return UTMCoordinate{}, err
	}

	phi := lat * math.Pi / 180
	dLambda := (lon - CentralMeridian(zone)) * math.Pi / 180
	// Keep the longitude difference continuous across the antimeridian.
	if dLambda > math.Pi {
		dLambda -= 2 * math.Pi
	} else if dLambda < -math.Pi {
		dLambda += 2 * math.Pi
	}
	if math.Abs(dLambda) > MaxMeridianOffsetDeg*math.Pi/180 {
		return UTMCoordinate{}, &OutOfZoneError{Lat: lat, Lon: lon, Zone: zone}
	}

	sinPhi := math.Sin(phi)
	t := math.Sinh(math.Atanh(sinPhi) - ecc*math.Atanh(ecc*sinPhi))
	xiP := math.Atan2(t, math.Cos(dLambda))
	etaP := math.Atanh(math.Sin(dLambda) / math.Sqrt(1+t*t))

	xi, eta := xiP, etaP
	for j := 1; j <= 3; j++ {
		a := alpha[j-1]
		fj := 2 * float64(j)
		xi += a * math.Sin(fj*xiP) * math.Cosh(fj*etaP)
		eta += a * math.Cos(fj*xiP) * math.Sinh(fj*etaP)
	}

	c := UTMCoordinate{
		Easting:    falseEasting + k0*rectA*eta,
		Northing:   k0 * rectA * xi,
		Zone:       zone,
		Hemisphere: hemisphere,
	}
	if hemisphere == South {
		c.Northing += falseNorthing
	}
	if math.IsNaN(c.Easting) || math.IsInf(c.Easting, 0) || math.IsNaN(c.Northing) || math.IsInf(c.Northing, 0) {
		return UTMCoordinate{}, &OutOfZoneError{Lat: lat, Lon: lon, Zone: zone}
	}
	return c, nil
}

// FromUTM inverts ToUTM.
func FromUTM(c UTMCoordinate) (GeoPoint, error) {
	if err := validZone(c.Zone); err != nil {
		return GeoPoint{}, err
	}
	if math.IsNaN(c.Easting) || math.IsNaN(c.Northing) {
		return GeoPoint{}, &InvalidCoordinateError{Lat: math.NaN(), Lon: math.NaN()}
	}

	northing := c.Northing
	if c.Hemisphere == South {
		northing -= falseNorthing
	}
	xi := northing / (k0 * rectA)
	eta := (c.Easting - falseEasting) / (k0 * rectA)

	xiP, etaP := xi, eta
	for j := 1; j <= 3; j++ {
		b := beta[j-1]
		fj := 2 * float64(j)
		xiP -= b * math.Sin(fj*xi) * math.Cosh(fj*eta)
		etaP -= b * math.Cos(fj*xi) * math.Sinh(fj*eta)
	}

	chi := math.Asin(math.Sin(xiP) / math.Cosh(etaP))
	phi := chi
	for j := 1; j <= 3; j++ {
		phi += delta[j-1] * math.Sin(2*float64(j)*chi)
	}
	lambda := math.Atan2(math.Sinh(etaP), math.Cos(xiP))

	lon := CentralMeridian(c.Zone) + lambda*180/math.Pi
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return GeoPoint{Lat: phi * 180 / math.Pi, Lon: lon}, nil
}

// GridDistance returns the straight-line grid distance between two
// coordinates of the same zone, in meters.
func GridDistance(a, b UTMCoordinate) float64 {
	return math.Hypot(b.Easting-a.Easting, b.Northing-a.Northing)
}
