package chart

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// baseInputsHash digests everything the base layer depends on: positions,
// fly-over flags, segment geometry, projection, print scale and viewport.
// Overlay-only settings are not hashed.
func baseInputsHash(r *route, cfg RenderConfig) uint64 {
	d := xxhash.New()
	var buf [8]byte
	f := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		d.Write(buf[:])
	}
	b := func(v bool) {
		if v {
			d.Write([]byte{1})
		} else {
			d.Write([]byte{0})
		}
	}

	f(float64(r.zone))
	f(float64(r.hemisphere))
	f(cfg.PrintScaleDenominator)
	f(float64(cfg.Width))
	f(float64(cfg.Height))
	f(cfg.DevicePixelRatio)

	f(float64(len(r.waypoints)))
	for _, w := range r.waypoints {
		f(w.Lat)
		f(w.Lon)
		b(w.IsFlyOver)
	}

	b(r.explicit)
	f(float64(len(r.legs)))
	for _, l := range r.legs {
		f(l.from.Easting)
		f(l.from.Northing)
		f(l.to.Easting)
		f(l.to.Northing)
		b(l.alternative)
	}
	return d.Sum64()
}
