// Package export encodes a rendered chart and back-calculates the DPI that
// makes it print at the chart's nominal scale.
package export

import (
	"fmt"
	"math"
)

const (
	metersPerNM = 1852.0
	mmPerInch   = 25.4
)

// ComputeDPI returns the resolution at which a raster drawn at
// renderScale CSS pixels per metre, with the given device pixel ratio,
// prints at 1:printScaleDenominator. Ten nautical miles on the ground span
// 18520·scale·dpr device pixels and 18520/(denominator/1000) millimetres
// on paper; the DPI is their ratio in inches, rounded.
func ComputeDPI(printScaleDenominator, renderScale, devicePixelRatio float64) (int, error) {
	switch {
	case !(printScaleDenominator > 0) || math.IsInf(printScaleDenominator, 0):
		return 0, fmt.Errorf("export: invalid print scale denominator %v", printScaleDenominator)
	case !(renderScale > 0) || math.IsInf(renderScale, 0):
		return 0, fmt.Errorf("export: invalid render scale %v", renderScale)
	case !(devicePixelRatio > 0) || math.IsInf(devicePixelRatio, 0):
		return 0, fmt.Errorf("export: invalid device pixel ratio %v", devicePixelRatio)
	}

	const tenNM = 10 * metersPerNM
	px := tenNM * renderScale * devicePixelRatio
	paperMM := tenNM / (printScaleDenominator / 1000)
	dpi := int(math.Round(px * mmPerInch / paperMM))
	if dpi < 1 {
		dpi = 1
	}
	return dpi, nil
}

// PaperMM returns the printed length of a span of device pixels at dpi.
func PaperMM(pixels float64, dpi int) float64 {
	if dpi <= 0 {
		return 0
	}
	return pixels / float64(dpi) * mmPerInch
}

// GroundMM returns the paper length of a ground distance at 1:denominator.
func GroundMM(meters, printScaleDenominator float64) float64 {
	return meters * 1000 / printScaleDenominator
}
