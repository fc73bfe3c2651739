package chart

import "image/color"

var (
	paperColor     = color.NRGBA{R: 250, G: 248, B: 240, A: 255}
	gridMinorColor = color.NRGBA{R: 90, G: 120, B: 160, A: 40}
	gridMajorColor = color.NRGBA{R: 60, G: 90, B: 140, A: 110}
	gridLabelColor = color.NRGBA{R: 50, G: 70, B: 110, A: 255}
	inkColor       = color.NRGBA{R: 25, G: 25, B: 30, A: 255}
	haloColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 210}

	routeColor       = color.NRGBA{R: 200, G: 20, B: 120, A: 255}
	alternativeColor = color.NRGBA{R: 30, G: 100, B: 210, A: 255}
	timeTickColor    = color.NRGBA{R: 20, G: 120, B: 60, A: 255}

	gridNorthColor     = color.NRGBA{R: 60, G: 90, B: 140, A: 255}
	trueNorthColor     = color.NRGBA{R: 25, G: 25, B: 30, A: 255}
	magneticNorthColor = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
)

// Sizes in CSS pixels.
const (
	markerRadius   = 5.0
	tickHalfLength = 5.0
	labelFontSize  = 10.0
	cityFontSize   = 11.0
	gridFontSize   = 9.0
	routeWidth     = 2.5
)
