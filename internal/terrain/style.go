package terrain

import (
	"image/color"
)

// Style describes how one feature is painted. A nil Fill means stroke only.
type Style struct {
	Fill   color.Color
	Stroke color.Color
	Width  float64   // stroke width in CSS pixels
	Dash   []float64 // dash pattern in CSS pixels, nil for solid
	Hatch  bool      // diagonal hatch clipped to the polygon
	Symbol float64   // point symbol radius in CSS pixels
}

// Style returns the default style of a feature type.
func (t FeatureType) Style() Style {
	switch t {
	case Water:
		return Style{
			Fill:   color.NRGBA{R: 170, G: 211, B: 223, A: 255},
			Stroke: color.NRGBA{R: 110, G: 160, B: 190, A: 255},
			Width:  0.5,
		}
	case Wetland:
		return Style{
			Fill:   color.NRGBA{R: 200, G: 225, B: 210, A: 160},
			Stroke: color.NRGBA{R: 90, G: 150, B: 140, A: 255},
			Width:  0.5,
			Hatch:  true,
		}
	case Coastline:
		return Style{Stroke: color.NRGBA{R: 60, G: 110, B: 160, A: 255}, Width: 1.2}
	case Beach:
		return Style{
			Fill:   color.NRGBA{R: 245, G: 230, B: 175, A: 255},
			Stroke: color.NRGBA{R: 215, G: 195, B: 130, A: 255},
			Width:  0.5,
		}
	case Mud:
		return Style{
			Fill:   color.NRGBA{R: 210, G: 195, B: 170, A: 200},
			Stroke: color.NRGBA{R: 170, G: 150, B: 120, A: 255},
			Width:  0.5,
		}
	case SaltPond:
		return Style{
			Fill:   color.NRGBA{R: 225, G: 225, B: 240, A: 255},
			Stroke: color.NRGBA{R: 150, G: 150, B: 190, A: 255},
			Width:  0.5,
		}
	case Boundary:
		return Style{Stroke: color.NRGBA{R: 150, G: 80, B: 160, A: 200}, Width: 1, Dash: []float64{6, 3, 2, 3}}
	case Railway:
		return Style{Stroke: color.NRGBA{R: 70, G: 70, B: 70, A: 255}, Width: 1, Dash: []float64{5, 3}}
	case Road:
		return RoadSecondary.Style()
	case Airport:
		return Style{
			Fill:   color.NRGBA{R: 200, G: 60, B: 160, A: 255},
			Stroke: color.NRGBA{R: 120, G: 20, B: 100, A: 255},
			Width:  1,
			Symbol: 5,
		}
	case City:
		return Style{
			Fill:   color.NRGBA{R: 250, G: 220, B: 100, A: 140},
			Stroke: color.NRGBA{R: 60, G: 60, B: 60, A: 255},
			Width:  1,
			Symbol: 3,
		}
	default:
		return Style{Stroke: color.NRGBA{R: 128, G: 128, B: 128, A: 255}, Width: 1}
	}
}

// RoadClass is the closed set of highway classes drawn on a chart.
type RoadClass int

const (
	RoadMotorway RoadClass = iota
	RoadTrunk
	RoadPrimary
	RoadSecondary
)

// ParseRoadClass maps an OSM highway value onto a RoadClass. Link roads take
// their parent's class; anything unknown is drawn as secondary.
func ParseRoadClass(highway string) RoadClass {
	switch highway {
	case "motorway", "motorway_link":
		return RoadMotorway
	case "trunk", "trunk_link":
		return RoadTrunk
	case "primary", "primary_link":
		return RoadPrimary
	default:
		return RoadSecondary
	}
}

func (c RoadClass) String() string {
	switch c {
	case RoadMotorway:
		return "motorway"
	case RoadTrunk:
		return "trunk"
	case RoadPrimary:
		return "primary"
	default:
		return "secondary"
	}
}

// Major reports whether city labels should keep clear of roads of this class.
func (c RoadClass) Major() bool {
	return c == RoadMotorway || c == RoadTrunk
}

// Style returns the stroke style for the road class.
func (c RoadClass) Style() Style {
	switch c {
	case RoadMotorway:
		return Style{Stroke: color.NRGBA{R: 220, G: 80, B: 60, A: 255}, Width: 2.2}
	case RoadTrunk:
		return Style{Stroke: color.NRGBA{R: 235, G: 130, B: 70, A: 255}, Width: 1.8}
	case RoadPrimary:
		return Style{Stroke: color.NRGBA{R: 240, G: 170, B: 90, A: 255}, Width: 1.4}
	default:
		return Style{Stroke: color.NRGBA{R: 200, G: 190, B: 150, A: 255}, Width: 1}
	}
}

// StyleFor resolves the style of one feature, including per-class road styles.
func StyleFor(f Feature) Style {
	if f.Type == Road {
		return ParseRoadClass(stringProp(f.Properties, "highway")).Style()
	}
	return f.Type.Style()
}
