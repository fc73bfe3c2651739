package terrain

import (
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Bucket holds the features of one type.
type Bucket struct {
	Type     FeatureType
	Features []Feature
}

// Buckets are feature groups in DrawOrder. Empty types are omitted.
type Buckets []Bucket

// Classify groups features by type in draw order. Features of the same type
// keep their input order, except cities which are filtered and ranked by
// SelectCities.
func Classify(features []Feature) Buckets {
	var groups [numFeatureTypes][]Feature
	for _, f := range features {
		if f.Type < 0 || f.Type >= numFeatureTypes || f.Geometry == nil {
			continue
		}
		groups[f.Type] = append(groups[f.Type], f)
	}
	groups[City] = SelectCities(groups[City])

	var out Buckets
	for _, t := range DrawOrder {
		if len(groups[t]) > 0 {
			out = append(out, Bucket{Type: t, Features: groups[t]})
		}
	}
	return out
}

// Get returns the features of one type.
func (b Buckets) Get(t FeatureType) []Feature {
	for _, bucket := range b {
		if bucket.Type == t {
			return bucket.Features
		}
	}
	return nil
}

// Len returns the total number of features across all buckets.
func (b Buckets) Len() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket.Features)
	}
	return n
}

// MinTownPopulation is the population below which towns and villages are dropped.
const MinTownPopulation = 3000

func placePriority(place string) int {
	switch place {
	case "city":
		return 0
	case "town":
		return 1
	case "village":
		return 2
	default:
		return 3
	}
}

// Population returns the feature's population tag, accepting numbers and
// OSM-style strings such as "12 500" or "12,500".
func Population(f Feature) int {
	switch v := f.Properties["population"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		s := strings.NewReplacer(" ", "", ",", "", "_", "").Replace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return 0
}

// SelectCities keeps every city and towns or villages with at least
// MinTownPopulation inhabitants, ordered so the most important places claim
// label positions first.
func SelectCities(features []Feature) []Feature {
	var out []Feature
	for _, f := range features {
		place := placeOf(f)
		switch place {
		case "city":
			out = append(out, f)
		case "town", "village":
			if Population(f) >= MinTownPopulation {
				out = append(out, f)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi := placePriority(placeOf(out[i]))
		pj := placePriority(placeOf(out[j]))
		if pi != pj {
			return pi < pj
		}
		return Population(out[i]) > Population(out[j])
	})
	return out
}

// placeOf returns the OSM place class, defaulting to city when untagged.
func placeOf(f Feature) string {
	if s := stringProp(f.Properties, "place"); s != "" {
		return s
	}
	return "city"
}

// stringProp reads a string property; missing or non-string values yield "".
func stringProp(p geojson.Properties, key string) string {
	s, _ := p[key].(string)
	return s
}

// Name returns the display name of a feature, if any.
func Name(f Feature) string {
	for _, key := range []string{"name", "name:en", "ref"} {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
