package chart

// tick is a mark at a cumulative value along the route.
type tick struct {
	leg   int     // index into the legs the ticks were computed over
	frac  float64 // position along that leg, 0..1
	value float64 // cumulative NM or minutes
}

// cumulativeTicks places a tick at every positive multiple of interval
// that falls within the running total of lengths. A multiple landing on a
// boundary belongs to the leg that ends there. Zero-length legs get none.
func cumulativeTicks(lengths []float64, interval float64) []tick {
	if !(interval > 0) {
		return nil
	}
	const eps = 1e-9

	var out []tick
	cum := 0.0
	k := 1
	for i, d := range lengths {
		if !(d > 0) {
			continue
		}
		end := cum + d
		for {
			v := float64(k) * interval
			if v > end+eps {
				break
			}
			frac := (v - cum) / d
			out = append(out, tick{leg: i, frac: min(max(frac, 0), 1), value: v})
			k++
		}
		cum = end
	}
	return out
}

// distanceTicks are cumulative across the main legs.
func distanceTicks(main []leg, interval float64) []tick {
	lengths := make([]float64, len(main))
	for i, l := range main {
		lengths[i] = l.distanceNM
	}
	return cumulativeTicks(lengths, interval)
}

// timeTicks are cumulative in minutes across the main legs. Legs without
// a ground speed contribute no time and carry no time ticks.
func timeTicks(main []leg, interval float64) []tick {
	minutes := make([]float64, len(main))
	for i, l := range main {
		minutes[i] = l.minutes()
	}
	return cumulativeTicks(minutes, interval)
}

// alternativeTicks restart at zero on every alternative leg.
func alternativeTicks(alts []leg, interval float64, value func(leg) float64) []tick {
	var out []tick
	for i, l := range alts {
		for _, t := range cumulativeTicks([]float64{value(l)}, interval) {
			t.leg = i
			out = append(out, t)
		}
	}
	return out
}
