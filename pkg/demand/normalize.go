// Package demand fuses per-source proxy metrics into one comparable 0-100
// demand score per keyword, with a confidence estimate of how much real
// evidence backed it.
package demand

import "math"

// Clamp bounds a value to [0,100].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ClampColumn clamps every present value in a column to [0,100],
// preserving absence.
func ClampColumn(col []*float64) []*float64 {
	out := make([]*float64, len(col))
	for i, v := range col {
		if v == nil {
			continue
		}
		c := Clamp(*v)
		out[i] = &c
	}
	return out
}

// RatioColumn normalizes values that may be expressed either as a 0-1 ratio
// or as a percentage: values at most 1 are scaled by 100, larger values are
// clamped directly.
func RatioColumn(col []*float64) []*float64 {
	out := make([]*float64, len(col))
	for i, v := range col {
		if v == nil {
			continue
		}
		c := Clamp(*v)
		if *v <= 1 {
			c = Clamp(*v * 100)
		}
		out[i] = &c
	}
	return out
}

// ScaleOptions select the percentile scaling variant.
type ScaleOptions struct {
	// Log compresses heavy-tailed count metrics with log1p (values floored
	// at 0) before min-max scaling, so a few outliers don't flatten the
	// rest of the batch.
	Log bool
	// Reverse negates before scaling, for metrics where lower raw values
	// are better (search result rank).
	Reverse bool
}

// PercentileScale min-max scales the present values of a column onto
// [0,100]. Absent values stay absent. A degenerate column whose present
// values are all equal maps every present value to 50: with no spread there
// is no discriminating signal, and the midpoint keeps the metric from
// either inflating or sinking the fused score.
func PercentileScale(col []*float64, opts ScaleOptions) []*float64 {
	out := make([]*float64, len(col))

	transformed := make([]float64, len(col))
	lo, hi := math.Inf(1), math.Inf(-1)
	present := 0
	for i, v := range col {
		if v == nil {
			continue
		}
		t := *v
		if opts.Log {
			t = math.Log1p(math.Max(0, t))
		}
		if opts.Reverse {
			t = -t
		}
		transformed[i] = t
		lo = math.Min(lo, t)
		hi = math.Max(hi, t)
		present++
	}
	if present == 0 {
		return out
	}

	for i, v := range col {
		if v == nil {
			continue
		}
		s := 50.0
		if hi > lo {
			s = (transformed[i] - lo) / (hi - lo) * 100
		}
		out[i] = &s
	}
	return out
}
