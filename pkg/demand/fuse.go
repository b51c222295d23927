package demand

import (
	"sort"

	"kwradar/pkg/source"
)

// ConfidenceBand buckets a confidence score for reporting.
type ConfidenceBand string

const (
	BandLow    ConfidenceBand = "low"
	BandMedium ConfidenceBand = "medium"
	BandHigh   ConfidenceBand = "high"
)

// Confidence constants. The coverage/density split and the band cut points
// are fixed heuristics kept for behavioral compatibility with earlier runs;
// treat them as tunable, not derived.
const (
	coverageShare = 0.7
	densityShare  = 0.3

	bandHighMin   = 75.0
	bandMediumMin = 45.0
)

// BandFor maps a confidence score to its band.
func BandFor(score float64) ConfidenceBand {
	switch {
	case score >= bandHighMin:
		return BandHigh
	case score >= bandMediumMin:
		return BandMedium
	}
	return BandLow
}

// Fusion is the per-row result of combining component scores.
type Fusion struct {
	DemandScore     float64
	ConfidenceScore float64
	Band            ConfidenceBand
	// Evidence lists the sources that actually contributed, sorted by name.
	Evidence []source.SourceType
}

// Fuse combines the available component scores for one row. Weights are
// renormalized over the sources that actually had data, so a keyword
// missing an optional source is not penalized on the demand axis itself;
// the gap shows up in confidence instead. A row with no eligible weighted
// component, or none with data, fuses to (0, 0, low, nil) — a valid
// outcome, not an error.
func Fuse(components map[source.SourceType]*float64, weights map[source.SourceType]float64, allowed map[source.SourceType]bool) Fusion {
	targetWeight := 0.0
	targetCount := 0
	for name, ok := range allowed {
		if ok && weights[name] > 0 {
			targetWeight += weights[name]
			targetCount++
		}
	}

	availWeight := 0.0
	var available []source.SourceType
	for name, ok := range allowed {
		if !ok || weights[name] <= 0 {
			continue
		}
		if v := components[name]; v != nil {
			availWeight += weights[name]
			available = append(available, name)
		}
	}

	if targetWeight <= 0 || len(available) == 0 {
		return Fusion{Band: BandLow}
	}

	demand := 0.0
	for _, name := range available {
		demand += weights[name] / availWeight * *components[name]
	}

	coverage := availWeight / targetWeight
	density := float64(len(available)) / float64(targetCount)
	confidence := (coverage*coverageShare + density*densityShare) * 100

	sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })

	return Fusion{
		DemandScore:     demand,
		ConfidenceScore: confidence,
		Band:            BandFor(confidence),
		Evidence:        available,
	}
}
