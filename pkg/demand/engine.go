package demand

import (
	"errors"
	"sort"

	"kwradar/pkg/source"
)

// ErrNoPositiveWeight is returned when, after scope exclusions, no
// component weight is positive. It is a configuration error and aborts the
// run before any row is processed.
var ErrNoPositiveWeight = errors.New("at least one component weight must be positive for the resolved scope")

// ErrNoKeywords is returned when the keyword table holds no usable rows.
var ErrNoKeywords = errors.New("no valid keyword rows")

// Sources holds the loaded per-source indexes. A nil index means the source
// table was not supplied for this run.
type Sources struct {
	Apple      source.Index[source.AppleMetrics]
	Google     source.Index[source.GoogleMetrics]
	Tracker    source.Index[source.TrackerMetrics]
	Competitor source.Index[source.CompetitorMetrics]
	Intent     source.Index[source.IntentMetrics]
}

// Presence reports which source tables were supplied.
func (s Sources) Presence() SourcePresence {
	return SourcePresence{
		Apple:      s.Apple != nil,
		Google:     s.Google != nil,
		Tracker:    s.Tracker != nil,
		Competitor: s.Competitor != nil,
		Intent:     s.Intent != nil,
	}
}

// DemandRecord is one ranked output row.
type DemandRecord struct {
	Rank              int                           `json:"rank"`
	Keyword           string                        `json:"keyword"`
	Locale            string                        `json:"locale"`
	Platform          string                        `json:"platform"`
	EffectivePlatform source.Platform               `json:"effective_platform"`
	DemandScore       float64                       `json:"estimated_demand_score"`
	ConfidenceScore   float64                       `json:"confidence_score"`
	Band              ConfidenceBand                `json:"confidence_band"`
	Components        map[source.SourceType]float64 `json:"component_scores"`
	Evidence          []source.SourceType           `json:"evidence_sources"`
}

// Report is the run-level result: the resolved scope, the effective weight
// map, and the ranked records.
type Report struct {
	Scope         Scope                         `json:"app_scope"`
	Weights       map[source.SourceType]float64 `json:"weights"`
	TotalKeywords int                           `json:"total_keywords"`
	Records       []DemandRecord                `json:"rows"`
}

// Engine estimates relative keyword demand for a batch of keyword requests.
// It is a pure function of its inputs: no I/O, no retries, no state kept
// across invocations.
type Engine struct {
	weights   Weights
	requested Scope
}

// NewEngine creates an engine with the given weights and requested scope.
func NewEngine(w Weights, requested Scope) *Engine {
	return &Engine{weights: w, requested: requested}
}

// matched keeps the best record per source for one keyword row.
type matched struct {
	req       source.KeywordRequest
	effective source.Platform

	apple      *source.Record[source.AppleMetrics]
	google     *source.Record[source.GoogleMetrics]
	tracker    *source.Record[source.TrackerMetrics]
	competitor *source.Record[source.CompetitorMetrics]
	intent     *source.Record[source.IntentMetrics]
}

// rawColumns are the whole-batch metric columns. Percentile normalization
// needs the full column, so these are extracted before any per-row fusion.
type rawColumns struct {
	applePopularity, appleRank, appleTTR  []*float64
	googleSearches, googleComp, googleBid []*float64
	trackerVolume, trackerInstalls        []*float64
	compCoverage, compDocFreq             []*float64
	intentScore, intentAppCoverage        []*float64
}

// Estimate runs the full pipeline: match, normalize, fuse, rank.
func (e *Engine) Estimate(reqs []source.KeywordRequest, srcs Sources) (*Report, error) {
	var rows []source.KeywordRequest
	for _, r := range reqs {
		if r.Normalized() != "" {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, ErrNoKeywords
	}

	scope := ResolveScope(e.requested, rows, srcs.Presence())
	policy := Policy{Scope: scope}
	weights := e.weights.ForScope(scope)

	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return nil, ErrNoPositiveWeight
	}

	ms := make([]matched, len(rows))
	for i, req := range rows {
		k := req.Normalized()
		locale := source.NormalizeLocale(req.Locale)
		eff := policy.EffectivePlatform(req.Platform)
		ms[i] = matched{
			req:        req,
			effective:  eff,
			apple:      srcs.Apple.Best(k, locale, eff),
			google:     srcs.Google.Best(k, locale, eff),
			tracker:    srcs.Tracker.Best(k, locale, eff),
			competitor: srcs.Competitor.Best(k, locale, eff),
			intent:     srcs.Intent.Best(k, locale, eff),
		}
	}

	norm := normalizeBatch(extractColumns(ms))

	records := make([]DemandRecord, len(ms))
	for i, m := range ms {
		components := map[source.SourceType]*float64{
			source.SourceApple:      mean(norm.applePopularity[i], norm.appleRank[i], norm.appleTTR[i]),
			source.SourceGoogle:     mean(norm.googleSearches[i], norm.googleComp[i], norm.googleBid[i]),
			source.SourceTracker:    mean(norm.trackerVolume[i], norm.trackerInstalls[i]),
			source.SourceCompetitor: mean(norm.compCoverage[i], norm.compDocFreq[i]),
			source.SourceIntent:     mean(norm.intentScore[i], norm.intentAppCoverage[i]),
		}

		fusion := Fuse(components, weights, policy.RowComponents(m.effective))

		shown := make(map[source.SourceType]float64, len(fusion.Evidence))
		for _, name := range fusion.Evidence {
			shown[name] = *components[name]
		}

		records[i] = DemandRecord{
			Keyword:           m.req.Keyword,
			Locale:            m.req.RawLocale,
			Platform:          m.req.RawPlatform,
			EffectivePlatform: m.effective,
			DemandScore:       fusion.DemandScore,
			ConfidenceScore:   fusion.ConfidenceScore,
			Band:              fusion.Band,
			Components:        shown,
			Evidence:          fusion.Evidence,
		}
	}

	// Rank by demand, confidence breaking ties; equal rows keep input order.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DemandScore != records[j].DemandScore {
			return records[i].DemandScore > records[j].DemandScore
		}
		return records[i].ConfidenceScore > records[j].ConfidenceScore
	})
	for i := range records {
		records[i].Rank = i + 1
	}

	return &Report{
		Scope:         scope,
		Weights:       weights,
		TotalKeywords: len(records),
		Records:       records,
	}, nil
}

func extractColumns(ms []matched) rawColumns {
	n := len(ms)
	c := rawColumns{
		applePopularity: make([]*float64, n), appleRank: make([]*float64, n), appleTTR: make([]*float64, n),
		googleSearches: make([]*float64, n), googleComp: make([]*float64, n), googleBid: make([]*float64, n),
		trackerVolume: make([]*float64, n), trackerInstalls: make([]*float64, n),
		compCoverage: make([]*float64, n), compDocFreq: make([]*float64, n),
		intentScore: make([]*float64, n), intentAppCoverage: make([]*float64, n),
	}
	for i, m := range ms {
		if m.apple != nil {
			c.applePopularity[i] = m.apple.Metrics.Popularity
			c.appleRank[i] = m.apple.Metrics.Rank
			c.appleTTR[i] = m.apple.Metrics.TapThrough
		}
		if m.google != nil {
			c.googleSearches[i] = m.google.Metrics.MonthlySearches
			c.googleComp[i] = m.google.Metrics.Competition
			c.googleBid[i] = m.google.Metrics.Bid()
		}
		if m.tracker != nil {
			c.trackerVolume[i] = m.tracker.Metrics.Volume
			c.trackerInstalls[i] = m.tracker.Metrics.Installs
		}
		if m.competitor != nil {
			c.compCoverage[i] = m.competitor.Metrics.Coverage
			c.compDocFreq[i] = m.competitor.Metrics.DocFrequency
		}
		if m.intent != nil {
			c.intentScore[i] = m.intent.Metrics.Score
			c.intentAppCoverage[i] = m.intent.Metrics.AppCoverage
		}
	}
	return c
}

// normalizeBatch applies each metric's normalization strategy across the
// whole batch.
func normalizeBatch(c rawColumns) rawColumns {
	return rawColumns{
		applePopularity: ClampColumn(c.applePopularity),
		appleRank:       PercentileScale(c.appleRank, ScaleOptions{Reverse: true}),
		appleTTR:        RatioColumn(c.appleTTR),

		googleSearches: PercentileScale(c.googleSearches, ScaleOptions{Log: true}),
		googleComp:     ClampColumn(c.googleComp),
		googleBid:      PercentileScale(c.googleBid, ScaleOptions{Log: true}),

		trackerVolume:   ClampColumn(c.trackerVolume),
		trackerInstalls: PercentileScale(c.trackerInstalls, ScaleOptions{Log: true}),

		compCoverage: RatioColumn(c.compCoverage),
		compDocFreq:  PercentileScale(c.compDocFreq, ScaleOptions{Log: true}),

		intentScore:       PercentileScale(c.intentScore, ScaleOptions{Log: true}),
		intentAppCoverage: PercentileScale(c.intentAppCoverage, ScaleOptions{}),
	}
}

// mean averages the present values, absent when none are present.
func mean(vals ...*float64) *float64 {
	sum, n := 0.0, 0
	for _, v := range vals {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}
