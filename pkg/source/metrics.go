package source

import (
	"kwradar/internal/tabular"
)

// Per-source raw metrics. Fields are optional; an absent field means the
// export carried no value for it. Keeping these as named structs instead of
// stringly-keyed maps gives compile-time coverage of which metrics each
// source can contribute.

// AppleMetrics are Apple search-console proxy metrics.
type AppleMetrics struct {
	Popularity *float64 // already 0-100
	Rank       *float64 // search result rank, lower is better
	TapThrough *float64 // tap-through rate, 0-1 ratio or percent
}

// GoogleMetrics are Keyword Planner export metrics.
type GoogleMetrics struct {
	MonthlySearches *float64
	Competition     *float64 // pre-mapped to 0-100 by tabular.ParseCompetition
	BidLow          *float64
	BidHigh         *float64
}

// Bid is the mean of the available top-of-page bid bounds.
func (g GoogleMetrics) Bid() *float64 {
	switch {
	case g.BidLow != nil && g.BidHigh != nil:
		v := (*g.BidLow + *g.BidHigh) / 2
		return &v
	case g.BidLow != nil:
		v := *g.BidLow
		return &v
	case g.BidHigh != nil:
		v := *g.BidHigh
		return &v
	}
	return nil
}

// TrackerMetrics are third-party tracker metrics.
type TrackerMetrics struct {
	Volume   *float64 // tracker volume index, already 0-100
	Installs *float64
}

// CompetitorMetrics describe competitor corpus coverage of a term.
type CompetitorMetrics struct {
	Coverage     *float64 // 0-1 ratio or percent
	DocFrequency *float64
}

// IntentMetrics come from the intent-signal miner output.
type IntentMetrics struct {
	Score       *float64
	AppCoverage *float64
}

// Record is one source row: locale/platform matching hints plus the typed
// metrics for that source.
type Record[M any] struct {
	Locale   string
	Platform Platform
	Metrics  M
}

// Index maps a normalized keyword to the records sharing it, in file order.
type Index[M any] map[string][]Record[M]

func buildIndex[M any](t *tabular.Table, extract func(tabular.Row) M) Index[M] {
	idx := make(Index[M])
	if t == nil {
		return idx
	}
	for _, row := range t.Rows {
		k := NormalizeKeyword(row.First("keyword", "term"))
		if k == "" {
			continue
		}
		idx[k] = append(idx[k], Record[M]{
			Locale:   NormalizeLocale(row["locale"]),
			Platform: ParsePlatform(row["platform"]),
			Metrics:  extract(row),
		})
	}
	return idx
}

// LoadApple indexes an Apple proxy export. Column aliases follow the
// exports seen in the wild.
func LoadApple(t *tabular.Table) Index[AppleMetrics] {
	return buildIndex(t, func(r tabular.Row) AppleMetrics {
		return AppleMetrics{
			Popularity: r.Float("apple_popularity", "popularity", "search_popularity"),
			Rank:       r.Float("apple_rank", "rank"),
			TapThrough: r.Float("apple_ttr", "ttr", "tap_through_rate"),
		}
	})
}

// LoadGoogle indexes a Keyword Planner export.
func LoadGoogle(t *tabular.Table) Index[GoogleMetrics] {
	return buildIndex(t, func(r tabular.Row) GoogleMetrics {
		return GoogleMetrics{
			MonthlySearches: r.Float("avg_monthly_searches", "google_searches", "monthly_searches"),
			Competition:     tabular.ParseCompetition(r.First("competition_index", "competition")),
			BidLow:          r.Float("top_of_page_bid_low", "bid_low"),
			BidHigh:         r.Float("top_of_page_bid_high", "bid_high"),
		}
	})
}

// LoadTracker indexes a third-party tracker export.
func LoadTracker(t *tabular.Table) Index[TrackerMetrics] {
	return buildIndex(t, func(r tabular.Row) TrackerMetrics {
		return TrackerMetrics{
			Volume:   r.Float("tracker_volume", "apptweak_volume", "volume"),
			Installs: r.Float("tracker_installs", "apptweak_installs", "installs"),
		}
	})
}

// LoadCompetitor indexes a competitor term-coverage export.
func LoadCompetitor(t *tabular.Table) Index[CompetitorMetrics] {
	return buildIndex(t, func(r tabular.Row) CompetitorMetrics {
		return CompetitorMetrics{
			Coverage:     r.Float("coverage_ratio", "competitor_coverage", "coverage"),
			DocFrequency: r.Float("document_frequency", "doc_freq", "frequency"),
		}
	})
}

// LoadIntent indexes an intent-signal miner output.
func LoadIntent(t *tabular.Table) Index[IntentMetrics] {
	return buildIndex(t, func(r tabular.Row) IntentMetrics {
		return IntentMetrics{
			Score:       r.Float("score", "intent_score", "itunes_score"),
			AppCoverage: r.Float("app_coverage", "intent_app_coverage", "itunes_app_coverage"),
		}
	})
}
