package source

import "testing"

func fp(v float64) *float64 { return &v }

func TestBestPrefersExactLocale(t *testing.T) {
	idx := Index[TrackerMetrics]{
		"habit tracker": {
			{Locale: "de-de", Platform: PlatformIOS, Metrics: TrackerMetrics{Volume: fp(10)}},
			{Locale: "en-us", Platform: PlatformIOS, Metrics: TrackerMetrics{Volume: fp(20)}},
		},
	}
	rec := idx.Best("habit tracker", "en-us", PlatformIOS)
	if rec == nil || *rec.Metrics.Volume != 20 {
		t.Fatalf("expected en-us record, got %+v", rec)
	}
}

func TestBestLocaleAgnosticBeatsWrongLocale(t *testing.T) {
	idx := Index[TrackerMetrics]{
		"habit tracker": {
			{Locale: "de-de", Metrics: TrackerMetrics{Volume: fp(10)}},
			{Locale: "", Metrics: TrackerMetrics{Volume: fp(20)}},
		},
	}
	rec := idx.Best("habit tracker", "en-us", PlatformUnspecified)
	if rec == nil || *rec.Metrics.Volume != 20 {
		t.Fatalf("expected locale-agnostic record, got %+v", rec)
	}
}

func TestBestPlatformMatchOutweighsAgnostic(t *testing.T) {
	idx := Index[AppleMetrics]{
		"yoga": {
			{Platform: PlatformUnspecified, Metrics: AppleMetrics{Popularity: fp(1)}},
			{Platform: PlatformIOS, Metrics: AppleMetrics{Popularity: fp(2)}},
		},
	}
	rec := idx.Best("yoga", "", PlatformIOS)
	if rec == nil || *rec.Metrics.Popularity != 2 {
		t.Fatalf("expected ios record, got %+v", rec)
	}
}

func TestBestTieKeepsFileOrder(t *testing.T) {
	idx := Index[TrackerMetrics]{
		"yoga": {
			{Locale: "en-us", Metrics: TrackerMetrics{Volume: fp(1)}},
			{Locale: "en-us", Metrics: TrackerMetrics{Volume: fp(2)}},
		},
	}
	rec := idx.Best("yoga", "en-us", PlatformUnspecified)
	if rec == nil || *rec.Metrics.Volume != 1 {
		t.Fatalf("expected first-seen record on tie, got %+v", rec)
	}
}

func TestBestNoRecords(t *testing.T) {
	var idx Index[TrackerMetrics]
	if rec := idx.Best("missing", "en-us", PlatformIOS); rec != nil {
		t.Fatalf("expected nil for unknown keyword, got %+v", rec)
	}
}
