package discover

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// ChartsMiner mines keyword candidates from the App Store top-charts RSS
// feeds: the names of charting apps are a cheap competitor corpus for a
// country and category.
type ChartsMiner struct {
	client      *http.Client
	parser      *gofeed.Parser
	feedURL     string
	minTokenLen int
}

// ChartFeedURL builds the legacy iTunes top-charts feed URL.
func ChartFeedURL(country, chart string, limit int) string {
	if country == "" {
		country = "us"
	}
	if chart == "" {
		chart = "topfreeapplications"
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	return fmt.Sprintf("https://itunes.apple.com/%s/rss/%s/limit=%d/xml", country, chart, limit)
}

// NewChartsMiner creates a miner reading the given feed URL.
func NewChartsMiner(feedURL string, minTokenLen int) *ChartsMiner {
	if minTokenLen <= 0 {
		minTokenLen = 3
	}
	return &ChartsMiner{
		client:      &http.Client{Timeout: 30 * time.Second},
		parser:      gofeed.NewParser(),
		feedURL:     feedURL,
		minTokenLen: minTokenLen,
	}
}

// Mine fetches the chart feed and ranks candidate tokens mined from the
// charting apps' titles and summaries.
func (m *ChartsMiner) Mine(ctx context.Context, top int) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create charts request: %w", err)
	}
	req.Header.Set("User-Agent", "kwradar/1.0")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch charts feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("charts feed status %d", resp.StatusCode)
	}

	parsed, err := m.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse charts feed: %w", err)
	}

	stats := make(statsAccumulator)
	apps := 0
	for _, entry := range parsed.Items {
		if entry.Title == "" {
			continue
		}
		apps++
		stats.add(entry.Title, Tokenize(entry.Title+" "+entry.Description, m.minTokenLen))
	}
	if apps == 0 {
		return nil, fmt.Errorf("charts feed %s returned no entries", m.feedURL)
	}
	return stats.rank(top), nil
}
