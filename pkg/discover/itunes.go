package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const itunesSearchURL = "https://itunes.apple.com/search"

// ITunesMiner discovers intent-oriented keyword candidates from iTunes
// Search API listing language for a set of seed phrases.
type ITunesMiner struct {
	client      *http.Client
	baseURL     string
	country     string
	limit       int
	minTokenLen int
}

// NewITunesMiner creates a miner for the given store country.
func NewITunesMiner(country string, limit, minTokenLen int) *ITunesMiner {
	if country == "" {
		country = "us"
	}
	if limit <= 0 {
		limit = 50
	}
	if minTokenLen <= 0 {
		minTokenLen = 3
	}
	return &ITunesMiner{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     itunesSearchURL,
		country:     country,
		limit:       limit,
		minTokenLen: minTokenLen,
	}
}

type itunesApp struct {
	TrackID          int64    `json:"trackId"`
	TrackName        string   `json:"trackName"`
	Description      string   `json:"description"`
	PrimaryGenreName string   `json:"primaryGenreName"`
	SellerName       string   `json:"sellerName"`
	Genres           []string `json:"genres"`
}

type itunesSearchResponse struct {
	Results []itunesApp `json:"results"`
}

// Mine fetches apps for every seed, tokenizes their listing text, and
// returns the top candidates ranked by frequency and cross-app coverage.
func (m *ITunesMiner) Mine(ctx context.Context, seeds []string, top int) ([]Candidate, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("at least one seed phrase is required")
	}

	stats := make(statsAccumulator)
	seenApps := make(map[int64]bool)
	totalApps := 0

	for _, seed := range seeds {
		apps, err := m.search(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("fetch itunes results for seed %q: %w", seed, err)
		}
		for _, app := range apps {
			if app.TrackID <= 0 || seenApps[app.TrackID] {
				continue
			}
			seenApps[app.TrackID] = true
			totalApps++
			stats.add(app.TrackName, Tokenize(app.listingText(), m.minTokenLen))
		}
	}

	if totalApps == 0 {
		return nil, fmt.Errorf("no apps returned from itunes search")
	}
	return stats.rank(top), nil
}

func (a itunesApp) listingText() string {
	parts := []string{a.TrackName, a.Description, a.PrimaryGenreName, a.SellerName}
	parts = append(parts, a.Genres...)
	text := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if text != "" {
			text += " "
		}
		text += p
	}
	return text
}

func (m *ITunesMiner) search(ctx context.Context, seed string) ([]itunesApp, error) {
	q := url.Values{}
	q.Set("term", seed)
	q.Set("entity", "software")
	q.Set("country", m.country)
	q.Set("limit", fmt.Sprintf("%d", m.limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create itunes request: %w", err)
	}
	req.Header.Set("User-Agent", "kwradar/1.0")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch itunes search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("itunes search status %d", resp.StatusCode)
	}

	var parsed itunesSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode itunes response: %w", err)
	}
	return parsed.Results, nil
}
