// Package discover mines keyword candidates from App Store listing
// language. Its output CSVs feed the demand engine as the intent-signal
// source; the engine itself never fetches anything.
package discover

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// stopwords are listing-language tokens that carry no search intent.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"your": true, "you": true, "that": true, "this": true, "into": true,
	"are": true, "our": true, "app": true, "best": true, "free": true,
	"new": true, "all": true, "more": true, "than": true, "can": true,
	"will": true, "use": true, "using": true, "not": true, "get": true,
	"now": true, "in": true, "on": true, "to": true, "a": true, "an": true,
	"of": true, "it": true, "is": true, "as": true, "by": true, "or": true,
	"at": true, "be": true, "we": true, "us": true, "its": true,
}

var tokenRe = regexp.MustCompile(`[a-z0-9][a-z0-9+-]{1,}`)

// Tokenize extracts candidate tokens from listing text: lowercase,
// stopwords dropped, shorter tokens than minLen dropped.
func Tokenize(text string, minLen int) []string {
	var tokens []string
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < minLen || stopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Candidate is one mined keyword candidate.
type Candidate struct {
	Rank        int
	Keyword     string
	Score       float64
	Frequency   int
	AppCoverage int
	SampleApps  []string
}

// tokenStats accumulates per-token counts across mined apps.
type tokenStats struct {
	frequency int
	apps      map[string]bool // app name -> seen
	appOrder  []string
}

type statsAccumulator map[string]*tokenStats

func (a statsAccumulator) add(appName string, tokens []string) {
	for _, tok := range tokens {
		st := a[tok]
		if st == nil {
			st = &tokenStats{apps: make(map[string]bool)}
			a[tok] = st
		}
		st.frequency++
		if !st.apps[appName] {
			st.apps[appName] = true
			st.appOrder = append(st.appOrder, appName)
		}
	}
}

// rank scores the accumulated tokens and returns the top candidates.
// The score favors tokens that repeat often but also appear across several
// distinct apps; single-app tokens are discarded as listing noise.
func (a statsAccumulator) rank(top int) []Candidate {
	var out []Candidate
	for tok, st := range a {
		coverage := len(st.apps)
		if coverage < 2 {
			continue
		}
		out = append(out, Candidate{
			Keyword:     tok,
			Score:       float64(st.frequency) * math.Log1p(float64(coverage)),
			Frequency:   st.frequency,
			AppCoverage: coverage,
			SampleApps:  st.appOrder[:min(5, len(st.appOrder))],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Keyword < out[j].Keyword
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// WriteCandidatesCSV writes mined candidates in the intent-source layout
// the demand engine consumes.
func WriteCandidatesCSV(path string, candidates []Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create candidates output %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"rank", "keyword", "score", "frequency", "app_coverage", "sample_app_names"}); err != nil {
		return err
	}
	for _, c := range candidates {
		row := []string{
			strconv.Itoa(c.Rank),
			c.Keyword,
			strconv.FormatFloat(c.Score, 'f', 3, 64),
			strconv.Itoa(c.Frequency),
			strconv.Itoa(c.AppCoverage),
			strings.Join(c.SampleApps, " | "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write candidates output %s: %w", path, err)
	}
	return f.Close()
}
