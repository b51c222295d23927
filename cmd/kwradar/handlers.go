package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"kwradar/internal/config"
	"kwradar/internal/store"
	"kwradar/internal/tabular"
	"kwradar/pkg/demand"
	"kwradar/pkg/discover"
	"kwradar/pkg/report"
	"kwradar/pkg/server"
	"kwradar/pkg/source"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

type estimateOptions struct {
	keywords   string
	output     string
	outputJSON string

	appleProxy      string
	googlePlanner   string
	tracker         string
	competitorTerms string
	intentSignals   string

	scope       string
	wApple      float64
	wGoogle     float64
	wTracker    float64
	wCompetitor float64
	wIntent     float64

	save  bool
	table int
}

func runEstimate(opts estimateOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	scopeStr := cfg.Estimate.Scope
	if opts.scope != "" {
		scopeStr = opts.scope
	}
	scope, err := demand.ParseScope(scopeStr)
	if err != nil {
		return err
	}

	weights := cfg.Estimate.Weights
	if opts.wApple >= 0 {
		weights.Apple = opts.wApple
	}
	if opts.wGoogle >= 0 {
		weights.Google = opts.wGoogle
	}
	if opts.wTracker >= 0 {
		weights.Tracker = opts.wTracker
	}
	if opts.wCompetitor >= 0 {
		weights.Competitor = opts.wCompetitor
	}
	if opts.wIntent >= 0 {
		weights.Intent = opts.wIntent
	}

	reqs, err := loadKeywordRequests(opts.keywords)
	if err != nil {
		return err
	}

	srcs, err := loadSources(opts)
	if err != nil {
		return err
	}

	engine := demand.NewEngine(weights, scope)
	rep, err := engine.Estimate(reqs, srcs)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "resolved app scope: %s\n", rep.Scope)

	if err := report.WriteCSVFile(opts.output, rep); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote demand estimates: %s\n", opts.output)

	if opts.outputJSON != "" {
		if err := report.WriteJSONFile(opts.outputJSON, rep); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote JSON report: %s\n", opts.outputJSON)
	}

	if opts.table > 0 {
		if err := report.WriteTable(os.Stdout, rep, opts.table); err != nil {
			return err
		}
	}

	if opts.save {
		db, err := store.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer db.Close()

		id, err := db.SaveRun(context.Background(), rep)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved run %s (%d keywords)\n", id, rep.TotalKeywords)
	}

	return nil
}

// loadKeywordRequests reads the required keyword table. A missing keyword
// column is a configuration error, distinct from keywords that simply match
// no source.
func loadKeywordRequests(path string) ([]source.KeywordRequest, error) {
	t, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keywords csv: %w", err)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("keywords csv %s is empty", path)
	}
	if !t.HasColumn("keyword") {
		return nil, fmt.Errorf("keywords csv %s must include a 'keyword' column", path)
	}

	var reqs []source.KeywordRequest
	for _, row := range t.Rows {
		reqs = append(reqs, source.KeywordRequest{
			Keyword:     strings.TrimSpace(row["keyword"]),
			Locale:      row["locale"],
			Platform:    source.ParsePlatform(row["platform"]),
			RawLocale:   row["locale"],
			RawPlatform: row["platform"],
		})
	}
	return reqs, nil
}

func loadSources(opts estimateOptions) (demand.Sources, error) {
	var srcs demand.Sources

	if opts.appleProxy != "" {
		t, err := tabular.ReadFile(opts.appleProxy)
		if err != nil {
			return srcs, err
		}
		srcs.Apple = source.LoadApple(t)
	}
	if opts.googlePlanner != "" {
		t, err := tabular.ReadFile(opts.googlePlanner)
		if err != nil {
			return srcs, err
		}
		srcs.Google = source.LoadGoogle(t)
	}
	if opts.tracker != "" {
		t, err := tabular.ReadFile(opts.tracker)
		if err != nil {
			return srcs, err
		}
		srcs.Tracker = source.LoadTracker(t)
	}
	if opts.competitorTerms != "" {
		t, err := tabular.ReadFile(opts.competitorTerms)
		if err != nil {
			return srcs, err
		}
		srcs.Competitor = source.LoadCompetitor(t)
	}
	if opts.intentSignals != "" {
		t, err := tabular.ReadFile(opts.intentSignals)
		if err != nil {
			return srcs, err
		}
		srcs.Intent = source.LoadIntent(t)
	}
	return srcs, nil
}

type discoverOptions struct {
	seeds       string
	country     string
	limit       int
	minTokenLen int
	top         int
	output      string
}

func runDiscover(opts discoverOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var seeds []string
	for _, s := range strings.Split(opts.seeds, ",") {
		if s = strings.TrimSpace(s); s != "" {
			seeds = append(seeds, s)
		}
	}
	if len(seeds) == 0 {
		return fmt.Errorf("at least one seed phrase is required")
	}

	country := cfg.Discovery.Country
	if opts.country != "" {
		country = opts.country
	}
	limit := cfg.Discovery.Limit
	if opts.limit > 0 {
		limit = opts.limit
	}
	minTokenLen := cfg.Discovery.MinTokenLen
	if opts.minTokenLen > 0 {
		minTokenLen = opts.minTokenLen
	}
	top := cfg.Discovery.Top
	if opts.top > 0 {
		top = opts.top
	}

	miner := discover.NewITunesMiner(country, limit, minTokenLen)
	candidates, err := miner.Mine(context.Background(), seeds, top)
	if err != nil {
		return err
	}

	return emitCandidates(candidates, opts.output)
}

type chartsOptions struct {
	country string
	chart   string
	limit   int
	top     int
	output  string
}

func runCharts(opts chartsOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	country := cfg.Discovery.Country
	if opts.country != "" {
		country = opts.country
	}
	chart := cfg.Discovery.Chart
	if opts.chart != "" {
		chart = opts.chart
	}
	top := cfg.Discovery.Top
	if opts.top > 0 {
		top = opts.top
	}

	feedURL := discover.ChartFeedURL(country, chart, opts.limit)
	fmt.Fprintf(os.Stderr, "fetching %s...\n", feedURL)

	miner := discover.NewChartsMiner(feedURL, cfg.Discovery.MinTokenLen)
	candidates, err := miner.Mine(context.Background(), top)
	if err != nil {
		return err
	}

	return emitCandidates(candidates, opts.output)
}

func emitCandidates(candidates []discover.Candidate, output string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKEYWORD\tSCORE\tFREQ\tAPPS")
	for _, c := range candidates {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%d\t%d\n", c.Rank, c.Keyword, c.Score, c.Frequency, c.AppCoverage)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if output != "" {
		if err := discover.WriteCandidatesCSV(output, candidates); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote candidates: %s\n", output)
	}
	return nil
}

func runListRuns(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no saved runs (estimate with --save to record one)")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSCOPE\tKEYWORDS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Scope, r.TotalKeywords)
	}
	return tw.Flush()
}

func runShowRun(id string, limit int, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	run, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}
	records, err := db.ListRecords(ctx, id, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"run": run, "records": records})
	}

	fmt.Printf("run %s  scope=%s  keywords=%d  created=%s\n\n",
		run.ID, run.Scope, run.TotalKeywords, run.CreatedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKEYWORD\tDEMAND\tCONFIDENCE\tBAND\tSOURCES")
	for _, rec := range records {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%s\t%s\n",
			rec.Rank, rec.Keyword, rec.DemandScore, rec.ConfidenceScore,
			rec.ConfidenceBand, strings.Join(rec.Evidence, "|"))
	}
	return tw.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	srv := server.New(db, port)
	return srv.ListenAndServe()
}
