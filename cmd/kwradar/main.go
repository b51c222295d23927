package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kwradar",
		Short: "Estimate relative ASO keyword demand from multi-source proxy metrics",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(estimateCmd())
	root.AddCommand(discoverCmd())
	root.AddCommand(chartsCmd())
	root.AddCommand(runsCmd())
	root.AddCommand(serveCmd())

	return root
}

func estimateCmd() *cobra.Command {
	var opts estimateOptions

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Fuse proxy metrics into ranked keyword demand scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts)
		},
	}

	cmd.Flags().StringVar(&opts.keywords, "keywords", "", "CSV with columns: keyword[,locale,platform] (required)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output CSV path (required)")
	cmd.Flags().StringVar(&opts.outputJSON, "json", "", "optional output JSON path")
	cmd.Flags().StringVar(&opts.appleProxy, "apple-proxy", "", "CSV with Apple proxy metrics")
	cmd.Flags().StringVar(&opts.googlePlanner, "google-planner", "", "CSV with Google Planner metrics")
	cmd.Flags().StringVar(&opts.tracker, "tracker", "", "CSV with third-party tracker metrics")
	cmd.Flags().StringVar(&opts.competitorTerms, "competitor-terms", "", "CSV with competitor term coverage")
	cmd.Flags().StringVar(&opts.intentSignals, "intent-signals", "", "CSV from keyword discovery")
	cmd.Flags().StringVar(&opts.scope, "app-scope", "", "app platform scope: auto, ios_only, android_only, dual (default: from config)")
	cmd.Flags().Float64Var(&opts.wApple, "w-apple", -1, "apple component weight (default: from config)")
	cmd.Flags().Float64Var(&opts.wGoogle, "w-google", -1, "google component weight (default: from config)")
	cmd.Flags().Float64Var(&opts.wTracker, "w-tracker", -1, "tracker component weight (default: from config)")
	cmd.Flags().Float64Var(&opts.wCompetitor, "w-competitor", -1, "competitor component weight (default: from config)")
	cmd.Flags().Float64Var(&opts.wIntent, "w-intent", -1, "intent component weight (default: from config)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the run to the history store")
	cmd.Flags().IntVar(&opts.table, "table", 0, "print the top N results as a table")

	cmd.MarkFlagRequired("keywords")
	cmd.MarkFlagRequired("output")
	return cmd
}

func discoverCmd() *cobra.Command {
	var opts discoverOptions

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Mine intent keyword candidates from iTunes Search listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiscover(opts)
		},
	}

	cmd.Flags().StringVar(&opts.seeds, "seeds", "", "comma-separated seed phrases (required)")
	cmd.Flags().StringVar(&opts.country, "country", "", "App Store country code (default: from config)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max results per seed (default: from config)")
	cmd.Flags().IntVar(&opts.minTokenLen, "min-token-len", 0, "minimum token length (default: from config)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "top candidate count (default: from config)")
	cmd.Flags().StringVar(&opts.output, "output", "", "optional output CSV path")

	cmd.MarkFlagRequired("seeds")
	return cmd
}

func chartsCmd() *cobra.Command {
	var opts chartsOptions

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Mine keyword candidates from App Store top-charts feeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharts(opts)
		},
	}

	cmd.Flags().StringVar(&opts.country, "country", "", "App Store country code (default: from config)")
	cmd.Flags().StringVar(&opts.chart, "chart", "", "chart feed name, e.g. topfreeapplications (default: from config)")
	cmd.Flags().IntVar(&opts.limit, "limit", 100, "chart entries to fetch")
	cmd.Flags().IntVar(&opts.top, "top", 0, "top candidate count (default: from config)")
	cmd.Flags().StringVar(&opts.output, "output", "", "optional output CSV path")

	return cmd
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved estimation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListRuns(limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to show")

	var (
		showLimit int
		showJSON  bool
	)
	show := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one saved run's ranked keywords",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowRun(args[0], showLimit, showJSON)
		},
	}
	show.Flags().IntVar(&showLimit, "limit", 0, "max records to show (0 = all)")
	show.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	cmd.AddCommand(show)

	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API over saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
