// Package report serializes demand reports as CSV, JSON, or a terminal
// table.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"kwradar/pkg/demand"
	"kwradar/pkg/source"
)

// CSVHeaders is the exporter column order.
var CSVHeaders = []string{
	"rank",
	"keyword",
	"locale",
	"platform",
	"effective_platform",
	"app_scope",
	"estimated_demand_score",
	"confidence_score",
	"confidence_band",
	"apple_score",
	"google_score",
	"tracker_score",
	"competitor_score",
	"intent_score",
	"evidence_sources",
}

// WriteCSV writes the ranked records as CSV.
func WriteCSV(w io.Writer, rep *demand.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return err
	}
	for _, rec := range rep.Records {
		row := []string{
			strconv.Itoa(rec.Rank),
			rec.Keyword,
			rec.Locale,
			rec.Platform,
			string(rec.EffectivePlatform),
			string(rep.Scope),
			formatScore(rec.DemandScore),
			formatScore(rec.ConfidenceScore),
			string(rec.Band),
			componentCell(rec, source.SourceApple),
			componentCell(rec, source.SourceGoogle),
			componentCell(rec, source.SourceTracker),
			componentCell(rec, source.SourceCompetitor),
			componentCell(rec, source.SourceIntent),
			evidenceCell(rec),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the report to a CSV file.
func WriteCSVFile(path string, rep *demand.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteCSV(f, rep); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return f.Close()
}

// WriteJSON writes the run-level payload: resolved scope, effective
// weights, keyword count, and the ranked rows.
func WriteJSON(w io.Writer, rep *demand.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteJSONFile writes the JSON payload to a file.
func WriteJSONFile(path string, rep *demand.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json output %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJSON(f, rep); err != nil {
		return fmt.Errorf("write json output %s: %w", path, err)
	}
	return f.Close()
}

// WriteTable renders the top rows as an aligned terminal table.
func WriteTable(w io.Writer, rep *demand.Report, limit int) error {
	if limit <= 0 || limit > len(rep.Records) {
		limit = len(rep.Records)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKEYWORD\tDEMAND\tCONFIDENCE\tBAND\tSOURCES")
	for _, rec := range rep.Records[:limit] {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%s\t%s\n",
			rec.Rank, rec.Keyword, rec.DemandScore, rec.ConfidenceScore,
			rec.Band, evidenceCell(rec))
	}
	return tw.Flush()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func componentCell(rec demand.DemandRecord, name source.SourceType) string {
	v, ok := rec.Components[name]
	if !ok {
		return ""
	}
	return formatScore(v)
}

func evidenceCell(rec demand.DemandRecord) string {
	parts := make([]string, len(rec.Evidence))
	for i, s := range rec.Evidence {
		parts[i] = string(s)
	}
	return strings.Join(parts, "|")
}
