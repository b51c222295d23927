// Package store persists demand estimation runs so past rankings can be
// listed, inspected, and served over the HTTP API.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"kwradar/pkg/demand"
)

// Run is the stored header of one estimation run.
type Run struct {
	ID            string             `db:"id" json:"id"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	Scope         string             `db:"app_scope" json:"app_scope"`
	WeightsJSON   string             `db:"weights" json:"-"`
	Weights       map[string]float64 `db:"-" json:"weights"`
	TotalKeywords int                `db:"total_keywords" json:"total_keywords"`
}

// RecordRow is one stored ranked keyword row.
type RecordRow struct {
	ID                int64              `db:"id" json:"-"`
	RunID             string             `db:"run_id" json:"-"`
	Rank              int                `db:"rank" json:"rank"`
	Keyword           string             `db:"keyword" json:"keyword"`
	Locale            string             `db:"locale" json:"locale"`
	Platform          string             `db:"platform" json:"platform"`
	EffectivePlatform string             `db:"effective_platform" json:"effective_platform"`
	DemandScore       float64            `db:"demand_score" json:"estimated_demand_score"`
	ConfidenceScore   float64            `db:"confidence_score" json:"confidence_score"`
	ConfidenceBand    string             `db:"confidence_band" json:"confidence_band"`
	ComponentsJSON    string             `db:"components" json:"-"`
	Components        map[string]float64 `db:"-" json:"component_scores"`
	EvidenceJSON      string             `db:"evidence" json:"-"`
	Evidence          []string           `db:"-" json:"evidence_sources"`
}

// Store is the persistence interface.
type Store interface {
	SaveRun(ctx context.Context, rep *demand.Report) (string, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRecords(ctx context.Context, runID string, limit int) ([]RecordRow, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and its ranked records, returning the run ID.
func (s *SQLiteStore) SaveRun(ctx context.Context, rep *demand.Report) (string, error) {
	id := uuid.New().String()
	weightsJSON, _ := json.Marshal(rep.Weights)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, app_scope, weights, total_keywords)
		VALUES (?, ?, ?, ?, ?)
	`, id, time.Now().UTC(), string(rep.Scope), string(weightsJSON), rep.TotalKeywords)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range rep.Records {
		componentsJSON, _ := json.Marshal(rec.Components)
		evidenceJSON, _ := json.Marshal(rec.Evidence)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO demand_records
				(run_id, rank, keyword, locale, platform, effective_platform,
				 demand_score, confidence_score, confidence_band, components, evidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, rec.Rank, rec.Keyword, rec.Locale, rec.Platform, string(rec.EffectivePlatform),
			rec.DemandScore, rec.ConfidenceScore, string(rec.Band),
			string(componentsJSON), string(evidenceJSON))
		if err != nil {
			return "", fmt.Errorf("insert demand record %q: %w", rec.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []Run
	err := s.db.SelectContext(ctx, &runs,
		"SELECT * FROM runs ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	for i := range runs {
		json.Unmarshal([]byte(runs[i].WeightsJSON), &runs[i].Weights)
	}
	return runs, nil
}

// GetRun returns one run header by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	json.Unmarshal([]byte(run.WeightsJSON), &run.Weights)
	return &run, nil
}

// ListRecords returns a run's records in rank order.
func (s *SQLiteStore) ListRecords(ctx context.Context, runID string, limit int) ([]RecordRow, error) {
	query := "SELECT * FROM demand_records WHERE run_id = ? ORDER BY rank"
	args := []any{runID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []RecordRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list records for run %s: %w", runID, err)
	}

	for i := range rows {
		json.Unmarshal([]byte(rows[i].ComponentsJSON), &rows[i].Components)
		json.Unmarshal([]byte(rows[i].EvidenceJSON), &rows[i].Evidence)
	}
	return rows, nil
}
