package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kwradar/internal/store"
	"kwradar/pkg/demand"
)

// fakeStore is an in-memory Store for handler tests.
type fakeStore struct {
	runs    map[string]store.Run
	records map[string][]store.RecordRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runs:    make(map[string]store.Run),
		records: make(map[string][]store.RecordRow),
	}
}

func (f *fakeStore) SaveRun(ctx context.Context, rep *demand.Report) (string, error) {
	return "", fmt.Errorf("not implemented")
}

func (f *fakeStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	var out []store.Run
	for _, r := range f.runs {
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) GetRun(ctx context.Context, id string) (*store.Run, error) {
	r, ok := f.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	return &r, nil
}

func (f *fakeStore) ListRecords(ctx context.Context, runID string, limit int) ([]store.RecordRow, error) {
	rows := f.records[runID]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) Close() error { return nil }

func testServer(fs *fakeStore) *httptest.Server {
	s := New(fs, 0)
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRun)
	return httptest.NewServer(mux)
}

func TestHealth(t *testing.T) {
	srv := testServer(newFakeStore())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestListRunsEndpoint(t *testing.T) {
	fs := newFakeStore()
	fs.runs["run-1"] = store.Run{ID: "run-1", Scope: "dual", CreatedAt: time.Now(), TotalKeywords: 3}
	srv := testServer(fs)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Data  []store.Run `json:"data"`
		Count int         `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || len(body.Data) != 1 || body.Data[0].ID != "run-1" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetRunEndpoint(t *testing.T) {
	fs := newFakeStore()
	fs.runs["run-1"] = store.Run{ID: "run-1", Scope: "ios_only", TotalKeywords: 1}
	fs.records["run-1"] = []store.RecordRow{
		{Rank: 1, Keyword: "habit tracker", DemandScore: 70, ConfidenceBand: "medium"},
	}
	srv := testServer(fs)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/runs/run-1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Run     store.Run         `json:"run"`
		Records []store.RecordRow `json:"records"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Run.ID != "run-1" || body.Run.Scope != "ios_only" {
		t.Errorf("run = %+v", body.Run)
	}
	if len(body.Records) != 1 || body.Records[0].Keyword != "habit tracker" {
		t.Errorf("records = %+v", body.Records)
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv := testServer(newFakeStore())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/runs/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRunsMethodNotAllowed(t *testing.T) {
	srv := testServer(newFakeStore())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/v1/runs", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}
