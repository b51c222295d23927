package store

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id             TEXT PRIMARY KEY,
    created_at     DATETIME NOT NULL,
    app_scope      TEXT NOT NULL,
    weights        TEXT NOT NULL DEFAULT '{}',
    total_keywords INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

CREATE TABLE IF NOT EXISTS demand_records (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id             TEXT NOT NULL REFERENCES runs(id),
    rank               INTEGER NOT NULL,
    keyword            TEXT NOT NULL,
    locale             TEXT NOT NULL DEFAULT '',
    platform           TEXT NOT NULL DEFAULT '',
    effective_platform TEXT NOT NULL DEFAULT '',
    demand_score       REAL NOT NULL DEFAULT 0,
    confidence_score   REAL NOT NULL DEFAULT 0,
    confidence_band    TEXT NOT NULL DEFAULT 'low',
    components         TEXT NOT NULL DEFAULT '{}',
    evidence           TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_demand_records_run ON demand_records(run_id);
CREATE INDEX IF NOT EXISTS idx_demand_records_rank ON demand_records(run_id, rank);
`
