package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS kb_chunks (
	chunk_id     TEXT PRIMARY KEY,
	process      TEXT NOT NULL,
	subprocess   TEXT,
	title        TEXT,
	content      TEXT NOT NULL,
	source_path  TEXT,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_kb_chunks_process ON kb_chunks(process);

CREATE TABLE IF NOT EXISTS explain_cache (
	cache_key    TEXT PRIMARY KEY,
	model        TEXT NOT NULL,
	content      TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS advisory_runs (
	run_id       TEXT PRIMARY KEY,
	inputs_json  TEXT NOT NULL,
	primary_proc TEXT,
	result_json  TEXT NOT NULL,
	decision     TEXT NOT NULL,
	rounds       INTEGER NOT NULL,
	confidence   REAL NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS provenance_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	stage        TEXT NOT NULL,
	decision     TEXT NOT NULL,
	reason       TEXT,
	signals_json TEXT,
	created_at   TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct
// Store manages the advisor's persistent data in SQLite: knowledge
// chunks, the explanation cache, run records and the provenance log.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion constructor

// #region kb-chunks

// Chunk is one stored knowledge-base snippet.
type Chunk struct {
	ChunkID    string
	Process    string
	Subprocess string
	Title      string
	Content    string
	SourcePath string
	CreatedAt  time.Time
}

// InsertChunk stores a chunk, assigning an ID when missing.
func (s *Store) InsertChunk(c Chunk) (string, error) {
	if c.ChunkID == "" {
		c.ChunkID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO kb_chunks (chunk_id, process, subprocess, title, content, source_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ChunkID, c.Process, nullIfEmpty(c.Subprocess), nullIfEmpty(c.Title),
		c.Content, nullIfEmpty(c.SourcePath), c.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert chunk: %w", err)
	}
	return c.ChunkID, nil
}

// ChunksByProcess returns all chunks filed under a process, insertion
// order.
func (s *Store) ChunksByProcess(process string) ([]Chunk, error) {
	rows, err := s.db.Query(
		`SELECT chunk_id, process, COALESCE(subprocess, ''), COALESCE(title, ''), content, COALESCE(source_path, ''), created_at
		 FROM kb_chunks WHERE process = ? ORDER BY created_at, chunk_id`, process)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		var created string
		if err := rows.Scan(&c.ChunkID, &c.Process, &c.Subprocess, &c.Title, &c.Content, &c.SourcePath, &created); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountChunks returns the total number of stored chunks.
func (s *Store) CountChunks() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kb_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// #endregion kb-chunks

// #region explain-cache

// GetExplanation returns a cached explanation younger than ttl.
func (s *Store) GetExplanation(key string, ttl time.Duration) (string, bool, error) {
	var content, created string
	err := s.db.QueryRow(
		`SELECT content, created_at FROM explain_cache WHERE cache_key = ?`, key,
	).Scan(&content, &created)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, created)
	if err != nil || time.Since(at) > ttl {
		return "", false, nil
	}
	return content, true, nil
}

// PutExplanation upserts a cache entry.
func (s *Store) PutExplanation(key, model, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO explain_cache (cache_key, model, content, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET model=excluded.model, content=excluded.content, created_at=excluded.created_at`,
		key, model, content, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// #endregion explain-cache

// #region advisory-runs

// RunRecord is the persisted summary of one advisory run.
type RunRecord struct {
	RunID       string
	InputsJSON  string
	PrimaryProc string
	ResultJSON  string
	Decision    string
	Rounds      int
	Confidence  float64
	CreatedAt   time.Time
}

// SaveRun persists a run record.
func (s *Store) SaveRun(r RunRecord) error {
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO advisory_runs (run_id, inputs_json, primary_proc, result_json, decision, rounds, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.InputsJSON, nullIfEmpty(r.PrimaryProc), r.ResultJSON,
		r.Decision, r.Rounds, r.Confidence, r.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT run_id, inputs_json, COALESCE(primary_proc, ''), result_json, decision, rounds, confidence, created_at
		 FROM advisory_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var created string
		if err := rows.Scan(&r.RunID, &r.InputsJSON, &r.PrimaryProc, &r.ResultJSON,
			&r.Decision, &r.Rounds, &r.Confidence, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun loads one run by ID.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	var created string
	err := s.db.QueryRow(
		`SELECT run_id, inputs_json, COALESCE(primary_proc, ''), result_json, decision, rounds, confidence, created_at
		 FROM advisory_runs WHERE run_id = ?`, runID).
		Scan(&r.RunID, &r.InputsJSON, &r.PrimaryProc, &r.ResultJSON,
			&r.Decision, &r.Rounds, &r.Confidence, &created)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return r, nil
}

// #endregion advisory-runs

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
