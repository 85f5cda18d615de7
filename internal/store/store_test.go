package store

import (
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// #region kb-chunks

func TestChunkRoundTrip(t *testing.T) {
	s := openStore(t)

	id, err := s.InsertChunk(Chunk{
		Process:    "EXTRUSION",
		Subprocess: "aluminum",
		Title:      "Wall thickness limits",
		Content:    "Keep extruded wall thickness above 1mm for 6063 profiles.",
	})
	if err != nil {
		t.Fatalf("InsertChunk: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated chunk id")
	}

	got, err := s.ChunksByProcess("EXTRUSION")
	if err != nil {
		t.Fatalf("ChunksByProcess: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Wall thickness limits" {
		t.Fatalf("unexpected chunks: %+v", got)
	}

	none, err := s.ChunksByProcess("FORGING")
	if err != nil {
		t.Fatalf("ChunksByProcess: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no forging chunks, got %d", len(none))
	}

	n, err := s.CountChunks()
	if err != nil || n != 1 {
		t.Fatalf("CountChunks = %d, %v", n, err)
	}
}

// #endregion kb-chunks

// #region explain-cache

func TestExplainCacheTTL(t *testing.T) {
	s := openStore(t)

	if err := s.PutExplanation("key-1", "model-a", "cached text"); err != nil {
		t.Fatalf("PutExplanation: %v", err)
	}

	got, ok, err := s.GetExplanation("key-1", time.Hour)
	if err != nil || !ok || got != "cached text" {
		t.Fatalf("GetExplanation = %q, %v, %v", got, ok, err)
	}

	// Zero TTL treats every entry as expired.
	if _, ok, _ := s.GetExplanation("key-1", 0); ok {
		t.Fatal("expired entry must miss")
	}

	if _, ok, _ := s.GetExplanation("absent", time.Hour); ok {
		t.Fatal("missing key must miss")
	}
}

func TestExplainCacheUpsert(t *testing.T) {
	s := openStore(t)

	if err := s.PutExplanation("key-1", "model-a", "first"); err != nil {
		t.Fatal(err)
	}
	if err := s.PutExplanation("key-1", "model-b", "second"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := s.GetExplanation("key-1", time.Hour)
	if err != nil || !ok || got != "second" {
		t.Fatalf("GetExplanation after upsert = %q, %v, %v", got, ok, err)
	}
}

// #endregion explain-cache

// #region advisory-runs

func TestSaveRun(t *testing.T) {
	s := openStore(t)

	err := s.SaveRun(RunRecord{
		InputsJSON:  `{"material":"Steel"}`,
		PrimaryProc: "SHEET_METAL",
		ResultJSON:  `{"primary":"SHEET_METAL"}`,
		Decision:    "accept",
		Rounds:      0,
		Confidence:  0.75,
	})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM advisory_runs`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("runs = %d, %v", n, err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, proc := range []string{"CNC", "CASTING", "FORGING"} {
		err := s.SaveRun(RunRecord{
			RunID:      proc + "-run",
			InputsJSON: `{}`,
			ResultJSON: `{}`,
			Decision:   "accept",
			Confidence: 0.8,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "FORGING-run" || runs[1].RunID != "CASTING-run" {
		t.Fatalf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestGetRun(t *testing.T) {
	s := openStore(t)

	err := s.SaveRun(RunRecord{
		RunID:       "run-1",
		InputsJSON:  `{"material":"Aluminum"}`,
		PrimaryProc: "CNC",
		ResultJSON:  `{"primary":"CNC"}`,
		Decision:    "accept",
		Rounds:      1,
		Confidence:  0.82,
	})
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.PrimaryProc != "CNC" || got.Rounds != 1 || got.Confidence != 0.82 {
		t.Fatalf("unexpected run: %+v", got)
	}

	if _, err := s.GetRun("missing"); err == nil {
		t.Fatal("expected error for missing run")
	}
}

// #endregion advisory-runs
