package retrieval

// #region config
// Config holds thresholds and limits for the 3-gate retrieval pipeline.
type Config struct {
	ConfidenceSkip float64 // Gate 1: skip retrieval at or above this confidence
	TopK           int     // Max results returned after ranking
	MaxEvidenceLen int     // Max chars per evidence string
	AlwaysRetrieve bool    // Bypass Gate 1 entirely
}

// DefaultConfig returns sensible defaults for retrieval gating.
func DefaultConfig() Config {
	return Config{
		ConfidenceSkip: 0.80,
		TopK:           5,
		MaxEvidenceLen: 2000,
	}
}

// #endregion config

// #region evidence
// Evidence is a single retrieved knowledge-base snippet.
type Evidence struct {
	ChunkID    string
	Title      string
	Text       string
	Score      int // shared-keyword count against the query
	Subprocess string
	SourcePath string
}

// #endregion evidence

// #region gate-result
// GateResult captures the outcome of the 3-gate retrieval pipeline.
type GateResult struct {
	Gate1Passed bool       // confidence check passed
	Gate2Count  int        // chunks with any keyword overlap
	Gate3Count  int        // chunks passing consistency check
	Retrieved   []Evidence // final evidence after all gates
	Reason      string     // human-readable explanation
}

// #endregion gate-result
