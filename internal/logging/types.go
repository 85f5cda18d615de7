package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table: one
// decision made at one stage of an advisory run.
type ProvenanceEntry struct {
	RunID       string
	Stage       string // "gate" | "score" | "tiebreak" | "rules" | "decision" | "explain" | "retrieval"
	Decision    string // stage-specific, e.g. "accept" | "rag" | "reassess"
	Reason      string
	SignalsJSON string
	CreatedAt   time.Time
}

// #endregion provenance-entry
