package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/store"
)

// #region retriever

// ChunkSource supplies knowledge-base chunks for a process.
type ChunkSource interface {
	ChunksByProcess(process string) ([]store.Chunk, error)
}

// Retriever orchestrates triple-gated evidence retrieval over the
// knowledge base.
type Retriever struct {
	source ChunkSource
	config Config
}

// NewRetriever creates a Retriever with the given chunk source and config.
func NewRetriever(source ChunkSource, config Config) *Retriever {
	return &Retriever{source: source, config: config}
}

// #endregion retriever

// #region hint-paths
// Casting subprocess hint to preferred source folder.
var castingHintPaths = map[string]string{
	"DIE_CASTING":        "casting/die_casting/",
	"INVESTMENT_CASTING": "casting/investment_casting/",
	"URETHANE_CASTING":   "casting/urethane_casting/",
	"STEEL_CASTING":      "casting/steel_casting/",
}

// Forging subprocess hint to preferred source folder.
var forgingHintPaths = map[string]string{
	"CLOSED_DIE":    "forging/closed_die/",
	"OPEN_DIE":      "forging/open_die/",
	"HYBRID":        "forging/hybrid_open_closed/",
	"DIE_MACHINING": "forging/die_machining/",
	"COMMON":        "forging/common/",
}

// #endregion hint-paths

// #region retrieve
// Retrieve runs the 3-gate retrieval pipeline:
//  1. Gate 1 (confidence): skip retrieval when the advisor is already confident
//  2. Gate 2 (relevance): rank stored chunks by keyword overlap with the query
//  3. Gate 3 (consistency): validate results (non-empty, reasonable length, no dupes)
//
// A subprocess hint re-ranks within a process: AM with an FDM hint prefers
// polymer chunks over metal ones, CASTING and FORGING hints prefer their
// subprocess source folder.
func (r *Retriever) Retrieve(ctx context.Context, query, process, subprocessHint string, confidence float64) (GateResult, error) {
	result := GateResult{}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("retrieval canceled: %w", err)
	}

	// Gate 1: confidence check (skipped when AlwaysRetrieve is set)
	if !r.config.AlwaysRetrieve && confidence >= r.config.ConfidenceSkip {
		result.Gate1Passed = false
		result.Reason = fmt.Sprintf("gate1: confidence %.2f >= threshold %.2f", confidence, r.config.ConfidenceSkip)
		return result, nil
	}
	result.Gate1Passed = true

	chunks, err := r.source.ChunksByProcess(process)
	if err != nil {
		return result, fmt.Errorf("retrieval query: %w", err)
	}

	// Gate 2: keyword-overlap ranking. A hint widens the cut so the
	// re-rank has something to promote.
	hint := strings.ToUpper(strings.TrimSpace(subprocessHint))
	fetchK := r.config.TopK
	if hintApplies(process, hint) {
		fetchK = r.config.TopK * 3
	}
	gate2Results := rankChunks(query, chunks, fetchK)
	result.Gate2Count = len(gate2Results)

	if result.Gate2Count == 0 {
		result.Reason = "gate2: no chunks share keywords with the query"
		return result, nil
	}

	gate2Results = r.applyHint(gate2Results, process, hint)

	// Gate 3: consistency check
	gate3Results := r.consistencyCheck(gate2Results)
	result.Gate3Count = len(gate3Results)
	result.Retrieved = gate3Results

	if result.Gate3Count == 0 {
		result.Reason = "gate3: all results failed consistency check"
	} else {
		result.Reason = fmt.Sprintf("retrieved %d evidence items (gate2=%d, gate3=%d)",
			result.Gate3Count, result.Gate2Count, result.Gate3Count)
	}

	return result, nil
}

// #endregion retrieve

// #region ranking
// rankChunks scores chunks by shared keywords against the query and
// returns up to limit results, best first. Ties keep insertion order.
func rankChunks(query string, chunks []store.Chunk, limit int) []Evidence {
	queryTokens := tokenize(query)

	var ranked []Evidence
	for _, c := range chunks {
		score := sharedKeywords(queryTokens, tokenize(c.Title+" "+c.Content))
		if score == 0 {
			continue
		}
		ranked = append(ranked, Evidence{
			ChunkID:    c.ChunkID,
			Title:      c.Title,
			Text:       c.Content,
			Score:      score,
			Subprocess: c.Subprocess,
			SourcePath: c.SourcePath,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// hintApplies reports whether a subprocess hint re-ranks this process.
func hintApplies(process, hint string) bool {
	if hint == "" {
		return false
	}
	switch process {
	case "AM":
		return hint == "FDM"
	case "CASTING":
		_, ok := castingHintPaths[hint]
		return ok
	case "FORGING":
		_, ok := forgingHintPaths[hint]
		return ok
	}
	return false
}

// applyHint promotes hint-matching chunks ahead of the rest, then cuts
// back to TopK. With an FDM hint, metal AM chunks are demoted rather
// than dropped.
func (r *Retriever) applyHint(results []Evidence, process, hint string) []Evidence {
	if !hintApplies(process, hint) {
		return truncate(results, r.config.TopK)
	}

	var match func(Evidence) bool
	switch process {
	case "AM":
		match = func(e Evidence) bool {
			return !strings.Contains(strings.ToLower(e.Subprocess), "metal") &&
				!strings.Contains(e.SourcePath, "metal_am")
		}
	case "CASTING":
		path := castingHintPaths[hint]
		match = func(e Evidence) bool { return strings.Contains(e.SourcePath, path) }
	case "FORGING":
		path := forgingHintPaths[hint]
		match = func(e Evidence) bool { return strings.Contains(e.SourcePath, path) }
	}

	var preferred, rest []Evidence
	for _, e := range results {
		if match(e) {
			preferred = append(preferred, e)
		} else {
			rest = append(rest, e)
		}
	}
	return truncate(append(preferred, rest...), r.config.TopK)
}

func truncate(results []Evidence, limit int) []Evidence {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

// #endregion ranking

// #region consistency-check
// consistencyCheck validates retrieved evidence against basic constraints:
//   - Non-empty text
//   - Text within MaxEvidenceLen
//   - No duplicate chunk IDs
func (r *Retriever) consistencyCheck(results []Evidence) []Evidence {
	seen := make(map[string]bool)
	var valid []Evidence

	for _, rec := range results {
		if rec.Text == "" {
			continue
		}
		if r.config.MaxEvidenceLen > 0 && len(rec.Text) > r.config.MaxEvidenceLen {
			continue
		}
		if seen[rec.ChunkID] {
			continue
		}
		seen[rec.ChunkID] = true
		valid = append(valid, rec)
	}

	return valid
}

// #endregion consistency-check
