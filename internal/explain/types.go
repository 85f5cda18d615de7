package explain

import (
	"context"
	"time"

	"github.com/danielpatrickdp/dfm-advisor/internal/confidence"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
	"github.com/danielpatrickdp/dfm-advisor/internal/scoring"
)

// #region payload
// Payload is everything the explanation step may talk about. It is
// assembled once per run; the same payload always produces the same
// cache key.
type Payload struct {
	Inputs     inputs.Inputs
	Part       inputs.PartSummary
	Rec        scoring.Recommendation
	Findings   []rules.Finding
	Confidence confidence.Score
	Sources    []string // evidence source paths, may be empty
	CADStatus  string   // "ok", "failed", "timeout", "none"
}

// #endregion payload

// #region result
// Result is the produced explanation plus how it was produced.
type Result struct {
	Markdown string
	Source   string // "llm", "cache", or "fallback"
	Reason   string // set when the pipeline degraded
}

// #endregion result

// #region collaborators

// LLMClient generates a markdown explanation from a system and user
// prompt. Implementations target OpenAI-compatible endpoints.
type LLMClient interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Cache stores rendered explanations keyed by prompt hash. The SQLite
// store satisfies this.
type Cache interface {
	GetExplanation(key string, ttl time.Duration) (string, bool, error)
	PutExplanation(key, model, content string) error
}

// #endregion collaborators

// #region options
// Options configures the Explainer.
type Options struct {
	Model    string
	CacheTTL time.Duration
	Enabled  bool // when false, every run uses the deterministic fallback
}

// #endregion options
