package explain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
)

// systemPrompt constrains the model to report over the provided facts
// only. Invented numeric tolerances are the failure mode this guards
// against.
const systemPrompt = `You are a manufacturing design reviewer. Write a concise markdown DFM report from the structured facts provided. Use only the processes, findings, and numbers given. Never invent numeric tolerances, ranges, or plus-minus values. End with sections ACTION CHECKLIST and ASSUMPTIONS using "-" bullets. Do not use code fences.`

// #region explainer
// Explainer turns a run payload into a markdown explanation, with a
// cache in front of the LLM and a deterministic fallback behind it.
type Explainer struct {
	client LLMClient
	cache  Cache
	opts   Options
}

// New creates an Explainer. Both client and cache may be nil; a nil
// client forces fallback mode.
func New(client LLMClient, cache Cache, opts Options) *Explainer {
	return &Explainer{client: client, cache: cache, opts: opts}
}

// #endregion explainer

// #region cache-key
// CacheKey hashes the model and the full prompt, so any change to the
// inputs, recommendation, findings, or sources invalidates the entry.
func CacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\n" + prompt))
	return hex.EncodeToString(sum[:])
}

// #endregion cache-key

// #region explain
// Explain produces the explanation for a payload. It never fails: LLM
// and cache errors degrade to the deterministic fallback, with the
// reason recorded on the result.
func (e *Explainer) Explain(ctx context.Context, p Payload) Result {
	prompt := userPrompt(p)

	if !e.opts.Enabled || e.client == nil {
		return Result{Markdown: Fallback(p), Source: "fallback", Reason: "llm disabled"}
	}

	key := CacheKey(e.opts.Model, prompt)
	if e.cache != nil {
		if content, ok, err := e.cache.GetExplanation(key, e.opts.CacheTTL); err != nil {
			log.Printf("[EXPLAIN] cache read failed: %v", err)
		} else if ok {
			return Result{Markdown: content, Source: "cache"}
		}
	}

	resp, err := e.client.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		log.Printf("[EXPLAIN] llm call failed, using fallback: %v", err)
		return Result{Markdown: Fallback(p), Source: "fallback", Reason: fmt.Sprintf("llm error: %v", err)}
	}
	if !validResponse(resp) {
		log.Printf("[EXPLAIN] llm response rejected, using fallback")
		return Result{Markdown: Fallback(p), Source: "fallback", Reason: "llm response failed validation"}
	}

	if e.cache != nil {
		if err := e.cache.PutExplanation(key, e.opts.Model, resp); err != nil {
			log.Printf("[EXPLAIN] cache write failed: %v", err)
		}
	}
	return Result{Markdown: resp, Source: "llm"}
}

// validResponse rejects empty output, code fences, and responses
// missing the required trailing sections.
func validResponse(resp string) bool {
	trimmed := strings.TrimSpace(resp)
	if trimmed == "" {
		return false
	}
	if strings.Contains(trimmed, "```") {
		return false
	}
	upper := strings.ToUpper(trimmed)
	return strings.Contains(upper, "ACTION CHECKLIST") && strings.Contains(upper, "ASSUMPTIONS")
}

// #endregion explain

// #region prompt
// userPrompt renders the payload as a deterministic fact block. Field
// order is fixed so equal payloads hash to equal cache keys.
func userPrompt(p Payload) string {
	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("INPUTS")
	w("process=%s material=%s volume=%s load=%s tolerance=%s",
		p.Inputs.Process, p.Inputs.Material, p.Inputs.ProductionVolume,
		p.Inputs.LoadType, p.Inputs.ToleranceCriticality)
	if p.Inputs.UserText != "" {
		w("notes=%s", p.Inputs.UserText)
	}

	w("PART")
	w("size=%s radius=%s wall=%s holes=%s pockets=%s variety=%s access=%s clamping=%t",
		p.Part.PartSize, p.Part.MinInternalRadius, p.Part.MinWallThickness,
		p.Part.HoleDepthClass, p.Part.PocketAspectClass, p.Part.FeatureVariety,
		p.Part.AccessibilityRisk, p.Part.HasClampingFaces)
	if p.CADStatus != "" {
		w("cad_status=%s", p.CADStatus)
	}

	w("RECOMMENDATION")
	w("primary=%s secondary=%s not_recommended=%s",
		p.Rec.Primary, joinProcs(p.Rec.Secondary), joinProcs(p.Rec.NotRecommended))
	for _, r := range p.Rec.ReasonsPrimary {
		w("reason=%s", r)
	}

	w("FINDINGS")
	for _, f := range p.Findings {
		w("%s|%s|%s|%s", f.ID, f.Severity, f.Title, f.Recommendation)
	}

	w("CONFIDENCE")
	w("score=%.2f", p.Confidence.Value)

	if len(p.Sources) > 0 {
		w("SOURCES")
		for _, s := range p.Sources {
			w("%s", s)
		}
	}

	return b.String()
}

// #endregion prompt
