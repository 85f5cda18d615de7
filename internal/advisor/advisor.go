package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/dfm-advisor/internal/confidence"
	"github.com/danielpatrickdp/dfm-advisor/internal/config"
	"github.com/danielpatrickdp/dfm-advisor/internal/decision"
	"github.com/danielpatrickdp/dfm-advisor/internal/explain"
	"github.com/danielpatrickdp/dfm-advisor/internal/gate"
	"github.com/danielpatrickdp/dfm-advisor/internal/geometry"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/logging"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
	"github.com/danielpatrickdp/dfm-advisor/internal/retrieval"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
	"github.com/danielpatrickdp/dfm-advisor/internal/scoring"
	"github.com/danielpatrickdp/dfm-advisor/internal/store"
)

// #region types

// EvidenceRetriever is the knowledge-base collaborator. The SQLite
// retriever satisfies this; tests inject fakes.
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, query, process, subprocessHint string, conf float64) (retrieval.GateResult, error)
}

// Request is one advisory run's input snapshot.
type Request struct {
	Inputs      inputs.Inputs
	Part        inputs.PartSummary
	Conf        inputs.ConfidenceInputs
	Metrics     *geometry.Metrics // nil when no CAD analysis ran
	CADProvided bool              // a CAD file was uploaded, even if analysis degraded
}

// Report is the full advisory output.
type Report struct {
	RunID         string                 `json:"run_id"`
	Rec           scoring.Recommendation `json:"recommendation"`
	Findings      []rules.Finding        `json:"findings"`
	Confidence    confidence.Score       `json:"confidence"`
	Explanation   explain.Result         `json:"explanation"`
	Decision      decision.Outcome       `json:"decision"`
	Rounds        int                    `json:"rounds"`
	Sources       []string               `json:"sources,omitempty"`
	CADStatusLine string                 `json:"cad_status_line"`
	Trace         []string               `json:"trace"`
}

// Advisor wires the deterministic core to its collaborators. All
// collaborators are injected; retriever, explainer, and store may be
// nil for a fully offline run.
type Advisor struct {
	registry  *material.Registry
	retriever EvidenceRetriever
	explainer *explain.Explainer
	store     *store.Store
	cfg       config.Config
}

// New creates an Advisor.
func New(reg *material.Registry, ret EvidenceRetriever, exp *explain.Explainer, st *store.Store, cfg config.Config) *Advisor {
	return &Advisor{registry: reg, retriever: ret, explainer: exp, store: st, cfg: cfg}
}

// #endregion types

// #region run

// Run executes one advisory pass: validate, resolve material, refine
// bins, gate, score, find, then loop decide/retrieve/re-explain until
// the decision accepts. Degraded collaborators never fail the run.
func (a *Advisor) Run(ctx context.Context, req Request) (*Report, error) {
	if errs := inputs.Validate(req.Inputs, req.Part); len(errs) > 0 {
		return nil, fmt.Errorf("invalid request: %w", errors.Join(errs...))
	}
	if a.registry == nil {
		return nil, fmt.Errorf("advisor: material registry is required")
	}

	runID := uuid.New().String()
	log.Printf("[ADVISOR] run %s start process=%s material=%s", runID, req.Inputs.Process, req.Inputs.Material)

	materialText := string(req.Inputs.Material)
	resolution := a.registry.Resolve(materialText)
	a.logStage(runID, "material", resolution.Profile.ID, string(resolution.Source), nil)

	part, geo := a.geometryPass(runID, req)

	gates := gate.Evaluate(materialText)
	a.logStage(runID, "gate", "", "hard gate evaluated", gates)

	sreq := scoring.Request{
		Inputs:   &req.Inputs,
		Part:     &part,
		Material: resolution,
		Gates:    gates,
		Geo:      geo,
	}
	rec := scoring.Recommend(scoring.DefaultConfig(), sreq)
	a.logStage(runID, "score", string(rec.Primary), "recommendation computed", rec.Scores)

	findings := rules.Run(rules.Context{Inputs: &req.Inputs, Part: &part, Rec: rec, Geo: geo})
	a.logStage(runID, "rules", "", fmt.Sprintf("%d findings", len(findings.Findings)), findings.Findings)

	report := a.decisionLoop(ctx, runID, req, part, geo, rec, findings)
	report.RunID = runID
	report.Trace = append(report.Trace, findings.Trace...)

	a.saveRun(report, req)
	log.Printf("[ADVISOR] run %s done primary=%s decision=%s rounds=%d confidence=%.2f",
		runID, report.Rec.Primary, report.Decision, report.Rounds, report.Confidence.Value)
	return report, nil
}

// geometryPass derives CAD signals and refines bins. Missing or
// degraded metrics fall back to bins-only signals.
func (a *Advisor) geometryPass(runID string, req Request) (inputs.PartSummary, scoring.GeoEvidence) {
	part := req.Part
	metrics := geometry.Metrics{Status: geometry.StatusNone}
	if req.Metrics != nil {
		metrics = *req.Metrics
	}

	if metrics.Status == geometry.StatusOK {
		refined, evidence := geometry.RefineBins(part, metrics)
		if len(evidence) > 0 {
			a.logStage(runID, "geometry", "bins_refined", "numeric metrics refined part bins", evidence)
		}
		part = refined
	}

	geo := scoring.GeoEvidence{
		CADStatus: metrics.Status,
		Sheet:     geometry.SheetMetalLikelihood(metrics, part),
		Extrusion: geometry.ExtrusionLikelihood(metrics),
		Turning:   geometry.TurningLikelihood(metrics),
	}
	return part, geo
}

// #endregion run

// #region decision-loop

func (a *Advisor) decisionLoop(ctx context.Context, runID string, req Request, part inputs.PartSummary,
	geo scoring.GeoEvidence, rec scoring.Recommendation, findings rules.Result) *Report {

	state := decision.NewState(a.cfg.MaxRounds)
	var sources []string
	retrievalAttempted := false
	retrievalEmpty := false
	retrievalUsed := false

	var conf confidence.Score
	var expl explain.Result
	var outcome decision.Outcome

	for {
		conf = confidence.Compute(confidence.Evidence{
			Inputs:          &req.Inputs,
			Part:            &part,
			Conf:            req.Conf,
			Findings:        findings,
			ProcessMismatch: processMismatch(req.Inputs, rec),
			RetrievalEmpty:  retrievalEmpty,
			SourceCount:     len(sources),
		})

		expl = a.explain(ctx, req, part, rec, findings, conf, sources)
		if expl.Reason != "" {
			a.logStage(runID, "explain", expl.Source, expl.Reason, nil)
		}

		outcome = state.Next(decision.Evidence{
			Inputs:        req.Inputs,
			Part:          part,
			ConfInputs:    req.Conf,
			Findings:      findings.Findings,
			Confidence:    conf.Value,
			Rec:           rec,
			RetrievalUsed: retrievalUsed,
			ForgingHint:   forgingHint(req.Inputs),
		})
		a.logStage(runID, "decision", string(outcome), lastTrace(state.Trace), nil)

		if outcome == decision.Accept {
			break
		}
		if outcome == decision.RAG && !retrievalAttempted {
			retrievalAttempted = true
			retrieved := a.retrieve(ctx, runID, req, rec, conf.Value)
			retrievalUsed = len(retrieved) > 0
			retrievalEmpty = len(retrieved) == 0
			sources = retrieved
		}
		// reassess loops straight back into confidence + explanation
	}

	return &Report{
		Rec:           rec,
		Findings:      findings.Findings,
		Confidence:    conf,
		Explanation:   expl,
		Decision:      outcome,
		Rounds:        state.Round,
		Sources:       sources,
		CADStatusLine: cadStatusLine(geo.CADStatus, req.CADProvided),
		Trace:         append([]string(nil), state.Trace...),
	}
}

// retrieve runs the knowledge-base pipeline once. A disabled flag,
// missing retriever, or error all degrade to an empty source list.
func (a *Advisor) retrieve(ctx context.Context, runID string, req Request, rec scoring.Recommendation, conf float64) []string {
	if !a.cfg.RAGEnabled || a.retriever == nil {
		a.logStage(runID, "retrieval", "skipped", "retrieval disabled", nil)
		return nil
	}

	process := req.Inputs.UserSelected()
	if process == "" {
		process = rec.Primary
	}
	query := strings.TrimSpace(string(req.Inputs.Material) + " " + req.Inputs.UserText)

	result, err := a.retriever.Retrieve(ctx, query, string(process), subprocessHint(req.Inputs), conf)
	if err != nil {
		log.Printf("[ADVISOR] retrieval failed: %v", err)
		a.logStage(runID, "retrieval", "error", err.Error(), nil)
		return nil
	}
	a.logStage(runID, "retrieval", fmt.Sprintf("gate3=%d", result.Gate3Count), result.Reason, nil)

	var sources []string
	for _, ev := range result.Retrieved {
		src := ev.SourcePath
		if src == "" {
			src = ev.Title
		}
		sources = append(sources, src)
	}
	return sources
}

func (a *Advisor) explain(ctx context.Context, req Request, part inputs.PartSummary,
	rec scoring.Recommendation, findings rules.Result, conf confidence.Score, sources []string) explain.Result {

	payload := explain.Payload{
		Inputs:     req.Inputs,
		Part:       part,
		Rec:        rec,
		Findings:   findings.Findings,
		Confidence: conf,
		Sources:    sources,
		CADStatus:  cadStatus(req),
	}
	if a.explainer == nil {
		return explain.Result{Markdown: explain.Fallback(payload), Source: "fallback", Reason: "no explainer configured"}
	}
	return a.explainer.Explain(ctx, payload)
}

// #endregion decision-loop

// #region helpers

func processMismatch(in inputs.Inputs, rec scoring.Recommendation) bool {
	sel := in.UserSelected()
	return sel != "" && rec.Primary != "" && rec.Primary != sel
}

func subprocessHint(in inputs.Inputs) string {
	if in.Process == inputs.ProcessAM && in.AMTech != "" && in.AMTech != inputs.AMTechAuto {
		return string(in.AMTech)
	}
	return ""
}

func forgingHint(in inputs.Inputs) string {
	if in.Process != inputs.ProcessForging {
		return ""
	}
	lower := strings.ToLower(in.UserText)
	switch {
	case strings.Contains(lower, "closed die") || strings.Contains(lower, "impression die"):
		return "CLOSED_DIE"
	case strings.Contains(lower, "open die") || strings.Contains(lower, "ring rolling"):
		return "OPEN_DIE"
	case strings.Contains(lower, "die machining"):
		return "DIE_MACHINING"
	}
	return ""
}

func cadStatus(req Request) string {
	if req.Metrics == nil {
		return string(geometry.StatusNone)
	}
	return string(req.Metrics.Status)
}

// cadStatusLine words the geometry evidence honestly: a provided file
// that degraded must never read as "no CAD uploaded".
func cadStatusLine(status geometry.Status, cadProvided bool) string {
	switch {
	case status == geometry.StatusOK:
		return "CAD analysis status: ok"
	case cadProvided:
		return fmt.Sprintf("CAD analysis status: %s (CAD file provided; falling back to bins-only geometry)", status)
	default:
		return "CAD analysis status: none (no CAD file provided)"
	}
}

func lastTrace(trace []string) string {
	if len(trace) == 0 {
		return ""
	}
	return trace[len(trace)-1]
}

// logStage writes a provenance row. Failures log and continue; audit
// trails never fail a run.
func (a *Advisor) logStage(runID, stage, decided, reason string, signals interface{}) {
	if a.store == nil {
		return
	}
	signalsJSON := ""
	if signals != nil {
		if raw, err := json.Marshal(signals); err == nil {
			signalsJSON = string(raw)
		}
	}
	err := logging.LogDecision(a.store.DB(), logging.ProvenanceEntry{
		RunID:       runID,
		Stage:       stage,
		Decision:    decided,
		Reason:      reason,
		SignalsJSON: signalsJSON,
	})
	if err != nil {
		log.Printf("[ADVISOR] provenance write failed: %v", err)
	}
}

func (a *Advisor) saveRun(report *Report, req Request) {
	if a.store == nil {
		return
	}
	inputsJSON, _ := json.Marshal(req.Inputs)
	resultJSON, _ := json.Marshal(report)
	err := a.store.SaveRun(store.RunRecord{
		RunID:       report.RunID,
		InputsJSON:  string(inputsJSON),
		PrimaryProc: string(report.Rec.Primary),
		ResultJSON:  string(resultJSON),
		Decision:    string(report.Decision),
		Rounds:      report.Rounds,
		Confidence:  report.Confidence.Value,
	})
	if err != nil {
		log.Printf("[ADVISOR] run save failed: %v", err)
	}
}

// #endregion helpers
