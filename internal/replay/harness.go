package replay

import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/dfm-advisor/internal/advisor"
	"github.com/danielpatrickdp/dfm-advisor/internal/config"
	"github.com/danielpatrickdp/dfm-advisor/internal/explain"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
	"github.com/danielpatrickdp/dfm-advisor/internal/retrieval"
)

// #region types

// CaseResult captures one replayed case against its expectations.
type CaseResult struct {
	Name     string
	Passed   bool
	Failures []string
	Report   *advisor.Report
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// #endregion types

// #region canned-retriever

// cannedRetriever serves the fixture's evidence instead of a live
// knowledge base, keeping replay fully deterministic.
type cannedRetriever struct {
	evidence []FixtureEvidence
}

func (c *cannedRetriever) Retrieve(_ context.Context, _, _, _ string, _ float64) (retrieval.GateResult, error) {
	result := retrieval.GateResult{Gate1Passed: true}
	for _, ev := range c.evidence {
		result.Retrieved = append(result.Retrieved, retrieval.Evidence{
			ChunkID:    ev.ChunkID,
			Title:      ev.Title,
			SourcePath: ev.SourcePath,
			Text:       ev.Text,
		})
	}
	result.Gate2Count = len(result.Retrieved)
	result.Gate3Count = len(result.Retrieved)
	if result.Gate3Count == 0 {
		result.Reason = "canned fixture has no evidence"
	} else {
		result.Reason = fmt.Sprintf("served %d canned evidence items", result.Gate3Count)
	}
	return result, nil
}

// #endregion canned-retriever

// #region replay

// Replay runs every fixture case through the deterministic pipeline
// (LLM off, canned evidence) and checks expectations.
func Replay(f Fixture) ([]CaseResult, Summary, error) {
	registry, err := material.Load()
	if err != nil {
		return nil, Summary{}, fmt.Errorf("load material profiles: %w", err)
	}

	results := make([]CaseResult, 0, len(f.Cases))
	summary := Summary{Total: len(f.Cases)}

	for _, c := range f.Cases {
		cfg := config.Config{RAGEnabled: true, MaxRounds: 2, ConfidenceSkip: 0.80}
		exp := explain.New(nil, nil, explain.Options{Enabled: false})
		adv := advisor.New(registry, &cannedRetriever{evidence: c.Evidence}, exp, nil, cfg)

		report, err := adv.Run(context.Background(), advisor.Request{
			Inputs: c.Inputs.ToInputs(),
			Part:   c.Part.ToPart(),
			Conf:   c.Conf.ToConf(),
		})

		result := CaseResult{Name: c.Name, Report: report}
		if err != nil {
			result.Failures = append(result.Failures, fmt.Sprintf("run failed: %v", err))
		} else {
			result.Failures = checkExpectations(c.Expected, report)
		}
		result.Passed = len(result.Failures) == 0

		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
		results = append(results, result)
	}
	return results, summary, nil
}

func checkExpectations(want Expected, report *advisor.Report) []string {
	var failures []string

	if want.Primary != "" && string(report.Rec.Primary) != want.Primary {
		failures = append(failures, fmt.Sprintf("primary: got %s, want %s", report.Rec.Primary, want.Primary))
	}
	if want.Secondary != nil {
		got := make([]string, len(report.Rec.Secondary))
		for i, p := range report.Rec.Secondary {
			got[i] = string(p)
		}
		if !equalStrings(got, want.Secondary) {
			failures = append(failures, fmt.Sprintf("secondary: got %v, want %v", got, want.Secondary))
		}
	}
	for _, p := range want.NotRecommended {
		if !containsString(procStrings(report.Rec.NotRecommended), p) {
			failures = append(failures, fmt.Sprintf("not_recommended missing %s (got %v)", p, report.Rec.NotRecommended))
		}
	}
	if want.Decision != "" && string(report.Decision) != want.Decision {
		failures = append(failures, fmt.Sprintf("decision: got %s, want %s", report.Decision, want.Decision))
	}
	if want.Rounds != nil && report.Rounds != *want.Rounds {
		failures = append(failures, fmt.Sprintf("rounds: got %d, want %d", report.Rounds, *want.Rounds))
	}
	return failures
}

func procStrings(procs []inputs.Process) []string {
	out := make([]string, len(procs))
	for i, p := range procs {
		out[i] = string(p)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// #endregion replay
