package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
)

// #region config

// Config holds the tunable margins of the tie-break pipeline.
type Config struct {
	SecondaryMargin int // max gap to primary for secondary listing
	MaxSecondary    int
	AnchorMargin    int // max gap for user-intent anchoring (bins-only)
	HybridMargin    int // max CNC gap for the hybrid finishing offer
	FloorScore      int // not-recommended requires score <= FloorScore
	FloorGap        int // ...and gap to primary >= FloorGap
	AutoGuardMargin int // runner-up closeness for the AUTO guards
}

// DefaultConfig returns the tuned production margins.
func DefaultConfig() Config {
	return Config{
		SecondaryMargin: 3,
		MaxSecondary:    2,
		AnchorMargin:    2,
		HybridMargin:    3,
		FloorScore:      1,
		FloorGap:        5,
		AutoGuardMargin: 1,
	}
}

// #endregion

// #region pipeline

// tiebreakState is threaded through every override stage. Later stages
// overwrite earlier decisions; the stage order is the precedence order.
type tiebreakState struct {
	cfg      Config
	score    *ScoreState
	in       *inputs.Inputs
	part     *inputs.PartSummary
	reliable bool // CAD-backed geometry evidence available

	sorted    []inputs.Process
	primary   inputs.Process
	secondary []inputs.Process
	notRec    []inputs.Process
	trace     []string
}

type stage struct {
	name string
	run  func(*tiebreakState)
}

// overridePipeline is the ordered, first-class list of tie-break
// stages. Each stage may overwrite primary/secondary from the previous
// one; reordering entries changes precedence.
var overridePipeline = []stage{
	{"sort", stageSort},
	{"primary", stagePrimary},
	{"user_anchor", stageUserAnchor},
	{"am_exclusive", stageAMExclusive},
	{"auto_guards", stageAutoGuards},
	{"secondary", stageSecondary},
	{"auto_tie", stageAutoTie},
	{"hybrid", stageHybrid},
	{"not_recommended", stageNotRecommended},
	{"normalize", stageNormalize},
}

func runTieBreak(cfg Config, st *ScoreState, in *inputs.Inputs, part *inputs.PartSummary, reliable bool) *tiebreakState {
	ts := &tiebreakState{cfg: cfg, score: st, in: in, part: part, reliable: reliable}
	for _, s := range overridePipeline {
		s.run(ts)
	}
	return ts
}

func (ts *tiebreakState) tracef(format string, args ...any) {
	ts.trace = append(ts.trace, fmt.Sprintf(format, args...))
}

// #endregion

// #region stages

// stageSort orders eligible processes by score descending; the user's
// selection wins ties, then fixed candidate order keeps the result
// deterministic.
func stageSort(ts *tiebreakState) {
	selected := ts.in.UserSelected()
	order := make(map[inputs.Process]int, len(inputs.Candidates))
	for i, p := range inputs.Candidates {
		order[p] = i
	}
	ts.sorted = append([]inputs.Process(nil), ts.score.Eligible...)
	sort.SliceStable(ts.sorted, func(i, j int) bool {
		a, b := ts.sorted[i], ts.sorted[j]
		sa, sb := ts.score.Scores[a], ts.score.Scores[b]
		if sa != sb {
			return sa > sb
		}
		if (a == selected) != (b == selected) {
			return a == selected
		}
		return order[a] < order[b]
	})
}

func stagePrimary(ts *tiebreakState) {
	ts.primary = ts.sorted[0]
}

// stageUserAnchor honors a close-scoring user selection, but only in
// bins-only mode: real CAD evidence outranks stated intent.
func stageUserAnchor(ts *tiebreakState) {
	selected := ts.in.UserSelected()
	if selected == "" || selected == ts.primary || !ts.score.eligible(selected) {
		return
	}
	if ts.reliable {
		ts.tracef("anchor skipped: CAD evidence present, %s keeps primary", ts.primary)
		return
	}
	gap := ts.score.Scores[ts.primary] - ts.score.Scores[selected]
	if gap <= ts.cfg.AnchorMargin {
		ts.tracef("anchor: primary %s -> user-selected %s (gap %d)", ts.primary, selected, gap)
		ts.primary = selected
	}
}

// stageAMExclusive lets exclusive AM geometry evidence reclaim primary
// from a user-anchored milling/turning choice. Runs after the anchor so
// it takes precedence.
func stageAMExclusive(ts *tiebreakState) {
	if !ts.score.AMExclusive || !ts.score.eligible(inputs.ProcessAM) {
		return
	}
	selected := ts.in.UserSelected()
	machining := selected == inputs.ProcessCNC || selected == inputs.ProcessCNCTurning
	if !machining || ts.primary == inputs.ProcessAM {
		return
	}
	if ts.score.Scores[inputs.ProcessAM] >= ts.score.Scores[ts.primary] {
		ts.tracef("am_exclusive: AM-only geometry overrides %s", ts.primary)
		ts.primary = inputs.ProcessAM
	}
}

// stageAutoGuards applies the AUTO-mode empirical guards when geometry
// evidence is weak: a steel extrusion win below production volume is
// demoted to the runner-up when the race is close, since low-volume
// steel extrusion is rarely the economical answer.
func stageAutoGuards(ts *tiebreakState) {
	if ts.in.Process != inputs.ProcessAuto || ts.reliable {
		return
	}
	if ts.primary != inputs.ProcessExtrusion || ts.in.ProductionVolume == inputs.VolumeProduction {
		return
	}
	if material.ClassifyFamily(string(ts.in.Material)) != material.FamilyMetal {
		return
	}
	for _, p := range ts.sorted {
		if p == ts.primary {
			continue
		}
		if ts.score.Scores[ts.primary]-ts.score.Scores[p] <= ts.cfg.AutoGuardMargin {
			ts.tracef("auto_guard: low-volume steel extrusion demoted to %s", p)
			ts.primary = p
		}
		break
	}
}

// stageSecondary lists up to MaxSecondary close, positive-scoring
// alternatives.
func stageSecondary(ts *tiebreakState) {
	ts.secondary = ts.secondary[:0]
	primaryScore := ts.score.Scores[ts.primary]
	for _, p := range ts.sorted {
		if p == ts.primary {
			continue
		}
		s := ts.score.Scores[p]
		if s > 0 && primaryScore-s <= ts.cfg.SecondaryMargin {
			ts.secondary = append(ts.secondary, p)
		}
		if len(ts.secondary) >= ts.cfg.MaxSecondary {
			break
		}
	}
}

// stageAutoTie surfaces an exact-tie runner-up in AUTO mode as an
// explicit ambiguity instead of silently picking one.
func stageAutoTie(ts *tiebreakState) {
	if ts.in.Process != inputs.ProcessAuto {
		return
	}
	for _, p := range ts.sorted {
		if p == ts.primary {
			continue
		}
		if ts.score.Scores[p] == ts.score.Scores[ts.primary] {
			if !containsProc(ts.secondary, p) {
				ts.secondary = append([]inputs.Process{p}, ts.secondary...)
			}
			ts.tracef("auto_tie: %s ties %s at %d; runner-up exposed", p, ts.primary, ts.score.Scores[p])
		}
		break
	}
}

// stageHybrid adds CNC finishing as secondary when a near-net-shape
// process wins but the request signals machined interfaces.
func stageHybrid(ts *tiebreakState) {
	if !toolingIntensive[ts.primary] || !ts.score.eligible(inputs.ProcessCNC) {
		return
	}
	gap := ts.score.Scores[ts.primary] - ts.score.Scores[inputs.ProcessCNC]
	if gap > ts.cfg.HybridMargin {
		return
	}
	if !hasFinishingSignals(ts.in, ts.part) {
		return
	}
	if !containsProc(ts.secondary, inputs.ProcessCNC) {
		ts.secondary = append([]inputs.Process{inputs.ProcessCNC}, ts.secondary...)
	}
	ts.tracef("hybrid: %s + CNC finishing offered (gap %d)", ts.primary, gap)
}

// hasFinishingSignals detects secondary-machining demand from free
// text or structured risk inputs.
func hasFinishingSignals(in *inputs.Inputs, part *inputs.PartSummary) bool {
	text := strings.ToLower(in.UserText)
	for _, kw := range hybridFinishingKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return in.ToleranceCriticality == inputs.ToleranceMedium ||
		in.ToleranceCriticality == inputs.ToleranceHigh ||
		part.FeatureVariety == inputs.VarietyHigh ||
		part.AccessibilityRisk == inputs.AccessMedium ||
		part.AccessibilityRisk == inputs.AccessHigh ||
		part.HasClampingFaces
}

// ToolingIntensive reports whether p is a near-net-shape process that
// typically needs secondary finishing.
func ToolingIntensive(p inputs.Process) bool { return toolingIntensive[p] }

// HasFinishingSignals is the shared finishing-demand predicate, also
// used by the findings engine for hybrid offers.
func HasFinishingSignals(in *inputs.Inputs, part *inputs.PartSummary) bool {
	return hasFinishingSignals(in, part)
}

// stageNotRecommended lists clear losers, never the user's own choice.
func stageNotRecommended(ts *tiebreakState) {
	selected := ts.in.UserSelected()
	primaryScore := ts.score.Scores[ts.primary]
	for _, p := range ts.sorted {
		if p == ts.primary || containsProc(ts.secondary, p) || p == selected {
			continue
		}
		s := ts.score.Scores[p]
		if s <= ts.cfg.FloorScore && primaryScore-s >= ts.cfg.FloorGap {
			ts.notRec = append(ts.notRec, p)
		}
	}
}

// stageNormalize enforces the output invariants: no primary in
// secondary, no duplicates, bounded list length.
func stageNormalize(ts *tiebreakState) {
	seen := map[inputs.Process]bool{ts.primary: true}
	out := ts.secondary[:0]
	for _, p := range ts.secondary {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
		if len(out) >= ts.cfg.MaxSecondary {
			break
		}
	}
	ts.secondary = out
}

func containsProc(list []inputs.Process, p inputs.Process) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// #endregion
