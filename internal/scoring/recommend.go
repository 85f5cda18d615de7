package scoring

import "github.com/danielpatrickdp/dfm-advisor/internal/inputs"

// #region recommend
// Recommend runs score + tie-break end to end. Missing inputs or part
// summary degrade to a null recommendation with a reason; the scorer
// itself never errors.
func Recommend(cfg Config, req Request) Recommendation {
	if req.Inputs == nil || req.Part == nil {
		return Recommendation{
			Reasons: []string{"inputs or part summary missing; no recommendation possible"},
		}
	}

	st := Score(req)
	ts := runTieBreak(cfg, st, req.Inputs, req.Part, req.Geo.Reliable())

	rec := Recommendation{
		Primary:        ts.primary,
		Secondary:      append([]inputs.Process(nil), ts.secondary...),
		NotRecommended: append([]inputs.Process(nil), ts.notRec...),
		Tradeoffs:      defaultTradeoffs(),
		Scores:         st.Scores,
		ScoreBreakdown: st.Breakdown,
		ProcessGates:   st.Gates,
		EligibleProcs:  append([]inputs.Process(nil), st.Eligible...),
		UserSelected:   req.Inputs.Process,
		Trace:          ts.trace,
	}

	rec.ReasonsPrimary = emittedReasons(st, ts.primary, 6)
	for _, p := range ts.secondary {
		rec.ReasonsSecondary = append(rec.ReasonsSecondary, emittedReasons(st, p, 2)...)
	}
	rec.ReasonsSecondary = dedup(rec.ReasonsSecondary, 4)

	var all []string
	all = append(all, rec.ReasonsPrimary...)
	all = append(all, rec.ReasonsSecondary...)
	rec.Reasons = dedup(all, 6)

	return rec
}

func emittedReasons(st *ScoreState, p inputs.Process, limit int) []string {
	var out []string
	for _, e := range st.Breakdown[p] {
		if e.Emit && e.Reason != "" {
			out = append(out, e.Reason)
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

func dedup(in []string, limit int) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func defaultTradeoffs() []string {
	return []string{
		"Tooling lead time vs unit cost: molding and casting need tooling; CNC and AM suit low volume.",
		"Tolerance and finish: define critical interfaces; plan post-machining or inspection where needed.",
		"Volume sensitivity: tooling-amortized processes favor production runs; CNC and AM suit proto and small batch.",
	}
}

// #endregion recommend
