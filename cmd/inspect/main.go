package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/dfm-advisor/internal/config"
	"github.com/danielpatrickdp/dfm-advisor/internal/logging"
	"github.com/danielpatrickdp/dfm-advisor/internal/store"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the advisor database (default from ADVISOR_DB)")
	last := flag.Int("last", 20, "show N most recent runs")
	run := flag.String("run", "", "show single run detail with provenance")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	path := *dbPath
	if path == "" {
		path = config.Load().DBPath
	}

	st, err := store.NewStore(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if *run != "" {
		if err := runDetailMode(st, *run, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(st, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID      string  `json:"run_id"`
	Primary    string  `json:"primary"`
	Decision   string  `json:"decision"`
	Rounds     int     `json:"rounds"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	// Store returns newest first, reverse for chronological display.
	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[len(runs)-1-i] = listRow{
			RunID:      r.RunID,
			Primary:    r.PrimaryProc,
			Decision:   r.Decision,
			Rounds:     r.Rounds,
			Confidence: r.Confidence,
			CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-14s  %-10s  %6s  %10s  %s\n",
		"Run", "Primary", "Decision", "Rounds", "Confidence", "Time")
	fmt.Printf("%-10s+-%-14s+-%-10s+-%6s+-%10s+-%s\n",
		"----------", "--------------", "----------", "------", "----------", "--------------------")
	for _, r := range rows {
		primary := r.Primary
		if primary == "" {
			primary = "—"
		}
		fmt.Printf("%-10s  %-14s  %-10s  %6d  %10.2f  %s\n",
			shortID(r.RunID), primary, r.Decision, r.Rounds, r.Confidence, r.CreatedAt)
	}

	total, err := st.CountChunks()
	if err != nil {
		return err
	}
	fmt.Printf("\nKnowledge base: %d chunks\n", total)
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	RunID      string          `json:"run_id"`
	Primary    string          `json:"primary"`
	Decision   string          `json:"decision"`
	Rounds     int             `json:"rounds"`
	Confidence float64         `json:"confidence"`
	CreatedAt  string          `json:"created_at"`
	Inputs     json.RawMessage `json:"inputs"`
	Result     json.RawMessage `json:"result"`
	Provenance []stageRow      `json:"provenance"`
}

type stageRow struct {
	Stage    string `json:"stage"`
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

func runDetailMode(st *store.Store, runID string, jsonOut bool) error {
	r, err := st.GetRun(runID)
	if err != nil {
		return err
	}
	entries, err := logging.DecisionsForRun(st.DB(), runID)
	if err != nil {
		return err
	}

	out := detailOutput{
		RunID:      r.RunID,
		Primary:    r.PrimaryProc,
		Decision:   r.Decision,
		Rounds:     r.Rounds,
		Confidence: r.Confidence,
		CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Inputs:     json.RawMessage(r.InputsJSON),
		Result:     json.RawMessage(r.ResultJSON),
	}
	for _, e := range entries {
		out.Provenance = append(out.Provenance, stageRow{
			Stage:    e.Stage,
			Decision: e.Decision,
			Reason:   e.Reason,
		})
	}

	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Run:        %s\n", out.RunID)
	fmt.Printf("Primary:    %s\n", out.Primary)
	fmt.Printf("Decision:   %s\n", out.Decision)
	fmt.Printf("Rounds:     %d\n", out.Rounds)
	fmt.Printf("Confidence: %.2f\n", out.Confidence)
	fmt.Printf("Created:    %s\n", out.CreatedAt)

	fmt.Printf("\nProvenance:\n")
	for _, p := range out.Provenance {
		if p.Reason != "" {
			fmt.Printf("  %-12s %-10s %s\n", p.Stage, p.Decision, p.Reason)
		} else {
			fmt.Printf("  %-12s %s\n", p.Stage, p.Decision)
		}
	}
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
