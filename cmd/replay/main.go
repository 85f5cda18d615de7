package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/dfm-advisor/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	verbose := flag.Bool("v", false, "print the full report for failing cases")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [-v]")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}
	if fixture.Description != "" {
		fmt.Printf("Fixture: %s\n", fixture.Description)
	}

	results, summary, err := replay.Replay(fixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(2)
	}

	for _, r := range results {
		if r.Passed {
			fmt.Printf("PASS  %s\n", r.Name)
			continue
		}
		fmt.Printf("FAIL  %s\n", r.Name)
		for _, f := range r.Failures {
			fmt.Printf("      %s\n", f)
		}
		if *verbose && r.Report != nil {
			out, _ := json.MarshalIndent(r.Report, "", "  ")
			fmt.Println(string(out))
		}
	}

	fmt.Printf("\n%d cases: %d passed, %d failed\n", summary.Total, summary.Passed, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// #endregion main
