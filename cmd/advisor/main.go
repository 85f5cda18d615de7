package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/danielpatrickdp/dfm-advisor/internal/advisor"
	"github.com/danielpatrickdp/dfm-advisor/internal/config"
	"github.com/danielpatrickdp/dfm-advisor/internal/explain"
	"github.com/danielpatrickdp/dfm-advisor/internal/material"
	"github.com/danielpatrickdp/dfm-advisor/internal/replay"
	"github.com/danielpatrickdp/dfm-advisor/internal/retrieval"
	"github.com/danielpatrickdp/dfm-advisor/internal/store"
)

// requestFile is the one-shot input format: the replay fixture request
// shapes without expectations.
type requestFile struct {
	Inputs replay.FixtureInputs `json:"inputs"`
	Part   replay.FixturePart   `json:"part_summary"`
	Conf   replay.FixtureConf   `json:"confidence_inputs"`
}

// #region main
func main() {
	requestPath := flag.String("request", "", "path to request JSON (one-shot mode)")
	jsonOut := flag.Bool("json", false, "print the full report as JSON")
	flag.Parse()

	cfg := config.Load()

	st, err := store.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	registry, err := material.Load()
	if err != nil {
		log.Fatalf("failed to load material profiles: %v", err)
	}

	retriever := retrieval.NewRetriever(st, retrieval.Config{
		ConfidenceSkip: cfg.ConfidenceSkip,
		TopK:           cfg.RAGTopK,
		MaxEvidenceLen: 2000,
	})

	var client explain.LLMClient
	if cfg.LLMEnabled() {
		client = explain.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
	}
	explainer := explain.New(client, st, explain.Options{
		Model:    cfg.LLMModel,
		CacheTTL: cfg.ExplainTTL,
		Enabled:  cfg.LLMEnabled(),
	})

	adv := advisor.New(registry, retriever, explainer, st, cfg)

	if *requestPath != "" {
		os.Exit(runOnce(adv, *requestPath, *jsonOut))
	}
	runInteractive(adv, cfg)
}

// #endregion main

// #region one-shot
func runOnce(adv *advisor.Advisor, path string, jsonOut bool) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read request: %v\n", err)
		return 2
	}
	var rf requestFile
	if err := json.Unmarshal(raw, &rf); err != nil {
		fmt.Fprintf(os.Stderr, "parse request: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	report, err := adv.Run(ctx, requestFromFile(rf))
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return 1
	}

	if jsonOut {
		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(out))
	} else {
		printReport(report)
	}
	return 0
}

func requestFromFile(rf requestFile) advisor.Request {
	c := replay.Case{Inputs: rf.Inputs, Part: rf.Part, Conf: rf.Conf}
	return advisor.Request{
		Inputs: c.Inputs.ToInputs(),
		Part:   c.Part.ToPart(),
		Conf:   c.Conf.ToConf(),
	}
}

// #endregion one-shot

// #region interactive
func runInteractive(adv *advisor.Advisor, cfg config.Config) {
	fmt.Println("DFM Advisor ready.")
	fmt.Printf("  DB: %s | LLM: %s | RAG: %t\n", cfg.DBPath, cfg.LLMMode, cfg.RAGEnabled)
	fmt.Println("Answer the prompts (enter keeps the default, 'quit' exits).")

	scanner := bufio.NewScanner(os.Stdin)
	runNum := 0

	for {
		rf, quit := promptRequest(scanner)
		if quit {
			break
		}
		runNum++

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		report, err := adv.Run(ctx, requestFromFile(rf))
		cancel()
		if err != nil {
			log.Printf("run error: %v", err)
			continue
		}

		printReport(report)
		fmt.Printf("[run-%d] decision=%s rounds=%d confidence=%.2f\n\n",
			runNum, report.Decision, report.Rounds, report.Confidence.Value)
	}
}

func promptRequest(scanner *bufio.Scanner) (requestFile, bool) {
	ask := func(label, fallback string) (string, bool) {
		fmt.Printf("%s [%s]: ", label, fallback)
		if !scanner.Scan() {
			return "", true
		}
		v := strings.TrimSpace(scanner.Text())
		if v == "quit" || v == "exit" {
			return "", true
		}
		if v == "" {
			return fallback, false
		}
		return v, false
	}

	var rf requestFile
	fields := []struct {
		label    string
		fallback string
		dst      *string
	}{
		{"Process (AUTO/CNC/CNC_TURNING/AM/SHEET_METAL/INJECTION_MOLDING/CASTING/FORGING/EXTRUSION/MIM/THERMOFORMING/COMPRESSION_MOLDING)", "AUTO", &rf.Inputs.Process},
		{"Material (Aluminum/Steel/Plastic)", "Aluminum", &rf.Inputs.Material},
		{"Production volume (Proto/Small batch/Production)", "Proto", &rf.Inputs.ProductionVolume},
		{"Load type (Static/Dynamic/Shock)", "Static", &rf.Inputs.LoadType},
		{"Tolerance criticality (Low/Medium/High)", "Medium", &rf.Inputs.ToleranceCriticality},
		{"Notes (free text)", "", &rf.Inputs.UserText},
		{"Part size (Small/Medium/Large)", "Medium", &rf.Part.PartSize},
		{"Min internal radius (Small/Medium/Large/Unknown)", "Unknown", &rf.Part.MinInternalRadius},
		{"Min wall thickness (Thin/Medium/Thick/Unknown)", "Unknown", &rf.Part.MinWallThickness},
		{"Hole depth (None/Moderate/Deep/Unknown)", "Unknown", &rf.Part.HoleDepthClass},
		{"Pocket aspect (OK/Risky/Extreme/Unknown)", "Unknown", &rf.Part.PocketAspectClass},
		{"Feature variety (Low/Medium/High)", "Low", &rf.Part.FeatureVariety},
		{"Accessibility risk (Low/Medium/High)", "Low", &rf.Part.AccessibilityRisk},
	}
	for _, f := range fields {
		v, quit := ask(f.label, f.fallback)
		if quit {
			return rf, true
		}
		*f.dst = v
	}

	clamping, quit := ask("Has clamping faces (y/n)", "y")
	if quit {
		return rf, true
	}
	rf.Part.HasClampingFaces = strings.HasPrefix(strings.ToLower(clamping), "y")

	drawing, quit := ask("2D drawing provided (y/n)", "n")
	if quit {
		return rf, true
	}
	rf.Conf.Has2DDrawing = strings.HasPrefix(strings.ToLower(drawing), "y")

	scale, quit := ask("STEP scale confirmed (y/n)", "n")
	if quit {
		return rf, true
	}
	rf.Conf.StepScaleConfirmed = strings.HasPrefix(strings.ToLower(scale), "y")

	return rf, false
}

// #endregion interactive

// #region output
func printReport(report *advisor.Report) {
	fmt.Printf("\n%s\n", report.Explanation.Markdown)
	fmt.Println(report.CADStatusLine)
	if len(report.Sources) > 0 {
		fmt.Println("Knowledge sources:")
		for _, s := range report.Sources {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(report.Trace) > 0 {
		fmt.Println("Trace:")
		for _, tr := range report.Trace {
			fmt.Printf("  - %s\n", tr)
		}
	}
}

// #endregion output
