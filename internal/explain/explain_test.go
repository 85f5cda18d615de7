package explain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/dfm-advisor/internal/confidence"
	"github.com/danielpatrickdp/dfm-advisor/internal/inputs"
	"github.com/danielpatrickdp/dfm-advisor/internal/rules"
	"github.com/danielpatrickdp/dfm-advisor/internal/scoring"
)

// #region fakes
type fakeClient struct {
	resp  string
	err   error
	calls int
}

func (f *fakeClient) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.resp, f.err
}

type fakeCache struct {
	entries map[string]string
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) GetExplanation(key string, _ time.Duration) (string, bool, error) {
	content, ok := f.entries[key]
	return content, ok, nil
}

func (f *fakeCache) PutExplanation(key, _, content string) error {
	f.entries[key] = content
	f.puts++
	return nil
}

func testPayload() Payload {
	return Payload{
		Inputs: inputs.Inputs{
			Process:              inputs.ProcessAuto,
			Material:             inputs.MaterialSteel,
			ProductionVolume:     inputs.VolumeProduction,
			LoadType:             inputs.LoadStatic,
			ToleranceCriticality: inputs.ToleranceMedium,
		},
		Part: inputs.PartSummary{
			PartSize:          inputs.SizeMedium,
			MinInternalRadius: inputs.RadiusMedium,
			MinWallThickness:  inputs.WallThin,
			HoleDepthClass:    inputs.HoleNone,
			PocketAspectClass: inputs.PocketOK,
			FeatureVariety:    inputs.VarietyLow,
			AccessibilityRisk: inputs.AccessLow,
			HasClampingFaces:  true,
		},
		Rec: scoring.Recommendation{
			Primary:   inputs.ProcessSheetMetal,
			Secondary: []inputs.Process{inputs.ProcessCNC},
			Tradeoffs: []string{"Tooling cost vs unit cost"},
		},
		Findings: []rules.Finding{
			{ID: "DFM_WALL1", Severity: rules.SeverityMedium, Title: "Thin walls", Recommendation: "Thicken walls where possible"},
		},
		Confidence: confidence.Score{Value: 0.72},
		CADStatus:  "ok",
	}
}

const validLLMResponse = "## Report\n\nSheet metal fits.\n\nACTION CHECKLIST\n- Thicken walls\n- Confirm bend radii\n- Review hole spacing\n- Get a quote\n\nASSUMPTIONS\n- Standard gauge stock\n- No cosmetic requirements\n"

// #endregion fakes

// #region tests
func TestDisabledUsesFallback(t *testing.T) {
	client := &fakeClient{resp: validLLMResponse}
	e := New(client, newFakeCache(), Options{Model: "m", Enabled: false})

	result := e.Explain(context.Background(), testPayload())
	if result.Source != "fallback" {
		t.Fatalf("expected fallback, got %s", result.Source)
	}
	if client.calls != 0 {
		t.Errorf("disabled explainer should not call the LLM, got %d calls", client.calls)
	}
	if !strings.Contains(result.Markdown, "SHEET_METAL") {
		t.Error("fallback should name the primary process")
	}
}

func TestNilClientUsesFallback(t *testing.T) {
	e := New(nil, nil, Options{Model: "m", Enabled: true})

	result := e.Explain(context.Background(), testPayload())
	if result.Source != "fallback" {
		t.Fatalf("expected fallback, got %s", result.Source)
	}
}

func TestLLMSuccessIsCached(t *testing.T) {
	client := &fakeClient{resp: validLLMResponse}
	cache := newFakeCache()
	e := New(client, cache, Options{Model: "m", CacheTTL: time.Hour, Enabled: true})

	first := e.Explain(context.Background(), testPayload())
	if first.Source != "llm" {
		t.Fatalf("expected llm, got %s (%s)", first.Source, first.Reason)
	}
	if cache.puts != 1 {
		t.Fatalf("expected 1 cache write, got %d", cache.puts)
	}

	second := e.Explain(context.Background(), testPayload())
	if second.Source != "cache" {
		t.Fatalf("expected cache hit, got %s", second.Source)
	}
	if client.calls != 1 {
		t.Errorf("second run should not call the LLM again, got %d calls", client.calls)
	}
	if second.Markdown != first.Markdown {
		t.Error("cached content should match the original response")
	}
}

func TestLLMErrorFallsBack(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	e := New(client, newFakeCache(), Options{Model: "m", Enabled: true})

	result := e.Explain(context.Background(), testPayload())
	if result.Source != "fallback" {
		t.Fatalf("expected fallback, got %s", result.Source)
	}
	if !strings.Contains(result.Reason, "llm error") {
		t.Errorf("reason should record the degradation, got %q", result.Reason)
	}
}

func TestInvalidLLMResponseFallsBack(t *testing.T) {
	cases := []struct {
		name string
		resp string
	}{
		{"empty", "   "},
		{"code fence", "```\nreport\n```\nACTION CHECKLIST\n- x\nASSUMPTIONS\n- y"},
		{"missing sections", "Just a paragraph of prose."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := New(&fakeClient{resp: tc.resp}, nil, Options{Model: "m", Enabled: true})
			result := e.Explain(context.Background(), testPayload())
			if result.Source != "fallback" {
				t.Errorf("expected fallback, got %s", result.Source)
			}
		})
	}
}

func TestCacheKeyChangesWithPayload(t *testing.T) {
	p := testPayload()
	base := CacheKey("m", userPrompt(p))

	if CacheKey("m", userPrompt(p)) != base {
		t.Error("equal payloads must hash equal")
	}
	if CacheKey("other-model", userPrompt(p)) == base {
		t.Error("model change must change the key")
	}

	p.Part.MinWallThickness = inputs.WallThick
	if CacheKey("m", userPrompt(p)) == base {
		t.Error("part bin change must change the key")
	}
}

func TestFallbackCoversFindingsAndConfidence(t *testing.T) {
	p := testPayload()
	md := Fallback(p)

	for _, want := range []string{
		"Findings (MEDIUM)",
		"Thin walls",
		"Action checklist",
		"Score: 0.72",
		"Recommended process: SHEET_METAL",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("fallback missing %q", want)
		}
	}
}

func TestFallbackNoFindings(t *testing.T) {
	p := testPayload()
	p.Findings = nil
	md := Fallback(p)

	if !strings.Contains(md, "No findings") {
		t.Error("empty findings should render the default checklist item")
	}
}

// #endregion tests
