package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBPath != "dfm_advisor.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.LLMEnabled() {
		t.Error("LLM should default to off")
	}
	if !cfg.RAGEnabled {
		t.Error("RAG should default to enabled")
	}
	if cfg.MaxRounds != 2 {
		t.Errorf("MaxRounds = %d, want 2", cfg.MaxRounds)
	}
	if cfg.ExplainTTL != 24*time.Hour {
		t.Errorf("ExplainTTL = %v", cfg.ExplainTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADVISOR_DB", "/tmp/x.db")
	t.Setenv("ADVISOR_LLM_MODE", "on")
	t.Setenv("ADVISOR_RAG_ENABLED", "false")
	t.Setenv("ADVISOR_RAG_TOP_K", "9")
	t.Setenv("ADVISOR_CONFIDENCE_SKIP", "0.70")
	t.Setenv("ADVISOR_MAX_ROUNDS", "0")

	cfg := Load()
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if !cfg.LLMEnabled() {
		t.Error("LLM should be enabled")
	}
	if cfg.RAGEnabled {
		t.Error("RAG should be disabled")
	}
	if cfg.RAGTopK != 9 {
		t.Errorf("RAGTopK = %d", cfg.RAGTopK)
	}
	if cfg.ConfidenceSkip != 0.70 {
		t.Errorf("ConfidenceSkip = %v", cfg.ConfidenceSkip)
	}
	if cfg.MaxRounds != 0 {
		t.Errorf("MaxRounds = %d", cfg.MaxRounds)
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("ADVISOR_RAG_TOP_K", "zero")
	t.Setenv("ADVISOR_CONFIDENCE_SKIP", "3.5")

	cfg := Load()
	if cfg.RAGTopK != 5 {
		t.Errorf("RAGTopK = %d, want default 5", cfg.RAGTopK)
	}
	if cfg.ConfidenceSkip != 0.80 {
		t.Errorf("ConfidenceSkip = %v, want default 0.80", cfg.ConfidenceSkip)
	}
}
