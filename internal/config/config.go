package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// #region types

// Config holds runtime parameters for the advisor.
type Config struct {
	DBPath string

	LLMMode    string // "off" disables the LLM entirely
	LLMModel   string
	LLMBaseURL string // OpenAI-compatible endpoint, e.g. an Ollama server
	LLMAPIKey  string

	RAGEnabled     bool
	RAGTopK        int
	ExplainTTL     time.Duration
	ConfidenceSkip float64
	MaxRounds      int
}

// LLMEnabled reports whether explanation calls may leave the process.
func (c Config) LLMEnabled() bool {
	return c.LLMMode != "off"
}

// #endregion types

// #region load

// Load reads configuration from the environment, after loading a .env
// file when one is present. Env vars:
// ADVISOR_DB, ADVISOR_LLM_MODE, ADVISOR_LLM_MODEL, ADVISOR_LLM_BASE_URL,
// ADVISOR_LLM_API_KEY, ADVISOR_RAG_ENABLED, ADVISOR_RAG_TOP_K,
// ADVISOR_EXPLAIN_TTL, ADVISOR_CONFIDENCE_SKIP, ADVISOR_MAX_ROUNDS.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DBPath:         envOr("ADVISOR_DB", "dfm_advisor.db"),
		LLMMode:        envOr("ADVISOR_LLM_MODE", "off"),
		LLMModel:       envOr("ADVISOR_LLM_MODEL", "llama3.1"),
		LLMBaseURL:     envOr("ADVISOR_LLM_BASE_URL", "http://localhost:11434/v1"),
		LLMAPIKey:      envOr("ADVISOR_LLM_API_KEY", "ollama"),
		RAGEnabled:     true,
		RAGTopK:        5,
		ExplainTTL:     24 * time.Hour,
		ConfidenceSkip: 0.80,
		MaxRounds:      2,
	}
	if v := os.Getenv("ADVISOR_RAG_ENABLED"); v != "" {
		cfg.RAGEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("ADVISOR_RAG_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RAGTopK = n
		}
	}
	if v := os.Getenv("ADVISOR_EXPLAIN_TTL"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			cfg.ExplainTTL = time.Duration(sec) * time.Second
		}
	}
	if v := os.Getenv("ADVISOR_CONFIDENCE_SKIP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.ConfidenceSkip = f
		}
	}
	if v := os.Getenv("ADVISOR_MAX_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRounds = n
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load
