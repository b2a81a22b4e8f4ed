package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var settingsKeys = []string{
	"APP_ENV", "FCPULSE_LOG_LEVEL", "FCPULSE_PROVIDER", "FCPULSE_BATCH_SIZE",
	"FCPULSE_WORKERS", "FCPULSE_RATE_LIMIT", "FCPULSE_CALL_TIMEOUT",
	"FCPULSE_KEY_PHRASE_THRESHOLD", "FCPULSE_FAILURE_LIMIT", "FCPULSE_INPUT_FILE",
	"FCPULSE_FEEDBACK_TABLE", "FCPULSE_RESULTS_TABLE", "FCPULSE_OUTPUT_FILE",
	"VALKEY_INIT_ADDRESS", "FCPULSE_REPORT_TTL", "FCPULSE_SKIP_ANALYZED",
	"FCPULSE_KAFKA_ENABLED", "FCPULSE_UNIT_PRICE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range settingsKeys {
		if v, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, v) })
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Provider != ProviderComprehend {
		t.Fatalf("expected default provider comprehend, got %q", s.Provider)
	}
	if s.BatchSize != 25 || s.Workers != 1 || s.FailureLimit != 3 {
		t.Fatalf("unexpected batching defaults %+v", s)
	}
	if s.CallTimeout != 30*time.Second || s.KeyPhraseThreshold != 0.8 {
		t.Fatalf("unexpected call defaults %+v", s)
	}
	if !s.UnitPrice.Equal(decimal.RequireFromString("0.0001")) {
		t.Fatalf("expected unit price 0.0001, got %s", s.UnitPrice)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info level, got %v", s.LogLevel)
	}
	if s.KafkaEnabled || s.SkipAnalyzed || s.ResultsTable != "" {
		t.Fatalf("expected optional sinks disabled, got %+v", s)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FCPULSE_PROVIDER", "VADER")
	t.Setenv("FCPULSE_WORKERS", "4")
	t.Setenv("FCPULSE_CALL_TIMEOUT", "5s")
	t.Setenv("FCPULSE_LOG_LEVEL", "debug")
	t.Setenv("FCPULSE_KAFKA_ENABLED", "true")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Provider != ProviderVader || s.Workers != 4 || s.CallTimeout != 5*time.Second {
		t.Fatalf("overrides not applied %+v", s)
	}
	if !s.UnitPrice.IsZero() {
		t.Fatalf("local provider should not be billed, got %s", s.UnitPrice)
	}
	if s.LogLevel != slog.LevelDebug || !s.KafkaEnabled {
		t.Fatalf("unexpected level or kafka flag %+v", s)
	}
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("FCPULSE_BATCH_SIZE", "lots")
	t.Setenv("FCPULSE_RATE_LIMIT", "fast")

	s, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BatchSize != 25 || s.RateLimit != 10 {
		t.Fatalf("expected defaults on malformed values, got %+v", s)
	}
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("FCPULSE_PROVIDER", "openai")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}

	clearEnv(t)
	t.Setenv("FCPULSE_UNIT_PRICE", "cheap")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid unit price")
	}
}

func TestEnvFile(t *testing.T) {
	if got := EnvFile("prod"); got != "config/envs/.env.prod" {
		t.Fatalf("unexpected env file %q", got)
	}
	if got := EnvFile(""); got != "config/envs/.env.dev" {
		t.Fatalf("unexpected default env file %q", got)
	}
}
