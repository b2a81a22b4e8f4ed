package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProviderComprehend = "comprehend"
	ProviderVader      = "vader"
)

// Settings is everything one analysis run needs, read from the environment.
type Settings struct {
	Env      string
	LogLevel slog.Level

	Provider           string
	BatchSize          int
	Workers            int
	RateLimit          float64
	CallTimeout        time.Duration
	KeyPhraseThreshold float64
	UnitPrice          decimal.Decimal
	FailureLimit       int

	InputFile     string
	FeedbackTable string
	ResultsTable  string
	OutputFile    string

	ValkeyAddress string
	ReportTTL     time.Duration
	SkipAnalyzed  bool

	KafkaEnabled bool
}

// Load reads settings from the environment. Malformed numbers fall back to
// their defaults; an unknown provider or unit price is an error.
func Load() (Settings, error) {
	s := Settings{
		Env:                getenv("APP_ENV", "dev"),
		LogLevel:           getenvLevel("FCPULSE_LOG_LEVEL", slog.LevelInfo),
		Provider:           strings.ToLower(getenv("FCPULSE_PROVIDER", ProviderComprehend)),
		BatchSize:          getenvInt("FCPULSE_BATCH_SIZE", 25),
		Workers:            getenvInt("FCPULSE_WORKERS", 1),
		RateLimit:          getenvFloat("FCPULSE_RATE_LIMIT", 10),
		CallTimeout:        getenvDuration("FCPULSE_CALL_TIMEOUT", 30*time.Second),
		KeyPhraseThreshold: getenvFloat("FCPULSE_KEY_PHRASE_THRESHOLD", 0.8),
		FailureLimit:       getenvInt("FCPULSE_FAILURE_LIMIT", 3),
		InputFile:          os.Getenv("FCPULSE_INPUT_FILE"),
		FeedbackTable:      os.Getenv("FCPULSE_FEEDBACK_TABLE"),
		ResultsTable:       os.Getenv("FCPULSE_RESULTS_TABLE"),
		OutputFile:         os.Getenv("FCPULSE_OUTPUT_FILE"),
		ValkeyAddress:      os.Getenv("VALKEY_INIT_ADDRESS"),
		ReportTTL:          getenvDuration("FCPULSE_REPORT_TTL", 7*24*time.Hour),
		SkipAnalyzed:       getenvBool("FCPULSE_SKIP_ANALYZED", false),
		KafkaEnabled:       getenvBool("FCPULSE_KAFKA_ENABLED", false),
	}

	switch s.Provider {
	case ProviderComprehend, ProviderVader:
	default:
		return Settings{}, fmt.Errorf("[Config] unknown provider %q", s.Provider)
	}

	price, err := decimal.NewFromString(getenv("FCPULSE_UNIT_PRICE", "0.0001"))
	if err != nil {
		return Settings{}, fmt.Errorf("[Config] invalid FCPULSE_UNIT_PRICE: %w", err)
	}
	if s.Provider == ProviderVader {
		price = decimal.Zero
	}
	s.UnitPrice = price

	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getenvLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
