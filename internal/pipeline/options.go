package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/spacesedan/fcpulse/internal/cost"
	"github.com/spacesedan/fcpulse/internal/monitoring"
	"github.com/spacesedan/fcpulse/internal/sentiment"
)

const (
	DEFAULT_CALL_TIMEOUT         = 30 * time.Second
	DEFAULT_RATE_LIMIT           = 10.0
	DEFAULT_KEY_PHRASE_THRESHOLD = 0.8
)

// Options tune a Pipeline. BatchSize is capped at the provider's per-request
// limit. RateLimit is provider calls per second across all workers, and zero
// disables limiting. After FailureLimit consecutive failed calls the provider
// is skipped until HealthInterval has passed.
type Options struct {
	BatchSize          int
	Workers            int
	RateLimit          float64
	CallTimeout        time.Duration
	KeyPhraseThreshold float64
	UnitPrice          decimal.Decimal
	FailureLimit       int
	HealthInterval     time.Duration
}

func DefaultOptions() Options {
	return Options{
		BatchSize:          sentiment.MaxComprehendBatch,
		Workers:            1,
		RateLimit:          DEFAULT_RATE_LIMIT,
		CallTimeout:        DEFAULT_CALL_TIMEOUT,
		KeyPhraseThreshold: DEFAULT_KEY_PHRASE_THRESHOLD,
		UnitPrice:          cost.DefaultUnitPrice,
		FailureLimit:       monitoring.DEFAULT_FAILURE_LIMIT,
		HealthInterval:     monitoring.HEALTHCHECK_TIMER,
	}
}

func (o Options) normalized() Options {
	if o.BatchSize <= 0 || o.BatchSize > sentiment.MaxComprehendBatch {
		o.BatchSize = sentiment.MaxComprehendBatch
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = DEFAULT_CALL_TIMEOUT
	}
	if o.FailureLimit <= 0 {
		o.FailureLimit = monitoring.DEFAULT_FAILURE_LIMIT
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = monitoring.HEALTHCHECK_TIMER
	}
	return o
}
