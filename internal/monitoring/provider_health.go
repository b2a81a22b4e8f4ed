package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMER     = 15 * time.Second
	DEFAULT_FAILURE_LIMIT = 3
)

// ProviderHealth trips after a run of consecutive failed provider calls. While
// tripped, callers skip the provider and use their local fallback until the
// monitor re-arms it.
type ProviderHealth struct {
	name      string
	limit     int32
	healthy   atomic.Bool
	failures  atomic.Int32
	trippedAt atomic.Int64
}

func NewProviderHealth(name string, limit int) *ProviderHealth {
	if limit <= 0 {
		limit = DEFAULT_FAILURE_LIMIT
	}
	h := &ProviderHealth{name: name, limit: int32(limit)}
	h.healthy.Store(true)
	return h
}

func (h *ProviderHealth) Healthy() bool {
	return h.healthy.Load()
}

func (h *ProviderHealth) RecordSuccess() {
	h.failures.Store(0)
}

func (h *ProviderHealth) RecordFailure() {
	if h.failures.Add(1) < h.limit {
		return
	}
	if h.healthy.CompareAndSwap(true, false) {
		h.trippedAt.Store(time.Now().UnixNano())
		slog.Warn("[HealthCheck] Provider is unhealthy, falling back locally",
			slog.String("provider", h.name),
			slog.Int("consecutive_failures", int(h.failures.Load())))
	}
}

// Rearm lets calls through again and clears the failure streak.
func (h *ProviderHealth) Rearm() {
	h.failures.Store(0)
	if h.healthy.CompareAndSwap(false, true) {
		slog.Info("[HealthCheck] Provider re-armed", slog.String("provider", h.name))
	}
}

// MonitorProviderHealth re-arms a tripped provider once it has been tripped for
// at least one full interval.
func MonitorProviderHealth(ctx context.Context, h *ProviderHealth, interval time.Duration) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.Healthy() {
				continue
			}
			if time.Since(time.Unix(0, h.trippedAt.Load())) >= interval {
				h.Rearm()
			}
		}
	}
}
