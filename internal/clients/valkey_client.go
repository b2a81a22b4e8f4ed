package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	mu     sync.Mutex
}

const VALKEY_ANALYZED_KEY = "fcpulse:analyzed_items"

func valkeyOptions() valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
		Password:         os.Getenv("VALKEY_PASSWORD"),
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if os.Getenv("VALKEY_TLS") == "true" {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey() (valkey.Client, error) {
	client, err := valkey.NewClient(valkeyOptions())
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey")
	return client, nil
}

func InitValkey() (*ValkeyClient, error) {
	var initErr error
	valkeyOnce.Do(func() {
		client, err := connectValkey()
		if err != nil {
			initErr = err
			return
		}
		valkeyInstance = &ValkeyClient{Client: client}
	})
	if valkeyInstance == nil && initErr == nil {
		initErr = fmt.Errorf("[ValkeyClient] previous initialization failed")
	}
	return valkeyInstance, initErr
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey()
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}
	vc.Client.Close()
	vc.Client = client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// PublishReport stores payload under the run's key and as the latest report,
// both expiring after ttl.
func (vc *ValkeyClient) PublishReport(ctx context.Context, runID string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DEFAULT_REPORT_TTL
	}
	seconds := int64(ttl / time.Second)

	var completed []valkey.Completed
	for _, key := range []string{REPORT_KEY_PREFIX + runID, REPORT_LATEST_KEY} {
		completed = append(completed,
			vc.Client.B().Set().Key(key).Value(valkey.BinaryString(payload)).Build(),
			vc.Client.B().Expire().Key(key).Seconds(seconds).Build(),
		)
	}

	for _, res := range vc.DoMultiWithRetry(ctx, completed, MAX_RETRIES) {
		if err := res.Error(); err != nil {
			return fmt.Errorf("[ValkeyClient] failed to publish report %s: %w", runID, err)
		}
	}

	slog.Info("[ValkeyClient] Published report",
		slog.String("run_id", runID),
		slog.Int("bytes", len(payload)))
	return nil
}

// MarkAnalyzed records item IDs so later runs can skip them.
func (vc *ValkeyClient) MarkAnalyzed(ctx context.Context, ids []string, ttl time.Duration) error {
	if len(ids) == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = DEFAULT_REPORT_TTL
	}

	completed := []valkey.Completed{
		vc.Client.B().Sadd().Key(VALKEY_ANALYZED_KEY).Member(ids...).Build(),
		vc.Client.B().Expire().Key(VALKEY_ANALYZED_KEY).Seconds(int64(ttl / time.Second)).Build(),
	}
	for _, res := range vc.DoMultiWithRetry(ctx, completed, MAX_RETRIES) {
		if err := res.Error(); err != nil {
			return err
		}
	}

	slog.Info("[ValkeyClient] Marked items analyzed", slog.Int("count", len(ids)))
	return nil
}

// IsAnalyzed reports, per ID, whether it was marked by an earlier run.
func (vc *ValkeyClient) IsAnalyzed(ctx context.Context, ids []string) ([]bool, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	completed := make([]valkey.Completed, 0, len(ids))
	for _, id := range ids {
		completed = append(completed, vc.Client.B().Sismember().Key(VALKEY_ANALYZED_KEY).Member(id).Build())
	}

	out := make([]bool, len(ids))
	for i, res := range vc.DoMultiWithRetry(ctx, completed, MAX_RETRIES) {
		ok, err := res.AsBool()
		if err != nil {
			return nil, fmt.Errorf("[ValkeyClient] failed to check %s: %w", ids[i], err)
		}
		out[i] = ok
	}
	return out, nil
}

func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.Client.DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil && !valkey.IsValkeyNil(r.Error()) {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(RETRY_BACKOFF)
	}

	return results
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
