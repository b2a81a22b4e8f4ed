package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/fcpulse/config"
	"github.com/spacesedan/fcpulse/internal/aggregate"
	"github.com/spacesedan/fcpulse/internal/clients"
	"github.com/spacesedan/fcpulse/internal/clients/kafka_client"
	"github.com/spacesedan/fcpulse/internal/db"
	"github.com/spacesedan/fcpulse/internal/logging"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/pipeline"
	"github.com/spacesedan/fcpulse/internal/sentiment"
)

const KAFKA_INIT_BACKOFF = 5 * time.Second

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	settings, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings); err != nil {
		slog.Error("[Main] Analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, s config.Settings) error {
	items, err := loadItems(ctx, s)
	if err != nil {
		return err
	}

	var cache *clients.ValkeyClient
	if s.ValkeyAddress != "" {
		cache, err = clients.InitValkey()
		if err != nil {
			return err
		}
		defer clients.CloseValkey()

		if s.SkipAnalyzed {
			if items, err = dropAnalyzed(ctx, cache, items); err != nil {
				return err
			}
		}
	}

	provider, err := newProvider(s)
	if err != nil {
		return err
	}

	opts := pipeline.DefaultOptions()
	opts.BatchSize = s.BatchSize
	opts.Workers = s.Workers
	opts.RateLimit = s.RateLimit
	opts.CallTimeout = s.CallTimeout
	opts.KeyPhraseThreshold = s.KeyPhraseThreshold
	opts.UnitPrice = s.UnitPrice
	opts.FailureLimit = s.FailureLimit

	analysis, err := pipeline.New(provider, opts).Analyze(ctx, items)
	if err != nil {
		return err
	}
	report := analysis.Report

	doc, err := report.Document()
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("[Main] marshal report: %w", err)
	}
	if err := writeReport(s.OutputFile, payload); err != nil {
		return err
	}

	if s.ResultsTable != "" {
		if err := db.StoreSentimentResults(ctx, s.ResultsTable, report.RunID, analysis.Classifications, analysis.Sentiments); err != nil {
			return err
		}
	}

	if cache != nil {
		if err := cache.PublishReport(ctx, report.RunID, payload, s.ReportTTL); err != nil {
			return err
		}
		if err := cache.MarkAnalyzed(ctx, itemIDs(items), s.ReportTTL); err != nil {
			return err
		}
	}

	if s.KafkaEnabled {
		if err := publishToKafka(ctx, analysis, payload); err != nil {
			return err
		}
	}

	slog.Info("[Main] Analysis run finished",
		slog.String("run_id", report.RunID),
		slog.Int("posts", report.Overview.TotalPosts),
		slog.Int("comments", report.Overview.TotalComments),
		slog.String("estimated_cost", report.Cost.EstimatedCost.String()))
	return nil
}

func loadItems(ctx context.Context, s config.Settings) ([]models.FeedbackItem, error) {
	if s.InputFile == "" {
		db.InitDynamoDB()
		return db.LoadFeedbackItems(ctx, s.FeedbackTable)
	}

	raw, err := os.ReadFile(s.InputFile)
	if err != nil {
		return nil, fmt.Errorf("[Main] read input file: %w", err)
	}
	var items []models.FeedbackItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("[Main] parse input file %s: %w", s.InputFile, err)
	}
	slog.Info("[Main] Loaded feedback items from file",
		slog.String("file", s.InputFile),
		slog.Int("count", len(items)))
	return items, nil
}

func newProvider(s config.Settings) (sentiment.Provider, error) {
	switch s.Provider {
	case config.ProviderComprehend:
		return sentiment.NewComprehendProvider(clients.GetComprehendClient()), nil
	case config.ProviderVader:
		return sentiment.NewVaderProvider(), nil
	}
	return nil, fmt.Errorf("[Main] unknown provider %q", s.Provider)
}

func dropAnalyzed(ctx context.Context, cache *clients.ValkeyClient, items []models.FeedbackItem) ([]models.FeedbackItem, error) {
	seen, err := cache.IsAnalyzed(ctx, itemIDs(items))
	if err != nil {
		return nil, err
	}
	fresh := make([]models.FeedbackItem, 0, len(items))
	for i, item := range items {
		if !seen[i] {
			fresh = append(fresh, item)
		}
	}
	slog.Info("[Main] Skipping previously analyzed items",
		slog.Int("skipped", len(items)-len(fresh)),
		slog.Int("remaining", len(fresh)))
	return fresh, nil
}

func writeReport(path string, payload []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(payload, '\n'))
		return err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("[Main] write report: %w", err)
	}
	slog.Info("[Main] Report written", slog.String("file", path))
	return nil
}

func publishToKafka(ctx context.Context, a *pipeline.Analysis, payload []byte) error {
	cfg := kafka_client.GetKafkaConfig()
	for attempt := 1; ; attempt++ {
		err := kafka_client.InitKafkaProducer(cfg)
		if err == nil {
			break
		}
		if attempt == kafka_client.MAX_RETRIES {
			return err
		}

		slog.Warn("[Main] Kafka init failed, retrying...",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(KAFKA_INIT_BACKOFF):
		}
	}
	defer kafka_client.CloseKafkaProducer()

	if err := kafka_client.PublishReport(ctx, cfg.ReportTopic, a.Report.RunID, payload); err != nil {
		return err
	}

	alerts := aggregate.HighRiskAlerts(a.Items, a.Classifications, a.Sentiments)
	msgs := make([]kafka_client.Message, 0, len(alerts))
	for _, alert := range alerts {
		value, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("[Main] marshal alert %s: %w", alert.ItemID, err)
		}
		msgs = append(msgs, kafka_client.Message{Key: alert.ItemID, Value: value})
	}
	return kafka_client.PublishMessages(ctx, cfg.AlertTopic, msgs)
}

func itemIDs(items []models.FeedbackItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
