package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/fcpulse/internal/aggregate"
	"github.com/spacesedan/fcpulse/internal/classifier"
	"github.com/spacesedan/fcpulse/internal/cost"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/monitoring"
	"github.com/spacesedan/fcpulse/internal/scoring"
	"github.com/spacesedan/fcpulse/internal/sentiment"
	"github.com/spacesedan/fcpulse/internal/textnorm"
	"github.com/spacesedan/fcpulse/internal/utils"
	"golang.org/x/time/rate"
)

// Pipeline runs items through the provider, the classifier and the business
// risk scorer, then rolls everything up into a report.
type Pipeline struct {
	provider   sentiment.Provider
	opts       Options
	classifier *classifier.SubjectClassifier
	scorer     *scoring.BusinessRiskScorer
	limiter    *rate.Limiter
	health     *monitoring.ProviderHealth
}

// Analysis is the per-item output of a run, index-aligned with Items, plus the
// report built from it.
type Analysis struct {
	Items           []models.FeedbackItem
	Classifications []models.ClassificationResult
	Sentiments      []models.SentimentResult
	Report          models.Report
}

// outcome is what the provider produced for one item.
type outcome struct {
	index      int
	keyPhrases []string
	raw        scoring.RawInput
	fallback   bool
}

func New(provider sentiment.Provider, opts Options) *Pipeline {
	opts = opts.normalized()

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Pipeline{
		provider:   provider,
		opts:       opts,
		classifier: classifier.New(),
		scorer:     scoring.New(),
		limiter:    rate.NewLimiter(limit, 1),
		health:     monitoring.NewProviderHealth(provider.Name(), opts.FailureLimit),
	}
}

// Run analyzes items and returns the report document for the run.
func (p *Pipeline) Run(ctx context.Context, items []models.FeedbackItem) (models.Report, error) {
	analysis, err := p.Analyze(ctx, items)
	if err != nil {
		return models.Report{}, err
	}
	return analysis.Report, nil
}

// Analyze never aborts on provider trouble: failed batches fall back to neutral
// sentiment and no key phrases. It only returns an error when ctx is done
// before every batch has been handled.
func (p *Pipeline) Analyze(ctx context.Context, items []models.FeedbackItem) (*Analysis, error) {
	runID := uuid.NewString()
	meter := cost.New(p.opts.UnitPrice)

	monitorCtx, stopMonitor := context.WithCancel(ctx)
	defer stopMonitor()
	go monitoring.MonitorProviderHealth(monitorCtx, p.health, p.opts.HealthInterval)

	texts := make([]string, len(items))
	outcomes := make([]outcome, len(items))
	sendable := make([]int, 0, len(items))
	for i, item := range items {
		texts[i] = textnorm.Prepare(item)
		outcomes[i] = outcome{index: i, keyPhrases: []string{}, raw: scoring.Neutral(), fallback: true}
		if texts[i] != "" {
			sendable = append(sendable, i)
		}
	}

	batches := utils.Chunk(sendable, p.opts.BatchSize)
	slog.Info("[Pipeline] Starting analysis run",
		slog.String("run_id", runID),
		slog.String("provider", p.provider.Name()),
		slog.Int("items", len(items)),
		slog.Int("batches", len(batches)),
		slog.Int("workers", p.opts.Workers))

	start := time.Now()
	results := utils.NewBatchBuffer[outcome](len(sendable))
	jobs := make(chan []int)

	var wg sync.WaitGroup
	for w := 0; w < p.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range jobs {
				p.processBatch(ctx, batch, texts, meter, results)
			}
		}()
	}

dispatch:
	for _, batch := range batches {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- batch:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		slog.Warn("[Pipeline] Run cancelled", slog.String("run_id", runID))
		return nil, fmt.Errorf("[Pipeline] run %s cancelled: %w", runID, err)
	}

	results.LogBatchProcessing("provider outcomes")
	for _, o := range results.GetAndClear() {
		outcomes[o.index] = o
	}

	analysis := p.assemble(items, outcomes)
	analysis.Report = p.report(runID, analysis, meter)

	slog.Info("[Pipeline] Analysis run complete",
		slog.String("run_id", runID),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("provider_fallbacks", analysis.Report.Overview.ProviderFallbacks),
		slog.Int64("api_calls", analysis.Report.Cost.CallsMade))

	return analysis, nil
}

func (p *Pipeline) processBatch(ctx context.Context, batch []int, texts []string, meter *cost.Meter, results *utils.BatchBuffer[outcome]) {
	batchTexts := make([]string, len(batch))
	for j, i := range batch {
		batchTexts[j] = texts[i]
	}

	phrases, phraseErr := invoke(ctx, p, meter, "key_phrases", len(batchTexts), func(callCtx context.Context) ([]sentiment.KeyPhraseResult, error) {
		return p.provider.BatchKeyPhrases(callCtx, batchTexts)
	})
	scores, sentimentErr := invoke(ctx, p, meter, "sentiment", len(batchTexts), func(callCtx context.Context) ([]sentiment.SentimentScores, error) {
		return p.provider.BatchSentiment(callCtx, batchTexts)
	})

	for j, i := range batch {
		o := outcome{index: i, keyPhrases: []string{}, raw: scoring.Neutral(), fallback: true}
		if phraseErr == nil && !phrases[j].Failed {
			o.keyPhrases = phrases[j].Above(p.opts.KeyPhraseThreshold)
		}
		if sentimentErr == nil {
			if raw, ok := scoring.FromProvider(scores[j]); ok {
				o.raw, o.fallback = raw, false
			} else if !scores[j].Failed {
				slog.Warn("[Pipeline] Discarding malformed sentiment result",
					slog.Int("item", i),
					slog.String("label", string(scores[j].Label)))
			}
		}
		results.Add(o)
	}
}

type callResult[T any] struct {
	out []T
	err error
}

// invoke makes one rate-limited, time-bounded provider call and checks that it
// answered once per text. Successful calls are billed to meter.
func invoke[T any](ctx context.Context, p *Pipeline, meter *cost.Meter, op string, n int, fn func(context.Context) ([]T, error)) ([]T, error) {
	if !p.health.Healthy() {
		return nil, sentiment.ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callResult[T]{err: fmt.Errorf("[Pipeline] %s call panicked: %v", op, r)}
			}
		}()
		out, err := fn(callCtx)
		done <- callResult[T]{out: out, err: err}
	}()

	var res callResult[T]
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = fmt.Errorf("[Pipeline] %s call: %w", op, callCtx.Err())
	}
	if res.err == nil && len(res.out) != n {
		res.err = fmt.Errorf("%w: %s returned %d results for %d texts", sentiment.ErrMalformedResponse, op, len(res.out), n)
	}

	if res.err != nil {
		if ctx.Err() == nil {
			p.health.RecordFailure()
		}
		slog.Warn("[Pipeline] Provider call failed, using fallback",
			slog.String("op", op),
			slog.Int("texts", n),
			slog.String("error", res.err.Error()))
		return nil, res.err
	}

	p.health.RecordSuccess()
	meter.RecordCall(n)
	return res.out, nil
}

func (p *Pipeline) assemble(items []models.FeedbackItem, outcomes []outcome) *Analysis {
	analysis := &Analysis{
		Items:           items,
		Classifications: make([]models.ClassificationResult, len(items)),
		Sentiments:      make([]models.SentimentResult, len(items)),
	}

	for i, item := range items {
		o := outcomes[i]
		class := p.classifier.Classify(item, o.keyPhrases)
		result := p.scorer.ScoreItem(item, o.raw)
		result.ProviderFallback = o.fallback

		analysis.Classifications[i] = class
		analysis.Sentiments[i] = scoring.Executive(result, class.Subject)
	}
	return analysis
}

func (p *Pipeline) report(runID string, a *Analysis, meter *cost.Meter) models.Report {
	postClasses := make([]models.ClassificationResult, 0, len(a.Items))
	for i, item := range a.Items {
		if item.IsPost() {
			postClasses = append(postClasses, a.Classifications[i])
		}
	}

	return models.Report{
		RunID:          runID,
		GeneratedAt:    time.Now().UTC(),
		Provider:       p.provider.Name(),
		Subjects:       aggregate.Aggregate(a.Items, a.Classifications, a.Sentiments),
		DrillDown:      aggregate.DrillDown(a.Items, a.Classifications, a.Sentiments),
		Overview:       aggregate.BuildOverview(a.Items, a.Classifications, a.Sentiments),
		EmergingTopics: aggregate.EmergingTopics(postClasses),
		Temporal:       aggregate.Temporal(a.Items),
		Cost:           meter.Snapshot(),
	}
}
