package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/sentiment"
)

type fakeProvider struct {
	mu             sync.Mutex
	keyCalls       int
	sentimentCalls int

	keyErr       error
	sentimentErr error
	block        bool
	short        bool
	panics       bool
	delay        func(text string) time.Duration
	phrases      map[string][]sentiment.KeyPhrase
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) wait(ctx context.Context, texts []string) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.delay != nil {
		time.Sleep(f.delay(texts[0]))
	}
	return nil
}

func (f *fakeProvider) BatchKeyPhrases(ctx context.Context, texts []string) ([]sentiment.KeyPhraseResult, error) {
	f.mu.Lock()
	f.keyCalls++
	f.mu.Unlock()

	if err := f.wait(ctx, texts); err != nil {
		return nil, err
	}
	if f.keyErr != nil {
		return nil, f.keyErr
	}

	out := make([]sentiment.KeyPhraseResult, 0, len(texts))
	for _, text := range texts {
		out = append(out, sentiment.KeyPhraseResult{Phrases: f.phrases[text]})
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeProvider) BatchSentiment(ctx context.Context, texts []string) ([]sentiment.SentimentScores, error) {
	f.mu.Lock()
	f.sentimentCalls++
	f.mu.Unlock()

	if err := f.wait(ctx, texts); err != nil {
		return nil, err
	}
	if f.sentimentErr != nil {
		return nil, f.sentimentErr
	}
	if f.panics {
		var scores map[string]float64
		scores["boom"] = 1
	}

	out := make([]sentiment.SentimentScores, 0, len(texts))
	for _, text := range texts {
		out = append(out, label(text))
	}
	if f.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.keyCalls + f.sentimentCalls
}

func label(text string) sentiment.SentimentScores {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "reject"):
		return sentiment.SentimentScores{Failed: true}
	case strings.Contains(lower, "garbled"):
		return sentiment.SentimentScores{Label: "positive", Scores: map[models.RawSentiment]float64{models.RawPositive: 7}}
	case strings.Contains(lower, "quitting"), strings.HasPrefix(lower, "neg"):
		return sentiment.SentimentScores{Label: models.RawNegative, Scores: map[models.RawSentiment]float64{
			models.RawPositive: 0.05, models.RawNegative: 0.9, models.RawNeutral: 0.05, models.RawMixed: 0,
		}}
	case strings.Contains(lower, "love"), strings.HasPrefix(lower, "pos"):
		return sentiment.SentimentScores{Label: models.RawPositive, Scores: map[models.RawSentiment]float64{
			models.RawPositive: 0.9, models.RawNegative: 0.05, models.RawNeutral: 0.05, models.RawMixed: 0,
		}}
	default:
		return sentiment.SentimentScores{Label: models.RawNeutral, Scores: map[models.RawSentiment]float64{
			models.RawPositive: 0.05, models.RawNegative: 0.05, models.RawNeutral: 0.9, models.RawMixed: 0,
		}}
	}
}

func testOptions() Options {
	o := DefaultOptions()
	o.RateLimit = 0
	o.FailureLimit = 100
	o.HealthInterval = time.Hour
	return o
}

func scenario() []models.FeedbackItem {
	at := time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC)
	return []models.FeedbackItem{
		{ID: "p1", Kind: models.KindPost, Title: "Quitting over unsafe bathroom breaks", EngagementScore: 10, ReplyCount: 1, CreatedAt: at},
		{ID: "c1", Kind: models.KindComment, ParentID: "p1", Body: "same here, so exhausted", CreatedAt: at},
		{ID: "p2", Kind: models.KindPost, Title: "I love working here, great team", EngagementScore: 3, CreatedAt: at},
		{ID: "p3", Kind: models.KindPost, Title: "hello there", CreatedAt: at},
		{ID: "p4", Kind: models.KindPost, CreatedAt: at},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	fake := &fakeProvider{}
	a, err := New(fake, testOptions()).Analyze(context.Background(), scenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, item := range a.Items {
		if a.Sentiments[i].ItemID != item.ID || a.Classifications[i].ItemID != item.ID {
			t.Fatalf("result %d not aligned with item %s", i, item.ID)
		}
	}

	risky := a.Sentiments[0]
	if risky.BusinessImpact != models.ImpactHighRisk || risky.BusinessConfidence != 0.9 {
		t.Fatalf("expected HIGH_RISK at 0.9, got %s at %v", risky.BusinessImpact, risky.BusinessConfidence)
	}
	if !strings.HasPrefix(risky.ExecutiveSummary, "CRITICAL:") {
		t.Fatalf("expected critical executive summary, got %q", risky.ExecutiveSummary)
	}
	if a.Classifications[0].Subject != models.SubjectWorkingConditions {
		t.Fatalf("expected working_conditions, got %s", a.Classifications[0].Subject)
	}

	comment := a.Sentiments[1]
	if comment.BusinessImpact != models.ImpactMediumRisk || comment.BusinessConfidence != 0.7 {
		t.Fatalf("expected MEDIUM_RISK at 0.7 for comment, got %s at %v", comment.BusinessImpact, comment.BusinessConfidence)
	}

	happy := a.Sentiments[2]
	if happy.BusinessImpact != models.ImpactPositive || happy.BusinessConfidence != 0.8 {
		t.Fatalf("expected POSITIVE at 0.8, got %s at %v", happy.BusinessImpact, happy.BusinessConfidence)
	}
	if a.Classifications[2].Subject == models.SubjectGeneralExperience {
		t.Fatal("expected a specific subject for the positive post")
	}

	if a.Classifications[3].Subject != models.SubjectGeneralExperience || a.Classifications[3].Confidence != 0 {
		t.Fatalf("expected fallback subject, got %+v", a.Classifications[3])
	}
	if a.Sentiments[3].BusinessImpact != models.ImpactNeutral || a.Sentiments[3].ProviderFallback {
		t.Fatalf("unexpected neutral post result %+v", a.Sentiments[3])
	}

	if !a.Sentiments[4].ProviderFallback || a.Sentiments[4].RawConfidence != 0.5 {
		t.Fatalf("expected empty post to bypass the provider, got %+v", a.Sentiments[4])
	}

	r := a.Report
	if r.RunID == "" || r.Provider != "fake" {
		t.Fatalf("unexpected report header %q %q", r.RunID, r.Provider)
	}
	if got := r.Subjects[models.SubjectGeneralExperience].PostCount; got != 2 {
		t.Fatalf("expected 2 general_experience posts, got %d", got)
	}
	wc := r.Subjects[models.SubjectWorkingConditions]
	if wc.PostCount != 1 || wc.CommentCount != 1 {
		t.Fatalf("unexpected working_conditions summary %+v", wc)
	}
	if wc.BusinessImpactDistribution[models.ImpactHighRisk] != 1 {
		t.Fatalf("expected one high risk post, got %+v", wc.BusinessImpactDistribution)
	}
	if len(r.DrillDown[models.SubjectWorkingConditions].Posts[0].Comments) != 1 {
		t.Fatal("expected comment nested under its post")
	}
	if r.Overview.ProviderFallbacks != 1 {
		t.Fatalf("expected 1 fallback, got %d", r.Overview.ProviderFallbacks)
	}
	if r.Temporal.PeakHour != 14 {
		t.Fatalf("expected peak hour 14, got %d", r.Temporal.PeakHour)
	}

	if r.Cost.CallsMade != 2 || r.Cost.UnitsBilled != 8 {
		t.Fatalf("expected 2 calls for 8 units, got %+v", r.Cost)
	}
	if !r.Cost.EstimatedCost.Equal(decimal.RequireFromString("0.0008")) {
		t.Fatalf("expected cost 0.0008, got %s", r.Cost.EstimatedCost)
	}
	if fake.calls() != 2 {
		t.Fatalf("expected 2 provider calls, got %d", fake.calls())
	}
}

func TestRun_SentimentFailureFallsBack(t *testing.T) {
	fake := &fakeProvider{sentimentErr: errors.New("service unavailable")}
	a, err := New(fake, testOptions()).Analyze(context.Background(), scenario())
	if err != nil {
		t.Fatalf("provider failure must not abort the run: %v", err)
	}

	for i, s := range a.Sentiments {
		if !s.ProviderFallback || s.RawSentiment != models.RawNeutral || s.RawConfidence != 0.5 {
			t.Fatalf("item %d: expected neutral fallback, got %+v", i, s)
		}
	}
	if a.Sentiments[0].BusinessImpact != models.ImpactHighRisk {
		t.Fatal("business rules must still apply on fallback sentiment")
	}
	if a.Report.Cost.CallsMade != 1 {
		t.Fatalf("only the key phrase call should be billed, got %d", a.Report.Cost.CallsMade)
	}
}

func TestRun_TimeoutFallsBack(t *testing.T) {
	fake := &fakeProvider{block: true}
	opts := testOptions()
	opts.CallTimeout = 20 * time.Millisecond

	a, err := New(fake, opts).Analyze(context.Background(), scenario())
	if err != nil {
		t.Fatalf("timeout must not abort the run: %v", err)
	}
	if a.Report.Overview.ProviderFallbacks != len(a.Items) {
		t.Fatalf("expected every item to fall back, got %d", a.Report.Overview.ProviderFallbacks)
	}
	if a.Report.Cost.CallsMade != 0 {
		t.Fatalf("timed out calls must not be billed, got %d", a.Report.Cost.CallsMade)
	}
}

func TestRun_LengthMismatchIsMalformed(t *testing.T) {
	fake := &fakeProvider{short: true}
	a, err := New(fake, testOptions()).Analyze(context.Background(), scenario())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range a.Sentiments {
		if !s.ProviderFallback {
			t.Fatalf("item %d: expected fallback on short response", i)
		}
	}
	if a.Report.Cost.CallsMade != 0 {
		t.Fatalf("malformed responses must not be billed, got %d", a.Report.Cost.CallsMade)
	}
}

func TestRun_PerItemFailure(t *testing.T) {
	items := []models.FeedbackItem{
		{ID: "a", Kind: models.KindPost, Title: "pos fine"},
		{ID: "b", Kind: models.KindPost, Title: "reject me"},
		{ID: "c", Kind: models.KindPost, Title: "neg fine"},
	}

	a, err := New(&fakeProvider{}, testOptions()).Analyze(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Sentiments[0].RawSentiment != models.RawPositive || a.Sentiments[0].ProviderFallback {
		t.Fatalf("unexpected first result %+v", a.Sentiments[0])
	}
	if !a.Sentiments[1].ProviderFallback || a.Sentiments[1].RawSentiment != models.RawNeutral {
		t.Fatalf("expected rejected item to fall back, got %+v", a.Sentiments[1])
	}
	if a.Sentiments[2].RawSentiment != models.RawNegative {
		t.Fatalf("unexpected third result %+v", a.Sentiments[2])
	}
}

func TestRun_OrderIndependentOfWorkers(t *testing.T) {
	items := make([]models.FeedbackItem, 40)
	for i := range items {
		prefix := "pos"
		if i%3 == 0 {
			prefix = "neg"
		}
		items[i] = models.FeedbackItem{ID: fmt.Sprintf("item-%d", i), Kind: models.KindPost, Title: fmt.Sprintf("%s %d", prefix, i)}
	}

	fake := &fakeProvider{delay: func(text string) time.Duration {
		return time.Duration(len(text)%4) * time.Millisecond
	}}
	opts := testOptions()
	opts.Workers = 4
	opts.BatchSize = 3

	a, err := New(fake, opts).Analyze(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, item := range items {
		want := models.RawPositive
		if i%3 == 0 {
			want = models.RawNegative
		}
		if a.Sentiments[i].ItemID != item.ID || a.Sentiments[i].RawSentiment != want {
			t.Fatalf("item %d: expected %s/%s, got %s/%s", i, item.ID, want, a.Sentiments[i].ItemID, a.Sentiments[i].RawSentiment)
		}
	}
	if a.Report.Cost.CallsMade != 28 {
		t.Fatalf("expected 28 calls for 14 batches, got %d", a.Report.Cost.CallsMade)
	}
}

func TestRun_UnhealthyProviderIsSkipped(t *testing.T) {
	fake := &fakeProvider{keyErr: errors.New("down"), sentimentErr: errors.New("down")}
	opts := testOptions()
	opts.FailureLimit = 1
	opts.BatchSize = 1

	items := []models.FeedbackItem{
		{ID: "a", Kind: models.KindPost, Title: "one"},
		{ID: "b", Kind: models.KindPost, Title: "two"},
		{ID: "c", Kind: models.KindPost, Title: "three"},
	}
	a, err := New(fake, opts).Analyze(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls() != 1 {
		t.Fatalf("expected the breaker to stop calls after the first failure, got %d calls", fake.calls())
	}
	if a.Report.Overview.ProviderFallbacks != 3 {
		t.Fatalf("expected all items to fall back, got %d", a.Report.Overview.ProviderFallbacks)
	}
}

func TestRun_KeyPhraseThreshold(t *testing.T) {
	text := "my raise was small"
	fake := &fakeProvider{phrases: map[string][]sentiment.KeyPhrase{
		text: {{Text: "Annual Raise", Score: 0.95}, {Text: "small", Score: 0.5}},
	}}

	a, err := New(fake, testOptions()).Analyze(context.Background(), []models.FeedbackItem{
		{ID: "a", Kind: models.KindPost, Title: text},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := a.Classifications[0].KeyPhrases
	if len(got) != 1 || got[0] != "annual raise" {
		t.Fatalf("expected only 'annual raise', got %v", got)
	}
	if a.Classifications[0].Subject != models.SubjectCompensation {
		t.Fatalf("expected compensation, got %s", a.Classifications[0].Subject)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&fakeProvider{}, testOptions()).Run(ctx, scenario())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_EmptyInput(t *testing.T) {
	fake := &fakeProvider{}
	r, err := New(fake, testOptions()).Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls() != 0 || r.Cost.CallsMade != 0 {
		t.Fatal("empty input must not reach the provider")
	}
	if len(r.Subjects) != len(models.SubjectPriority) {
		t.Fatalf("expected every subject in the report, got %d", len(r.Subjects))
	}
}

func TestOptions_Normalized(t *testing.T) {
	o := Options{BatchSize: 100, Workers: -2}.normalized()
	if o.BatchSize != sentiment.MaxComprehendBatch || o.Workers != 1 || o.CallTimeout != DEFAULT_CALL_TIMEOUT {
		t.Fatalf("unexpected normalized options %+v", o)
	}
}

func TestRun_MalformedSentimentFallsBack(t *testing.T) {
	fake := &fakeProvider{}
	items := []models.FeedbackItem{
		{ID: "a", Kind: models.KindPost, Title: "garbled reply"},
		{ID: "b", Kind: models.KindPost, Title: "pos vibes"},
	}

	a, err := New(fake, testOptions()).Analyze(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := a.Sentiments[0]
	if !bad.ProviderFallback || bad.RawSentiment != models.RawNeutral || bad.RawConfidence != 0.5 {
		t.Fatalf("expected neutral fallback for malformed result, got %+v", bad)
	}
	if good := a.Sentiments[1]; good.ProviderFallback || good.RawSentiment != models.RawPositive {
		t.Fatalf("expected provider result for well-formed item, got %+v", good)
	}
	dist := a.Report.Overview.PostSentimentDistribution
	if len(dist) != len(models.RawSentimentOrder) || dist[models.RawNeutral] != 1 || dist[models.RawPositive] != 1 {
		t.Fatalf("unexpected post sentiment distribution %v", dist)
	}
}

func TestRun_ProviderPanicFallsBack(t *testing.T) {
	fake := &fakeProvider{panics: true}
	items := []models.FeedbackItem{
		{ID: "a", Kind: models.KindPost, Title: "pos one"},
		{ID: "b", Kind: models.KindPost, Title: "neg two"},
	}

	a, err := New(fake, testOptions()).Analyze(context.Background(), items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range a.Sentiments {
		if !s.ProviderFallback || s.RawSentiment != models.RawNeutral {
			t.Fatalf("expected fallback after provider panic, got %+v", s)
		}
	}
	if a.Report.Cost.CallsMade != 1 {
		t.Fatalf("only the key phrase call should be billed, got %d", a.Report.Cost.CallsMade)
	}
}
