package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/spacesedan/fcpulse/internal/models"
)

// MaxComprehendBatch is the largest TextList Comprehend accepts per batch call.
const MaxComprehendBatch = 25

// ComprehendAPI is the subset of the Comprehend client used here.
type ComprehendAPI interface {
	BatchDetectKeyPhrases(ctx context.Context, params *comprehend.BatchDetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.BatchDetectKeyPhrasesOutput, error)
	BatchDetectSentiment(ctx context.Context, params *comprehend.BatchDetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.BatchDetectSentimentOutput, error)
}

type ComprehendProvider struct {
	client ComprehendAPI
}

func NewComprehendProvider(client ComprehendAPI) *ComprehendProvider {
	return &ComprehendProvider{client: client}
}

func (p *ComprehendProvider) Name() string {
	return "comprehend"
}

func (p *ComprehendProvider) BatchKeyPhrases(ctx context.Context, texts []string) ([]KeyPhraseResult, error) {
	if err := checkBatch(texts); err != nil {
		return nil, err
	}

	out, err := p.client.BatchDetectKeyPhrases(ctx, &comprehend.BatchDetectKeyPhrasesInput{
		TextList:     texts,
		LanguageCode: types.LanguageCodeEn,
	})
	if err != nil {
		return nil, fmt.Errorf("[Comprehend] batch detect key phrases: %w", err)
	}

	results := make([]KeyPhraseResult, len(texts))
	seen := make([]bool, len(texts))
	for _, r := range out.ResultList {
		i, err := position(r.Index, len(texts))
		if err != nil {
			return nil, err
		}
		phrases := make([]KeyPhrase, 0, len(r.KeyPhrases))
		for _, kp := range r.KeyPhrases {
			phrases = append(phrases, KeyPhrase{
				Text:  aws.ToString(kp.Text),
				Score: float64(aws.ToFloat32(kp.Score)),
			})
		}
		results[i] = KeyPhraseResult{Phrases: phrases}
		seen[i] = true
	}

	failed, err := markErrors(out.ErrorList, len(texts))
	if err != nil {
		return nil, err
	}
	for i := range results {
		if failed[i] || !seen[i] {
			results[i] = KeyPhraseResult{Failed: true}
		}
	}
	return results, nil
}

func (p *ComprehendProvider) BatchSentiment(ctx context.Context, texts []string) ([]SentimentScores, error) {
	if err := checkBatch(texts); err != nil {
		return nil, err
	}

	out, err := p.client.BatchDetectSentiment(ctx, &comprehend.BatchDetectSentimentInput{
		TextList:     texts,
		LanguageCode: types.LanguageCodeEn,
	})
	if err != nil {
		return nil, fmt.Errorf("[Comprehend] batch detect sentiment: %w", err)
	}

	results := make([]SentimentScores, len(texts))
	seen := make([]bool, len(texts))
	for _, r := range out.ResultList {
		i, err := position(r.Index, len(texts))
		if err != nil {
			return nil, err
		}
		label, ok := rawLabel(r.Sentiment)
		if !ok {
			return nil, fmt.Errorf("%w: unknown sentiment %q", ErrMalformedResponse, r.Sentiment)
		}
		scores := map[models.RawSentiment]float64{}
		if s := r.SentimentScore; s != nil {
			scores[models.RawPositive] = float64(aws.ToFloat32(s.Positive))
			scores[models.RawNegative] = float64(aws.ToFloat32(s.Negative))
			scores[models.RawNeutral] = float64(aws.ToFloat32(s.Neutral))
			scores[models.RawMixed] = float64(aws.ToFloat32(s.Mixed))
		}
		results[i] = SentimentScores{Label: label, Scores: scores}
		seen[i] = true
	}

	failed, err := markErrors(out.ErrorList, len(texts))
	if err != nil {
		return nil, err
	}
	for i := range results {
		if failed[i] || !seen[i] {
			results[i] = SentimentScores{Failed: true}
		}
	}
	return results, nil
}

func checkBatch(texts []string) error {
	if len(texts) == 0 || len(texts) > MaxComprehendBatch {
		return fmt.Errorf("[Comprehend] batch size %d outside 1..%d", len(texts), MaxComprehendBatch)
	}
	return nil
}

func position(index *int32, n int) (int, error) {
	if index == nil {
		return 0, fmt.Errorf("%w: result without index", ErrMalformedResponse)
	}
	i := int(*index)
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: index %d out of range for %d texts", ErrMalformedResponse, i, n)
	}
	return i, nil
}

func markErrors(errs []types.BatchItemError, n int) ([]bool, error) {
	failed := make([]bool, n)
	for _, e := range errs {
		i, err := position(e.Index, n)
		if err != nil {
			return nil, err
		}
		failed[i] = true
		slog.Warn("[Comprehend] Item rejected",
			slog.Int("index", i),
			slog.String("code", aws.ToString(e.ErrorCode)),
			slog.String("message", aws.ToString(e.ErrorMessage)))
	}
	return failed, nil
}

func rawLabel(s types.SentimentType) (models.RawSentiment, bool) {
	switch s {
	case types.SentimentTypePositive:
		return models.RawPositive, true
	case types.SentimentTypeNegative:
		return models.RawNegative, true
	case types.SentimentTypeNeutral:
		return models.RawNeutral, true
	case types.SentimentTypeMixed:
		return models.RawMixed, true
	}
	return "", false
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
