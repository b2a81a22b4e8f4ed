package sentiment

import (
	"context"
	"errors"

	"github.com/spacesedan/fcpulse/internal/models"
)

var (
	// ErrMalformedResponse is returned when a provider answers with results that
	// cannot be lined up with the submitted texts.
	ErrMalformedResponse = errors.New("sentiment: malformed provider response")
	// ErrProviderUnavailable marks calls skipped because the provider is unhealthy.
	ErrProviderUnavailable = errors.New("sentiment: provider unavailable")
)

type KeyPhrase struct {
	Text  string
	Score float64
}

// KeyPhraseResult is the provider output for one text. Failed is set when the
// provider rejected that single text while the rest of the batch succeeded.
type KeyPhraseResult struct {
	Phrases []KeyPhrase
	Failed  bool
}

type SentimentScores struct {
	Label  models.RawSentiment
	Scores map[models.RawSentiment]float64
	Failed bool
}

// Provider is an external sentiment and key phrase service. Both batch calls
// return exactly one result per input text, in input order.
type Provider interface {
	BatchKeyPhrases(ctx context.Context, texts []string) ([]KeyPhraseResult, error)
	BatchSentiment(ctx context.Context, texts []string) ([]SentimentScores, error)
	Name() string
}

// Above returns the lowercased text of every phrase scoring strictly above threshold.
func (r KeyPhraseResult) Above(threshold float64) []string {
	out := make([]string, 0, len(r.Phrases))
	for _, p := range r.Phrases {
		if p.Score > threshold {
			out = append(out, normalizePhrase(p.Text))
		}
	}
	return out
}
