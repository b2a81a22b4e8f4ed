package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/fcpulse/internal/models"
)

const (
	vaderPositiveCutoff = 0.20
	vaderNegativeCutoff = -0.20
)

var (
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// VaderProvider scores text locally with VADER. It never fails and has no
// key phrase model, so classification falls back to keyword scoring alone.
type VaderProvider struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderProvider() *VaderProvider {
	return &VaderProvider{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (p *VaderProvider) Name() string {
	return "vader"
}

func (p *VaderProvider) BatchKeyPhrases(ctx context.Context, texts []string) ([]KeyPhraseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]KeyPhraseResult, len(texts))
	for i := range results {
		results[i] = KeyPhraseResult{Phrases: []KeyPhrase{}}
	}
	return results, nil
}

func (p *VaderProvider) BatchSentiment(ctx context.Context, texts []string) ([]SentimentScores, error) {
	results := make([]SentimentScores, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = p.analyze(text)
	}
	return results, nil
}

func (p *VaderProvider) analyze(text string) SentimentScores {
	s := p.analyzer.PolarityScores(PlainText(text))

	label := models.RawNeutral
	switch {
	case s.Compound >= vaderPositiveCutoff:
		label = models.RawPositive
	case s.Compound <= vaderNegativeCutoff:
		label = models.RawNegative
	}

	return SentimentScores{
		Label: label,
		Scores: map[models.RawSentiment]float64{
			models.RawPositive: s.Positive,
			models.RawNegative: s.Negative,
			models.RawNeutral:  s.Neutral,
			models.RawMixed:    0,
		},
	}
}

// PlainText renders forum markdown and drops markup and bare URLs, keeping link text.
func PlainText(input string) string {
	rendered := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := html.UnescapeString(tagPattern.ReplaceAllString(string(rendered), " "))
	text = urlPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
