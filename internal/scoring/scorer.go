package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/spacesedan/fcpulse/internal/lexicon"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/sentiment"
	"github.com/spacesedan/fcpulse/internal/textnorm"
)

const (
	HighRiskThreshold   = 3
	StrongPositiveScore = 3

	defaultReasoning = "Standard sentiment analysis applied"
)

var severityPoints = map[models.Severity]int{
	models.SeverityHigh:   3,
	models.SeverityMedium: 2,
	models.SeverityLow:    1,
}

var strengthPoints = map[models.Strength]int{
	models.StrengthStrong:   3,
	models.StrengthModerate: 2,
}

// RawInput is the provider's view of an item, before business context is applied.
type RawInput struct {
	Label  models.RawSentiment
	Scores map[models.RawSentiment]float64
}

// Neutral is the input used when the provider gave us nothing for an item.
func Neutral() RawInput {
	return RawInput{
		Label:  models.RawNeutral,
		Scores: map[models.RawSentiment]float64{models.RawNeutral: 0.5},
	}
}

// FromProvider converts one provider result. ok is false, and the neutral
// fallback is returned, when the result failed or is not a probability
// distribution over the four provider labels.
func FromProvider(s sentiment.SentimentScores) (RawInput, bool) {
	if s.Failed || !knownLabel(s.Label) {
		return Neutral(), false
	}
	for label, p := range s.Scores {
		if !knownLabel(label) || !(p >= 0 && p <= 1) {
			return Neutral(), false
		}
	}
	return RawInput{Label: s.Label, Scores: s.Scores}, true
}

func knownLabel(label models.RawSentiment) bool {
	for _, l := range models.RawSentimentOrder {
		if l == label {
			return true
		}
	}
	return false
}

type verdict struct {
	sentiment  models.BusinessSentiment
	impact     models.BusinessImpact
	confidence float64
}

type signals struct {
	risks      []models.RiskIndicator
	positives  []models.PositiveIndicator
	riskScore  int
	posScore   int
	sympathy   bool
	sarcasm    bool
	solidarity bool
}

// BusinessRiskScorer turns lexicon matches plus provider polarity into a
// business-impact verdict. It holds no state and is safe for concurrent use.
type BusinessRiskScorer struct{}

func New() *BusinessRiskScorer {
	return &BusinessRiskScorer{}
}

// ScoreItem scores an item's analysis text and stamps the result with its ID.
func (s *BusinessRiskScorer) ScoreItem(item models.FeedbackItem, raw RawInput) models.SentimentResult {
	result := s.Score(textnorm.ItemText(item), raw)
	result.ItemID = item.ID
	return result
}

func (s *BusinessRiskScorer) Score(text string, raw RawInput) models.SentimentResult {
	sig := scan(strings.ToLower(text))
	v := decide(sig)

	label := raw.Label
	if label == "" {
		label = models.RawNeutral
	}

	return models.SentimentResult{
		RawSentiment:       label,
		RawScores:          raw.Scores,
		PolarityScore:      polarity(raw.Scores),
		RawConfidence:      rawConfidence(raw.Scores),
		BusinessSentiment:  v.sentiment,
		BusinessConfidence: v.confidence,
		BusinessImpact:     v.impact,
		RiskIndicators:     sig.risks,
		PositiveIndicators: sig.positives,
		RiskScore:          sig.riskScore,
		PositiveScore:      sig.posScore,
		SympathyDetected:   sig.sympathy,
		SarcasmDetected:    sig.sarcasm,
		SolidarityDetected: sig.solidarity,
		Reasoning:          reasoning(label, v.sentiment, sig),
	}
}

func scan(text string) signals {
	sig := signals{
		risks:     []models.RiskIndicator{},
		positives: []models.PositiveIndicator{},
	}

	for _, group := range lexicon.NegativeSignals {
		for _, phrase := range group.Phrases {
			if !strings.Contains(text, phrase) {
				continue
			}
			sev := severity(phrase, group.Category)
			sig.risks = append(sig.risks, models.RiskIndicator{
				Category: group.Category,
				Phrase:   phrase,
				Severity: sev,
			})
			sig.riskScore += severityPoints[sev]
		}
	}

	for _, group := range lexicon.PositiveSignals {
		for _, phrase := range group.Phrases {
			if !strings.Contains(text, phrase) {
				continue
			}
			str := models.StrengthModerate
			if lexicon.IsStrongPositive(phrase) {
				str = models.StrengthStrong
			}
			sig.positives = append(sig.positives, models.PositiveIndicator{
				Category: group.Category,
				Phrase:   phrase,
				Strength: str,
			})
			sig.posScore += strengthPoints[str]
		}
	}

	for _, group := range lexicon.ContextModifiers {
		for _, phrase := range group.Phrases {
			if !strings.Contains(text, phrase) {
				continue
			}
			switch group.Category {
			case lexicon.ModifierSympathy:
				sig.sympathy = true
			case lexicon.ModifierSarcasm:
				sig.sarcasm = true
			case lexicon.ModifierSolidarity:
				sig.solidarity = true
			}
		}
	}

	return sig
}

func severity(phrase, category string) models.Severity {
	switch {
	case lexicon.IsHighSeverity(phrase):
		return models.SeverityHigh
	case category == lexicon.CategoryRetentionRisk || category == lexicon.CategoryOperational:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// decide applies the verdict rules in order; the first rule that matches wins.
// A single acute risk always lands in HIGH_RISK no matter how many positive
// phrases accompany it. Sympathy is checked ahead of the plain medium-risk
// rule on purpose: a sympathetic reply to a risk post scores 0.8, not 0.7.
func decide(sig signals) verdict {
	risk, pos := sig.riskScore, sig.posScore

	switch {
	case risk >= HighRiskThreshold:
		return verdict{models.BusinessNegative, models.ImpactHighRisk, math.Min(0.9, 0.6+float64(risk)*0.1)}
	case sig.sympathy && risk > 0:
		return verdict{models.BusinessNegative, models.ImpactMediumRisk, 0.8}
	case risk >= 1 && pos == 0:
		return verdict{models.BusinessNegative, models.ImpactMediumRisk, 0.7}
	case pos >= StrongPositiveScore && risk == 0:
		return verdict{models.BusinessPositive, models.ImpactPositive, 0.8}
	case risk > pos:
		return verdict{models.BusinessNegative, models.ImpactMediumRisk, 0.6}
	case pos > risk:
		return verdict{models.BusinessPositive, models.ImpactPositive, 0.6}
	default:
		return verdict{models.BusinessNeutral, models.ImpactNeutral, 0.6}
	}
}

func reasoning(raw models.RawSentiment, business models.BusinessSentiment, sig signals) string {
	var parts []string

	if string(raw) != strings.TrimPrefix(string(business), "BUSINESS_") {
		parts = append(parts, fmt.Sprintf("Provider classified as %s, but business context indicates %s", raw, business))
	}

	high, retention := 0, 0
	for _, r := range sig.risks {
		if r.Severity == models.SeverityHigh {
			high++
		}
		if r.Category == lexicon.CategoryRetentionRisk {
			retention++
		}
	}
	if high > 0 {
		parts = append(parts, fmt.Sprintf("HIGH RISK: Detected %d critical business concerns", high))
	}
	if retention > 0 {
		parts = append(parts, fmt.Sprintf("Employee retention risk detected: %d indicators", retention))
	}
	if sig.sympathy && len(sig.risks) > 0 {
		parts = append(parts, "Sympathy expressed about business problems indicates negative business impact")
	}

	if len(parts) == 0 {
		return defaultReasoning
	}
	return strings.Join(parts, "; ")
}

// polarity is P(positive) - P(negative), clamped to [-1, 1].
func polarity(scores map[models.RawSentiment]float64) float64 {
	p := scores[models.RawPositive] - scores[models.RawNegative]
	return math.Max(-1, math.Min(1, p))
}

func rawConfidence(scores map[models.RawSentiment]float64) float64 {
	if len(scores) == 0 {
		return 0.5
	}
	best := 0.0
	for _, v := range scores {
		best = math.Max(best, v)
	}
	return best
}
