package models

// RawSentiment is the label returned by the sentiment provider. The declaration
// order of RawSentimentOrder is also the tie-break order for modal sentiment.
type RawSentiment string

const (
	RawPositive RawSentiment = "POSITIVE"
	RawNegative RawSentiment = "NEGATIVE"
	RawNeutral  RawSentiment = "NEUTRAL"
	RawMixed    RawSentiment = "MIXED"
)

var RawSentimentOrder = []RawSentiment{RawPositive, RawNegative, RawNeutral, RawMixed}

type BusinessSentiment string

const (
	BusinessNegative BusinessSentiment = "BUSINESS_NEGATIVE"
	BusinessPositive BusinessSentiment = "BUSINESS_POSITIVE"
	BusinessNeutral  BusinessSentiment = "BUSINESS_NEUTRAL"
)

type BusinessImpact string

const (
	ImpactHighRisk   BusinessImpact = "HIGH_RISK"
	ImpactMediumRisk BusinessImpact = "MEDIUM_RISK"
	ImpactPositive   BusinessImpact = "POSITIVE"
	ImpactNeutral    BusinessImpact = "NEUTRAL"
)

var BusinessImpactOrder = []BusinessImpact{ImpactHighRisk, ImpactMediumRisk, ImpactPositive, ImpactNeutral}

type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
)

type RiskIndicator struct {
	Category string   `json:"category"`
	Phrase   string   `json:"phrase"`
	Severity Severity `json:"severity"`
}

type PositiveIndicator struct {
	Category string   `json:"category"`
	Phrase   string   `json:"phrase"`
	Strength Strength `json:"strength"`
}

// SentimentResult carries both the provider's raw polarity and the
// business-context verdict derived from it. The two may disagree.
type SentimentResult struct {
	ItemID        string                   `json:"item_id"`
	RawSentiment  RawSentiment             `json:"raw_sentiment"`
	RawScores     map[RawSentiment]float64 `json:"raw_scores"`
	PolarityScore float64                  `json:"polarity_score"`
	RawConfidence float64                  `json:"raw_confidence"`

	BusinessSentiment  BusinessSentiment   `json:"business_sentiment"`
	BusinessConfidence float64             `json:"business_confidence"`
	BusinessImpact     BusinessImpact      `json:"business_impact"`
	RiskIndicators     []RiskIndicator     `json:"risk_indicators"`
	PositiveIndicators []PositiveIndicator `json:"positive_indicators"`
	RiskScore          int                 `json:"risk_score"`
	PositiveScore      int                 `json:"positive_score"`
	SympathyDetected   bool                `json:"sympathy_detected"`
	SarcasmDetected    bool                `json:"sarcasm_detected"`
	SolidarityDetected bool                `json:"solidarity_detected"`
	Reasoning          string              `json:"reasoning"`

	ExecutiveSummary  string `json:"executive_summary,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`

	// ProviderFallback is set when the provider result for this item was
	// unavailable and the neutral fallback was used instead.
	ProviderFallback bool `json:"provider_fallback"`
}
