package aggregate

import (
	"sort"

	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/textnorm"
)

const alertExcerptBytes = 280

// HighRiskAlerts lists every HIGH_RISK item, highest risk score first. Items
// with equal scores keep their input order.
func HighRiskAlerts(items []models.FeedbackItem, classifications []models.ClassificationResult, sentiments []models.SentimentResult) []models.HighRiskAlert {
	idx := buildIndex(items, classifications, sentiments)

	alerts := []models.HighRiskAlert{}
	for _, e := range idx.all {
		if e.sent.BusinessImpact != models.ImpactHighRisk {
			continue
		}
		indicators := make([]string, 0, len(e.sent.RiskIndicators))
		for _, r := range e.sent.RiskIndicators {
			indicators = append(indicators, r.Phrase)
		}
		alerts = append(alerts, models.HighRiskAlert{
			ItemID:            e.item.ID,
			Kind:              e.item.Kind,
			Subject:           e.class.Subject,
			Excerpt:           textnorm.Excerpt(textnorm.ItemText(e.item), alertExcerptBytes),
			RiskScore:         e.sent.RiskScore,
			Indicators:        indicators,
			Engagement:        e.item.Engagement(),
			ExecutiveSummary:  e.sent.ExecutiveSummary,
			RecommendedAction: e.sent.RecommendedAction,
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].RiskScore > alerts[j].RiskScore
	})
	return alerts
}
