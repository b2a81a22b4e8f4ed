package scoring

import (
	"fmt"
	"strings"

	"github.com/spacesedan/fcpulse/internal/models"
)

// Executive fills in the executive summary and recommended action for a scored
// item, phrased around the subject it was classified into.
func Executive(result models.SentimentResult, subject models.Subject) models.SentimentResult {
	topic := strings.ReplaceAll(string(subject), "_", " ")

	switch result.BusinessSentiment {
	case models.BusinessNegative:
		if result.BusinessImpact == models.ImpactHighRisk {
			result.ExecutiveSummary = fmt.Sprintf("CRITICAL: Employee expressing serious concerns about %s. Immediate attention required.", topic)
		} else {
			result.ExecutiveSummary = fmt.Sprintf("CONCERN: Negative employee sentiment about %s. Monitor and address.", topic)
		}
	case models.BusinessPositive:
		result.ExecutiveSummary = fmt.Sprintf("POSITIVE: Employee satisfaction with %s. Continue current approach.", topic)
	default:
		result.ExecutiveSummary = fmt.Sprintf("NEUTRAL: Mixed or unclear sentiment about %s. Monitor for trends.", topic)
	}

	switch result.BusinessImpact {
	case models.ImpactHighRisk:
		result.RecommendedAction = "IMMEDIATE ACTION: Address employee concerns, review policies, consider retention measures"
	case models.ImpactMediumRisk:
		result.RecommendedAction = "MONITOR: Track sentiment trends, prepare response if issues escalate"
	case models.ImpactPositive:
		result.RecommendedAction = "MAINTAIN: Continue successful practices, consider expanding positive initiatives"
	default:
		result.RecommendedAction = "OBSERVE: Continue monitoring, no immediate action required"
	}

	return result
}
