package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spacesedan/fcpulse/internal/models"
)

// TopItemLimit caps the number of top items kept per subject.
const TopItemLimit = 5

// Aggregate rolls classified and scored items up into one summary per subject.
// Every subject is present in the result, including the ones nothing matched.
func Aggregate(items []models.FeedbackItem, classifications []models.ClassificationResult, sentiments []models.SentimentResult) map[models.Subject]models.SubjectSummary {
	idx := buildIndex(items, classifications, sentiments)

	summaries := make(map[models.Subject]models.SubjectSummary, len(models.SubjectPriority))
	for _, subject := range models.SubjectPriority {
		summaries[subject] = summarize(subject, idx.posts[subject], idx.comments[subject])
	}
	return summaries
}

func summarize(subject models.Subject, posts, comments []entry) models.SubjectSummary {
	summary := models.SubjectSummary{
		Subject:                      subject,
		PostCount:                    len(posts),
		CommentCount:                 len(comments),
		SentimentDistribution:        emptyRawDistribution(),
		CommentSentimentDistribution: emptyRawDistribution(),
		BusinessImpactDistribution:   emptyImpactDistribution(),
		TopItems:                     []models.TopItem{},
		KeyInsights:                  []string{},
	}

	var polarity float64
	var engagement int
	for _, p := range posts {
		summary.SentimentDistribution[p.sent.RawSentiment]++
		summary.BusinessImpactDistribution[p.sent.BusinessImpact]++
		polarity += p.sent.PolarityScore
		engagement += p.item.Engagement()
	}
	for _, c := range comments {
		summary.CommentSentimentDistribution[c.sent.RawSentiment]++
	}

	summary.AvgSentimentScore = mean(polarity, len(posts))
	summary.AvgEngagement = mean(float64(engagement), len(posts))
	summary.TopItems = topItems(posts)
	summary.KeyInsights = insights(posts, summary)

	return summary
}

func topItems(posts []entry) []models.TopItem {
	ranked := make([]entry, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].item.Engagement() > ranked[j].item.Engagement()
	})
	if len(ranked) > TopItemLimit {
		ranked = ranked[:TopItemLimit]
	}

	out := make([]models.TopItem, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, models.TopItem{
			ID:                       e.item.ID,
			Title:                    e.item.Title,
			EngagementScore:          e.item.EngagementScore,
			ReplyCount:               e.item.ReplyCount,
			Engagement:               e.item.Engagement(),
			RawSentiment:             e.sent.RawSentiment,
			RawConfidence:            e.sent.RawConfidence,
			BusinessImpact:           e.sent.BusinessImpact,
			MatchedPhrases:           e.class.MatchedPhrases,
			ClassificationConfidence: e.class.Confidence,
		})
	}
	return out
}

func insights(posts []entry, summary models.SubjectSummary) []string {
	if len(posts) == 0 {
		return []string{}
	}

	modal := modalSentiment(summary.SentimentDistribution)
	pct := float64(summary.SentimentDistribution[modal]) / float64(len(posts)) * 100

	out := []string{
		fmt.Sprintf("%.0f%% of posts show %s sentiment", pct, strings.ToLower(string(modal))),
		fmt.Sprintf("Average engagement: %.1f (score + comments)", summary.AvgEngagement),
	}
	if phrase, ok := mostDiscussed(posts); ok {
		out = append(out, fmt.Sprintf("Most discussed: '%s'", phrase))
	}
	return out
}

// modalSentiment picks the most frequent label; ties go to the label that comes
// first in RawSentimentOrder.
func modalSentiment(dist map[models.RawSentiment]int) models.RawSentiment {
	best := models.RawSentimentOrder[0]
	for _, label := range models.RawSentimentOrder[1:] {
		if dist[label] > dist[best] {
			best = label
		}
	}
	return best
}

func mostDiscussed(posts []entry) (string, bool) {
	counts := make(map[string]int)
	for _, p := range posts {
		for _, phrase := range p.class.MatchedPhrases {
			counts[phrase]++
		}
	}

	best, bestCount := "", 0
	for phrase, n := range counts {
		if n > bestCount || (n == bestCount && phrase < best) {
			best, bestCount = phrase, n
		}
	}
	return best, bestCount > 0
}
