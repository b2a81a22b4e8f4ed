package aggregate

import (
	"sort"
	"time"

	"github.com/spacesedan/fcpulse/internal/lexicon"
	"github.com/spacesedan/fcpulse/internal/models"
)

// BuildOverview computes run-wide totals and distributions.
func BuildOverview(items []models.FeedbackItem, classifications []models.ClassificationResult, sentiments []models.SentimentResult) models.Overview {
	idx := buildIndex(items, classifications, sentiments)

	ov := models.Overview{
		SubjectDistribution:          make(map[models.Subject]int, len(models.SubjectPriority)),
		PostSentimentDistribution:    emptyRawDistribution(),
		CommentSentimentDistribution: emptyRawDistribution(),
		BusinessImpactDistribution:   emptyImpactDistribution(),
	}
	for _, subject := range models.SubjectPriority {
		ov.SubjectDistribution[subject] = 0
	}

	var postPolarity, commentPolarity float64
	var score, replies int
	for _, e := range idx.all {
		ov.BusinessImpactDistribution[e.sent.BusinessImpact]++
		if e.sent.ProviderFallback {
			ov.ProviderFallbacks++
		}

		if e.item.IsPost() {
			ov.TotalPosts++
			ov.SubjectDistribution[e.class.Subject]++
			ov.PostSentimentDistribution[e.sent.RawSentiment]++
			postPolarity += e.sent.PolarityScore
			score += e.item.EngagementScore
			replies += e.item.ReplyCount
			continue
		}
		ov.TotalComments++
		ov.CommentSentimentDistribution[e.sent.RawSentiment]++
		commentPolarity += e.sent.PolarityScore
	}

	ov.AverageSentiment = models.AverageSentiment{
		Posts:    mean(postPolarity, ov.TotalPosts),
		Comments: mean(commentPolarity, ov.TotalComments),
		Overall:  mean(postPolarity+commentPolarity, ov.TotalPosts+ov.TotalComments),
	}
	ov.Engagement = models.EngagementMetrics{
		AvgPostScore:       mean(float64(score), ov.TotalPosts),
		AvgCommentsPerPost: mean(float64(replies), ov.TotalPosts),
		TotalEngagement:    score + replies,
	}

	return ov
}

// EmergingTopics counts provider key phrases against the coarse topic groups.
// Only groups with at least one mention are returned, most mentioned first.
func EmergingTopics(classifications []models.ClassificationResult) []models.EmergingTopic {
	counts := make(map[string]int)
	for _, c := range classifications {
		for _, phrase := range c.KeyPhrases {
			counts[phrase]++
		}
	}

	topics := []models.EmergingTopic{}
	for _, group := range lexicon.TopicGroups {
		topic := models.EmergingTopic{Topic: group.Category, KeyPhrases: []models.PhraseCount{}}
		for _, kw := range group.Phrases {
			if n := counts[kw]; n > 0 {
				topic.TotalMentions += n
				topic.KeyPhrases = append(topic.KeyPhrases, models.PhraseCount{Phrase: kw, Count: n})
			}
		}
		if topic.TotalMentions > 0 {
			topics = append(topics, topic)
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].TotalMentions > topics[j].TotalMentions
	})
	return topics
}

// Temporal buckets post timestamps by date, hour and weekday. Ties for the peak
// go to the earliest hour and the earliest weekday starting from Sunday.
func Temporal(items []models.FeedbackItem) models.TemporalPatterns {
	tp := models.TemporalPatterns{
		DailyCounts:   map[string]int{},
		HourlyCounts:  map[int]int{},
		WeekdayCounts: map[string]int{},
		PeakHour:      -1,
	}

	for _, item := range items {
		if !item.IsPost() || item.CreatedAt.IsZero() {
			continue
		}
		at := item.CreatedAt.UTC()
		tp.DailyCounts[at.Format(time.DateOnly)]++
		tp.HourlyCounts[at.Hour()]++
		tp.WeekdayCounts[at.Weekday().String()]++
	}

	for hour := 0; hour < 24; hour++ {
		if n := tp.HourlyCounts[hour]; n > 0 && (tp.PeakHour < 0 || n > tp.HourlyCounts[tp.PeakHour]) {
			tp.PeakHour = hour
		}
	}
	best := 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		if n := tp.WeekdayCounts[day.String()]; n > best {
			best = n
			tp.PeakDay = day.String()
		}
	}

	return tp
}
