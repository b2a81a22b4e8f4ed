package models

import "time"

type TopItem struct {
	ID                       string         `json:"id"`
	Title                    string         `json:"title"`
	EngagementScore          int            `json:"score"`
	ReplyCount               int            `json:"comments"`
	Engagement               int            `json:"engagement"`
	RawSentiment             RawSentiment   `json:"sentiment"`
	RawConfidence            float64        `json:"confidence"`
	BusinessImpact           BusinessImpact `json:"business_impact"`
	MatchedPhrases           []string       `json:"matched_phrases"`
	ClassificationConfidence float64        `json:"classification_confidence"`
}

// SubjectSummary is recomputed from scratch on every analysis run.
type SubjectSummary struct {
	Subject                      Subject                `json:"subject"`
	PostCount                    int                    `json:"post_count"`
	CommentCount                 int                    `json:"comment_count"`
	SentimentDistribution        map[RawSentiment]int   `json:"sentiment_distribution"`
	CommentSentimentDistribution map[RawSentiment]int   `json:"comment_sentiment_distribution"`
	BusinessImpactDistribution   map[BusinessImpact]int `json:"business_impact_distribution"`
	AvgSentimentScore            float64                `json:"avg_sentiment_score"`
	AvgEngagement                float64                `json:"avg_engagement"`
	TopItems                     []TopItem              `json:"top_items"`
	KeyInsights                  []string               `json:"key_insights"`
}

type CommentNode struct {
	Item      FeedbackItem    `json:"item"`
	Sentiment SentimentResult `json:"sentiment"`
}

type PostNode struct {
	Item           FeedbackItem         `json:"item"`
	Classification ClassificationResult `json:"classification"`
	Sentiment      SentimentResult      `json:"sentiment"`
	Comments       []CommentNode        `json:"comments"`
}

type SubjectDrillDown struct {
	Posts         []PostNode `json:"posts"`
	TotalComments int        `json:"total_comments"`
}

type AverageSentiment struct {
	Posts    float64 `json:"posts"`
	Comments float64 `json:"comments"`
	Overall  float64 `json:"overall"`
}

type EngagementMetrics struct {
	AvgPostScore       float64 `json:"avg_post_score"`
	AvgCommentsPerPost float64 `json:"avg_comments_per_post"`
	TotalEngagement    int     `json:"total_engagement"`
}

type Overview struct {
	TotalPosts                   int                    `json:"total_posts"`
	TotalComments                int                    `json:"total_comments"`
	SubjectDistribution          map[Subject]int        `json:"subject_distribution"`
	PostSentimentDistribution    map[RawSentiment]int   `json:"post_sentiment_distribution"`
	CommentSentimentDistribution map[RawSentiment]int   `json:"comment_sentiment_distribution"`
	BusinessImpactDistribution   map[BusinessImpact]int `json:"business_impact_distribution"`
	AverageSentiment             AverageSentiment       `json:"average_sentiment_scores"`
	Engagement                   EngagementMetrics      `json:"engagement_metrics"`
	ProviderFallbacks            int                    `json:"provider_fallbacks"`
}

type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

type EmergingTopic struct {
	Topic         string        `json:"topic"`
	TotalMentions int           `json:"total_mentions"`
	KeyPhrases    []PhraseCount `json:"key_phrases"`
}

// TemporalPatterns describes when posts were made, in UTC. PeakHour is -1 and
// PeakDay is empty when no post carries a timestamp.
type TemporalPatterns struct {
	DailyCounts   map[string]int `json:"daily_post_counts"`
	HourlyCounts  map[int]int    `json:"hourly_distribution"`
	WeekdayCounts map[string]int `json:"day_of_week_distribution"`
	PeakHour      int            `json:"peak_posting_hour"`
	PeakDay       string         `json:"peak_posting_day"`
}

// Report is the single structured document handed to the reporting layer.
type Report struct {
	RunID          string                       `json:"run_id"`
	GeneratedAt    time.Time                    `json:"generated_at"`
	Provider       string                       `json:"provider"`
	Subjects       map[Subject]SubjectSummary   `json:"subject_areas"`
	DrillDown      map[Subject]SubjectDrillDown `json:"drill_down"`
	Overview       Overview                     `json:"overview"`
	EmergingTopics []EmergingTopic              `json:"emerging_topics"`
	Temporal       TemporalPatterns             `json:"temporal_patterns"`
	Cost           CostSnapshot                 `json:"cost_summary"`
}
