package models

import "time"

type ItemKind string

const (
	KindPost    ItemKind = "post"
	KindComment ItemKind = "comment"
)

// FeedbackItem is a single post or comment handed over by the acquisition layer.
// Items are treated as read-only once ingested.
type FeedbackItem struct {
	ID              string    `json:"id" dynamodbav:"id"`
	Kind            ItemKind  `json:"kind" dynamodbav:"kind"`
	ParentID        string    `json:"parent_id,omitempty" dynamodbav:"parent_id,omitempty"`
	Title           string    `json:"title,omitempty" dynamodbav:"title,omitempty"`
	Body            string    `json:"body" dynamodbav:"body"`
	Author          string    `json:"author" dynamodbav:"author"`
	EngagementScore int       `json:"engagement_score" dynamodbav:"score"`
	ReplyCount      int       `json:"reply_count" dynamodbav:"num_comments"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}

func (f FeedbackItem) IsPost() bool {
	return f.Kind != KindComment
}

// Engagement is the ranking key used for top items: upvotes plus replies.
func (f FeedbackItem) Engagement() int {
	return f.EngagementScore + f.ReplyCount
}
