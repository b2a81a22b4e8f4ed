package aggregate

import "github.com/spacesedan/fcpulse/internal/models"

// DrillDown nests every post under its subject together with its full
// classification and sentiment payload, followed by its comments in input
// order. Comments whose parent is not part of the run have no place in the
// tree.
func DrillDown(items []models.FeedbackItem, classifications []models.ClassificationResult, sentiments []models.SentimentResult) map[models.Subject]models.SubjectDrillDown {
	idx := buildIndex(items, classifications, sentiments)

	tree := make(map[models.Subject]models.SubjectDrillDown, len(models.SubjectPriority))
	for _, subject := range models.SubjectPriority {
		node := models.SubjectDrillDown{Posts: []models.PostNode{}}
		for _, p := range idx.posts[subject] {
			children := idx.children[p.item.ID]
			comments := make([]models.CommentNode, 0, len(children))
			for _, c := range children {
				comments = append(comments, models.CommentNode{Item: c.item, Sentiment: c.sent})
			}
			node.Posts = append(node.Posts, models.PostNode{
				Item:           p.item,
				Classification: p.class,
				Sentiment:      p.sent,
				Comments:       comments,
			})
			node.TotalComments += len(comments)
		}
		tree[subject] = node
	}
	return tree
}
