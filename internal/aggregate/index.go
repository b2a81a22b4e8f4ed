package aggregate

import "github.com/spacesedan/fcpulse/internal/models"

// entry is one item joined with everything derived for it.
type entry struct {
	item  models.FeedbackItem
	class models.ClassificationResult
	sent  models.SentimentResult
}

// index holds the run's items grouped once, so every view below is built from
// memory without going back to storage.
type index struct {
	posts    map[models.Subject][]entry
	comments map[models.Subject][]entry
	children map[string][]entry
	all      []entry
}

func fallbackSentiment(id string) models.SentimentResult {
	return models.SentimentResult{
		ItemID:             id,
		RawSentiment:       models.RawNeutral,
		RawConfidence:      0.5,
		BusinessSentiment:  models.BusinessNeutral,
		BusinessImpact:     models.ImpactNeutral,
		BusinessConfidence: 0.5,
		ProviderFallback:   true,
	}
}

// buildIndex joins classifications and sentiments to items by item ID. Posts are
// grouped under their own subject; comments follow their parent post's subject
// and only fall back to their own classification when the parent is not part
// of the run.
func buildIndex(items []models.FeedbackItem, classifications []models.ClassificationResult, sentiments []models.SentimentResult) index {
	classByID := make(map[string]models.ClassificationResult, len(classifications))
	for _, c := range classifications {
		classByID[c.ItemID] = c
	}
	sentByID := make(map[string]models.SentimentResult, len(sentiments))
	for _, s := range sentiments {
		sentByID[s.ItemID] = s
	}

	idx := index{
		posts:    make(map[models.Subject][]entry),
		comments: make(map[models.Subject][]entry),
		children: make(map[string][]entry),
		all:      make([]entry, 0, len(items)),
	}

	postSubject := make(map[string]models.Subject)
	for _, item := range items {
		e := entry{item: item}
		if c, ok := classByID[item.ID]; ok && c.Subject != "" {
			e.class = c
		} else {
			e.class = models.ClassificationResult{ItemID: item.ID, Subject: models.FallbackSubject}
		}
		if s, ok := sentByID[item.ID]; ok {
			e.sent = s
		} else {
			e.sent = fallbackSentiment(item.ID)
		}
		idx.all = append(idx.all, e)

		if item.IsPost() {
			postSubject[item.ID] = e.class.Subject
			idx.posts[e.class.Subject] = append(idx.posts[e.class.Subject], e)
		}
	}

	for _, e := range idx.all {
		if e.item.IsPost() {
			continue
		}
		subject, ok := postSubject[e.item.ParentID]
		if ok {
			idx.children[e.item.ParentID] = append(idx.children[e.item.ParentID], e)
		} else {
			subject = e.class.Subject
		}
		idx.comments[subject] = append(idx.comments[subject], e)
	}

	return idx
}

func emptyRawDistribution() map[models.RawSentiment]int {
	dist := make(map[models.RawSentiment]int, len(models.RawSentimentOrder))
	for _, label := range models.RawSentimentOrder {
		dist[label] = 0
	}
	return dist
}

func emptyImpactDistribution() map[models.BusinessImpact]int {
	dist := make(map[models.BusinessImpact]int, len(models.BusinessImpactOrder))
	for _, impact := range models.BusinessImpactOrder {
		dist[impact] = 0
	}
	return dist
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
