package classifier

import (
	"sort"
	"strings"

	"github.com/spacesedan/fcpulse/internal/lexicon"
	"github.com/spacesedan/fcpulse/internal/models"
	"github.com/spacesedan/fcpulse/internal/textnorm"
)

const (
	// keyPhraseWeight favours provider-extracted phrases over raw substring hits.
	keyPhraseWeight = 2
	maxSecondary    = 2
)

// SubjectClassifier scores items against every subject area and picks a winner.
type SubjectClassifier struct {
	keywords map[models.Subject][]string
}

func New() *SubjectClassifier {
	return &SubjectClassifier{keywords: lexicon.SubjectKeywords}
}

// NewWithKeywords builds a classifier over a custom keyword table. Subjects
// missing from the table always score 0.
func NewWithKeywords(keywords map[models.Subject][]string) *SubjectClassifier {
	return &SubjectClassifier{keywords: keywords}
}

// Classify never fails: an empty keyPhrases set (e.g. after a provider failure)
// simply reduces scoring to substring hits in the item's own text.
func (c *SubjectClassifier) Classify(item models.FeedbackItem, keyPhrases []string) models.ClassificationResult {
	text := textnorm.Normalize(textnorm.ItemText(item))

	phrases := make([]string, 0, len(keyPhrases))
	for _, p := range keyPhrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			phrases = append(phrases, p)
		}
	}

	scores := make(map[models.Subject]int, len(models.SubjectPriority))
	matched := make(map[string]struct{})
	total := 0

	for _, subject := range models.SubjectPriority {
		score := 0
		for _, keyword := range c.keywords[subject] {
			phraseHits := 0
			for _, p := range phrases {
				if strings.Contains(p, keyword) {
					phraseHits++
				}
			}
			textHits := strings.Count(text, keyword)
			if phraseHits+textHits > 0 {
				matched[keyword] = struct{}{}
			}
			score += phraseHits*keyPhraseWeight + textHits
		}
		scores[subject] = score
		total += score
	}

	for _, p := range phrases {
		matched[p] = struct{}{}
	}

	ranked := rank(scores)

	result := models.ClassificationResult{
		ItemID:            item.ID,
		Subject:           models.FallbackSubject,
		SecondarySubjects: []models.Subject{},
		SubjectScores:     scores,
		MatchedPhrases:    sortedKeys(matched),
		KeyPhrases:        phrases,
	}

	if total == 0 {
		return result
	}

	winner := ranked[0]
	result.Subject = winner
	result.Confidence = float64(scores[winner]) / float64(total)

	for _, s := range ranked[1:] {
		if len(result.SecondarySubjects) == maxSecondary || scores[s] == 0 {
			break
		}
		result.SecondarySubjects = append(result.SecondarySubjects, s)
	}

	return result
}

// rank orders subjects by score descending, falling back to priority order on ties.
func rank(scores map[models.Subject]int) []models.Subject {
	ranked := append([]models.Subject(nil), models.SubjectPriority...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a.Rank() < b.Rank()
	})
	return ranked
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
