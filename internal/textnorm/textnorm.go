package textnorm

import (
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/fcpulse/internal/models"
)

const (
	// ProviderByteLimit is the largest UTF-8 payload the provider accepts per text.
	ProviderByteLimit = 5000
	// TruncatedBytes is what oversized texts are cut down to.
	TruncatedBytes = 4000
)

func Normalize(s string) string {
	return strings.ToLower(s)
}

// Truncate cuts s to at most TruncatedBytes when it exceeds ProviderByteLimit,
// backing off to the previous rune boundary so the result stays valid UTF-8.
func Truncate(s string) string {
	if len(s) <= ProviderByteLimit {
		return s
	}
	cut := TruncatedBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ItemText is the text submitted for analysis: title and body for posts, body for comments.
func ItemText(item models.FeedbackItem) string {
	if item.IsPost() {
		return strings.TrimSpace(item.Title + " " + item.Body)
	}
	return strings.TrimSpace(item.Body)
}

// Prepare returns the provider-ready form of an item's text.
func Prepare(item models.FeedbackItem) string {
	return Truncate(ItemText(item))
}

// Excerpt shortens s to at most n bytes on a rune boundary, marking the cut with "...".
func Excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}
