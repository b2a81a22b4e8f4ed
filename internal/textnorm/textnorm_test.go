package textnorm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spacesedan/fcpulse/internal/models"
)

func TestTruncate_ShortTextUnchanged(t *testing.T) {
	in := strings.Repeat("a", ProviderByteLimit)
	if got := Truncate(in); got != in {
		t.Fatalf("expected text at the limit to be unchanged, got %d bytes", len(got))
	}
}

func TestTruncate_OversizedText(t *testing.T) {
	in := strings.Repeat("a", ProviderByteLimit+1)
	got := Truncate(in)
	if len(got) != TruncatedBytes {
		t.Fatalf("expected %d bytes, got %d", TruncatedBytes, len(got))
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// "é" is two bytes, so byte 4000 falls in the middle of a rune.
	in := "a" + strings.Repeat("é", ProviderByteLimit)
	got := Truncate(in)
	if !utf8.ValidString(got) {
		t.Fatal("truncated text is not valid UTF-8")
	}
	if len(got) > TruncatedBytes {
		t.Fatalf("expected at most %d bytes, got %d", TruncatedBytes, len(got))
	}
	if len(got) != TruncatedBytes-1 {
		t.Fatalf("expected cut at previous rune boundary (%d), got %d", TruncatedBytes-1, len(got))
	}
}

func TestItemText(t *testing.T) {
	post := models.FeedbackItem{Kind: models.KindPost, Title: "Pay raise", Body: "is a joke"}
	if got := ItemText(post); got != "Pay raise is a joke" {
		t.Fatalf("unexpected post text %q", got)
	}

	comment := models.FeedbackItem{Kind: models.KindComment, Title: "ignored", Body: "  agreed  "}
	if got := ItemText(comment); got != "agreed" {
		t.Fatalf("unexpected comment text %q", got)
	}

	empty := models.FeedbackItem{Kind: models.KindPost}
	if got := ItemText(empty); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("I QUIT Today"); got != "i quit today" {
		t.Fatalf("unexpected normalized text %q", got)
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short", 10); got != "short" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
	if got := Excerpt("hello world", 6); got != "hello..." {
		t.Fatalf("expected trimmed excerpt, got %q", got)
	}
	if got := Excerpt("aé", 2); got != "a..." {
		t.Fatalf("expected cut before multibyte rune, got %q", got)
	}
}
