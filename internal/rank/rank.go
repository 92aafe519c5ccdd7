// Package rank merges raw provider articles into the scored, tagged,
// deduplicated form served to clients. Processing is deterministic for
// a fixed input order and a fixed "now": the aggregator's invocation
// order decides which of two duplicates survives.
package rank

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/newsmux/newsmux/internal/providers"
)

// NormalizedArticle is a scored, tagged article ready for display.
// Created once here and never mutated afterwards.
type NormalizedArticle struct {
	providers.Article

	ID    string   `json:"id"`
	Age   string   `json:"age"`
	Score float64  `json:"score"`
	Tags  []string `json:"tags"`

	// Display copies are identity passthroughs of the source title and
	// description. No translation is performed; the split exists so a
	// localized rendering can be added without changing the model.
	DisplayTitle       string `json:"display_title"`
	DisplayDescription string `json:"display_description"`
}

// dedupPrefixLen is how many characters of the lowercased title two
// articles must share to count as duplicates.
const dedupPrefixLen = 50

// Engine implements the merge/rank pipeline.
type Engine struct{}

// NewEngine creates a rank engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Process dedups, filters, sorts, scores, and tags articles for a
// section. sectionTag is the section's default display tag.
func (e *Engine) Process(articles []providers.Article, sectionTag string, now time.Time) []NormalizedArticle {
	seen := make(map[string]bool, len(articles))

	type entry struct {
		art  providers.Article
		when time.Time
	}
	entries := make([]entry, 0, len(articles))

	for _, a := range articles {
		key := dedupKey(a.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		if a.Title == "" || a.URL == "" {
			continue
		}
		entries = append(entries, entry{art: a, when: parseWhen(a.PublishedAt)})
	}

	// Unparseable timestamps parse to the zero time and sort last.
	// Stable sort keeps input order for equal timestamps, so the
	// overall order stays deterministic.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].when.After(entries[j].when)
	})

	out := make([]NormalizedArticle, 0, len(entries))
	for _, en := range entries {
		out = append(out, NormalizedArticle{
			Article:            en.art,
			ID:                 articleID(en.art.URL),
			Age:                ageLabel(en.when, now),
			Score:              score(en.art, en.when, now),
			Tags:               tags(en.art, sectionTag, en.when, now),
			DisplayTitle:       en.art.Title,
			DisplayDescription: en.art.Description,
		})
	}
	return out
}

func dedupKey(title string) string {
	key := strings.ToLower(title)
	runes := []rune(key)
	if len(runes) > dedupPrefixLen {
		key = string(runes[:dedupPrefixLen])
	}
	return key
}

func articleID(url string) string {
	h := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", h[:8])
}

// timeFormats are tried in order when parsing provider-native
// timestamps. Keyed APIs use RFC3339 or "2006-01-02 15:04:05"; RSS
// feeds use the RFC1123 family.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02",
}

// parseWhen returns the zero time when no format matches.
func parseWhen(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ageLabel renders a relative age: minutes, hours, days, or a calendar
// date beyond 7 days. Empty for unparseable timestamps.
func ageLabel(published, now time.Time) string {
	if published.IsZero() {
		return ""
	}
	d := now.Sub(published)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return published.Format("2006-01-02")
	}
}
