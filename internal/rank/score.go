package rank

import (
	"math"
	"strings"
	"time"

	"github.com/newsmux/newsmux/internal/providers"
)

const (
	baseScore = 3.0
	minScore  = 1.0
	maxScore  = 5.0
)

// Provider trust weights. Regionally-curated and real-time social
// providers rank above generic aggregator APIs and raw feeds.
var trustWeights = map[string]float64{
	providers.ProviderNewsData: 0.5,
	providers.ProviderSocial:   0.4,
	providers.ProviderNewsAPI:  0.2,
	providers.ProviderRSS:      0.1,
}

// Urgency keyword sets cover English and Chinese headlines.
var (
	urgentTerms    = []string{"breaking", "urgent", "just in", "alert", "突发", "紧急", "快讯"}
	importantTerms = []string{"important", "major", "significant", "重要", "重大"}
)

const (
	likesThreshold  = 1000
	sharesThreshold = 500
)

// score computes the quality score for one article, clamped to
// [1.0, 5.0] and rounded to one decimal place.
func score(a providers.Article, published, now time.Time) float64 {
	s := baseScore
	s += trustWeights[a.Provider]

	if !published.IsZero() {
		switch age := now.Sub(published); {
		case age < 2*time.Hour:
			s += 0.8
		case age < 6*time.Hour:
			s += 0.5
		case age < 24*time.Hour:
			s += 0.3
		}
	}

	text := strings.ToLower(a.Title + " " + a.Description)
	if containsAny(text, urgentTerms) {
		s += 0.4
	}
	if containsAny(text, importantTerms) {
		s += 0.2
	}

	if trending(a) {
		s += 0.3
	}

	s = math.Min(maxScore, math.Max(minScore, s))
	return math.Round(s*10) / 10
}

// tags builds the display tag set: source name, section default tag,
// provider-class tag, matched keyword tags, and a freshness tag.
// Deduplicated, capped at 4, first-seen order.
func tags(a providers.Article, sectionTag string, published, now time.Time) []string {
	candidates := []string{a.Source, sectionTag, providerClass(a.Provider)}

	text := strings.ToLower(a.Title + " " + a.Description)
	if containsAny(text, urgentTerms) {
		candidates = append(candidates, "urgent")
	}
	if containsAny(text, importantTerms) {
		candidates = append(candidates, "important")
	}
	if trending(a) {
		candidates = append(candidates, "trending")
	}
	if !published.IsZero() && now.Sub(published) < 2*time.Hour {
		candidates = append(candidates, "just now")
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, 4)
	for _, tag := range candidates {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
		if len(out) == 4 {
			break
		}
	}
	return out
}

func providerClass(provider string) string {
	switch provider {
	case providers.ProviderSocial:
		return "real-time"
	case providers.ProviderNewsData:
		return "domestic"
	default:
		return "international"
	}
}

func trending(a providers.Article) bool {
	return a.Likes > likesThreshold || a.Shares > sharesThreshold
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
