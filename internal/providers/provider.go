// Package providers defines the provider adapter contract and the
// implementations that fetch news from external sources. Every adapter
// fails soft: transport, auth, and parse errors are logged and yield an
// empty result instead of propagating to the caller.
package providers

import (
	"context"
	"strings"

	"golang.org/x/net/html"
)

// Provider identifiers. The rank engine keys trust weights and
// provider-class tags off these values.
const (
	ProviderNewsData = "newsdata"
	ProviderNewsAPI  = "newsapi"
	ProviderSocial   = "social"
	ProviderRSS      = "rss"
)

// Article is the raw, provider-normalized shape of one news item.
// Immutable once returned by an adapter.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url,omitempty"`
	PublishedAt string `json:"published_at"` // provider-native format, parsed by the rank engine
	Source      string `json:"source"`
	Content     string `json:"content,omitempty"`
	Language    string `json:"language,omitempty"`
	Provider    string `json:"provider"`
	Likes       int    `json:"likes,omitempty"`
	Shares      int    `json:"shares,omitempty"`
}

// Params are the per-invocation parameters the section router attaches
// to an adapter. Adapters use the fields that apply to them and ignore
// the rest.
type Params struct {
	Category string
	Country  string
	Language string
	Query    string
	Limit    int
}

// Adapter is the interface all provider adapters implement.
//
// Fetch never returns an error: a failing provider logs a warning and
// contributes zero articles, so one broken source cannot abort an
// aggregation run.
type Adapter interface {
	// Name returns the human-readable name of the source.
	Name() string

	// Provider returns the provider identifier (ProviderNewsData etc).
	Provider() string

	// Fetch retrieves articles from this source.
	Fetch(ctx context.Context, p Params) []Article
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 500
)

// sanitize strips markup and entities, collapses whitespace, and
// truncates to max runes. Applied to all provider-supplied text before
// an Article leaves its adapter.
func sanitize(s string, max int) string {
	return truncate(collapseWhitespace(stripMarkup(s)), max)
}

func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	tok := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
