package providers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// defaultFeedCap bounds one feed's contribution so a prolific source
// cannot dominate the merge.
const defaultFeedCap = 5

// RSSAdapter fetches supplementary articles from a single RSS/Atom feed.
type RSSAdapter struct {
	name   string
	url    string
	parser *gofeed.Parser
	logger *slog.Logger
}

// NewRSSAdapter creates an adapter for one feed URL.
func NewRSSAdapter(name, feedURL string) *RSSAdapter {
	parser := gofeed.NewParser()
	// RSS sources get a shorter timeout than keyed APIs; a hung feed
	// should not stall the whole aggregation run.
	parser.Client = &http.Client{Timeout: 6 * time.Second}
	parser.UserAgent = "newsmux/1.0"
	return &RSSAdapter{
		name:   name,
		url:    feedURL,
		parser: parser,
		logger: slog.Default(),
	}
}

func (a *RSSAdapter) Name() string     { return a.name }
func (a *RSSAdapter) Provider() string { return ProviderRSS }

func (a *RSSAdapter) Fetch(ctx context.Context, p Params) []Article {
	parsed, err := a.parser.ParseURLWithContext(a.url, ctx)
	if err != nil {
		a.logger.Warn("rss fetch failed", "feed", a.name, "error", err)
		return nil
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaultFeedCap
	}

	articles := make([]Article, 0, limit)
	for _, item := range parsed.Items {
		if len(articles) >= limit {
			break
		}
		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		published := item.Published
		if published == "" {
			published = item.Updated
		}
		articles = append(articles, Article{
			Title:       sanitize(item.Title, maxTitleLen),
			Description: sanitize(desc, maxDescriptionLen),
			URL:         item.Link,
			ImageURL:    itemImage(item),
			PublishedAt: published,
			Source:      a.name,
			Language:    p.Language,
			Provider:    ProviderRSS,
		})
	}
	return articles
}

// itemImage extracts a thumbnail URL from the usual feed extension
// spots, falling back to none.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"thumbnail", "content"} {
			for _, ext := range media[key] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
