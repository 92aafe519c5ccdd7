package service

import (
	"fmt"
	"time"

	"github.com/newsmux/newsmux/internal/providers"
)

// mockArticles is the built-in fallback set served when a section has
// no fresh data and no cache entry. It runs through the regular rank
// pipeline so the response shape matches real data.
func mockArticles(section string, now time.Time) []providers.Article {
	stamp := func(age time.Duration) string {
		return now.Add(-age).Format(time.RFC3339)
	}
	return []providers.Article{
		{
			Title:       fmt.Sprintf("Top stories in %s are temporarily unavailable", section),
			Description: "Live sources for this section could not be reached. Fresh headlines will appear on the next successful refresh.",
			URL:         fmt.Sprintf("https://newsmux.local/fallback/%s/1", section),
			PublishedAt: stamp(1 * time.Hour),
			Source:      "newsmux",
			Provider:    providers.ProviderRSS,
		},
		{
			Title:       fmt.Sprintf("Catching up on %s", section),
			Description: "This placeholder entry keeps the feed well-formed while providers recover.",
			URL:         fmt.Sprintf("https://newsmux.local/fallback/%s/2", section),
			PublishedAt: stamp(3 * time.Hour),
			Source:      "newsmux",
			Provider:    providers.ProviderRSS,
		},
		{
			Title:       fmt.Sprintf("About the %s section", section),
			Description: "Feeds refresh automatically every few minutes. No action is needed.",
			URL:         fmt.Sprintf("https://newsmux.local/fallback/%s/3", section),
			PublishedAt: stamp(6 * time.Hour),
			Source:      "newsmux",
			Provider:    providers.ProviderRSS,
		},
	}
}
