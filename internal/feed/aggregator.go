package feed

import (
	"context"
	"log/slog"

	"github.com/newsmux/newsmux/internal/providers"
)

// feedCap bounds each supplementary RSS feed's contribution per run.
const feedCap = 5

// Aggregator collects raw articles for a section from its routed
// providers, tolerating any subset of them failing.
type Aggregator struct {
	router *Router
	logger *slog.Logger
}

// NewAggregator creates an aggregator over the given router.
func NewAggregator(router *Router) *Aggregator {
	return &Aggregator{
		router: router,
		logger: slog.Default(),
	}
}

// Aggregate invokes the section's primary adapters in declared order,
// then appends each RSS feed's capped output. Invocation is sequential:
// the resulting order decides which duplicate survives dedup, so it
// must stay deterministic. An empty result is a valid outcome.
func (a *Aggregator) Aggregate(ctx context.Context, section string) []providers.Article {
	sec := a.router.Route(section)
	if sec == nil {
		a.logger.Warn("no routing for section", "section", section)
		return nil
	}

	var articles []providers.Article
	for _, rt := range sec.Primary {
		got := rt.Adapter.Fetch(ctx, rt.Params)
		a.logger.Info("provider fetched", "section", sec.Name, "adapter", rt.Adapter.Name(), "count", len(got))
		articles = append(articles, got...)
	}

	for _, f := range sec.Feeds {
		got := f.Fetch(ctx, providers.Params{Limit: feedCap, Language: sec.Language})
		a.logger.Info("feed fetched", "section", sec.Name, "feed", f.Name(), "count", len(got))
		articles = append(articles, got...)
	}

	return articles
}
