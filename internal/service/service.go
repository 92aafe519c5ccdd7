// Package service exposes the section-feed operation the boundary
// layer consumes. It never returns an error: every failure mode
// degrades, ultimately to a static mock set.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsmux/newsmux/internal/cache"
	"github.com/newsmux/newsmux/internal/feed"
	"github.com/newsmux/newsmux/internal/rank"
)

// SectionFeed is the well-formed response for one section request.
type SectionFeed struct {
	Articles       []rank.NormalizedArticle `json:"articles"`
	Total          int                      `json:"total"`
	FromCache      bool                     `json:"from_cache"`
	IsFallbackMock bool                     `json:"is_fallback_mock"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// Service orchestrates the cache-backed aggregation path.
type Service struct {
	router *feed.Router
	agg    *feed.Aggregator
	engine *rank.Engine
	cache  *cache.Gateway
	logger *slog.Logger
	now    func() time.Time
}

// New creates the feed service.
func New(router *feed.Router, agg *feed.Aggregator, engine *rank.Engine, gw *cache.Gateway) *Service {
	return &Service{
		router: router,
		agg:    agg,
		engine: engine,
		cache:  gw,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Sections returns all known section names in declaration order.
func (s *Service) Sections() []string {
	return s.router.Sections()
}

// GetSectionFeed returns the feed for a section. Unknown sections
// degrade to the default section. With useCache, a fresh cache entry
// short-circuits the provider path entirely. On total failure (no
// fresh data and no cache) the response is a static mock set flagged
// IsFallbackMock, so the caller always receives well-formed data.
func (s *Service) GetSectionFeed(ctx context.Context, section string, useCache bool) *SectionFeed {
	name := s.router.Resolve(section)
	now := s.now()

	if useCache {
		if articles, ok := s.cache.Get(ctx, name); ok {
			return &SectionFeed{
				Articles:    articles,
				Total:       len(articles),
				FromCache:   true,
				GeneratedAt: now,
			}
		}
	}

	articles := s.fetchFresh(ctx, name, now)
	if len(articles) > 0 {
		s.cache.Put(ctx, name, articles)
		return &SectionFeed{
			Articles:    articles,
			Total:       len(articles),
			GeneratedAt: now,
		}
	}

	// Providers came up empty. A stale-but-present cache entry beats
	// mock data, even on the bypass path.
	if !useCache {
		if cached, ok := s.cache.Get(ctx, name); ok {
			return &SectionFeed{
				Articles:    cached,
				Total:       len(cached),
				FromCache:   true,
				GeneratedAt: now,
			}
		}
	}

	s.logger.Warn("no data for section, serving mock fallback", "section", name)
	mock := s.engine.Process(mockArticles(name, now), s.router.Route(name).DefaultTag, now)
	return &SectionFeed{
		Articles:       mock,
		Total:          len(mock),
		IsFallbackMock: true,
		GeneratedAt:    now,
	}
}

// RefreshSection runs the fetch-merge-cache path for one section with
// cache reads bypassed. Used by the refresh scheduler.
func (s *Service) RefreshSection(ctx context.Context, section string) error {
	name := s.router.Resolve(section)
	now := s.now()

	articles := s.fetchFresh(ctx, name, now)
	if len(articles) == 0 {
		return fmt.Errorf("no articles for section %q", name)
	}
	s.cache.Put(ctx, name, articles)
	s.logger.Info("section refreshed", "section", name, "articles", len(articles))
	return nil
}

func (s *Service) fetchFresh(ctx context.Context, name string, now time.Time) []rank.NormalizedArticle {
	raw := s.agg.Aggregate(ctx, name)
	return s.engine.Process(raw, s.router.Route(name).DefaultTag, now)
}
