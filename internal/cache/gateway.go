package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/newsmux/newsmux/internal/rank"
)

// DefaultTTL is the uniform per-section freshness window.
const DefaultTTL = 10 * time.Minute

// Gateway is the read-through/write-through cache for section feeds.
// Every backend failure degrades to a miss (read) or a dropped write;
// nothing here can fail a request.
type Gateway struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewGateway creates a gateway over store. A nil store disables
// caching (every Get misses, every Put is dropped). ttl <= 0 selects
// DefaultTTL.
func NewGateway(store Store, ttl time.Duration) *Gateway {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gateway{
		store:  store,
		ttl:    ttl,
		logger: slog.Default(),
	}
}

func sectionKey(section string) string {
	return "feed:" + section
}

// Get returns the cached articles for section. Backend unavailable,
// key absent, entry expired, and empty stored value all read as a
// miss; the caller treats them identically.
func (g *Gateway) Get(ctx context.Context, section string) ([]rank.NormalizedArticle, bool) {
	if g.store == nil {
		return nil, false
	}

	raw, ok, err := g.store.Get(ctx, sectionKey(section))
	if err != nil {
		g.logger.Warn("cache read failed", "section", section, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var articles []rank.NormalizedArticle
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		g.logger.Warn("cache entry corrupt", "section", section, "error", err)
		return nil, false
	}
	if len(articles) == 0 {
		return nil, false
	}
	return articles, true
}

// Put stores articles for section. Empty sets are never written: a
// total provider outage must not be cached as real data. Write errors
// are logged and dropped, never surfaced to the response path.
func (g *Gateway) Put(ctx context.Context, section string, articles []rank.NormalizedArticle) {
	if g.store == nil || len(articles) == 0 {
		return
	}

	raw, err := json.Marshal(articles)
	if err != nil {
		g.logger.Warn("cache encode failed", "section", section, "error", err)
		return
	}
	if err := g.store.Set(ctx, sectionKey(section), string(raw), g.ttl); err != nil {
		g.logger.Warn("cache write failed", "section", section, "error", err)
	}
}
