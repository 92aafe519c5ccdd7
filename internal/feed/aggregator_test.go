package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/newsmux/newsmux/internal/providers"
)

// stubAdapter returns canned articles and records invocations.
type stubAdapter struct {
	name     string
	provider string
	articles []providers.Article
	calls    int
	gotLimit int
	gotLang  string
}

func (s *stubAdapter) Name() string     { return s.name }
func (s *stubAdapter) Provider() string { return s.provider }
func (s *stubAdapter) Fetch(_ context.Context, p providers.Params) []providers.Article {
	s.calls++
	s.gotLimit = p.Limit
	s.gotLang = p.Language
	if p.Limit > 0 && len(s.articles) > p.Limit {
		return s.articles[:p.Limit]
	}
	return s.articles
}

func arts(prefix string, n int) []providers.Article {
	out := make([]providers.Article, n)
	for i := range out {
		out[i] = providers.Article{
			Title: fmt.Sprintf("%s article %d", prefix, i),
			URL:   fmt.Sprintf("https://example.com/%s/%d", prefix, i),
		}
	}
	return out
}

func TestAggregateOrder(t *testing.T) {
	primary1 := &stubAdapter{name: "p1", provider: providers.ProviderNewsData, articles: arts("p1", 2)}
	primary2 := &stubAdapter{name: "p2", provider: providers.ProviderNewsAPI, articles: arts("p2", 2)}
	rss := &stubAdapter{name: "f1", provider: providers.ProviderRSS, articles: arts("f1", 3)}

	r := NewRouter("world")
	r.Add(&Section{
		Name:    "world",
		Primary: []Route{{Adapter: primary1}, {Adapter: primary2}},
		Feeds:   []providers.Adapter{rss},
	})

	got := NewAggregator(r).Aggregate(context.Background(), "world")

	want := []string{
		"p1 article 0", "p1 article 1",
		"p2 article 0", "p2 article 1",
		"f1 article 0", "f1 article 1", "f1 article 2",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d articles, got %d", len(want), len(got))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Fatalf("position %d: got %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestAggregateFeedCap(t *testing.T) {
	rss := &stubAdapter{name: "f1", provider: providers.ProviderRSS, articles: arts("f1", 20)}

	r := NewRouter("world")
	r.Add(&Section{Name: "world", Feeds: []providers.Adapter{rss}})

	got := NewAggregator(r).Aggregate(context.Background(), "world")
	if len(got) != feedCap {
		t.Fatalf("expected feed capped at %d, got %d", feedCap, len(got))
	}
	if rss.gotLimit != feedCap {
		t.Fatalf("expected limit %d passed to feed, got %d", feedCap, rss.gotLimit)
	}
}

func TestAggregateFeedLanguage(t *testing.T) {
	rss := &stubAdapter{name: "f1", provider: providers.ProviderRSS, articles: arts("f1", 2)}

	r := NewRouter("world")
	r.Add(&Section{Name: "world", Language: "en", Feeds: []providers.Adapter{rss}})

	NewAggregator(r).Aggregate(context.Background(), "world")
	if rss.gotLang != "en" {
		t.Fatalf("expected section language %q passed to feed, got %q", "en", rss.gotLang)
	}
}

func TestAggregatePartialFailure(t *testing.T) {
	failing := &stubAdapter{name: "down", provider: providers.ProviderNewsData} // returns nil
	working := &stubAdapter{name: "up", provider: providers.ProviderNewsAPI, articles: arts("up", 3)}

	r := NewRouter("world")
	r.Add(&Section{Name: "world", Primary: []Route{{Adapter: failing}, {Adapter: working}}})

	got := NewAggregator(r).Aggregate(context.Background(), "world")
	if len(got) != 3 {
		t.Fatalf("expected 3 articles from surviving adapter, got %d", len(got))
	}
	if working.calls != 1 {
		t.Fatalf("later adapter not invoked after earlier empty result")
	}
}

func TestAggregateAllEmpty(t *testing.T) {
	r := NewRouter("world")
	r.Add(&Section{Name: "world", Primary: []Route{{Adapter: &stubAdapter{name: "down"}}}})

	if got := NewAggregator(r).Aggregate(context.Background(), "world"); len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestRouterFallback(t *testing.T) {
	r := NewRouter("world")
	r.Add(&Section{Name: "world", DefaultTag: "World"})
	r.Add(&Section{Name: "tech", DefaultTag: "Tech"})

	if got := r.Route("nope"); got.Name != "world" {
		t.Fatalf("unknown section routed to %q, want world", got.Name)
	}
	if got := r.Resolve("nope"); got != "world" {
		t.Fatalf("Resolve(nope) = %q", got)
	}
	if got := r.Resolve("tech"); got != "tech" {
		t.Fatalf("Resolve(tech) = %q", got)
	}

	sections := r.Sections()
	if len(sections) != 2 || sections[0] != "world" || sections[1] != "tech" {
		t.Fatalf("sections order = %v", sections)
	}
}
