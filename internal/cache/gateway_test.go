package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/newsmux/newsmux/internal/providers"
	"github.com/newsmux/newsmux/internal/rank"
)

func sampleArticles(n int) []rank.NormalizedArticle {
	out := make([]rank.NormalizedArticle, n)
	for i := range out {
		out[i] = rank.NormalizedArticle{
			Article: providers.Article{
				Title: fmt.Sprintf("article %d", i),
				URL:   fmt.Sprintf("https://example.com/%d", i),
			},
			ID:    fmt.Sprintf("id-%d", i),
			Score: 3.5,
			Tags:  []string{"Tech"},
		}
	}
	return out
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryStore(), time.Minute)

	if _, ok := g.Get(ctx, "tech"); ok {
		t.Fatal("expected miss on empty cache")
	}

	put := sampleArticles(3)
	g.Put(ctx, "tech", put)

	got, ok := g.Get(ctx, "tech")
	if !ok {
		t.Fatal("expected hit after put")
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	if got[0].Title != "article 0" || got[0].Score != 3.5 {
		t.Fatalf("round-trip mangled article: %+v", got[0])
	}
}

func TestGatewayExpiry(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryStore(), time.Millisecond)

	g.Put(ctx, "tech", sampleArticles(1))
	time.Sleep(5 * time.Millisecond)

	if _, ok := g.Get(ctx, "tech"); ok {
		t.Fatal("expected miss after TTL expiry")
	}
}

func TestGatewayNeverStoresEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	g := NewGateway(store, time.Minute)

	g.Put(ctx, "tech", nil)
	g.Put(ctx, "tech", []rank.NormalizedArticle{})

	if _, ok, _ := store.Get(ctx, "feed:tech"); ok {
		t.Fatal("empty result set must never be cached")
	}
}

func TestGatewayNilStore(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(nil, time.Minute)

	g.Put(ctx, "tech", sampleArticles(1)) // must not panic
	if _, ok := g.Get(ctx, "tech"); ok {
		t.Fatal("nil store must always miss")
	}
}

// failingStore simulates an unavailable backend.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("backend down")
}
func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return fmt.Errorf("backend down")
}
func (failingStore) Close() error { return nil }

func TestGatewayBackendErrors(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(failingStore{}, time.Minute)

	g.Put(ctx, "tech", sampleArticles(1)) // dropped, not fatal
	if _, ok := g.Get(ctx, "tech"); ok {
		t.Fatal("backend error must read as miss")
	}
}

func TestGatewayCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Set(ctx, "feed:tech", "{not json", time.Minute)

	g := NewGateway(store, time.Minute)
	if _, ok := g.Get(ctx, "tech"); ok {
		t.Fatal("corrupt entry must read as miss")
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected clean miss, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "k", "v1", time.Minute); err != nil {
		t.Fatal(err)
	}
	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || got != "v1" {
		t.Fatalf("get after set: got=%q ok=%v err=%v", got, ok, err)
	}

	// Overwrite refreshes both value and expiry.
	if err := store.Set(ctx, "k", "v2", time.Minute); err != nil {
		t.Fatal(err)
	}
	got, _, _ = store.Get(ctx, "k")
	if got != "v2" {
		t.Fatalf("overwrite failed, got %q", got)
	}
}

func TestSQLiteStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	// Zero TTL expires at the current second boundary.
	if err := store.Set(ctx, "k", "v", 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("expected expired entry to read as absent")
	}
}
