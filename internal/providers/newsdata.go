package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// NewsDataAdapter fetches regionally-curated headlines from a
// newsdata.io-style keyed API.
type NewsDataAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewNewsDataAdapter creates a NewsData adapter. baseURL may be empty,
// in which case the public endpoint is used.
func NewNewsDataAdapter(apiKey, baseURL string) *NewsDataAdapter {
	if baseURL == "" {
		baseURL = "https://newsdata.io/api/1"
	}
	return &NewsDataAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
}

func (a *NewsDataAdapter) Name() string     { return "NewsData" }
func (a *NewsDataAdapter) Provider() string { return ProviderNewsData }

func (a *NewsDataAdapter) Fetch(ctx context.Context, p Params) []Article {
	articles, err := a.fetch(ctx, p)
	if err != nil {
		a.logger.Warn("newsdata fetch failed", "category", p.Category, "error", err)
		return nil
	}
	return articles
}

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		ImageURL    string `json:"image_url"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
		Content     string `json:"content"`
		Language    string `json:"language"`
	} `json:"results"`
}

func (a *NewsDataAdapter) fetch(ctx context.Context, p Params) ([]Article, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}

	q := url.Values{}
	q.Set("apikey", a.apiKey)
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Country != "" {
		q.Set("country", p.Country)
	}
	if p.Language != "" {
		q.Set("language", p.Language)
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/news?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed newsDataResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("provider status %q", parsed.Status)
	}

	articles := make([]Article, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if p.Limit > 0 && len(articles) >= p.Limit {
			break
		}
		articles = append(articles, Article{
			Title:       sanitize(r.Title, maxTitleLen),
			Description: sanitize(r.Description, maxDescriptionLen),
			URL:         r.Link,
			ImageURL:    r.ImageURL,
			PublishedAt: r.PubDate,
			Source:      r.SourceID,
			Content:     sanitize(r.Content, maxDescriptionLen),
			Language:    r.Language,
			Provider:    ProviderNewsData,
		})
	}
	return articles, nil
}
