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

// NewsAPIAdapter fetches top headlines from a newsapi.org-style keyed
// aggregator API.
type NewsAPIAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewNewsAPIAdapter creates a NewsAPI adapter.
func NewNewsAPIAdapter(apiKey, baseURL string) *NewsAPIAdapter {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	return &NewsAPIAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
}

func (a *NewsAPIAdapter) Name() string     { return "NewsAPI" }
func (a *NewsAPIAdapter) Provider() string { return ProviderNewsAPI }

func (a *NewsAPIAdapter) Fetch(ctx context.Context, p Params) []Article {
	articles, err := a.fetch(ctx, p)
	if err != nil {
		a.logger.Warn("newsapi fetch failed", "category", p.Category, "error", err)
		return nil
	}
	return articles
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func (a *NewsAPIAdapter) fetch(ctx context.Context, p Params) ([]Article, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}

	q := url.Values{}
	q.Set("apiKey", a.apiKey)
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Country != "" {
		q.Set("country", p.Country)
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/top-headlines?"+q.Encode(), nil)
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

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("provider status %q", parsed.Status)
	}

	articles := make([]Article, 0, len(parsed.Articles))
	for _, r := range parsed.Articles {
		if p.Limit > 0 && len(articles) >= p.Limit {
			break
		}
		articles = append(articles, Article{
			Title:       sanitize(r.Title, maxTitleLen),
			Description: sanitize(r.Description, maxDescriptionLen),
			URL:         r.URL,
			ImageURL:    r.URLToImage,
			PublishedAt: r.PublishedAt,
			Source:      r.Source.Name,
			Content:     sanitize(r.Content, maxDescriptionLen),
			Language:    p.Language,
			Provider:    ProviderNewsAPI,
		})
	}
	return articles, nil
}
