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

// SocialAdapter searches a short-text social platform's recent-post API.
// Posts carry engagement metrics (likes, shares) that feed the rank
// engine's trending signal.
type SocialAdapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewSocialAdapter creates a social search adapter.
func NewSocialAdapter(apiKey, baseURL string) *SocialAdapter {
	return &SocialAdapter{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
}

func (a *SocialAdapter) Name() string     { return "Social" }
func (a *SocialAdapter) Provider() string { return ProviderSocial }

func (a *SocialAdapter) Fetch(ctx context.Context, p Params) []Article {
	articles, err := a.fetch(ctx, p)
	if err != nil {
		a.logger.Warn("social fetch failed", "query", p.Query, "error", err)
		return nil
	}
	return articles
}

type socialResponse struct {
	Posts []struct {
		Text      string `json:"text"`
		URL       string `json:"url"`
		CreatedAt string `json:"created_at"`
		Language  string `json:"language"`
		User      struct {
			Name string `json:"name"`
		} `json:"user"`
		Likes  int `json:"likes"`
		Shares int `json:"shares"`
	} `json:"posts"`
}

func (a *SocialAdapter) fetch(ctx context.Context, p Params) ([]Article, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if a.baseURL == "" {
		return nil, fmt.Errorf("missing base URL")
	}

	q := url.Values{}
	q.Set("q", p.Query)

	req, err := http.NewRequestWithContext(ctx, "GET", a.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

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

	var parsed socialResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]Article, 0, len(parsed.Posts))
	for _, post := range parsed.Posts {
		if p.Limit > 0 && len(articles) >= p.Limit {
			break
		}
		text := sanitize(post.Text, maxDescriptionLen)
		articles = append(articles, Article{
			Title:       truncate(text, maxTitleLen),
			Description: text,
			URL:         post.URL,
			PublishedAt: post.CreatedAt,
			Source:      post.User.Name,
			Language:    post.Language,
			Provider:    ProviderSocial,
			Likes:       post.Likes,
			Shares:      post.Shares,
		})
	}
	return articles, nil
}
