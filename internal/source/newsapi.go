package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/factseeker/factseeker/internal/model"
)

// maxNewsAPIBody bounds how much of a response is read
const maxNewsAPIBody = 2_000_000

// NewsAPISource pulls recent articles from newsapi.org. The free tier is
// strictly rate limited, so every request goes through a limiter.
type NewsAPISource struct {
	apiKey     string
	query      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewsAPI response structures
type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
	Code         string           `json:"code,omitempty"`
	Message      string           `json:"message,omitempty"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// NewNewsAPISource creates a NewsAPI-backed content source
func NewNewsAPISource(apiKey, query string, timeout time.Duration, requestsPerSecond float64) *NewsAPISource {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}

	return &NewsAPISource{
		apiKey:  apiKey,
		query:   query,
		baseURL: "https://newsapi.org/v2",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Name returns the source name
func (s *NewsAPISource) Name() string {
	return "NewsAPI"
}

// Fetch retrieves up to count recent articles matching the configured query
func (s *NewsAPISource) Fetch(ctx context.Context, count int) ([]model.ContentItem, error) {
	if count <= 0 {
		count = 1
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/everything?%s", s.baseURL, url.Values{
		"q":        {s.query},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {strconv.Itoa(count)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxNewsAPIBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var apiResp newsAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || apiResp.Status != "ok" {
		if apiResp.Message != "" {
			return nil, fmt.Errorf("NewsAPI error (%d): %s", resp.StatusCode, apiResp.Message)
		}
		return nil, fmt.Errorf("NewsAPI error: HTTP %d", resp.StatusCode)
	}

	if len(apiResp.Articles) == 0 {
		return nil, ErrNoContent
	}

	items := make([]model.ContentItem, 0, len(apiResp.Articles))
	for _, article := range apiResp.Articles {
		text := article.Description
		if text == "" {
			text = article.Title
		}
		text = StripHTML(text)
		if text == "" {
			continue
		}

		publishedAt, _ := time.Parse(time.RFC3339, article.PublishedAt)

		items = append(items, model.ContentItem{
			ID:          model.ContentID(text),
			ExternalID:  article.URL, // article URL is the stable id NewsAPI gives us
			Source:      s.Name(),
			Publisher:   article.Source.Name,
			Author:      article.Author,
			Text:        text,
			URL:         article.URL,
			PublishedAt: publishedAt,
		})
	}

	if len(items) == 0 {
		return nil, ErrNoContent
	}
	return items, nil
}
