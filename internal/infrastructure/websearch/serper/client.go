package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/docqa/internal/core/domain"
)

const defaultBaseURL = "https://google.serper.dev"

// multiQueryLimit caps results per query when research planning produced
// several sub-queries, so the combined context stays within what the
// synthesis model can use.
const multiQueryLimit = 3

// Client queries the Serper search API. One Search call fans out over all
// planned sub-queries sequentially; a failing query is skipped so the
// synthesizer still receives whatever the other queries found.
type Client struct {
	apiKey     string
	baseURL    string
	maxResults int
	httpClient *http.Client
}

func New(apiKey string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL points the client at a different endpoint. Used in tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *Client) Search(ctx context.Context, queries []string) ([]domain.WebResult, error) {
	perQuery := c.maxResults
	if len(queries) > 1 {
		perQuery = multiQueryLimit
	}

	var out []domain.WebResult
	var lastErr error
	for _, query := range queries {
		results, err := c.searchOne(ctx, query, perQuery)
		if err != nil {
			lastErr = fmt.Errorf("serper query %q: %w", query, err)
			continue
		}
		out = append(out, results...)
	}

	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (c *Client) searchOne(ctx context.Context, query string, limit int) ([]domain.WebResult, error) {
	payload := map[string]any{"q": query, "num": limit}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(raw)); msg != "" {
			return nil, fmt.Errorf("serper search status: %s: %s", resp.Status, msg)
		}
		return nil, fmt.Errorf("serper search status: %s", resp.Status)
	}

	var searchResp struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.WebResult, 0, len(searchResp.Organic))
	for i, item := range searchResp.Organic {
		if i >= limit {
			break
		}
		out = append(out, domain.WebResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
			Query:   query,
		})
	}
	return out, nil
}
