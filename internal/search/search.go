// Package search is a thin client for the external video search endpoint,
// filtered down to educational results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Educational category ids on the remote service, plus title keywords used
// as a fallback filter.
var (
	educationalCategories = map[string]bool{"27": true, "28": true}
	educationalKeywords   = []string{"tutorial", "lesson", "coding", "explained", "course", "lecture"}
)

type Video struct {
	ID         string
	Title      string
	Channel    string
	CategoryID string
}

type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   http.DefaultClient,
	}
}

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
			CategoryID   string `json:"categoryId"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Search queries the endpoint and returns only educational results.
func (c *Client) Search(ctx context.Context, query string) ([]Video, error) {
	if c.endpoint == "" {
		return nil, fmt.Errorf("video search: no endpoint configured")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", query)
	q.Set("maxResults", "20")
	q.Set("type", "video")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("video search: build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("video search: %w", err)
	}
	defer resp.Body.Close()

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("video search: decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("video search: %s", out.Error.Message)
	}

	var videos []Video
	for _, item := range out.Items {
		videos = append(videos, Video{
			ID:         item.ID.VideoID,
			Title:      item.Snippet.Title,
			Channel:    item.Snippet.ChannelTitle,
			CategoryID: item.Snippet.CategoryID,
		})
	}
	return FilterEducational(videos), nil
}

// FilterEducational keeps videos in an educational category or with an
// educational keyword in the title.
func FilterEducational(videos []Video) []Video {
	var out []Video
	for _, v := range videos {
		if educationalCategories[v.CategoryID] || hasEducationalKeyword(v.Title) {
			out = append(out, v)
		}
	}
	return out
}

func hasEducationalKeyword(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range educationalKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// Searcher serializes queries with abort-on-supersede: submitting a new
// query cancels the in-flight one, so only the newest search completes.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

// SetClient swaps the backing client when the endpoint or key changes.
func (s *Searcher) SetClient(c *Client) {
	s.mu.Lock()
	s.client = c
	s.mu.Unlock()
}

// Search runs the query, cancelling any previous in-flight request. A
// superseded call returns context.Canceled.
func (s *Searcher) Search(query string) ([]Video, error) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	client := s.client
	s.mu.Unlock()

	videos, err := client.Search(ctx, query)

	s.mu.Lock()
	if s.cancel != nil && ctx.Err() == nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	return videos, err
}
