package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
)

// DefaultBaseURL is the public AppView, which serves search without login.
const DefaultBaseURL = "https://public.api.bsky.app"

// MaxLimit is the largest page size searchPosts accepts.
const MaxLimit = 100

// Client searches posts through app.bsky.feed.searchPosts.
type Client struct {
	BaseURL string
	Token   string // optional bearer token

	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// New returns a client paced at two requests per second.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

type searchResponse struct {
	Posts []struct {
		URI    string `json:"uri"`
		Author struct {
			Handle string `json:"handle"`
		} `json:"author"`
		Record struct {
			Text      string `json:"text"`
			CreatedAt string `json:"createdAt"`
		} `json:"record"`
	} `json:"posts"`
	Cursor  string `json:"cursor"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Search returns up to limit posts matching term.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]posts.Post, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("bluesky: empty search term")
	}
	if limit <= 0 || limit > MaxLimit {
		limit = MaxLimit
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	q := url.Values{}
	q.Set("q", term)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/xrpc/app.bsky.feed.searchPosts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("bluesky: status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if payload.Error != "" {
			return nil, fmt.Errorf("bluesky: status %d: %s: %s", resp.StatusCode, payload.Error, payload.Message)
		}
		return nil, fmt.Errorf("bluesky: status %d", resp.StatusCode)
	}

	out := make([]posts.Post, 0, len(payload.Posts))
	for _, p := range payload.Posts {
		if p.URI == "" {
			continue
		}
		out = append(out, posts.Post{
			Text:      p.Record.Text,
			CreatedAt: p.Record.CreatedAt,
			Author:    p.Author.Handle,
			URI:       p.URI,
		})
	}
	return out, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
