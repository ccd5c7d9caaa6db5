package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "brandpulse-geocoder"
)

// Client resolves place names with the Nominatim search API. It implements
// geocode.Provider.
type Client struct {
	BaseURL   string
	UserAgent string

	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// New returns a client limited to one request per second, as the public
// Nominatim usage policy requires.
func New(baseURL, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup implements geocode.Provider.
func (c *Client) Lookup(ctx context.Context, query string) (geocode.Coord, bool, error) {
	if strings.TrimSpace(query) == "" {
		return geocode.Coord{}, false, nil
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return geocode.Coord{}, false, fmt.Errorf("rate limiter: %w", err)
		}
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return geocode.Coord{}, false, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return geocode.Coord{}, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return geocode.Coord{}, false, fmt.Errorf("nominatim: status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return geocode.Coord{}, false, fmt.Errorf("parse response: %w", err)
	}
	if len(places) == 0 {
		return geocode.Coord{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return geocode.Coord{}, false, fmt.Errorf("parse lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return geocode.Coord{}, false, fmt.Errorf("parse lon %q: %w", places[0].Lon, err)
	}
	return geocode.Coord{Lat: lat, Lon: lon}, true, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
