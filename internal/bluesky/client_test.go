package bluesky

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/time/rate"

	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func testClient(token string, rt roundTrip) *Client {
	c := New("https://bsky.test/", token)
	c.Limiter = rate.NewLimiter(rate.Inf, 1)
	c.HTTPClient = &http.Client{Transport: rt}
	return c
}

func TestSearchSuccess(t *testing.T) {
	c := testClient("secret", func(req *http.Request) *http.Response {
		if req.URL.Path != "/xrpc/app.bsky.feed.searchPosts" {
			t.Errorf("unexpected path %s", req.URL.Path)
		}
		if got := req.URL.Query().Get("q"); got != "tmobile tuesday" {
			t.Errorf("q = %q", got)
		}
		if got := req.URL.Query().Get("limit"); got != "25" {
			t.Errorf("limit = %q", got)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		return respond(200, `{
			"posts": [
				{"uri":"at://did:plc:a/app.bsky.feed.post/1","author":{"handle":"a.bsky.social"},
				 "record":{"text":"free stuff on tmobile tuesday","createdAt":"2025-04-01T10:00:00Z"}},
				{"uri":"","author":{"handle":"ghost"},"record":{"text":"dropped"}}
			],
			"cursor":"25"
		}`)
	})

	got, err := c.Search(context.Background(), "tmobile tuesday", 25)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []posts.Post{{
		Text:      "free stuff on tmobile tuesday",
		CreatedAt: "2025-04-01T10:00:00Z",
		Author:    "a.bsky.social",
		URI:       "at://did:plc:a/app.bsky.feed.post/1",
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("posts mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchNoTokenAndLimitClamp(t *testing.T) {
	c := testClient("", func(req *http.Request) *http.Response {
		if req.Header.Get("Authorization") != "" {
			t.Error("no Authorization header expected without token")
		}
		if got := req.URL.Query().Get("limit"); got != "100" {
			t.Errorf("limit = %q, want clamp to 100", got)
		}
		return respond(200, `{"posts":[]}`)
	})
	got, err := c.Search(context.Background(), "tmo", 500)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no posts, got %d", len(got))
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"xrpc error", 400, `{"error":"InvalidRequest","message":"bad query"}`, "InvalidRequest"},
		{"plain status", 502, `<html>bad gateway</html>`, "status 502"},
		{"bad json", 200, `{"posts":`, "parse response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient("", func(*http.Request) *http.Response { return respond(tt.status, tt.body) })
			_, err := c.Search(context.Background(), "tmobile", 10)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	c := testClient("", func(*http.Request) *http.Response {
		t.Fatal("no request expected")
		return nil
	})
	if _, err := c.Search(context.Background(), "  ", 10); err == nil {
		t.Error("expected error for empty term")
	}
}
