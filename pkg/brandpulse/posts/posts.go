// Package posts manages append-only collections of social posts keyed by URI.
package posts

import (
	"errors"
	"fmt"
	"time"

	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
)

// Post is one social post.
type Post struct {
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Author    string `json:"author"`
	URI       string `json:"uri"`
}

// Collection is the persisted post file.
type Collection struct {
	LastUpdated string `json:"last_updated"`
	TotalPosts  int    `json:"total_posts"`
	Posts       []Post `json:"posts"`
}

// MergeUnique returns existing followed by the posts of incoming whose URI
// is not yet present, and how many were added. existing is not modified.
// Merging the same incoming posts again adds nothing.
func MergeUnique(existing, incoming []Post) ([]Post, int) {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]Post, 0, len(existing)+len(incoming))
	for _, p := range existing {
		seen[p.URI] = struct{}{}
		merged = append(merged, p)
	}

	added := 0
	for _, p := range incoming {
		if _, ok := seen[p.URI]; ok {
			continue
		}
		seen[p.URI] = struct{}{}
		merged = append(merged, p)
		added++
	}
	return merged, added
}

// Dedupe drops posts whose URI was already seen earlier in ps.
func Dedupe(ps []Post) []Post {
	out, _ := MergeUnique(nil, ps)
	return out
}

// Load reads a collection. A missing file is an empty collection; a file
// that cannot be decoded wraps internalerr.ErrUnreadable.
func Load(path string) (*Collection, error) {
	var c Collection
	if err := artifact.ReadJSON(path, &c); err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			return &Collection{Posts: []Post{}}, nil
		}
		return nil, fmt.Errorf("load posts: %w", err)
	}
	if c.Posts == nil {
		c.Posts = []Post{}
	}
	return &c, nil
}

// Save writes c to path, recomputing TotalPosts.
func Save(path string, c *Collection) error {
	c.TotalPosts = len(c.Posts)
	if err := artifact.WriteJSON(path, c, artifact.IndentPosts); err != nil {
		return fmt.Errorf("save posts: %w", err)
	}
	return nil
}

// Append merges incoming into the collection at path. The file is only
// rewritten when at least one post was added. It returns the number of
// added posts and the resulting total.
func Append(path string, incoming []Post, now time.Time) (added, total int, err error) {
	c, err := Load(path)
	if err != nil {
		return 0, 0, err
	}

	merged, added := MergeUnique(c.Posts, incoming)
	if added == 0 {
		return 0, len(c.Posts), nil
	}

	c.Posts = merged
	c.LastUpdated = Timestamp(now)
	if err := Save(path, c); err != nil {
		return 0, len(c.Posts), err
	}
	return added, len(merged), nil
}

// Timestamp formats t the way last_updated is stored.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000")
}

// Categorize returns, per category, the posts whose text matches it.
// Posts matching nothing are left out.
func Categorize(ps []Post, c *classify.Classifier) map[string][]Post {
	out := make(map[string][]Post)
	for _, p := range ps {
		for _, cat := range c.Matches(p.Text) {
			out[cat] = append(out[cat], p)
		}
	}
	return out
}
