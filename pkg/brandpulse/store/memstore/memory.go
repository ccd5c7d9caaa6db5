package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu     sync.RWMutex
	order  []string // archive order
	posts  map[string]posts.Post
	tags   map[string]map[string]struct{} // category → uris
	runs   map[string]store.Run
	coords map[string]geocode.Coord
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		posts:  make(map[string]posts.Post),
		tags:   make(map[string]map[string]struct{}),
		runs:   make(map[string]store.Run),
		coords: make(map[string]geocode.Coord),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// ArchivePosts implements store.Store.
func (s *Store) ArchivePosts(_ context.Context, ps []posts.Post, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, p := range ps {
		if p.URI == "" {
			continue
		}
		if _, ok := s.posts[p.URI]; ok {
			continue
		}
		s.posts[p.URI] = p
		s.order = append(s.order, p.URI)
		inserted++
	}
	return inserted, nil
}

// TagPosts implements store.Store.
func (s *Store) TagPosts(_ context.Context, category string, uris []string) error {
	if category == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.tags[category]
	if !ok {
		set = make(map[string]struct{})
		s.tags[category] = set
	}
	for _, uri := range uris {
		if _, archived := s.posts[uri]; archived {
			set[uri] = struct{}{}
		}
	}
	return nil
}

// PostsByCategory implements store.Store.
func (s *Store) PostsByCategory(_ context.Context, category string, limit int) ([]posts.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.tags[category]
	var out []posts.Post
	for _, uri := range s.order {
		if len(out) >= limit {
			break
		}
		if _, ok := set[uri]; ok {
			out = append(out, s.posts[uri])
		}
	}
	return out, nil
}

// CountPosts implements store.Store.
func (s *Store) CountPosts(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

// RecordRun implements store.Store.
func (s *Store) RecordRun(_ context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id required", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = r
	return nil
}

// RecentRuns implements store.Store.
func (s *Store) RecentRuns(_ context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetCoord implements geocode.Cache.
func (s *Store) GetCoord(_ context.Context, query string) (geocode.Coord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coords[query]
	return c, ok, nil
}

// PutCoord implements geocode.Cache.
func (s *Store) PutCoord(_ context.Context, query string, c geocode.Coord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coords[query] = c
	return nil
}
