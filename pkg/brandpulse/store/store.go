package store

import (
	"context"
	"time"

	"github.com/cognicore/brandpulse/pkg/brandpulse/geocode"
	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
)

// Store is the persistence interface behind the collector and geocoder.
type Store interface {
	Close() error

	// Post archive
	ArchivePosts(ctx context.Context, ps []posts.Post, seen time.Time) (int, error)
	TagPosts(ctx context.Context, category string, uris []string) error
	PostsByCategory(ctx context.Context, category string, limit int) ([]posts.Post, error)
	CountPosts(ctx context.Context) (int, error)

	// Collection runs
	RecordRun(ctx context.Context, r Run) error
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	// Geocode cache
	geocode.Cache
}

// Run is one collector cycle.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Fetched    int // posts returned by all search terms
	Unique     int // after per-cycle de-duplication
	Added      int // new to the main collection
	Errors     int // search terms that failed
}
