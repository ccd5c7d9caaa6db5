// Package collect polls a social search provider for brand posts and merges
// them into append-only collections.
package collect

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
	"github.com/cognicore/brandpulse/pkg/brandpulse/posts"
	"github.com/cognicore/brandpulse/pkg/brandpulse/store"
)

// Searcher finds posts matching a term.
type Searcher interface {
	Search(ctx context.Context, term string, limit int) ([]posts.Post, error)
}

// Collector runs collection cycles. Fields must not change while Run is
// active.
type Collector struct {
	Searcher Searcher
	Terms    []string
	Limit    int
	Interval time.Duration

	// Output is the main collection file.
	Output string

	// Categories, when set, splits each cycle's posts into
	// <CategoryDir>/<category>_posts.json collections.
	Categories  *classify.Classifier
	CategoryDir string

	// Store, when set, archives posts and records each run.
	Store store.Store

	Logger *log.Logger
	Now    func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// Report describes one cycle.
type Report struct {
	RunID     string
	StartedAt time.Time
	Fetched   int
	Unique    int
	Added     int
	Total     int
	Errors    int

	// CategoryAdded counts posts newly added per category file.
	CategoryAdded map[string]int
	// CategoryTotals is the size of each category file after the cycle.
	CategoryTotals map[string]int
}

func (c *Collector) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Collector) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Collector) newRunID(t time.Time) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entropy == nil {
		c.entropy = ulid.Monotonic(rand.Reader, 0)
	}
	return ulid.MustNew(ulid.Timestamp(t), c.entropy).String()
}

// CategoryPath returns the collection file for a category.
func (c *Collector) CategoryPath(category string) string {
	return filepath.Join(c.CategoryDir, category+"_posts.json")
}

// RunOnce performs a single cycle. Search failures count as zero results for
// that term. Write failures are logged, the remaining files are still
// processed, and the first such error is returned.
func (c *Collector) RunOnce(ctx context.Context) (*Report, error) {
	if c.Searcher == nil {
		return nil, errors.New("collect: nil searcher")
	}
	if c.Output == "" {
		return nil, errors.New("collect: output path required")
	}

	logger := c.logger()
	started := c.now()
	rep := &Report{
		RunID:          c.newRunID(started),
		StartedAt:      started,
		CategoryAdded:  map[string]int{},
		CategoryTotals: map[string]int{},
	}

	var all []posts.Post
	for _, term := range c.Terms {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		found, err := c.Searcher.Search(ctx, term, c.Limit)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			logger.Warn("search failed", "term", term, "err", err)
			rep.Errors++
			continue
		}
		rep.Fetched += len(found)
		all = append(all, found...)
	}

	unique := posts.Dedupe(all)
	rep.Unique = len(unique)
	logger.Info("collected posts", "run", rep.RunID, "fetched", rep.Fetched, "unique", rep.Unique)

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	added, total, err := posts.Append(c.Output, unique, c.now())
	if err != nil {
		logger.Error("collection not updated", "path", c.Output, "err", err)
		keep(err)
	} else if added == 0 {
		logger.Info("no new posts", "path", filepath.Base(c.Output), "total", total)
	} else {
		logger.Info("added posts", "path", filepath.Base(c.Output), "added", added, "total", total)
	}
	rep.Added, rep.Total = added, total

	var byCategory map[string][]posts.Post
	if c.Categories != nil {
		byCategory = posts.Categorize(unique, c.Categories)
		for _, cat := range c.Categories.Topics() {
			path := c.CategoryPath(cat)
			matched := byCategory[cat]
			if len(matched) == 0 {
				logger.Debug("no matches for category", "category", cat)
			}
			n, total, err := posts.Append(path, matched, c.now())
			if err != nil {
				logger.Error("category not updated", "category", cat, "err", err)
				keep(err)
				continue
			}
			rep.CategoryAdded[cat] = n
			rep.CategoryTotals[cat] = total
		}
		logger.Info("cycle summary", "run", rep.RunID, "categories", summaryLine(c.Categories.Topics(), rep.CategoryTotals))
	}

	if c.Store != nil {
		if err := c.archive(ctx, rep, unique, byCategory); err != nil {
			logger.Error("archive failed", "run", rep.RunID, "err", err)
			keep(err)
		}
	}

	return rep, firstErr
}

func (c *Collector) archive(ctx context.Context, rep *Report, unique []posts.Post, byCategory map[string][]posts.Post) error {
	if _, err := c.Store.ArchivePosts(ctx, unique, rep.StartedAt); err != nil {
		return fmt.Errorf("archive posts: %w", err)
	}
	for cat, ps := range byCategory {
		uris := make([]string, len(ps))
		for i, p := range ps {
			uris[i] = p.URI
		}
		if err := c.Store.TagPosts(ctx, cat, uris); err != nil {
			return fmt.Errorf("tag %s: %w", cat, err)
		}
	}
	return c.Store.RecordRun(ctx, store.Run{
		ID:         rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: c.now(),
		Fetched:    rep.Fetched,
		Unique:     rep.Unique,
		Added:      rep.Added,
		Errors:     rep.Errors,
	})
}

// summaryLine renders "cat: n, cat: n" in category order.
func summaryLine(categories []string, totals map[string]int) string {
	parts := make([]string, 0, len(categories))
	for _, cat := range categories {
		parts = append(parts, fmt.Sprintf("%s: %d", cat, totals[cat]))
	}
	return strings.Join(parts, ", ")
}

// Run performs a cycle immediately and then one per Interval until ctx is
// cancelled, returning ctx.Err(). Cycle errors are logged and do not stop
// the loop.
func (c *Collector) Run(ctx context.Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("collect: interval must be positive, got %s", c.Interval)
	}
	logger := c.logger()
	logger.Info("collector started", "terms", len(c.Terms), "interval", c.Interval)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		if _, err := c.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("cycle failed", "err", err)
		}
		logger.Debug("sleeping", "interval", c.Interval)

		select {
		case <-ctx.Done():
			logger.Info("collector stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
