// Package geocode attaches city coordinates to a dataset using an external
// provider and a lookup cache.
package geocode

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
)

// Coord is a latitude/longitude pair.
type Coord struct {
	Lat float64
	Lon float64
}

// Provider resolves a free-form place query. ok is false when the provider
// knows no such place.
type Provider interface {
	Lookup(ctx context.Context, query string) (c Coord, ok bool, err error)
}

// Cache stores successful lookups by query.
type Cache interface {
	GetCoord(ctx context.Context, query string) (Coord, bool, error)
	PutCoord(ctx context.Context, query string, c Coord) error
}

// MemCache is an in-process Cache.
type MemCache struct {
	mu sync.RWMutex
	m  map[string]Coord
}

// NewMemCache returns an empty MemCache.
func NewMemCache() *MemCache {
	return &MemCache{m: make(map[string]Coord)}
}

// GetCoord implements Cache.
func (c *MemCache) GetCoord(_ context.Context, query string) (Coord, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[query]
	return v, ok, nil
}

// PutCoord implements Cache.
func (c *MemCache) PutCoord(_ context.Context, query string, v Coord) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[query] = v
	return nil
}

// Len reports the number of cached entries.
func (c *MemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Query builds the lookup key for a city.
func Query(city, state string) string {
	return strings.TrimSpace(city) + ", " + strings.TrimSpace(state)
}

// Result counts what an enrichment pass did.
type Result struct {
	Cities   int
	Resolved int
	Cached   int
	Skipped  int
	Failed   int
}

// Enricher fills in City.CityLat / CityLon.
type Enricher struct {
	Provider Provider
	Cache    Cache
	Logger   *log.Logger

	// Overwrite re-resolves cities that already carry coordinates.
	Overwrite bool
}

// Enrich resolves every city in ds in place. Lookup failures are logged and
// the city is left without coordinates. Only cancellation aborts the pass.
func (e *Enricher) Enrich(ctx context.Context, ds *dataset.Dataset) (Result, error) {
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	cache := e.Cache
	if cache == nil {
		cache = NewMemCache()
	}

	var res Result
	for si := range ds.States {
		st := &ds.States[si]
		for ci := range st.Cities {
			city := &st.Cities[ci]
			res.Cities++
			if city.HasCoords() && !e.Overwrite {
				res.Skipped++
				continue
			}
			if err := ctx.Err(); err != nil {
				return res, err
			}

			q := Query(city.City, st.State)
			if c, ok, err := cache.GetCoord(ctx, q); err != nil {
				logger.Warn("geocode cache read failed", "query", q, "err", err)
			} else if ok {
				city.SetCoords(c.Lat, c.Lon)
				res.Cached++
				continue
			}

			if e.Provider == nil {
				res.Failed++
				continue
			}
			c, ok, err := e.Provider.Lookup(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return res, ctx.Err()
				}
				logger.Warn("geocode lookup failed", "query", q, "err", err)
				res.Failed++
				continue
			}
			if !ok {
				logger.Debug("no geocode match", "query", q)
				res.Failed++
				continue
			}

			city.SetCoords(c.Lat, c.Lon)
			res.Resolved++
			if err := cache.PutCoord(ctx, q, c); err != nil {
				logger.Warn("geocode cache write failed", "query", q, "err", err)
			}
		}
	}
	return res, nil
}
