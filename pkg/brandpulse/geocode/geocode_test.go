package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/brandpulse/internal/logging"
	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
)

type fakeProvider struct {
	known map[string]Coord
	fail  map[string]bool
	calls []string
}

func (p *fakeProvider) Lookup(_ context.Context, q string) (Coord, bool, error) {
	p.calls = append(p.calls, q)
	if p.fail[q] {
		return Coord{}, false, errors.New("timeout")
	}
	c, ok := p.known[q]
	return c, ok, nil
}

func twoStates() *dataset.Dataset {
	return &dataset.Dataset{States: []dataset.State{
		{State: "Texas", Cities: []dataset.City{{City: "Dallas"}, {City: "Austin"}, {City: "Nowhere"}}},
		{State: "California", Cities: []dataset.City{{City: "Fresno"}}},
	}}
}

func TestEnrich(t *testing.T) {
	p := &fakeProvider{
		known: map[string]Coord{
			"Dallas, Texas":      {Lat: 32.77, Lon: -96.79},
			"Austin, Texas":      {Lat: 30.26, Lon: -97.74},
			"Fresno, California": {Lat: 36.73, Lon: -119.78},
		},
		fail: map[string]bool{"Fresno, California": true},
	}
	ds := twoStates()
	e := Enricher{Provider: p, Logger: logging.Discard()}

	res, err := e.Enrich(context.Background(), ds)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	want := Result{Cities: 4, Resolved: 2, Failed: 2}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	dallas := ds.States[0].Cities[0]
	if !dallas.HasCoords() || *dallas.CityLat != 32.77 || *dallas.CityLon != -96.79 {
		t.Errorf("Dallas not enriched: %+v", dallas)
	}
	if ds.States[0].Cities[2].HasCoords() {
		t.Error("unknown city should stay without coordinates")
	}
	if ds.States[1].Cities[0].HasCoords() {
		t.Error("failed lookup should leave city without coordinates")
	}
}

func TestEnrichUsesCache(t *testing.T) {
	cache := NewMemCache()
	if err := cache.PutCoord(context.Background(), "Dallas, Texas", Coord{Lat: 1, Lon: 2}); err != nil {
		t.Fatal(err)
	}
	p := &fakeProvider{known: map[string]Coord{"Austin, Texas": {Lat: 3, Lon: 4}}}
	e := Enricher{Provider: p, Cache: cache, Logger: logging.Discard()}

	ds := &dataset.Dataset{States: []dataset.State{{State: "Texas", Cities: []dataset.City{{City: "Dallas"}, {City: "Austin"}}}}}
	res, err := e.Enrich(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached != 1 || res.Resolved != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if diff := cmp.Diff([]string{"Austin, Texas"}, p.calls); diff != "" {
		t.Errorf("provider calls (-want +got):\n%s", diff)
	}
	if cache.Len() != 2 {
		t.Errorf("successful lookup should be cached, len=%d", cache.Len())
	}

	// A second pass with overwrite hits only the cache.
	p.calls = nil
	e.Overwrite = true
	if _, err := e.Enrich(context.Background(), ds); err != nil {
		t.Fatal(err)
	}
	if len(p.calls) != 0 {
		t.Errorf("expected no provider calls, got %v", p.calls)
	}
}

func TestEnrichSkipsExisting(t *testing.T) {
	ds := &dataset.Dataset{States: []dataset.State{{State: "Texas", Cities: []dataset.City{{City: "Dallas"}}}}}
	ds.States[0].Cities[0].SetCoords(10, 20)
	p := &fakeProvider{known: map[string]Coord{"Dallas, Texas": {Lat: 1, Lon: 1}}}

	res, err := (&Enricher{Provider: p, Logger: logging.Discard()}).Enrich(context.Background(), ds)
	if err != nil {
		t.Fatal(err)
	}
	if res.Skipped != 1 || len(p.calls) != 0 {
		t.Errorf("city with coordinates should be skipped: %+v calls=%v", res, p.calls)
	}
	if *ds.States[0].Cities[0].CityLat != 10 {
		t.Error("existing coordinates changed")
	}
}

func TestEnrichCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Enricher{Provider: &fakeProvider{}, Logger: logging.Discard()}).Enrich(ctx, twoStates())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestQuery(t *testing.T) {
	if got := Query(" Dallas ", "Texas"); got != "Dallas, Texas" {
		t.Errorf("Query = %q", got)
	}
}
