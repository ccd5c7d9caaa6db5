// Package dataset defines the State → City → Store → Review hierarchy the
// aggregator consumes, and loads it from JSON.
//
// Loose input is normalized once by Load (or Normalize): missing sentiment
// becomes "unknown", ratings accept numbers or numeric strings, and markup
// is stripped from scraped titles and bodies. Downstream code can rely on
// those defaults without re-checking.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
)

// UnknownSentiment is used when a review carries no sentiment label.
const UnknownSentiment = "unknown"

// Dataset is the root of a store review file.
type Dataset struct {
	Name          string  `json:"dataset_name,omitempty"`
	GeneratedDate string  `json:"generated_date,omitempty"`
	TotalStates   int     `json:"total_states,omitempty"`
	States        []State `json:"states"`
}

// State groups the cities of one state.
type State struct {
	State  string `json:"state"`
	Cities []City `json:"cities"`
}

// City groups stores and optionally carries geocoded coordinates.
type City struct {
	City    string   `json:"city"`
	CityLat *float64 `json:"city_lat,omitempty"`
	CityLon *float64 `json:"city_lon,omitempty"`
	Stores  []Store  `json:"stores"`
}

// HasCoords reports whether both coordinates are present.
func (c *City) HasCoords() bool {
	return c.CityLat != nil && c.CityLon != nil
}

// SetCoords attaches coordinates to the city.
func (c *City) SetCoords(lat, lon float64) {
	c.CityLat = &lat
	c.CityLon = &lon
}

// Store is a single retail location and its reviews.
type Store struct {
	StoreID   string   `json:"store_id"`
	StoreName string   `json:"store_name"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Reviews   []Review `json:"reviews"`
}

// Review is one customer review.
type Review struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	Rating    Rating `json:"rating"`
	Sentiment string `json:"sentiment"`
	Date      string `json:"date"`
}

// Rating is a review score. It decodes from a JSON number, a numeric
// string, or null; fractional values are truncated and anything else
// decodes as 0.
type Rating int

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = 0
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}

	if n, err := strconv.Atoi(s); err == nil {
		*r = Rating(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*r = Rating(int(f))
		return nil
	}
	*r = 0
	return nil
}

// Load reads and normalizes a dataset file. Missing files wrap
// internalerr.ErrNotFound; undecodable ones internalerr.ErrUnreadable.
func Load(path string) (*Dataset, error) {
	var ds Dataset
	if err := artifact.ReadJSON(path, &ds); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	ds.Normalize()
	return &ds, nil
}

// Save writes the dataset to path.
func Save(path string, ds *Dataset) error {
	return artifact.WriteJSON(path, ds, artifact.IndentSummary)
}

// Normalize applies field defaults in place.
func (d *Dataset) Normalize() {
	for si := range d.States {
		st := &d.States[si]
		for ci := range st.Cities {
			city := &st.Cities[ci]
			for ki := range city.Stores {
				store := &city.Stores[ki]
				for ri := range store.Reviews {
					store.Reviews[ri].normalize()
				}
			}
		}
	}
}

func (r *Review) normalize() {
	r.Title = stripMarkup(r.Title)
	r.Text = stripMarkup(r.Text)
	r.Sentiment = strings.ToLower(strings.TrimSpace(r.Sentiment))
	if r.Sentiment == "" {
		r.Sentiment = UnknownSentiment
	}
}

// Stats summarizes the size of a dataset.
type Stats struct {
	States  int
	Cities  int
	Stores  int
	Reviews int
}

// Stats counts the entries at each level of the hierarchy.
func (d *Dataset) Stats() Stats {
	s := Stats{States: len(d.States)}
	for _, st := range d.States {
		s.Cities += len(st.Cities)
		for _, c := range st.Cities {
			s.Stores += len(c.Stores)
			for _, store := range c.Stores {
				s.Reviews += len(store.Reviews)
			}
		}
	}
	return s
}
