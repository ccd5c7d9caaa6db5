package aggregate

import (
	"strings"

	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
	"github.com/cognicore/brandpulse/pkg/brandpulse/dataset"
)

// AnySentiment disables the sentiment filter.
const AnySentiment = "any"

// Rating bounds used when no range is given.
const (
	MinRating = 1
	MaxRating = 5
)

// Filters selects which reviews are classified. Zero-valued State and City
// disable those filters; a zero MinRating or MaxRating falls back to the
// full 1..5 range bound.
type Filters struct {
	MinRating int
	MaxRating int
	Sentiment string
	State     string
	City      string
}

// DefaultFilters accepts every review rated within the full range.
func DefaultFilters() Filters {
	return Filters{MinRating: MinRating, MaxRating: MaxRating, Sentiment: AnySentiment}
}

// sentiment normalizes the filter the way dataset.Load normalizes labels.
func (f Filters) sentiment() string {
	s := strings.ToLower(strings.TrimSpace(f.Sentiment))
	if s == "" {
		return AnySentiment
	}
	return s
}

func (f Filters) ratingRange() (lo, hi int) {
	lo, hi = f.MinRating, f.MaxRating
	if lo == 0 {
		lo = MinRating
	}
	if hi == 0 {
		hi = MaxRating
	}
	return lo, hi
}

func (f Filters) keep(r *dataset.Review) bool {
	lo, hi := f.ratingRange()
	if rating := int(r.Rating); rating < lo || rating > hi {
		return false
	}
	if s := f.sentiment(); s != AnySentiment && r.Sentiment != s {
		return false
	}
	return true
}

// counter accumulates per-topic counts.
type counter map[string]int

func (c counter) add(topics []string) {
	for _, t := range topics {
		c[t]++
	}
}

// keyedCounter accumulates per-topic counts under a grouping key.
type keyedCounter map[string]counter

func (k keyedCounter) add(key string, topics []string) {
	if k[key] == nil {
		k[key] = make(counter)
	}
	k[key].add(topics)
}

func (k keyedCounter) plain() map[string]map[string]int {
	out := make(map[string]map[string]int, len(k))
	for key, c := range k {
		out[key] = map[string]int(c)
	}
	return out
}

// CityKey is the by_city grouping key for a state and city.
func CityKey(state, city string) string {
	return state + " :: " + city
}

// CoordKey is the city_coords key for a state and city.
func CoordKey(state, city string) string {
	return state + "::" + city
}

// Aggregate walks ds in input order, classifies every review that passes
// f, and rolls the matched topics up overall and by state, city and store.
// A review matching several topics counts once under each of them.
func Aggregate(ds *dataset.Dataset, c *classify.Classifier, f Filters) *Summary {
	if c == nil {
		c = classify.New(nil)
	}

	overall := make(counter)
	byState := make(keyedCounter)
	byCity := make(keyedCounter)
	byStore := make(keyedCounter)
	rows := []Row{}

	for si := range ds.States {
		st := &ds.States[si]
		if f.State != "" && st.State != f.State {
			continue
		}
		for ci := range st.Cities {
			city := &st.Cities[ci]
			if f.City != "" && city.City != f.City {
				continue
			}
			for ki := range city.Stores {
				store := &city.Stores[ki]
				for ri := range store.Reviews {
					r := &store.Reviews[ri]
					if !f.keep(r) {
						continue
					}

					topics := c.Classify(r.Title + " " + r.Text)
					rows = append(rows, Row{
						State:         st.State,
						City:          city.City,
						StoreID:       store.StoreID,
						StoreName:     store.StoreName,
						Address:       store.Address,
						Rating:        int(r.Rating),
						Sentiment:     r.Sentiment,
						Title:         r.Title,
						Text:          r.Text,
						Date:          r.Date,
						MatchedTopics: topics,
					})

					overall.add(topics)
					byState.add(st.State, topics)
					byCity.add(CityKey(st.State, city.City), topics)
					byStore.add(store.StoreID, topics)
				}
			}
		}
	}

	return &Summary{
		Meta: Meta{
			Filters:                newFilterMeta(f),
			TotalReviewsClassified: len(rows),
		},
		TopicCountsOverall: map[string]int(overall),
		ByState:            byState.plain(),
		ByCity:             byCity.plain(),
		ByStore:            byStore.plain(),
		CityCoords:         cityCoords(ds),
		ClassifiedReviews:  rows,
	}
}

// cityCoords copies through coordinates from a prior geocoding pass.
// Filters do not apply: the map covers every geocoded city.
func cityCoords(ds *dataset.Dataset) map[string]Coord {
	out := make(map[string]Coord)
	for _, st := range ds.States {
		for _, c := range st.Cities {
			if c.HasCoords() {
				out[CoordKey(st.State, c.City)] = Coord{Lat: *c.CityLat, Lon: *c.CityLon}
			}
		}
	}
	return out
}
