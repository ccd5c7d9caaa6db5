package aggregate

import (
	"fmt"
	"sort"

	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
)

// Summary is the result of one aggregation run. It is not modified after
// Aggregate returns it.
type Summary struct {
	Meta               Meta                      `json:"meta"`
	TopicCountsOverall map[string]int            `json:"topic_counts_overall"`
	ByState            map[string]map[string]int `json:"by_state"`
	ByCity             map[string]map[string]int `json:"by_city"`
	ByStore            map[string]map[string]int `json:"by_store"`
	CityCoords         map[string]Coord          `json:"city_coords"`
	ClassifiedReviews  []Row                     `json:"classified_reviews"`
}

// Meta records how the summary was produced.
type Meta struct {
	Filters                FilterMeta `json:"filters"`
	TotalReviewsClassified int        `json:"total_reviews_classified"`
}

// FilterMeta is the serialized form of Filters; unset location filters
// encode as null.
type FilterMeta struct {
	MinRating int     `json:"min_rating"`
	MaxRating int     `json:"max_rating"`
	Sentiment string  `json:"sentiment"`
	State     *string `json:"state"`
	City      *string `json:"city"`
}

func newFilterMeta(f Filters) FilterMeta {
	lo, hi := f.ratingRange()
	m := FilterMeta{
		MinRating: lo,
		MaxRating: hi,
		Sentiment: f.sentiment(),
	}
	if f.State != "" {
		s := f.State
		m.State = &s
	}
	if f.City != "" {
		c := f.City
		m.City = &c
	}
	return m
}

// Coord is a geocoded city position.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Row is one classified review with its store attribution.
type Row struct {
	State         string   `json:"state"`
	City          string   `json:"city"`
	StoreID       string   `json:"store_id"`
	StoreName     string   `json:"store_name"`
	Address       string   `json:"address"`
	Rating        int      `json:"rating"`
	Sentiment     string   `json:"sentiment"`
	Title         string   `json:"title"`
	Text          string   `json:"text"`
	Date          string   `json:"date"`
	MatchedTopics []string `json:"matched_topics"`
}

// TopicCount pairs a topic with its overall count.
type TopicCount struct {
	Topic string
	Count int
}

// TopTopics returns up to n topics by descending count, ties broken by
// name. n <= 0 returns all topics.
func (s *Summary) TopTopics(n int) []TopicCount {
	out := make([]TopicCount, 0, len(s.TopicCountsOverall))
	for topic, count := range s.TopicCountsOverall {
		out = append(out, TopicCount{Topic: topic, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Topic < out[j].Topic
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WriteSummary writes s to path as indented JSON.
func WriteSummary(path string, s *Summary) error {
	if err := artifact.WriteJSON(path, s, artifact.IndentSummary); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// ReadSummary loads a summary artifact. Missing files wrap
// internalerr.ErrNotFound; undecodable ones internalerr.ErrUnreadable.
func ReadSummary(path string) (*Summary, error) {
	var s Summary
	if err := artifact.ReadJSON(path, &s); err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	return &s, nil
}
