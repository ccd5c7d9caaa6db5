package dataset

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type sampleText struct {
	title, text string
}

var (
	positiveSamples = []sampleText{
		{"Amazing 5G speeds!", "T-Mobile's 5G is incredibly fast. Downloaded a movie in seconds!"},
		{"Great customer service", "The staff was helpful and knowledgeable. Fixed my issue quickly."},
		{"Best decision ever", "Switched from Verizon and loving the coverage and price."},
		{"Fast data speeds", "Upload and download speeds are excellent in my area."},
		{"Reliable network", "No dropped calls, stable connection throughout the day."},
	}
	negativeSamples = []sampleText{
		{"Network keeps dropping", "Constantly losing signal and calls drop frequently. Very frustrating."},
		{"Terrible coverage", "Dead zones everywhere. Can't even load basic websites."},
		{"Poor customer service", "Staff was rude and unhelpful. Waited an hour just to be dismissed."},
		{"Billing issues", "Charged extra fees that weren't explained. Bill is confusing."},
		{"Slow speeds", "Network is congested. Can barely stream videos."},
	}
	neutralSamples = []sampleText{
		{"Average experience", "Nothing special. Service works but nothing to write home about."},
		{"Okay coverage", "Coverage is decent in most areas, spotty in some."},
		{"Standard service", "Got what I expected. No surprises, good or bad."},
		{"Mixed feelings", "Good price but coverage could be better."},
		{"It works", "Does the job. Had better, had worse."},
	}
)

type sampleState struct {
	name, abbrev, street string
	zipBase              int
	cities               []string
}

var sampleStates = []sampleState{
	{"Texas", "TX", "Main St", 75000, []string{"Dallas", "Houston", "Austin", "San Antonio", "Fort Worth"}},
	{"California", "CA", "Market St", 90000, []string{"Los Angeles", "San Francisco", "San Diego", "Sacramento"}},
}

// Sample builds a synthetic dataset with one store per city. The same seed
// and now always produce the same dataset.
func Sample(seed int64, now time.Time) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	base := now.AddDate(0, 0, -30)

	ds := &Dataset{
		Name:          "T-Mobile Store Reviews",
		GeneratedDate: now.Format("2006-01-02 15:04:05"),
		TotalStates:   len(sampleStates),
	}

	for _, st := range sampleStates {
		state := State{State: st.name}
		for i, city := range st.cities {
			n := i + 1
			store := Store{
				StoreID:   fmt.Sprintf("%s-%s-%03d", st.abbrev, strings.ToUpper(city[:3]), n),
				StoreName: fmt.Sprintf("T-Mobile %s Store", city),
				Address:   fmt.Sprintf("%d %s, %s, %s %d", 100+rng.Intn(9900), st.street, city, st.abbrev, st.zipBase+n),
				City:      city,
				State:     st.name,
			}
			store.Reviews = append(store.Reviews, sampleReviews(rng, base, positiveSamples, 2+rng.Intn(4), 4, 5, "positive")...)
			store.Reviews = append(store.Reviews, sampleReviews(rng, base, negativeSamples, 2+rng.Intn(3), 1, 2, "negative")...)
			store.Reviews = append(store.Reviews, sampleReviews(rng, base, neutralSamples, 1+rng.Intn(3), 3, 3, "neutral")...)

			state.Cities = append(state.Cities, City{City: city, Stores: []Store{store}})
		}
		ds.States = append(ds.States, state)
	}
	return ds
}

func sampleReviews(rng *rand.Rand, base time.Time, pool []sampleText, n, minRating, maxRating int, sentiment string) []Review {
	out := make([]Review, 0, n)
	for i := 0; i < n; i++ {
		s := pool[rng.Intn(len(pool))]
		out = append(out, Review{
			Title:     s.title,
			Text:      s.text,
			Rating:    Rating(minRating + rng.Intn(maxRating-minRating+1)),
			Sentiment: sentiment,
			Date:      base.AddDate(0, 0, rng.Intn(31)).Format("2006-01-02"),
		})
	}
	return out
}
