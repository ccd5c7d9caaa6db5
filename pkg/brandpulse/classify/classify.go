package classify

import (
	"sort"
	"strings"
)

// Other is assigned when no keyword topic matches.
const Other = "other"

// KeywordTable maps a topic name to the substrings that select it.
type KeywordTable map[string][]string

// Clone returns a deep copy of the table.
func (kt KeywordTable) Clone() KeywordTable {
	out := make(KeywordTable, len(kt))
	for topic, patterns := range kt {
		out[topic] = append([]string(nil), patterns...)
	}
	return out
}

// Classifier tags free text with topic labels using substring matching.
// A Classifier is immutable once built and safe to share.
type Classifier struct {
	topics   []string            // sorted topic names
	patterns map[string][]string // topic → patterns (lowercase)
}

// New creates a classifier from the given table. A nil or empty table
// selects DefaultKeywords.
func New(table KeywordTable) *Classifier {
	if len(table) == 0 {
		table = DefaultKeywords()
	}

	c := &Classifier{
		topics:   make([]string, 0, len(table)),
		patterns: make(map[string][]string, len(table)),
	}
	for topic, patterns := range table {
		normalized := make([]string, 0, len(patterns))
		for _, p := range patterns {
			if p == "" {
				continue
			}
			normalized = append(normalized, strings.ToLower(p))
		}
		c.topics = append(c.topics, topic)
		c.patterns[topic] = normalized
	}
	sort.Strings(c.topics)
	return c
}

// Classify returns the sorted topics whose patterns occur in text, or
// ["other"] when none do. It never returns an empty slice.
func (c *Classifier) Classify(text string) []string {
	hits := c.Matches(text)
	if len(hits) == 0 {
		return []string{Other}
	}
	return hits
}

// Matches is like Classify but returns an empty slice when nothing matches.
func (c *Classifier) Matches(text string) []string {
	lower := strings.ToLower(text)
	hits := []string{}
	for _, topic := range c.topics {
		for _, p := range c.patterns[topic] {
			if strings.Contains(lower, p) {
				hits = append(hits, topic)
				break
			}
		}
	}
	return hits
}

// Topics returns the sorted topic names known to the classifier.
func (c *Classifier) Topics() []string {
	return append([]string(nil), c.topics...)
}

// Classify tags text against table; see Classifier.Classify.
func Classify(text string, table KeywordTable) []string {
	return New(table).Classify(text)
}
