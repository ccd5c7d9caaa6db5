package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
)

// Keywords represents a keyword table file
type Keywords struct {
	Topics map[string][]string `yaml:"topics"`
}

// LoadKeywords loads a keyword table from a YAML file
func LoadKeywords(path string) (classify.KeywordTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if len(kw.Topics) == 0 {
		return nil, fmt.Errorf("%w: %s: no topics", internalerr.ErrInvalidConfig, path)
	}

	table := make(classify.KeywordTable, len(kw.Topics))
	for topic, patterns := range kw.Topics {
		topic = strings.TrimSpace(topic)
		if topic == "" {
			return nil, fmt.Errorf("%w: %s: empty topic name", internalerr.ErrInvalidConfig, path)
		}
		if topic == classify.Other {
			return nil, fmt.Errorf("%w: %s: topic %q is reserved", internalerr.ErrInvalidConfig, path, topic)
		}
		table[topic] = patterns
	}
	return table, nil
}

// Collector represents the polling collector configuration
type Collector struct {
	SearchTerms    []string      `yaml:"search_terms"`
	Limit          int           `yaml:"limit"`
	Interval       time.Duration `yaml:"interval"`
	Output         string        `yaml:"output"`
	CategoryDir    string        `yaml:"category_dir"`
	CategoriesPath string        `yaml:"categories"`
	ArchiveDB      string        `yaml:"archive_db"`
	LogFile        string        `yaml:"log_file"`
}

// DefaultCollector returns the collector settings used when no file is given.
func DefaultCollector() Collector {
	return Collector{
		SearchTerms: classify.DefaultSearchTerms(),
		Limit:       50,
		Interval:    5 * time.Minute,
		Output:      "data/tmobile_posts.json",
		CategoryDir: "data",
	}
}

// LoadCollector loads collector settings from a YAML file on top of the
// defaults
func LoadCollector(path string) (*Collector, error) {
	cfg := DefaultCollector()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", internalerr.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate reports settings the collector cannot run with.
func (c *Collector) Validate() error {
	if len(c.SearchTerms) == 0 {
		return fmt.Errorf("%w: search_terms is empty", internalerr.ErrInvalidConfig)
	}
	if c.Limit <= 0 || c.Limit > 100 {
		return fmt.Errorf("%w: limit must be in 1..100, got %d", internalerr.ErrInvalidConfig, c.Limit)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive", internalerr.ErrInvalidConfig)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output is empty", internalerr.ErrInvalidConfig)
	}
	return nil
}
