package config

import (
	"fmt"

	"github.com/cognicore/brandpulse/pkg/brandpulse/classify"
)

// Loader loads keyword files and constructs classifiers
type Loader struct {
	KeywordsPath   string
	CategoriesPath string
}

// Components holds the loaded classifiers
type Components struct {
	Reviews *classify.Classifier
	Posts   *classify.Classifier
}

// Load reads the configured files and returns initialized components.
// Unset paths fall back to the built-in tables.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.KeywordsPath != "" {
		table, err := LoadKeywords(l.KeywordsPath)
		if err != nil {
			return nil, fmt.Errorf("load keywords: %w", err)
		}
		comp.Reviews = classify.New(table)
	} else {
		comp.Reviews = classify.New(classify.DefaultKeywords())
	}

	if l.CategoriesPath != "" {
		table, err := LoadKeywords(l.CategoriesPath)
		if err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
		comp.Posts = classify.New(table)
	} else {
		comp.Posts = classify.New(classify.BrandCategories())
	}

	return comp, nil
}
