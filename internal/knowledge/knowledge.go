// Package knowledge holds the immutable question/answer index the bot
// resolves free-text questions against, and the loader for its on-disk
// document.
package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultThreshold is the minimum similarity score for Resolve to report a
// match.
const DefaultThreshold = 0.63

type Item struct {
	Patterns []string `yaml:"patterns"`
	Answer   string   `yaml:"answer"`
	Image    string   `yaml:"image,omitempty"`
}

type Category struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items"`
}

type QuickReply struct {
	Label    string `yaml:"text"`
	ActionID string `yaml:"callback"`
}

// Document is the on-disk shape of the knowledge base. It is parsed with
// yaml.v3, which also accepts JSON, so both faq.yaml and faq.json work.
type Document struct {
	Categories   []Category   `yaml:"categories"`
	QuickReplies []QuickReply `yaml:"quick_replies"`
}

// Index is built once at startup and never mutated afterwards, so it may be
// shared across goroutines without locking.
type Index struct {
	categories []Category
	normalized [][][]string // category -> item -> normalized patterns
	threshold  float64
}

func Load(path string) (*Index, []QuickReply, error) {
	return LoadWithThreshold(path, DefaultThreshold)
}

// LoadWithThreshold is Load with a caller-chosen match threshold.
func LoadWithThreshold(path string, threshold float64) (*Index, []QuickReply, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read knowledge base: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	idx, err := NewIndex(doc.Categories, threshold)
	if err != nil {
		return nil, nil, err
	}
	return idx, doc.QuickReplies, nil
}

func NewIndex(categories []Category, threshold float64) (*Index, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	normalized := make([][][]string, len(categories))
	for ci, cat := range categories {
		normalized[ci] = make([][]string, len(cat.Items))
		for ii, item := range cat.Items {
			if !hasNonEmptyPattern(item.Patterns) {
				return nil, fmt.Errorf("knowledge item %d in category %q has no pattern", ii, cat.Title)
			}
			norm := make([]string, len(item.Patterns))
			for pi, p := range item.Patterns {
				norm[pi] = Normalize(p)
			}
			normalized[ci][ii] = norm
		}
	}
	return &Index{
		categories: categories,
		normalized: normalized,
		threshold:  threshold,
	}, nil
}

func hasNonEmptyPattern(patterns []string) bool {
	for _, p := range patterns {
		if p != "" {
			return true
		}
	}
	return false
}

// Resolve scans every pattern of every item in declaration order and returns
// the best-scoring item, or nil when the best score stays below the
// threshold. Ties keep the first item seen. The score is returned either
// way so callers can log near misses.
func (ix *Index) Resolve(utterance string) (*Item, float64) {
	q := Normalize(utterance)
	if q == "" {
		return nil, 0.0
	}

	bestScore := 0.0
	var best *Item
	for ci := range ix.categories {
		for ii := range ix.categories[ci].Items {
			for _, pattern := range ix.normalized[ci][ii] {
				score := Ratio(q, pattern)
				if score > bestScore {
					bestScore = score
					best = &ix.categories[ci].Items[ii]
				}
			}
		}
	}

	if best == nil || bestScore < ix.threshold {
		return nil, bestScore
	}
	return best, bestScore
}

// Categories returns the category titles in declaration order.
func (ix *Index) Categories() []string {
	titles := make([]string, len(ix.categories))
	for i, cat := range ix.categories {
		titles[i] = cat.Title
	}
	return titles
}

func (ix *Index) ItemsOf(category int) ([]Item, error) {
	if category < 0 || category >= len(ix.categories) {
		return nil, fmt.Errorf("category index %d out of range [0,%d)", category, len(ix.categories))
	}
	return ix.categories[category].Items, nil
}

func (ix *Index) ItemAt(category, item int) (Item, error) {
	items, err := ix.ItemsOf(category)
	if err != nil {
		return Item{}, err
	}
	if item < 0 || item >= len(items) {
		return Item{}, fmt.Errorf("item index %d out of range [0,%d) in category %d", item, len(items), category)
	}
	return items[item], nil
}
