package classify

import (
	"sort"
	"strings"
)

// Classifier detects queries that must bypass the general knowledge
// lookup and go straight to the senior responder. Detection is plain
// case-insensitive substring matching over configured keyword lists;
// no scoring, no model calls.
type Classifier struct {
	categories map[string][]string
	names      []string
}

// DefaultCategories returns the built-in sensitive topic keywords.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"safety": {
			"foreign object", "safety", "hazard", "injury", "injured",
			"unsafe", "recall", "contaminat", "expired product", "made me sick",
		},
		"complaint": {
			"complaint", "unacceptable", "furious", "terrible", "worst",
			"angry", "outraged", "disappointed",
		},
		"dispute": {
			"dispute", "chargeback", "overcharged", "billing error",
			"lawyer", "legal action", "sue you",
		},
		"policy-exception": {
			"exception", "waive", "special case", "outside your policy",
			"bend the rules", "past the return window",
		},
		"technical": {
			"malfunction", "defective", "broken", "error code",
			"stopped working", "keeps crashing", "won't turn on",
		},
	}
}

// New builds a classifier from category keyword lists. Keywords are
// lowercased on the way in. Empty or nil categories fall back to the
// built-in defaults.
func New(categories map[string][]string) *Classifier {
	if len(categories) == 0 {
		categories = DefaultCategories()
	}

	normalized := make(map[string][]string, len(categories))
	names := make([]string, 0, len(categories))
	for name, keywords := range categories {
		var kws []string
		for _, kw := range keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		if len(kws) == 0 {
			continue
		}
		normalized[name] = kws
		names = append(names, name)
	}
	// Stable category order so the reported category is deterministic
	// when a query matches more than one.
	sort.Strings(names)

	return &Classifier{categories: normalized, names: names}
}

// Match returns the first category (in sorted name order) whose
// keywords appear in the query.
func (c *Classifier) Match(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, name := range c.names {
		for _, kw := range c.categories[name] {
			if strings.Contains(q, kw) {
				return name, true
			}
		}
	}
	return "", false
}

// IsSensitive reports whether the query touches any sensitive category.
func (c *Classifier) IsSensitive(query string) bool {
	_, ok := c.Match(query)
	return ok
}

// Categories returns the configured category names in sorted order.
func (c *Classifier) Categories() []string {
	return append([]string(nil), c.names...)
}
