package console

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// FilterAll is the sentinel criteria value that matches every level or
// category.
const FilterAll = "all"

// Criteria are the operator-controlled constraints narrowing the visible
// list. The zero value is not valid; use DefaultCriteria.
type Criteria struct {
	// Search is matched case-insensitively as a substring of the message,
	// the category, or the JSON form of the data payload.
	Search string
	// Level is a canonical level string or FilterAll. Matched exactly,
	// case-sensitive to the level's canonical casing.
	Level string
	// Category is one of the snapshot's categories or FilterAll.
	Category string
}

// DefaultCriteria returns the identity filter that keeps every entry.
func DefaultCriteria() Criteria {
	return Criteria{Level: FilterAll, Category: FilterAll}
}

// IsIdentity reports whether the criteria keep every entry.
func (c Criteria) IsIdentity() bool {
	return c.Search == "" && c.Level == FilterAll && c.Category == FilterAll
}

// Visible returns the subsequence of snapshot matching the criteria,
// preserving snapshot order. The filter always operates on the raw snapshot;
// it is never applied to its own output.
func Visible(snapshot []logstore.Entry, criteria Criteria) []logstore.Entry {
	if criteria.IsIdentity() {
		return snapshot
	}

	search := strings.ToLower(criteria.Search)
	visible := make([]logstore.Entry, 0, len(snapshot))
	for _, entry := range snapshot {
		if criteria.matches(entry, search) {
			visible = append(visible, entry)
		}
	}
	return visible
}

// matches applies the level, category and search constraints to one entry.
// search must already be lowercased.
func (c Criteria) matches(entry logstore.Entry, search string) bool {
	if c.Level != FilterAll && entry.Level != c.Level {
		return false
	}
	if c.Category != FilterAll && entry.Category != c.Category {
		return false
	}
	if search != "" && !matchesSearch(entry, search) {
		return false
	}
	return true
}

// matchesSearch reports whether the lowercased search term occurs in the
// entry's message, category, or serialized data payload.
func matchesSearch(entry logstore.Entry, search string) bool {
	if strings.Contains(strings.ToLower(entry.Message), search) {
		return true
	}
	if strings.Contains(strings.ToLower(entry.Category), search) {
		return true
	}
	if entry.HasData() {
		if data, err := json.Marshal(entry.Data); err == nil {
			return strings.Contains(strings.ToLower(string(data)), search)
		}
	}
	return false
}

// Categories returns the distinct categories across the full snapshot,
// sorted ascending. The filtered view never narrows the option list.
func Categories(snapshot []logstore.Entry) []string {
	seen := make(map[string]struct{}, len(snapshot))
	categories := make([]string, 0, 8)
	for _, entry := range snapshot {
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		categories = append(categories, entry.Category)
	}
	sort.Strings(categories)
	return categories
}
