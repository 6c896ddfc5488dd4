// Package directory computes the visible museum list: a category and text
// filter followed by a stable status/free-entry ordering. Everything here is a
// pure function of its arguments.
package directory

import (
	"cmp"
	"slices"
	"strings"

	"muze-kasif/internal/catalog"
	"muze-kasif/internal/textfold"
)

// ComputeVisible filters records by category and query and orders the result
// by status rank, then free class. Records that tie keep their input order.
// records is not modified.
func ComputeVisible(records []catalog.Museum, category, query string) []catalog.Museum {
	q := textfold.Query(query)
	out := make([]catalog.Museum, 0, len(records))
	for _, m := range records {
		if matchesCategory(m, category) && matchesQuery(m, q) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, compare)
	return out
}

// Matches reports whether m passes both filters.
func Matches(m catalog.Museum, category, query string) bool {
	return matchesCategory(m, category) && matchesQuery(m, textfold.Query(query))
}

func matchesCategory(m catalog.Museum, category string) bool {
	return category == catalog.AllCategory || m.Category == category
}

// q must already be folded.
func matchesQuery(m catalog.Museum, q string) bool {
	if q == "" {
		return true
	}
	return textfold.Contains(m.Name, q) ||
		textfold.Contains(m.Location.District, q) ||
		textfold.Contains(m.Category, q)
}

func compare(a, b catalog.Museum) int {
	if c := cmp.Compare(StatusRank(a.Status), StatusRank(b.Status)); c != 0 {
		return c
	}
	return cmp.Compare(freeRank(a.FreeRule), freeRank(b.FreeRule))
}

// StatusRank orders Open < Restoration < Closed < anything else.
func StatusRank(s catalog.Status) int {
	switch s {
	case catalog.StatusOpen:
		return 0
	case catalog.StatusRestoration:
		return 1
	case catalog.StatusClosed:
		return 2
	}
	return 3
}

// IsFree reports whether a free-entry rule advertises free admission.
func IsFree(rule string) bool {
	if rule == "" {
		return false
	}
	r := strings.ToLower(rule)
	return strings.Contains(r, "ücretsiz") || strings.Contains(r, "free")
}

func freeRank(rule string) int {
	if IsFree(rule) {
		return 0
	}
	return 1
}
