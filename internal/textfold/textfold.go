// Package textfold lowercases text with Turkish casing rules so that search
// input and record fields fold the same way: "I" becomes "ı" and "İ" becomes "i".
package textfold

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cases.Caser is stateful and not safe for concurrent use, so each call builds
// its own. Construction is cheap next to the fold itself.
func lower(s string) string {
	return cases.Lower(language.Turkish).String(s)
}

// Lower folds s with Turkish rules.
func Lower(s string) string {
	if s == "" {
		return s
	}
	return lower(s)
}

// Query folds and trims a search string. An all-blank query folds to "".
func Query(q string) string {
	return strings.TrimSpace(Lower(q))
}

// Contains reports whether the already-folded needle occurs in the folded haystack.
func Contains(haystack, foldedNeedle string) bool {
	if foldedNeedle == "" {
		return true
	}
	return strings.Contains(Lower(haystack), foldedNeedle)
}
