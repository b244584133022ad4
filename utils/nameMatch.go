package utils

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// NormalizeName collapses a free-text name for duplicate detection:
// trim, lowercase, squeeze inner whitespace.
func NormalizeName(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, " ")
}

// IsSimilarName reports whether two names are near-duplicates after
// normalization. Short names must match exactly; longer names tolerate an
// edit distance of up to 2.
func IsSimilarName(a, b string) bool {
	na := NormalizeName(a)
	nb := NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if len(na) <= 4 || len(nb) <= 4 {
		return false
	}
	return levenshtein.ComputeDistance(na, nb) <= 2
}

// FindSimilarNames returns the subset of existing names that are
// near-duplicates of name, preserving input order.
func FindSimilarNames(name string, existing []string) []string {
	var matches []string
	for _, candidate := range existing {
		if IsSimilarName(name, candidate) {
			matches = append(matches, candidate)
		}
	}
	return matches
}
