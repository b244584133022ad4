package models

import "testing"

func TestNextInSequence(t *testing.T) {
	cases := []struct {
		name   string
		prefix string
		latest string
		want   string
	}{
		{"first of the month", "PO-202608-", "", "PO-202608-0001"},
		{"increments the maximum", "PO-202608-", "PO-202608-0007", "PO-202608-0008"},
		// Deleting a lower-numbered draft leaves the maximum untouched, so
		// the next number still moves past it instead of reusing a freed one.
		{"survives deleted drafts", "PO-202608-", "PO-202608-0009", "PO-202608-0010"},
		{"stale prefix restarts", "PO-202609-", "PO-202608-0042", "PO-202609-0001"},
		{"garbage suffix restarts", "PO-202608-", "PO-202608-draft", "PO-202608-0001"},
	}
	for _, tc := range cases {
		if got := nextInSequence(tc.prefix, tc.latest); got != tc.want {
			t.Errorf("%s: nextInSequence(%q, %q) = %q, want %q", tc.name, tc.prefix, tc.latest, got, tc.want)
		}
	}
}
