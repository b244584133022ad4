package utils

import (
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Shea Butter  ":  "shea butter",
		"SHEA   BUTTER":    "shea butter",
		"shea\tbutter":     "shea butter",
		"":                 "",
		"   ":              "",
		"Coconut Oil (RB)": "coconut oil (rb)",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSimilarName(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Sugar", "Suger", true},
		{"Shea Butter", "shea  BUTTER", true},
		{"Shea Butter", "Shea Buttr", true},
		{"Sugar", "Honey", false},
		// Short names must match exactly after normalization.
		{"Salt", "Silt", false},
		{"Salt", "salt", true},
		{"", "Sugar", false},
		{"Lavender Oil", "Lavender Oils", true},
	}
	for _, tc := range cases {
		if got := IsSimilarName(tc.a, tc.b); got != tc.want {
			t.Errorf("IsSimilarName(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestFindSimilarNames(t *testing.T) {
	existing := []string{"Shea Butter", "Coconut Oil", "Sheaa Butter", "Beeswax"}
	got := FindSimilarNames("shea butter", existing)
	want := []string{"Shea Butter", "Sheaa Butter"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if matches := FindSimilarNames("Rosehip Oil", existing); matches != nil {
		t.Errorf("expected no matches, got %v", matches)
	}
}
