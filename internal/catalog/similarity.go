package catalog

import "strings"

// Similarity computes a cheap order-insensitive match quality in [0,1]:
// the Jaccard overlap of the distinct characters of both strings, case
// folded. It trades misspelling robustness for a small false-positive risk
// on anagram-like names, which is acceptable at the threshold (0.6) the
// ranker applies. Returns 0 when either string is empty.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := charSet(a)
	setB := charSet(b)

	shared := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func charSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range strings.ToLower(s) {
		set[r] = struct{}{}
	}
	return set
}
