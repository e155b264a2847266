package kb

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Similarity computes a 0-100 similarity score between a query and a
// stored question. The score is the better of a direct edit-distance
// ratio and a token-sorted ratio, so word order does not penalize a
// match ("store hours" scores the same as "hours store").
func Similarity(query, question string) int {
	a := normalize(query)
	b := normalize(question)

	direct := ratio(a, b)
	sorted := ratio(tokenSort(a), tokenSort(b))

	if sorted > direct {
		return sorted
	}
	return direct
}

// ratio converts edit distance into a 0-100 score.
func ratio(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return (maxLen - dist) * 100 / maxLen
}

// normalize lowercases and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenSort rebuilds the string with its tokens in sorted order.
func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
