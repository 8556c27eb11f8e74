package mapping

import "strings"

func levenshteinDistance(s1, s2 string) int {
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)

	l1 := len(s1)
	l2 := len(s2)

	if l1 == 0 {
		return l2
	}
	if l2 == 0 {
		return l1
	}

	// O(min(l1,l2)) space dynamic programming
	if l1 < l2 {
		s1, s2 = s2, s1
		l1, l2 = l2, l1
	}

	previous := make([]int, l2+1)
	current := make([]int, l2+1)
	for j := 0; j <= l2; j++ {
		previous[j] = j
	}

	for i := 1; i <= l1; i++ {
		current[0] = i
		for j := 1; j <= l2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			insertion := current[j-1] + 1
			deletion := previous[j] + 1
			substitution := previous[j-1] + cost
			current[j] = min3(insertion, deletion, substitution)
		}
		previous, current = current, previous
	}
	return previous[l2]
}

func calculateSimilarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	m := float64(max2(len(s1), len(s2)))
	if m == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/m
}

// jaccardSimilarity scores word-set overlap between two underscore-separated
// keys, catching reordered labels that edit distance punishes.
func jaccardSimilarity(s1, s2 string) float64 {
	w1 := wordSet(s1)
	w2 := wordSet(s2)
	if len(w1) == 0 || len(w2) == 0 {
		return 0
	}
	overlap := 0
	for w := range w1 {
		if _, ok := w2[w]; ok {
			overlap++
		}
	}
	union := len(w1) + len(w2) - overlap
	return float64(overlap) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	}) {
		out[w] = struct{}{}
	}
	return out
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}
