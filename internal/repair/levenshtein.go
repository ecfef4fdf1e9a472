package repair

import "strings"

// Levenshtein computes the character-level edit distance between a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// FindBestMatch returns the candidate closest to target by edit distance
// normalized over the longer string. An exact case- and
// whitespace-normalized match wins over any fuzzy candidate. The best
// fuzzy candidate is accepted only when its ratio is strictly below
// threshold; ties keep the earlier candidate.
func FindBestMatch(target string, candidates []string, threshold float64) (string, bool) {
	normTarget := normalizeLoose(target)
	for _, c := range candidates {
		if normalizeLoose(c) == normTarget {
			return c, true
		}
	}

	best := ""
	bestRatio := threshold
	for _, c := range candidates {
		d := Levenshtein(strings.ToLower(target), strings.ToLower(c))
		longer := max(len([]rune(target)), len([]rune(c)))
		if longer == 0 {
			continue
		}
		ratio := float64(d) / float64(longer)
		if ratio < bestRatio {
			bestRatio = ratio
			best = c
		}
	}
	return best, best != ""
}

// normalizeLoose lower-cases and collapses all whitespace runs, the
// normalization used for "exact" match preference.
func normalizeLoose(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
