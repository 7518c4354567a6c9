package strings

import (
	"sort"
	"strings"
)

// DefaultMaxDistance is the edit distance used when none is given
const DefaultMaxDistance = 2

type match struct {
	value    string
	distance int
}

// FindSimilar returns the candidates within maxDistance edits of target,
// closest first. Comparison is case-insensitive.
//
//	FindSimilar("dat", []string{"data", "date", "label"}, 2) // ["data", "date"]
func FindSimilar(target string, candidates []string, maxDistance int) []string {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	var matches []match
	lowered := strings.ToLower(target)
	for _, candidate := range candidates {
		dist := LevenshteinDistance(lowered, strings.ToLower(candidate))
		if dist <= maxDistance {
			matches = append(matches, match{value: candidate, distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.value)
	}
	return result
}

// LevenshteinDistance is the minimum number of single-byte insertions,
// deletions or substitutions turning s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}
