package interpret

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// fuzzyThreshold is the minimum similarity score for accepting a fuzzy
// entity match.
const fuzzyThreshold = 0.7

// similarity scores two strings in [0, 1] as a Levenshtein ratio,
// case-insensitively. Identical strings score 1.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
