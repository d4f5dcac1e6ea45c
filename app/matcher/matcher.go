package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize prepares raw text for matching and catalog keys: Unicode case
// folding plus leading/trailing whitespace trimming. Punctuation, emoji and
// inner whitespace are left as-is.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Similarity computes the Dice coefficient over character bigram multisets
// of the two strings, with all whitespace stripped beforehand. The result
// is within [0, 1]: 1 for identical strings, 0 when either side is too
// short to produce a bigram.
func Similarity(a, b string) float64 {
	ra := stripWhitespace(a)
	rb := stripWhitespace(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[string(ra[i:i+2])]++
	}

	matches := 0
	for i := 0; i < len(rb)-1; i++ {
		bigram := string(rb[i : i+2])
		if counts[bigram] > 0 {
			counts[bigram]--
			matches++
		}
	}

	return 2 * float64(matches) / float64(len(ra)+len(rb)-2)
}

// BestMatch scores query against every candidate and returns the
// best-scoring one. On ties the first candidate in iteration order wins, so
// the result is deterministic whenever the candidate order is. ok is false
// when candidates is empty.
func BestMatch(query string, candidates []string) (candidate string, score float64, ok bool) {
	if len(candidates) == 0 {
		return "", 0, false
	}

	best := candidates[0]
	bestScore := Similarity(query, candidates[0])

	for _, c := range candidates[1:] {
		if s := Similarity(query, c); s > bestScore {
			best = c
			bestScore = s
		}
	}

	return best, bestScore, true
}

func stripWhitespace(s string) []rune {
	runes := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			runes = append(runes, r)
		}
	}
	return runes
}
