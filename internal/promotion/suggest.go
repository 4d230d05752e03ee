package promotion

import (
	"time"
	"unicode/utf8"
)

// suggest returns the active code closest to input, or "" when none is within
// the configured distance. Ties go to the lexically smaller code.
func (e *Evaluator) suggest(input string, now time.Time) string {
	if e.maxSuggestAt <= 0 {
		return ""
	}
	target := NormalizeCode(input)

	best, bestDist := "", e.maxSuggestAt+1
	for _, p := range e.table.promotions {
		if !p.HasCode() || !p.Window.Contains(now) {
			continue
		}
		d := Levenshtein(target, NormalizeCode(p.Code))
		if d < bestDist || (d == bestDist && p.Code < best) {
			best, bestDist = p.Code, d
		}
	}
	if bestDist > e.maxSuggestAt {
		return ""
	}
	return best
}

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return utf8.RuneCountInString(b)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
