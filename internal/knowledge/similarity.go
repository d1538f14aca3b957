package knowledge

import "strings"

var strippedPunctuation = map[rune]bool{
	'.': true,
	',': true,
	'!': true,
	'?': true,
	'(': true,
	')': true,
	'-': true,
	':': true,
	';': true,
}

// Normalize lowercases the text, strips the fixed punctuation set, collapses
// whitespace runs to a single space and trims. Punctuation is removed before
// whitespace is collapsed so that the result is idempotent: stripping "-"
// out of "a - b" leaves a double space that must still collapse.
func Normalize(text string) string {
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strippedPunctuation[r] {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio computes the gestalt pattern-matching similarity of two strings:
// twice the total length of matching blocks divided by the sum of both
// lengths. Operates on runes so multi-byte input scores the same as ASCII.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	matches := matchingTotal(ra, rb, 0, len(ra), 0, len(rb))
	return 2.0 * float64(matches) / float64(total)
}

// matchingTotal sums the lengths of all matching blocks between a[alo:ahi]
// and b[blo:bhi]: find the longest common block, then recurse on the pieces
// to its left and right.
func matchingTotal(a, b []rune, alo, ahi, blo, bhi int) int {
	i, j, size := longestMatch(a, b, alo, ahi, blo, bhi)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a, b, alo, i, blo, j) +
		matchingTotal(a, b, i+size, ahi, j+size, bhi)
}

// longestMatch finds the longest block where a[i:i+size] == b[j:j+size]
// within the given windows. Among equally long blocks the earliest in a
// (then in b) wins, which keeps block decomposition deterministic.
func longestMatch(a, b []rune, alo, ahi, blo, bhi int) (besti, bestj, bestSize int) {
	b2j := make(map[rune][]int)
	for j := blo; j < bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = alo, blo
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return besti, bestj, bestSize
}
