// Package similarity scores how close query tokens are to document tokens
// using substring containment and normalized edit distance.
package similarity

// Levenshtein computes the classic edit distance between two strings with unit
// cost for insertion, deletion and substitution. It works on runes.
func Levenshtein(a, b string) int {
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Two rolling rows: prevRow holds distances for the first i-1 runes of a.
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost

			currRow[j] = min3(deletion, insertion, substitution)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenB]
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
