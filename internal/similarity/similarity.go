package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
)

const (
	// containedScore is returned when the longer-than-3 query token appears inside the document token.
	containedScore = 0.85
	// containingScore is returned when the longer-than-3 document token appears inside the query token.
	containingScore = 0.75
	// minEditSimilarity is the floor below which edit-distance similarity counts as no match.
	minEditSimilarity = 0.4

	// OverlapThreshold is the token similarity at which two token sets are considered overlapping.
	OverlapThreshold = 0.75
	// MatchThreshold is the token similarity at which a token pair is counted by CountMatches.
	MatchThreshold = 0.8
)

// TokenSimilarity scores two tokens in [0,1].
// Equal tokens score 1 and an empty token scores 0. Containment scores 0.85 or 0.75
// depending on direction; otherwise the normalized Levenshtein similarity is used
// when it exceeds 0.4.
func TokenSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	lenA := utf8.RuneCountInString(a)
	lenB := utf8.RuneCountInString(b)

	if lenA > 3 && strings.Contains(b, a) {
		return containedScore
	}
	if lenB > 3 && strings.Contains(a, b) {
		return containingScore
	}

	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}
	similarity := 1 - float64(Levenshtein(a, b))/float64(maxLen)
	if similarity > minEditSimilarity {
		return similarity
	}
	return 0
}

// SemanticSimilarity averages, over all query tokens, the best TokenSimilarity
// against any document token. It is 0 when either set is empty.
func SemanticSimilarity(queryTokens, docTokens *tokenizer.TokenSet) float64 {
	if queryTokens.Len() == 0 || docTokens.Len() == 0 {
		return 0
	}
	docs := docTokens.Tokens()
	total := 0.0
	for _, queryToken := range queryTokens.Tokens() {
		best := 0.0
		for _, docToken := range docs {
			if score := TokenSimilarity(queryToken, docToken); score > best {
				best = score
			}
		}
		total += best
	}
	return total / float64(queryTokens.Len())
}

// HasSemanticOverlap reports whether any query/document token pair reaches OverlapThreshold.
func HasSemanticOverlap(queryTokens, docTokens *tokenizer.TokenSet) bool {
	docs := docTokens.Tokens()
	for _, queryToken := range queryTokens.Tokens() {
		for _, docToken := range docs {
			if TokenSimilarity(queryToken, docToken) >= OverlapThreshold {
				return true
			}
		}
	}
	return false
}

// CountMatches counts every query/document token pair whose similarity reaches MatchThreshold.
// A query token matching three document tokens counts three times.
func CountMatches(queryTokens, docTokens *tokenizer.TokenSet) int {
	matches := 0
	docs := docTokens.Tokens()
	for _, queryToken := range queryTokens.Tokens() {
		for _, docToken := range docs {
			if TokenSimilarity(queryToken, docToken) >= MatchThreshold {
				matches++
			}
		}
	}
	return matches
}
