// Package tokenizer normalizes free text into search tokens and expands
// each token into its stem and synonym forms.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonWordRegex matches every character that is neither an ASCII word character nor whitespace.
var nonWordRegex = regexp.MustCompile(`[^\w\s]`)

// stopWords are dropped from every token stream.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "or": {},
	"of": {}, "to": {}, "in": {}, "on": {}, "for": {},
	"by": {}, "with": {}, "is": {}, "are": {}, "was": {},
	"were": {}, "this": {}, "that": {}, "those": {}, "these": {},
}

// IsStopWord reports whether the token is filtered out by Tokenize.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// stripDiacritics decomposes the text (NFKD) and removes combining marks, so "café" becomes "cafe".
func stripDiacritics(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// Tokenize converts a string into an ordered slice of tokens.
// It lowercases, strips diacritics, replaces non-word characters with spaces,
// splits on whitespace and drops stop words. Duplicates are kept.
func Tokenize(text string) []string {
	tokens := make([]string, 0) // Initialize as empty slice, not nil
	if text == "" {
		return tokens
	}

	processed := stripDiacritics(strings.ToLower(text))
	processed = nonWordRegex.ReplaceAllString(processed, " ")

	for _, s := range strings.Fields(processed) {
		if IsStopWord(s) {
			continue
		}
		tokens = append(tokens, s)
	}
	return tokens
}

// BuildTokenSet tokenizes every part and adds each token together with its
// expansions to a single ordered set. Empty parts are ignored.
func BuildTokenSet(parts ...string) *TokenSet {
	set := NewTokenSet()
	for _, part := range parts {
		if part == "" {
			continue
		}
		for _, token := range Tokenize(part) {
			for _, expanded := range ExpandToken(token) {
				set.Add(expanded)
			}
		}
	}
	return set
}

// BuildTokenSetFromSlices flattens the given slices and builds one token set from all entries.
func BuildTokenSetFromSlices(parts ...[]string) *TokenSet {
	flat := make([]string, 0)
	for _, p := range parts {
		flat = append(flat, p...)
	}
	return BuildTokenSet(flat...)
}
