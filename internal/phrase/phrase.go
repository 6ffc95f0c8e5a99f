// Package phrase splits a free-text query into alternative phrases, picks the
// dominant one and describes the search intent in a sentence.
package phrase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
)

// separatorRegex splits queries on "or"/"and" words, commas, slashes, pipes and ampersands.
var separatorRegex = regexp.MustCompile(`(?i)\s+or\s+|\s+and\s+|,|/|\||&`)

// maxSummaryTokens bounds how many keywords the intent summary lists.
const maxSummaryTokens = 5

// Phrase is one alternative extracted from a query.
type Phrase struct {
	Raw        string   `json:"raw"`
	Normalized string   `json:"normalized"`
	Tokens     []string `json:"tokens"`
	TokenCount int      `json:"tokenCount"`
	Index      int      `json:"index"`
}

// Extract splits the query into phrases. Parts that normalize to nothing are
// dropped and duplicates (by normalized text) keep their first occurrence.
func Extract(query string) []Phrase {
	phrases := make([]Phrase, 0)
	if query == "" {
		return phrases
	}

	rawParts := make([]string, 0)
	for _, part := range separatorRegex.Split(query, -1) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			rawParts = append(rawParts, trimmed)
		}
	}
	if len(rawParts) == 0 {
		rawParts = append(rawParts, strings.TrimSpace(query))
	}

	seen := make(map[string]struct{})
	for index, part := range rawParts {
		tokens := tokenizer.Tokenize(part)
		normalized := strings.TrimSpace(strings.Join(tokens, " "))
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		phrases = append(phrases, Phrase{
			Raw:        part,
			Normalized: normalized,
			Tokens:     tokens,
			TokenCount: len(tokens),
			Index:      index,
		})
	}
	return phrases
}

// Primary returns the phrase with the most tokens, ties going to the lowest index.
// It returns nil when there are no phrases.
func Primary(phrases []Phrase) *Phrase {
	if len(phrases) == 0 {
		return nil
	}
	best := phrases[0]
	for _, p := range phrases[1:] {
		if p.TokenCount > best.TokenCount || (p.TokenCount == best.TokenCount && p.Index < best.Index) {
			best = p
		}
	}
	return &best
}

// IntentSummary builds a human readable sentence describing what the query looks for.
// It is cosmetic and never influences ranking.
func IntentSummary(query string, queryTokens *tokenizer.TokenSet, phrases []Phrase, primary *Phrase) string {
	cleaned := strings.TrimSpace(query)
	if cleaned == "" {
		return "No query provided."
	}

	if len(phrases) > 0 {
		if len(phrases) == 1 {
			return fmt.Sprintf("Looking for gigs related to \"%s\".", phrases[0].Raw)
		}

		mainPhrase := phrases[0].Raw
		if primary != nil {
			mainPhrase = primary.Raw
		}

		secondary := make([]string, 0, len(phrases))
		for i, p := range phrases {
			if primary != nil && p.Normalized == primary.Normalized {
				continue
			}
			if primary == nil && i == 0 {
				continue
			}
			secondary = append(secondary, fmt.Sprintf("\"%s\"", p.Raw))
		}
		if len(secondary) == 0 {
			return fmt.Sprintf("Looking for gigs related to \"%s\".", mainPhrase)
		}

		last := secondary[len(secondary)-1]
		lead := last
		if rest := secondary[:len(secondary)-1]; len(rest) > 0 {
			lead = strings.Join(rest, ", ") + " or " + last
		}
		return fmt.Sprintf("Looking primarily for \"%s\" gigs, but also open to %s.", mainPhrase, lead)
	}

	if tokens := queryTokens.Tokens(); len(tokens) > 0 {
		if len(tokens) > maxSummaryTokens {
			tokens = tokens[:maxSummaryTokens]
		}
		return fmt.Sprintf("Looking for gigs matching keywords: %s.", strings.Join(tokens, ", "))
	}

	return fmt.Sprintf("Looking for gigs related to \"%s\".", cleaned)
}
