package search

import "github.com/gcbaptista/go-gig-search/services"

// Admission thresholds for the primary bucket.
const (
	fallbackPhraseStrengthMin = 0.82
	fallbackPhraseSimilarity  = 0.3
	highSimilarityMin         = 0.65
	primarySimilarityMin      = 0.35
	primaryScoreMin           = 0.45
	scoreOnlyMin              = 0.55
	strongFieldSimilarityMin  = 0.315
	strongFieldBoostMin       = 0.1
)

var strongFields = map[string]struct{}{
	FieldTitle:       {},
	FieldTags:        {},
	FieldCategory:    {},
	FieldSubCategory: {},
	FieldPackages:    {},
}

// partitionResult holds both buckets after truncation plus their pre-truncation sizes.
type partitionResult struct {
	primary      []services.ResultItem
	extras       []services.ResultItem
	totalPrimary int
	totalExtras  int
}

func hasStrongField(matchSummary []string) bool {
	for _, field := range matchSummary {
		if _, ok := strongFields[field]; ok {
			return true
		}
	}
	return false
}

// isPrimaryMatch applies the admission cascade to one candidate. The branches are
// evaluated strictly in order; some are unreachable once earlier ones have decided.
func isPrimaryMatch(c scoredCandidate, hasPhraseMatches, hasPrimaryPhraseMatches bool) bool {
	if c.primaryPhraseMatch {
		return true
	}

	if !hasPrimaryPhraseMatches && c.phraseStrength >= fallbackPhraseStrengthMin && c.similarity >= fallbackPhraseSimilarity {
		return true
	}

	if hasPhraseMatches && c.matchedPhraseCount == 0 && c.hasQueryPhrases {
		return false
	}

	if hasPrimaryPhraseMatches {
		return false
	}

	if c.similarity >= highSimilarityMin {
		return true
	}
	if c.similarity >= primarySimilarityMin && c.score >= primaryScoreMin {
		return true
	}
	if c.score >= scoreOnlyMin {
		return true
	}
	if hasStrongField(c.matchSummary) && c.similarity >= strongFieldSimilarityMin && c.boost >= strongFieldBoostMin {
		return true
	}
	return false
}

// partition splits ranked candidates into primary and extra results, keeping score
// order, and truncates the buckets to limit and secondaryLimit.
func partition(ranked []scoredCandidate, limit, secondaryLimit int) partitionResult {
	hasPhraseMatches := false
	hasPrimaryPhraseMatches := false
	for _, c := range ranked {
		if c.matchedPhraseCount > 0 {
			hasPhraseMatches = true
		}
		if c.primaryPhraseMatch {
			hasPrimaryPhraseMatches = true
		}
	}

	result := partitionResult{
		primary: []services.ResultItem{},
		extras:  []services.ResultItem{},
	}
	for _, c := range ranked {
		if isPrimaryMatch(c, hasPhraseMatches, hasPrimaryPhraseMatches) {
			result.totalPrimary++
			if len(result.primary) < limit {
				result.primary = append(result.primary, formatResult(c))
			}
			continue
		}
		result.totalExtras++
		if len(result.extras) < secondaryLimit {
			result.extras = append(result.extras, formatResult(c))
		}
	}
	return result
}
