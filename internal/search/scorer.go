package search

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gcbaptista/go-gig-search/internal/phrase"
	"github.com/gcbaptista/go-gig-search/internal/similarity"
	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
	"github.com/gcbaptista/go-gig-search/model"
)

// Structural boosts, applied additively.
const (
	tagOverlapBoost         = 0.12
	categoryOverlapBoost    = 0.08
	subCategoryOverlapBoost = 0.06
	packageMatchBoost       = 0.05
	maxPackageBoost         = 0.2
	exactTagBoost           = 0.05
	hourlyRateBoost         = 0.03
)

// MinCandidateScore is the lowest score a candidate may have to be ranked at all.
const MinCandidateScore = 0.15

// buildFieldTokenMap tokenizes each searchable field of a listing.
func buildFieldTokenMap(listing model.Listing) fieldTokenMap {
	fields := fieldTokenMap{
		{name: FieldTitle, tokens: tokenizer.BuildTokenSet(listing.Title)},
		{name: FieldDescription, tokens: tokenizer.BuildTokenSet(listing.Description)},
		{name: FieldTags, tokens: tokenizer.BuildTokenSetFromSlices(listing.Tags)},
	}

	if name := listing.CategoryName(); name != "" {
		fields = append(fields, fieldTokens{name: FieldCategory, tokens: tokenizer.BuildTokenSet(name)})
	}
	if name := listing.SubCategoryName(); name != "" {
		fields = append(fields, fieldTokens{name: FieldSubCategory, tokens: tokenizer.BuildTokenSet(name)})
	}

	packageTokens := tokenizer.NewTokenSet()
	for _, pkg := range listing.Packages {
		packageTokens.AddAll(tokenizer.BuildTokenSet(pkg.Name, pkg.Details))
	}
	if packageTokens.Len() > 0 {
		fields = append(fields, fieldTokens{name: FieldPackages, tokens: packageTokens})
	}

	return fields
}

// combinedTokens is the union of all field tokens.
func (m fieldTokenMap) combinedTokens() *tokenizer.TokenSet {
	combined := tokenizer.NewTokenSet()
	for _, f := range m {
		combined.AddAll(f.tokens)
	}
	return combined
}

// buildMatchSummary lists, in field order, every field that semantically overlaps the query.
func buildMatchSummary(queryTokens *tokenizer.TokenSet, fields fieldTokenMap) []string {
	summary := []string{}
	for _, f := range fields {
		if similarity.HasSemanticOverlap(queryTokens, f.tokens) {
			summary = append(summary, f.name)
		}
	}
	return summary
}

// includesExactTag reports whether any query token equals a lowercased tag.
func includesExactTag(queryTokens *tokenizer.TokenSet, tags []string) bool {
	lowerTags := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		lowerTags[strings.ToLower(tag)] = struct{}{}
	}
	for _, token := range queryTokens.Tokens() {
		if _, ok := lowerTags[token]; ok {
			return true
		}
	}
	return false
}

// computeStructuralBoost sums the field-based boosts for one listing.
func computeStructuralBoost(queryTokens *tokenizer.TokenSet, listing model.Listing, fields fieldTokenMap) float64 {
	boost := 0.0

	if tags := fields.get(FieldTags); tags != nil && similarity.HasSemanticOverlap(queryTokens, tags) {
		boost += tagOverlapBoost
	}
	if category := fields.get(FieldCategory); category != nil && similarity.HasSemanticOverlap(queryTokens, category) {
		boost += categoryOverlapBoost
	}
	if subCategory := fields.get(FieldSubCategory); subCategory != nil && similarity.HasSemanticOverlap(queryTokens, subCategory) {
		boost += subCategoryOverlapBoost
	}
	if packages := fields.get(FieldPackages); packages != nil {
		if matches := similarity.CountMatches(queryTokens, packages); matches > 0 {
			boost += min(maxPackageBoost, float64(matches)*packageMatchBoost)
		}
	}

	if len(listing.Tags) > 0 && includesExactTag(queryTokens, listing.Tags) {
		boost += exactTagBoost
	}

	if listing.IsHourly && listing.HourlyRate != nil && isFinite(*listing.HourlyRate) {
		rateTokens := tokenizer.BuildTokenSet(strconv.FormatFloat(*listing.HourlyRate, 'f', -1, 64))
		if similarity.HasSemanticOverlap(queryTokens, rateTokens) {
			boost += hourlyRateBoost
		}
	}

	return boost
}

// scoreCandidate computes every ranking signal of one listing against the query.
func scoreCandidate(queryTokens *tokenizer.TokenSet, phrases []phrase.Phrase, primary *phrase.Phrase, listing model.Listing) scoredCandidate {
	fields := buildFieldTokenMap(listing)

	sim := similarity.SemanticSimilarity(queryTokens, fields.combinedTokens())
	structural := computeStructuralBoost(queryTokens, listing, fields)
	analysis := evaluatePhraseMatches(phrases, primary, listing)
	totalBoost := structural + analysis.boost

	return scoredCandidate{
		listing:            listing,
		similarity:         sim,
		boost:              totalBoost,
		score:              sim + totalBoost,
		matchSummary:       buildMatchSummary(queryTokens, fields),
		phraseMatches:      analysis.matches,
		primaryPhraseMatch: analysis.primaryMatch,
		phraseStrength:     analysis.strongest,
		matchedPhraseCount: analysis.matchCount,
		hasQueryPhrases:    analysis.hasPhrases,
	}
}

// rankCandidates scores every listing, drops those below MinCandidateScore and
// sorts the rest by score, highest first. Equal scores keep retrieval order.
func rankCandidates(queryTokens *tokenizer.TokenSet, phrases []phrase.Phrase, primary *phrase.Phrase, listings []model.Listing) []scoredCandidate {
	ranked := make([]scoredCandidate, 0, len(listings))
	for _, listing := range listings {
		scored := scoreCandidate(queryTokens, phrases, primary, listing)
		if scored.score >= MinCandidateScore {
			ranked = append(ranked, scored)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}
