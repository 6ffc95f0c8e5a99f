package search

import (
	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// Field names used in match summaries and field token maps.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldTags        = "tags"
	FieldCategory    = "category"
	FieldSubCategory = "subCategory"
	FieldPackages    = "packages"
)

// Phrase match locations.
const (
	LocationTitle        = "title"
	LocationTag          = "tag"
	LocationPackage      = "package"
	LocationDescription  = "description"
	LocationTitlePartial = "title-partial"
	LocationBroad        = "broad"
	LocationPartial      = "partial"
)

// fieldTokens is the token set of one listing field.
type fieldTokens struct {
	name   string
	tokens *tokenizer.TokenSet
}

// fieldTokenMap keeps per-field token sets in a fixed field order:
// title, description, tags, then category, subCategory and packages when present.
type fieldTokenMap []fieldTokens

// get returns the tokens of the named field, or nil.
func (m fieldTokenMap) get(name string) *tokenizer.TokenSet {
	for _, f := range m {
		if f.name == name {
			return f.tokens
		}
	}
	return nil
}

// phraseAssessment is the match of one phrase against one listing.
type phraseAssessment struct {
	strength  float64
	location  string
	isPrimary bool
}

// phraseAnalysis aggregates all phrase assessments for one listing.
type phraseAnalysis struct {
	matches      []services.PhraseMatch
	strongest    float64
	boost        float64
	primaryMatch bool
	matchCount   int
	hasPhrases   bool
}

// scoredCandidate is a listing with its ranking signals. It lives for one request only.
type scoredCandidate struct {
	listing            model.Listing
	similarity         float64
	boost              float64
	score              float64
	matchSummary       []string
	phraseMatches      []services.PhraseMatch
	primaryPhraseMatch bool
	phraseStrength     float64
	matchedPhraseCount int
	hasQueryPhrases    bool
}
