package search

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/go-gig-search/internal/phrase"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// Base strengths for an exact phrase hit, by location.
const (
	strengthTitle         = 0.97
	strengthTag           = 0.92
	strengthPackageName   = 0.90
	strengthDescription   = 0.82
	strengthPackageDetail = 0.78
)

// Base strengths when the phrase only matches token by token.
const (
	strengthTitlePartial = 0.70
	strengthBroad        = 0.65
)

const (
	maxSpecificityBonus     = 0.15
	specificityPerToken     = 0.04
	priorityBonus           = 0.05
	longPhraseTokens        = 3
	longPhrasePrimaryMin    = 0.72
	shortPhrasePrimaryMin   = 0.83
	primaryPhraseBoostRate  = 0.45
	otherPhraseBoostRate    = 0.25
	longPhraseBoost         = 0.05
	maxPhraseBoost          = 0.6
)

// matchCorpus is the lowercased text of one listing used for phrase matching.
type matchCorpus struct {
	title          string
	description    string
	tags           []string
	packageNames   []string
	packageDetails []string
	combined       string
}

func buildMatchCorpus(listing model.Listing) matchCorpus {
	corpus := matchCorpus{
		title:          strings.ToLower(listing.Title),
		description:    strings.ToLower(listing.Description),
		tags:           make([]string, 0, len(listing.Tags)),
		packageNames:   make([]string, 0, len(listing.Packages)),
		packageDetails: make([]string, 0, len(listing.Packages)),
	}
	for _, tag := range listing.Tags {
		corpus.tags = append(corpus.tags, strings.ToLower(tag))
	}
	for _, pkg := range listing.Packages {
		corpus.packageNames = append(corpus.packageNames, strings.ToLower(pkg.Name))
		corpus.packageDetails = append(corpus.packageDetails, strings.ToLower(pkg.Details))
	}

	parts := []string{corpus.title, corpus.description}
	parts = append(parts, corpus.tags...)
	parts = append(parts, corpus.packageNames...)
	parts = append(parts, corpus.packageDetails...)
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	corpus.combined = strings.Join(nonEmpty, " ")
	return corpus
}

func anyMatch(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if v != "" && re.MatchString(v) {
			return true
		}
	}
	return false
}

// assessPhraseMatch scores one phrase against a listing corpus. It returns false
// when the phrase does not touch the listing at all.
func assessPhraseMatch(p phrase.Phrase, corpus matchCorpus, isTopPriority bool) (phraseAssessment, bool) {
	if p.Normalized == "" || len(p.Tokens) == 0 {
		return phraseAssessment{}, false
	}

	phraseRegex := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p.Normalized) + `\b`)
	baseStrength := 0.0
	location := LocationPartial

	switch {
	case phraseRegex.MatchString(corpus.title):
		baseStrength, location = strengthTitle, LocationTitle
	case anyMatch(phraseRegex, corpus.tags):
		baseStrength, location = strengthTag, LocationTag
	case anyMatch(phraseRegex, corpus.packageNames):
		baseStrength, location = strengthPackageName, LocationPackage
	case phraseRegex.MatchString(corpus.description):
		baseStrength, location = strengthDescription, LocationDescription
	case anyMatch(phraseRegex, corpus.packageDetails):
		baseStrength, location = strengthPackageDetail, LocationPackage
	}

	if baseStrength == 0 {
		matchesInTitle := 0
		matchesOverall := 0
		for _, token := range p.Tokens {
			if strings.Contains(corpus.title, token) {
				matchesInTitle++
			}
			if strings.Contains(corpus.combined, token) {
				matchesOverall++
			}
		}
		coverage := float64(matchesOverall) / float64(len(p.Tokens))

		switch {
		case matchesInTitle == len(p.Tokens):
			baseStrength, location = strengthTitlePartial, LocationTitlePartial
		case coverage >= 0.7:
			baseStrength, location = strengthBroad, LocationBroad
		case coverage >= 0.4:
			baseStrength, location = 0.45+coverage*0.25, LocationBroad
		case matchesOverall > 0:
			baseStrength, location = 0.3+coverage*0.2, LocationPartial
		}
	}

	if baseStrength == 0 {
		return phraseAssessment{}, false
	}

	specificityBonus := min(maxSpecificityBonus, max(0, float64(p.TokenCount-1)*specificityPerToken))
	bonus := 0.0
	if isTopPriority {
		bonus = priorityBonus
	}
	finalStrength := min(1, baseStrength+specificityBonus+bonus)

	threshold := shortPhrasePrimaryMin
	if p.TokenCount >= longPhraseTokens {
		threshold = longPhrasePrimaryMin
	}

	return phraseAssessment{
		strength:  finalStrength,
		location:  location,
		isPrimary: isTopPriority && finalStrength >= threshold,
	}, true
}

// isTopPriorityPhrase decides whether p is the dominant phrase: it matches the
// primary phrase's normalized text; without one, it has at least the highest
// token count; without that either, it is the first phrase.
func isTopPriorityPhrase(p phrase.Phrase, primary *phrase.Phrase) bool {
	if primary != nil && primary.Normalized != "" {
		return p.Normalized == primary.Normalized
	}
	if primary != nil && primary.TokenCount > 0 {
		return p.TokenCount >= primary.TokenCount
	}
	return p.Index == 0
}

// evaluatePhraseMatches assesses every query phrase against the listing and
// accumulates the phrase boost, capped at maxPhraseBoost.
func evaluatePhraseMatches(phrases []phrase.Phrase, primary *phrase.Phrase, listing model.Listing) phraseAnalysis {
	if len(phrases) == 0 {
		return phraseAnalysis{matches: []services.PhraseMatch{}}
	}

	corpus := buildMatchCorpus(listing)
	dominant := primary
	if dominant == nil {
		dominant = phrase.Primary(phrases)
	}

	analysis := phraseAnalysis{matches: []services.PhraseMatch{}, hasPhrases: true}
	boost := 0.0

	for _, p := range phrases {
		assessment, ok := assessPhraseMatch(p, corpus, isTopPriorityPhrase(p, dominant))
		if !ok {
			continue
		}
		analysis.strongest = max(analysis.strongest, assessment.strength)
		if assessment.isPrimary {
			analysis.primaryMatch = true
		}

		rate := otherPhraseBoostRate
		if assessment.isPrimary {
			rate = primaryPhraseBoostRate
		}
		boost += assessment.strength * rate
		if p.TokenCount >= longPhraseTokens {
			boost += longPhraseBoost
		}

		analysis.matches = append(analysis.matches, services.PhraseMatch{
			Phrase:    p.Raw,
			Strength:  round3(assessment.strength),
			Location:  assessment.location,
			IsPrimary: assessment.isPrimary,
		})
	}

	if len(analysis.matches) == 0 {
		return phraseAnalysis{matches: []services.PhraseMatch{}, hasPhrases: true}
	}

	analysis.boost = min(maxPhraseBoost, boost)
	analysis.matchCount = len(analysis.matches)
	return analysis
}
