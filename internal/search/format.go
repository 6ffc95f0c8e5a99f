package search

import (
	"math"

	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// buildPriceRange spans every package price plus the hourly rate of hourly
// listings. It returns nil when the listing has no price at all.
func buildPriceRange(listing model.Listing) *model.PriceRange {
	prices := listing.PackagePrices()
	if listing.IsHourly && listing.HourlyRate != nil && isFinite(*listing.HourlyRate) {
		prices = append(prices, *listing.HourlyRate)
	}
	if len(prices) == 0 {
		return nil
	}

	priceRange := &model.PriceRange{Min: prices[0], Max: prices[0]}
	for _, p := range prices[1:] {
		priceRange.Min = min(priceRange.Min, p)
		priceRange.Max = max(priceRange.Max, p)
	}
	return priceRange
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// formatResult projects a scored candidate into its public shape.
func formatResult(c scoredCandidate) services.ResultItem {
	listing := c.listing

	var sellerID *string
	if listing.SellerID != "" {
		id := listing.SellerID
		sellerID = &id
	}

	var hourlyRate *float64
	if listing.HourlyRate != nil && isFinite(*listing.HourlyRate) {
		rate := *listing.HourlyRate
		hourlyRate = &rate
	}

	packages := listing.Packages
	if packages == nil {
		packages = []model.Package{}
	}

	phraseMatches := c.phraseMatches
	if phraseMatches == nil {
		phraseMatches = []services.PhraseMatch{}
	}

	return services.ResultItem{
		ID:                 listing.ID,
		Name:               listing.Title,
		Title:              listing.Title,
		Description:        listing.Description,
		Images:             nonNilStrings(listing.Images),
		Tags:               nonNilStrings(listing.Tags),
		Category:           listing.Category,
		SubCategory:        listing.SubCategory,
		SellerID:           sellerID,
		Status:             listing.Status,
		IsHourly:           listing.IsHourly,
		HourlyRate:         hourlyRate,
		Packages:           packages,
		PriceRange:         buildPriceRange(listing),
		Similarity:         round3(c.similarity),
		Score:              round3(c.score),
		MatchSummary:       nonNilStrings(c.matchSummary),
		PhraseMatches:      phraseMatches,
		PrimaryPhraseMatch: c.primaryPhraseMatch,
		PhraseStrength:     round3(c.phraseStrength),
	}
}
