package store

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// termsPattern joins the escaped terms into one case-insensitive alternation.
// It returns nil when there is nothing to match on.
func termsPattern(terms []string) *regexp.Regexp {
	quoted := quotedTerms(terms)
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile("(?i)" + strings.Join(quoted, "|"))
}

func quotedTerms(terms []string) []string {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	return quoted
}

// matchesTerms reports whether the pattern hits the title, description, any tag,
// any package name or any package details.
func matchesTerms(listing model.Listing, pattern *regexp.Regexp) bool {
	if pattern.MatchString(listing.Title) || pattern.MatchString(listing.Description) {
		return true
	}
	for _, tag := range listing.Tags {
		if pattern.MatchString(tag) {
			return true
		}
	}
	for _, pkg := range listing.Packages {
		if pattern.MatchString(pkg.Name) || pattern.MatchString(pkg.Details) {
			return true
		}
	}
	return false
}

func containsID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// matchesFilter applies the structured candidate filter. A price bound holds when
// some package price satisfies it; the two bounds may be met by different packages.
func matchesFilter(listing model.Listing, filter services.CandidateFilter) bool {
	if listing.Status != model.ListingStatusActive {
		return false
	}
	if len(filter.CategoryIDs) > 0 && (listing.Category == nil || !containsID(filter.CategoryIDs, listing.Category.ID)) {
		return false
	}
	if len(filter.SubCategoryIDs) > 0 && (listing.SubCategory == nil || !containsID(filter.SubCategoryIDs, listing.SubCategory.ID)) {
		return false
	}
	if len(filter.SellerIDs) > 0 && !containsID(filter.SellerIDs, listing.SellerID) {
		return false
	}
	if filter.IsHourly != nil && listing.IsHourly != *filter.IsHourly {
		return false
	}

	if filter.PriceMin == nil && filter.PriceMax == nil {
		return true
	}
	prices := listing.PackagePrices()
	if filter.PriceMin != nil && !anyPrice(prices, func(p float64) bool { return p >= *filter.PriceMin }) {
		return false
	}
	if filter.PriceMax != nil && !anyPrice(prices, func(p float64) bool { return p <= *filter.PriceMax }) {
		return false
	}
	return true
}

func anyPrice(prices []float64, ok func(float64) bool) bool {
	for _, p := range prices {
		if ok(p) {
			return true
		}
	}
	return false
}

// priceBounds returns the lowest and highest package price, or nil when no package is priced.
func priceBounds(listing model.Listing) (*float64, *float64) {
	prices := listing.PackagePrices()
	if len(prices) == 0 {
		return nil, nil
	}
	lo, hi := prices[0], prices[0]
	for _, p := range prices[1:] {
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return &lo, &hi
}

// searchText is the lowercased text coarse retrieval runs against in SQL stores.
func searchText(listing model.Listing) string {
	parts := []string{listing.Title, listing.Description}
	parts = append(parts, listing.Tags...)
	for _, pkg := range listing.Packages {
		parts = append(parts, pkg.Name, pkg.Details)
	}
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.ToLower(strings.Join(nonEmpty, "\n"))
}
