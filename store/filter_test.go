package store

import (
	"testing"

	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool          { return &v }

func sampleListings() []model.Listing {
	return []model.Listing{
		{
			ID:          "gig-1",
			SellerID:    "seller-a",
			Title:       "Laptop Repair Service",
			Description: "Screen and battery replacement",
			Category:    &model.CategoryRef{ID: "cat-tech", Name: "Tech"},
			SubCategory: &model.CategoryRef{ID: "sub-repair", Name: "Repair"},
			Tags:        []string{"laptop", "repair"},
			Packages: []model.Package{
				{Name: "Basic", Price: floatPtr(20), Details: "Diagnostics"},
				{Name: "Premium", Price: floatPtr(120), Details: "Full motherboard repair"},
			},
			Status: model.ListingStatusActive,
		},
		{
			ID:          "gig-2",
			SellerID:    "seller-b",
			Title:       "Garden Design",
			Description: "Landscape plans for small gardens",
			Category:    &model.CategoryRef{ID: "cat-home", Name: "Home"},
			Tags:        []string{"garden"},
			Packages:    []model.Package{{Name: "Sketch", Price: floatPtr(60)}},
			IsHourly:    true,
			HourlyRate:  floatPtr(30),
			Status:      model.ListingStatusActive,
		},
		{
			ID:       "gig-3",
			SellerID: "seller-a",
			Title:    "Phone repair (paused)",
			Status:   "Paused",
		},
		{
			ID:       "gig-4",
			SellerID: "seller-c",
			Title:    "Logo design",
			Packages: []model.Package{{Name: "Starter", Details: "50% off C++ style_guides"}},
			Status:   model.ListingStatusActive,
		},
	}
}

func TestMatchesFilter(t *testing.T) {
	laptop := sampleListings()[0]
	garden := sampleListings()[1]
	paused := sampleListings()[2]

	tests := []struct {
		name    string
		listing model.Listing
		filter  services.CandidateFilter
		want    bool
	}{
		{"no filter", laptop, services.CandidateFilter{}, true},
		{"inactive listing", paused, services.CandidateFilter{}, false},
		{"category hit", laptop, services.CandidateFilter{CategoryIDs: []string{"cat-home", "cat-tech"}}, true},
		{"category miss", laptop, services.CandidateFilter{CategoryIDs: []string{"cat-home"}}, false},
		{"sub-category missing on listing", garden, services.CandidateFilter{SubCategoryIDs: []string{"sub-repair"}}, false},
		{"seller hit", laptop, services.CandidateFilter{SellerIDs: []string{"seller-a"}}, true},
		{"hourly only", laptop, services.CandidateFilter{IsHourly: boolPtr(true)}, false},
		{"fixed price only", laptop, services.CandidateFilter{IsHourly: boolPtr(false)}, true},
		{"min met by premium package", laptop, services.CandidateFilter{PriceMin: floatPtr(100)}, true},
		{"max met by basic package", laptop, services.CandidateFilter{PriceMax: floatPtr(25)}, true},
		{"bounds met by different packages", laptop, services.CandidateFilter{PriceMin: floatPtr(100), PriceMax: floatPtr(25)}, true},
		{"min above every package", laptop, services.CandidateFilter{PriceMin: floatPtr(500)}, false},
		{"hourly rate is not a package price", garden, services.CandidateFilter{PriceMax: floatPtr(40)}, false},
		{"no priced package", sampleListings()[3], services.CandidateFilter{PriceMin: floatPtr(0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesFilter(tt.listing, tt.filter); got != tt.want {
				t.Errorf("matchesFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesTerms(t *testing.T) {
	listings := sampleListings()

	tests := []struct {
		name    string
		listing model.Listing
		terms   []string
		want    bool
	}{
		{"title, case-insensitive", listings[0], []string{"LAPTOP"}, true},
		{"substring of a word", listings[1], []string{"land"}, true},
		{"tag", listings[1], []string{"garden"}, true},
		{"package details", listings[0], []string{"motherboard"}, true},
		{"regex metacharacters are literal", listings[3], []string{"c++"}, true},
		{"alternation", listings[0], []string{"zebra", "battery"}, true},
		{"no hit", listings[0], []string{"zebra"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesTerms(tt.listing, termsPattern(tt.terms)); got != tt.want {
				t.Errorf("matchesTerms(%v) = %v, want %v", tt.terms, got, tt.want)
			}
		})
	}

	if termsPattern([]string{"", ""}) != nil {
		t.Error("expected nil pattern for empty terms")
	}
}

func TestSearchText(t *testing.T) {
	got := searchText(sampleListings()[3])
	want := "logo design\nstarter\n50% off c++ style_guides"
	if got != want {
		t.Errorf("searchText() = %q, want %q", got, want)
	}
}
