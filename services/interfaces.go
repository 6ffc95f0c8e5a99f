package services

import (
	"context"

	"github.com/gcbaptista/go-gig-search/model"
)

// PhraseMatch describes how one query phrase matched a listing.
type PhraseMatch struct {
	Phrase    string  `json:"phrase"`
	Strength  float64 `json:"strength"` // rounded to 3 decimals
	Location  string  `json:"location"` // title, tag, package, description, title-partial, broad, partial
	IsPrimary bool    `json:"isPrimary"`
}

// ResultItem is the public projection of one ranked listing.
type ResultItem struct {
	ID                 string             `json:"_id"`
	Name               string             `json:"name"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	Images             []string           `json:"images"`
	Tags               []string           `json:"tags"`
	Category           *model.CategoryRef `json:"category"`
	SubCategory        *model.CategoryRef `json:"subCategory"`
	SellerID           *string            `json:"sellerId"`
	Status             string             `json:"status"`
	IsHourly           bool               `json:"isHourly"`
	HourlyRate         *float64           `json:"hourlyRate"`
	Packages           []model.Package    `json:"packages"`
	PriceRange         *model.PriceRange  `json:"priceRange"`
	Similarity         float64            `json:"similarity"`
	Score              float64            `json:"score"`
	MatchSummary       []string           `json:"matchSummary"`
	PhraseMatches      []PhraseMatch      `json:"phraseMatches"`
	PrimaryPhraseMatch bool               `json:"primaryPhraseMatch"`
	PhraseStrength     float64            `json:"phraseStrength"`
}

// SearchMetadata reports how the query was interpreted and how many listings landed in each bucket.
type SearchMetadata struct {
	QueryID         string   `json:"queryId"`
	Query           string   `json:"query"`
	QueryTokens     []string `json:"queryTokens"`
	RequestedLimit  int      `json:"requestedLimit"`
	Limit           int      `json:"limit"`
	SecondaryLimit  int      `json:"secondaryLimit"`
	DetectedPhrases []string `json:"detectedPhrases"`
	PrimaryPhrase   *string  `json:"primaryPhrase"`
	IntentSummary   string   `json:"intentSummary"`
	TotalCandidates int      `json:"totalCandidates"`
	TotalRanked     int      `json:"totalRanked"`
	TotalPrimary    int      `json:"totalPrimary"`
	TotalExtras     int      `json:"totalExtras"`
	ReturnedPrimary int      `json:"returnedPrimary"`
	ReturnedExtras  int      `json:"returnedExtras"`
	Took            int64    `json:"tookMs"`
}

// SearchResult is the full response body of a successful search.
type SearchResult struct {
	Success       bool           `json:"success"`
	IntentSummary string         `json:"intentSummary"`
	Data          []ResultItem   `json:"data"`
	Extras        []ResultItem   `json:"extras"`
	Metadata      SearchMetadata `json:"metadata"`
}

// CandidateFilter holds the structured filters applied during coarse retrieval.
// Empty slices and nil pointers mean "no constraint".
type CandidateFilter struct {
	CategoryIDs    []string `json:"categoryIds,omitempty"`
	SubCategoryIDs []string `json:"subCategoryIds,omitempty"`
	SellerIDs      []string `json:"sellerIds,omitempty"`
	IsHourly       *bool    `json:"isHourly,omitempty"`
	PriceMin       *float64 `json:"priceMin,omitempty"` // some package price >= PriceMin
	PriceMax       *float64 `json:"priceMax,omitempty"` // some package price <= PriceMax
}

// IsEmpty reports whether the filter constrains nothing.
func (f CandidateFilter) IsEmpty() bool {
	return len(f.CategoryIDs) == 0 && len(f.SubCategoryIDs) == 0 && len(f.SellerIDs) == 0 &&
		f.IsHourly == nil && f.PriceMin == nil && f.PriceMax == nil
}

// CandidateQuery is the coarse retrieval request sent to a listing store.
// A listing matches when it is active, passes Filter, and any of Terms occurs
// (case-insensitively) in its title, description, a tag, a package name or package details.
type CandidateQuery struct {
	Terms  []string
	Filter CandidateFilter
	Limit  int
}

// SearchQuery is a validated search request.
type SearchQuery struct {
	Query  string
	Limit  int // already clamped to [1, MaxLimit]
	Filter CandidateFilter
}

// ListingRetriever performs coarse candidate retrieval.
type ListingRetriever interface {
	FindCandidates(ctx context.Context, query CandidateQuery) ([]model.Listing, error)
}

// ListingStore is a ListingRetriever that can also fetch and write listings.
type ListingStore interface {
	ListingRetriever
	GetListing(ctx context.Context, id string) (model.Listing, error)
	UpsertListings(ctx context.Context, listings []model.Listing) error
	Count(ctx context.Context) (int, error)
}

// Searcher runs the full search pipeline for one request.
type Searcher interface {
	Search(ctx context.Context, query SearchQuery) (*SearchResult, error)
}
