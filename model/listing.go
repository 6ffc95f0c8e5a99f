package model

// ListingStatusActive is the only status eligible for search.
const ListingStatusActive = "Active"

// CategoryRef is a category or sub-category reference resolved to its display name.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Package is one purchasable tier of a listing (e.g. Basic / Standard / Premium).
// Numeric fields are pointers because stored documents may omit them.
type Package struct {
	Name         string   `json:"name,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	DeliveryTime *int     `json:"deliveryTime,omitempty"` // days
	Revisions    *int     `json:"revisions,omitempty"`
	Details      string   `json:"details,omitempty"`
}

// Listing is a marketplace gig as supplied by the listing store.
// It is read-only to the search subsystem.
type Listing struct {
	ID          string       `json:"_id"`
	SellerID    string       `json:"sellerId,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    *CategoryRef `json:"category,omitempty"`
	SubCategory *CategoryRef `json:"subCategory,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Packages    []Package    `json:"packages,omitempty"`
	IsHourly    bool         `json:"isHourly"`
	HourlyRate  *float64     `json:"hourlyRate,omitempty"`
	Images      []string     `json:"images,omitempty"`
	Status      string       `json:"status"`
}

// CategoryName returns the category display name or "".
func (l Listing) CategoryName() string {
	if l.Category == nil {
		return ""
	}
	return l.Category.Name
}

// SubCategoryName returns the sub-category display name or "".
func (l Listing) SubCategoryName() string {
	if l.SubCategory == nil {
		return ""
	}
	return l.SubCategory.Name
}

// PackagePrices returns every package price that is set, in package order.
func (l Listing) PackagePrices() []float64 {
	prices := make([]float64, 0, len(l.Packages))
	for _, p := range l.Packages {
		if p.Price != nil {
			prices = append(prices, *p.Price)
		}
	}
	return prices
}

// PriceRange is the min/max over all package prices and the hourly rate.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
