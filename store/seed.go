package store

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-gig-search/internal/persistence"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// LoadSeedFile reads a JSON array of listings.
func LoadSeedFile(path string) ([]model.Listing, error) {
	var listings []model.Listing
	if err := persistence.LoadJSON(path, &listings); err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	return listings, nil
}

// Seed loads a JSON seed file into the store and returns how many listings it wrote.
func Seed(ctx context.Context, target services.ListingStore, path string) (int, error) {
	listings, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	if err := target.UpsertListings(ctx, listings); err != nil {
		return 0, fmt.Errorf("failed to seed listings from %s: %w", path, err)
	}
	return len(listings), nil
}
