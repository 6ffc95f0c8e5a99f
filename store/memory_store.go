package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/internal/persistence"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// MemoryStore keeps listings in memory, in insertion order.
// It implements services.ListingStore and is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	listings map[string]model.Listing
	order    []string
}

// gobMemoryStoreData is the snapshot form of MemoryStore, without the mutex.
type gobMemoryStoreData struct {
	Listings map[string]model.Listing
	Order    []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{listings: make(map[string]model.Listing)}
}

// FindCandidates returns up to query.Limit active listings that pass the filter
// and whose text matches any of the terms.
func (s *MemoryStore) FindCandidates(ctx context.Context, query services.CandidateQuery) ([]model.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern := termsPattern(query.Terms)
	if pattern == nil {
		return []model.Listing{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]model.Listing, 0)
	for _, id := range s.order {
		if query.Limit > 0 && len(candidates) >= query.Limit {
			break
		}
		listing := s.listings[id]
		if matchesFilter(listing, query.Filter) && matchesTerms(listing, pattern) {
			candidates = append(candidates, listing)
		}
	}
	return candidates, nil
}

// GetListing returns the listing with the given id.
func (s *MemoryStore) GetListing(_ context.Context, id string) (model.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[id]
	if !ok {
		return model.Listing{}, searchErrors.NewListingNotFoundError(id)
	}
	return listing, nil
}

// UpsertListings inserts new listings at the end and replaces existing ones in place.
func (s *MemoryStore) UpsertListings(_ context.Context, listings []model.Listing) error {
	for _, listing := range listings {
		if strings.TrimSpace(listing.ID) == "" {
			return searchErrors.NewValidationError("_id", "listing id cannot be empty")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, listing := range listings {
		if _, exists := s.listings[listing.ID]; !exists {
			s.order = append(s.order, listing.ID)
		}
		s.listings[listing.ID] = listing
	}
	return nil
}

// Count returns the number of stored listings.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order), nil
}

// GobEncode implements gob.GobEncoder.
func (s *MemoryStore) GobEncode() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data := gobMemoryStoreData{
		Listings: s.listings,
		Order:    s.order,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to gob encode listing store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *MemoryStore) GobDecode(data []byte) error {
	decoded := gobMemoryStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode listing store data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings = decoded.Listings
	if s.listings == nil {
		s.listings = make(map[string]model.Listing)
	}
	s.order = decoded.Order
	return nil
}

// SaveSnapshot writes the store to a gob file.
func (s *MemoryStore) SaveSnapshot(path string) error {
	return persistence.SaveGob(path, s)
}

// LoadSnapshot replaces the store contents with a gob file. A missing file leaves
// the store unchanged and returns false.
func (s *MemoryStore) LoadSnapshot(path string) (bool, error) {
	if err := persistence.LoadGob(path, s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
