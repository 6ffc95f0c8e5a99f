package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/internal/persistence"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := NewSQLStore(DriverSQLite, ":memory:", 0, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func candidateIDs(listings []model.Listing) []string {
	ids := make([]string, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}

// testListingStore exercises the behavior every ListingStore must share.
func testListingStore(t *testing.T, s services.ListingStore) {
	ctx := context.Background()
	require.NoError(t, s.UpsertListings(ctx, sampleListings()))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	t.Run("terms", func(t *testing.T) {
		got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"repair"}, Limit: 200})
		require.NoError(t, err)
		assert.Equal(t, []string{"gig-1"}, candidateIDs(got), "paused listings are never candidates")
	})

	t.Run("alternation and special characters", func(t *testing.T) {
		got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"c++", "GARDEN"}, Limit: 200})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"gig-2", "gig-4"}, candidateIDs(got))
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"50%"}, Limit: 200})
		require.NoError(t, err)
		assert.Equal(t, []string{"gig-4"}, candidateIDs(got))

		got, err = s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"o_o"}, Limit: 200})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("filters", func(t *testing.T) {
		terms := []string{"design", "repair"}
		tests := []struct {
			name   string
			filter services.CandidateFilter
			want   []string
		}{
			{"category", services.CandidateFilter{CategoryIDs: []string{"cat-home"}}, []string{"gig-2"}},
			{"seller", services.CandidateFilter{SellerIDs: []string{"seller-a", "seller-c"}}, []string{"gig-1", "gig-4"}},
			{"hourly", services.CandidateFilter{IsHourly: boolPtr(true)}, []string{"gig-2"}},
			{"price range", services.CandidateFilter{PriceMin: floatPtr(100), PriceMax: floatPtr(25)}, []string{"gig-1"}},
			{"price max", services.CandidateFilter{PriceMax: floatPtr(70)}, []string{"gig-1", "gig-2"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: terms, Filter: tt.filter, Limit: 200})
				require.NoError(t, err)
				assert.ElementsMatch(t, tt.want, candidateIDs(got))
			})
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"design", "repair"}, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("no terms", func(t *testing.T) {
		got, err := s.FindCandidates(ctx, services.CandidateQuery{Limit: 200})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("get and upsert", func(t *testing.T) {
		listing, err := s.GetListing(ctx, "gig-1")
		require.NoError(t, err)
		assert.Equal(t, "Laptop Repair Service", listing.Title)
		assert.Equal(t, "Tech", listing.CategoryName())
		assert.Equal(t, []float64{20, 120}, listing.PackagePrices())

		listing.Title = "Laptop and Tablet Repair"
		require.NoError(t, s.UpsertListings(ctx, []model.Listing{listing}))

		updated, err := s.GetListing(ctx, "gig-1")
		require.NoError(t, err)
		assert.Equal(t, "Laptop and Tablet Repair", updated.Title)

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count, "upsert replaces in place")

		_, err = s.GetListing(ctx, "missing")
		assert.True(t, errors.Is(err, searchErrors.ErrListingNotFound))
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		err := s.UpsertListings(ctx, []model.Listing{{Title: "No id"}})
		assert.True(t, errors.Is(err, searchErrors.ErrInvalidInput))
	})
}

func TestMemoryStore(t *testing.T) {
	testListingStore(t, NewMemoryStore())
}

func TestSQLStore_SQLite(t *testing.T) {
	s := newSQLiteStore(t)
	assert.Equal(t, DriverSQLite, s.Driver())
	testListingStore(t, s)
}

func TestSQLStore_HourlyRateRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertListings(ctx, sampleListings()))

	garden, err := s.GetListing(ctx, "gig-2")
	require.NoError(t, err)
	assert.True(t, garden.IsHourly)
	require.NotNil(t, garden.HourlyRate)
	assert.Equal(t, 30.0, *garden.HourlyRate)
	assert.Nil(t, garden.SubCategory)

	logo, err := s.GetListing(ctx, "gig-4")
	require.NoError(t, err)
	assert.Nil(t, logo.HourlyRate)
	assert.Nil(t, logo.Category)
}

func TestNewSQLStore_UnknownDriver(t *testing.T) {
	_, err := NewSQLStore("mysql", "dsn", 1, 1)
	assert.Error(t, err)
}

func TestMemoryStore_InsertionOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.UpsertListings(ctx, []model.Listing{
		{ID: "z", Title: "Logo one", Status: model.ListingStatusActive},
		{ID: "a", Title: "Logo two", Status: model.ListingStatusActive},
	}))
	require.NoError(t, s.UpsertListings(ctx, []model.Listing{
		{ID: "z", Title: "Logo one, revised", Status: model.ListingStatusActive},
	}))

	got, err := s.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"logo"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, candidateIDs(got))
	assert.Equal(t, "Logo one, revised", got[0].Title)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemoryStore().FindCandidates(ctx, services.CandidateQuery{Terms: []string{"x"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_Snapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "listings.gob")

	original := NewMemoryStore()
	require.NoError(t, original.UpsertListings(ctx, sampleListings()))
	require.NoError(t, original.SaveSnapshot(path))

	restored := NewMemoryStore()
	loaded, err := restored.LoadSnapshot(path)
	require.NoError(t, err)
	assert.True(t, loaded)

	count, err := restored.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	got, err := restored.FindCandidates(ctx, services.CandidateQuery{Terms: []string{"garden", "laptop"}, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"gig-1", "gig-2"}, candidateIDs(got))

	missing, err := NewMemoryStore().LoadSnapshot(filepath.Join(t.TempDir(), "none.gob"))
	require.NoError(t, err)
	assert.False(t, missing)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, persistence.SaveJSON(path, sampleListings()))

	s := NewMemoryStore()
	n, err := Seed(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = Seed(ctx, s, filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
