package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-gig-search/internal/analytics"
	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// DefaultMaxRequestBytes caps request bodies when RouterOptions leaves it unset.
const DefaultMaxRequestBytes = 1 << 20

// API holds dependencies for API handlers.
type API struct {
	searcher  services.Searcher
	store     services.ListingStore
	analytics *analytics.Service
}

// RouterOptions configures the middleware installed by SetupRoutes.
type RouterOptions struct {
	AllowedOrigins  []string
	MaxRequestBytes int64
}

// NewAPI creates a new API handler structure. store and analyticsService may be nil,
// in which case the listing routes report errors and analytics stays empty.
func NewAPI(searcher services.Searcher, store services.ListingStore, analyticsService *analytics.Service) *API {
	return &API{
		searcher:  searcher,
		store:     store,
		analytics: analyticsService,
	}
}

// SetupRoutes installs middleware and defines all the API routes.
func SetupRoutes(router *gin.Engine, apiHandler *API, opts RouterOptions) {
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = DefaultMaxRequestBytes
	}

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(opts.AllowedOrigins))
	router.Use(RequestSizeLimitMiddleware(opts.MaxRequestBytes))

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	// Search routes
	router.POST("/aisearch", apiHandler.SearchHandler)
	router.POST("/api/search/aisearch", apiHandler.SearchHandler)

	// Listing routes
	listingRoutes := router.Group("/listings")
	{
		listingRoutes.PUT("", apiHandler.UpsertListingsHandler)  // Add/Update listings
		listingRoutes.GET("/:id", apiHandler.GetListingHandler) // Get specific listing
	}
}

// GetListingHandler returns one listing from the store.
func (api *API) GetListingHandler(c *gin.Context) {
	listingID := c.Param("id")
	if result := ValidateListingID(listingID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if api.store == nil {
		SendStoreError(c, "get listing", errors.New("no listing store configured"))
		return
	}

	listing, err := api.store.GetListing(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, searchErrors.ErrListingNotFound) {
			SendListingNotFoundError(c, listingID)
			return
		}
		SendStoreError(c, "get listing", err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpsertListingsHandler adds or replaces listings in the store.
// Request Body: a single listing object or an array of listings
func (api *API) UpsertListingsHandler(c *gin.Context) {
	rawData, err := c.GetRawData()
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	listings, err := decodeListings(rawData)
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateListings(listings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if api.store == nil {
		SendStoreError(c, "upsert listings", errors.New("no listing store configured"))
		return
	}

	if err := api.store.UpsertListings(c.Request.Context(), listings); err != nil {
		if errors.Is(err, searchErrors.ErrInvalidInput) {
			SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", err.Error())
			return
		}
		SendStoreError(c, "upsert listings", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"count":  len(listings),
	})
}

// decodeListings accepts either one listing object or an array of them.
func decodeListings(rawData []byte) ([]model.Listing, error) {
	trimmed := bytes.TrimSpace(rawData)
	if len(trimmed) == 0 {
		return nil, errors.New("request body is empty")
	}

	if trimmed[0] == '[' {
		var listings []model.Listing
		if err := json.Unmarshal(trimmed, &listings); err != nil {
			return nil, err
		}
		return listings, nil
	}

	var listing model.Listing
	if err := json.Unmarshal(trimmed, &listing); err != nil {
		return nil, err
	}
	return []model.Listing{listing}, nil
}
