package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-gig-search/internal/analytics"
	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/internal/search"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// SearchRequest is the loosely typed search body. Fields are decoded as raw
// JSON values and coerced the same forgiving way for every client.
type SearchRequest struct {
	Query         interface{} `json:"query"`
	Limit         interface{} `json:"limit,omitempty"`
	Category      interface{} `json:"category,omitempty"`
	Categories    interface{} `json:"categories,omitempty"`
	SubCategory   interface{} `json:"subCategory,omitempty"`
	SubCategories interface{} `json:"subCategories,omitempty"`
	SellerID      interface{} `json:"sellerId,omitempty"`
	Sellers       interface{} `json:"sellers,omitempty"`
	Price         interface{} `json:"price,omitempty"`
	IsHourly      interface{} `json:"isHourly,omitempty"`
}

// QueryText returns the query when it is a non-blank string.
func (req SearchRequest) QueryText() (string, bool) {
	query, ok := req.Query.(string)
	if !ok || strings.TrimSpace(query) == "" {
		return "", false
	}
	return query, true
}

// SearchHandler ranks listings for a free-text query.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		SendInvalidJSONError(c, err)
		return
	}

	query, ok := req.QueryText()
	if !ok {
		SendInvalidQueryError(c)
		return
	}

	filter := BuildCandidateFilter(req)
	result, err := api.searcher.Search(c.Request.Context(), services.SearchQuery{
		Query:  query,
		Limit:  search.ClampLimit(req.Limit),
		Filter: filter,
	})
	if err != nil {
		if !errors.Is(err, searchErrors.ErrInvalidQuery) {
			log.Printf("Error: search for %q failed: %v", query, err)
		}
		SendSearchError(c, err)
		return
	}

	api.trackSearch(query, filter, result, time.Since(startTime))
	c.JSON(http.StatusOK, result)
}

// trackSearch records the search for analytics. Recording only touches memory;
// persistence runs in the background and never delays the response.
func (api *API) trackSearch(query string, filter services.CandidateFilter, result *services.SearchResult, responseTime time.Duration) {
	if api.analytics == nil {
		return
	}

	primaryPhraseOK := false
	for _, item := range result.Data {
		if item.PrimaryPhraseMatch {
			primaryPhraseOK = true
			break
		}
	}

	event := model.SearchEvent{
		QueryID:         result.Metadata.QueryID,
		Query:           query,
		SearchType:      analytics.SearchTypeFor(query, !filter.IsEmpty()),
		ResponseTime:    responseTime,
		CandidateCount:  result.Metadata.TotalCandidates,
		PrimaryCount:    len(result.Data),
		ExtrasCount:     len(result.Extras),
		PrimaryPhraseOK: primaryPhraseOK,
	}
	if err := api.analytics.TrackSearchEvent(event); err != nil {
		log.Printf("Warning: Failed to track search event: %v", err)
	}
}

// BuildCandidateFilter turns the structured request fields into a retrieval filter.
// Category, sub-category and seller prefer their array form when it holds at
// least one usable id, then fall back to the single value. isHourly applies only
// when it is a boolean. Price bounds are kept only when they coerce to a finite number.
func BuildCandidateFilter(req SearchRequest) services.CandidateFilter {
	filter := services.CandidateFilter{
		CategoryIDs:    collectIDs(req.Category, req.Categories),
		SubCategoryIDs: collectIDs(req.SubCategory, req.SubCategories),
		SellerIDs:      collectIDs(req.SellerID, req.Sellers),
	}

	if isHourly, ok := req.IsHourly.(bool); ok {
		filter.IsHourly = &isHourly
	}

	if price, ok := req.Price.(map[string]interface{}); ok {
		if minValue, ok := coerceNumber(price["min"]); ok {
			filter.PriceMin = &minValue
		}
		if maxValue, ok := coerceNumber(price["max"]); ok {
			filter.PriceMax = &maxValue
		}
	}

	return filter
}

// collectIDs returns the usable ids of collection, or the single value, or nil.
func collectIDs(value, collection interface{}) []string {
	if entries, ok := collection.([]interface{}); ok {
		ids := make([]string, 0, len(entries))
		for _, entry := range entries {
			if id, ok := idString(entry); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			return ids
		}
	}
	if id, ok := idString(value); ok {
		return []string{id}
	}
	return nil
}

// idString accepts non-blank strings (trimmed) and non-zero numbers.
func idString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		return trimmed, trimmed != ""
	case float64:
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		if f, err := v.Float64(); err != nil || f == 0 {
			return "", false
		}
		return v.String(), true
	default:
		return "", false
	}
}

// coerceNumber converts a JSON value to a finite number. Blank strings count as
// zero and booleans as 0 or 1. Absent values, objects and unparsable strings are rejected.
func coerceNumber(value interface{}) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		n = f
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
