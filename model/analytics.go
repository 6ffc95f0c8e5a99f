package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	QueryID         string        `json:"query_id"`
	Query           string        `json:"query"`
	SearchType      string        `json:"search_type"` // "keyword", "phrase", "multi_phrase", "filtered"
	ResponseTime    time.Duration `json:"response_time"`
	CandidateCount  int           `json:"candidate_count"`
	PrimaryCount    int           `json:"primary_count"`
	ExtrasCount     int           `json:"extras_count"`
	PrimaryPhraseOK bool          `json:"primary_phrase_match"`
	Timestamp       time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// SearchTypeStats counts searches per search type
type SearchTypeStats struct {
	Keyword     int `json:"keyword"`
	Phrase      int `json:"phrase"`
	MultiPhrase int `json:"multi_phrase"`
	Filtered    int `json:"filtered"`
}

// AnalyticsSummary is the aggregated view served by the analytics endpoint
type AnalyticsSummary struct {
	TotalSearches       int             `json:"total_searches"`
	Searches24h         int             `json:"searches_24h"`
	AvgResponseTimeMs   float64         `json:"avg_response_time_ms"`
	ZeroResultSearches  int             `json:"zero_result_searches"`
	PrimaryPhraseHits   int             `json:"primary_phrase_hits"`
	AvgPrimaryResults   float64         `json:"avg_primary_results"`
	PopularSearches     []PopularSearch `json:"popular_searches"`
	ZeroResultQueries   []PopularSearch `json:"zero_result_queries"`
	SearchTypes         SearchTypeStats `json:"search_types"`
	LastSearchTimestamp *time.Time      `json:"last_search_timestamp,omitempty"`
}
