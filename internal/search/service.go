package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/internal/phrase"
	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
	"github.com/gcbaptista/go-gig-search/services"
	"github.com/google/uuid"
)

// DefaultCandidateLimit caps how many listings coarse retrieval may return.
const DefaultCandidateLimit = 200

// Options configures a Service.
type Options struct {
	// CandidateLimit caps coarse retrieval. Zero means DefaultCandidateLimit.
	CandidateLimit int
	// StoreName labels retrieval errors, e.g. "memory" or "postgres".
	StoreName string
}

// Service ranks listings for free-text queries.
// It implements services.Searcher and holds no per-request state.
type Service struct {
	retriever      services.ListingRetriever
	candidateLimit int
	storeName      string
}

// NewService creates a search Service backed by the given retriever.
func NewService(retriever services.ListingRetriever, opts Options) (*Service, error) {
	if retriever == nil {
		return nil, fmt.Errorf("listing retriever cannot be nil")
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = DefaultCandidateLimit
	}
	return &Service{
		retriever:      retriever,
		candidateLimit: opts.CandidateLimit,
		storeName:      opts.StoreName,
	}, nil
}

// BuildCandidateTerms returns the coarse retrieval terms: the expanded query
// tokens, or the trimmed raw query when no token survives normalization.
func BuildCandidateTerms(queryTokens *tokenizer.TokenSet, rawQuery string) []string {
	if queryTokens.Len() > 0 {
		return queryTokens.Tokens()
	}
	if trimmed := strings.TrimSpace(rawQuery); trimmed != "" {
		return []string{trimmed}
	}
	return []string{}
}

// Search runs one query end to end: analysis, coarse retrieval, scoring,
// partitioning and formatting. It returns either a full result or an error.
func (s *Service) Search(ctx context.Context, query services.SearchQuery) (result *services.SearchResult, err error) {
	startTime := time.Now()

	if strings.TrimSpace(query.Query) == "" {
		return nil, searchErrors.NewInvalidQueryError("search query is required")
	}

	limit := query.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = ClampLimit(limit)
	}
	secondaryLimit := SecondaryLimitFor(limit)

	queryTokens := tokenizer.BuildTokenSet(query.Query)
	phrases := phrase.Extract(query.Query)
	primary := phrase.Primary(phrases)
	summary := phrase.IntentSummary(query.Query, queryTokens, phrases, primary)

	metadata := services.SearchMetadata{
		QueryID:         uuid.New().String(),
		Query:           query.Query,
		QueryTokens:     queryTokens.Tokens(),
		RequestedLimit:  limit,
		Limit:           limit,
		SecondaryLimit:  secondaryLimit,
		DetectedPhrases: make([]string, 0, len(phrases)),
		IntentSummary:   summary,
	}
	for _, p := range phrases {
		metadata.DetectedPhrases = append(metadata.DetectedPhrases, p.Raw)
	}
	if primary != nil {
		raw := primary.Raw
		metadata.PrimaryPhrase = &raw
	}

	candidates, err := s.retriever.FindCandidates(ctx, services.CandidateQuery{
		Terms:  BuildCandidateTerms(queryTokens, query.Query),
		Filter: query.Filter,
		Limit:  s.candidateLimit,
	})
	if err != nil {
		return nil, searchErrors.NewRetrievalError(s.storeName, err)
	}

	result = &services.SearchResult{
		Success:       true,
		IntentSummary: summary,
		Data:          []services.ResultItem{},
		Extras:        []services.ResultItem{},
	}

	if len(candidates) == 0 {
		metadata.Took = time.Since(startTime).Milliseconds()
		result.Metadata = metadata
		return result, nil
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: scoring failed for query %q: %v", query.Query, r)
			result = nil
			err = searchErrors.NewScoringError(r)
		}
	}()

	ranked := rankCandidates(queryTokens, phrases, primary, candidates)
	buckets := partition(ranked, limit, secondaryLimit)

	result.Data = buckets.primary
	result.Extras = buckets.extras

	metadata.TotalCandidates = len(candidates)
	metadata.TotalRanked = len(ranked)
	metadata.TotalPrimary = buckets.totalPrimary
	metadata.TotalExtras = buckets.totalExtras
	metadata.ReturnedPrimary = len(buckets.primary)
	metadata.ReturnedExtras = len(buckets.extras)
	metadata.Took = time.Since(startTime).Milliseconds()
	result.Metadata = metadata

	return result, nil
}
