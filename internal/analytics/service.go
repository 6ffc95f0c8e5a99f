package analytics

import (
	"errors"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/gcbaptista/go-gig-search/internal/persistence"
	"github.com/gcbaptista/go-gig-search/internal/phrase"
	"github.com/gcbaptista/go-gig-search/model"
)

const (
	maxEventsToKeep    = 10000 // Keep last 10k events for performance
	popularSearchLimit = 5
)

// Search types recorded on events.
const (
	SearchTypeKeyword     = "keyword"
	SearchTypePhrase      = "phrase"
	SearchTypeMultiPhrase = "multi_phrase"
	SearchTypeFiltered    = "filtered"
)

// Service records search events and aggregates them.
type Service struct {
	mutex        sync.RWMutex
	events       []model.SearchEvent
	dataFilePath string
	saveMutex    sync.Mutex
	pending      sync.WaitGroup
	now          func() time.Time
}

// NewService creates an analytics service. When dataFilePath is set, past events
// are loaded from it and every new event is persisted there in the background.
func NewService(dataFilePath string) *Service {
	service := &Service{
		events:       make([]model.SearchEvent, 0),
		dataFilePath: dataFilePath,
		now:          time.Now,
	}

	if dataFilePath != "" {
		if err := service.loadData(); err != nil {
			log.Printf("Warning: Failed to load analytics data: %v", err)
		}
	}

	return service
}

// SearchTypeFor classifies a query for analytics. Filtered searches win over
// the phrase shape of the query.
func SearchTypeFor(query string, filtered bool) string {
	if filtered {
		return SearchTypeFiltered
	}
	phrases := phrase.Extract(query)
	switch {
	case len(phrases) > 1:
		return SearchTypeMultiPhrase
	case len(phrases) == 1 && phrases[0].TokenCount > 1:
		return SearchTypePhrase
	default:
		return SearchTypeKeyword
	}
}

// TrackSearchEvent records a new search event
func (s *Service) TrackSearchEvent(event model.SearchEvent) error {
	s.mutex.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}
	s.mutex.Unlock()

	if s.dataFilePath == "" {
		return nil
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.saveData(); err != nil {
			log.Printf("Warning: Failed to save analytics data: %v", err)
		}
	}()

	return nil
}

// Close waits for background saves to finish.
func (s *Service) Close() {
	s.pending.Wait()
}

// Summary aggregates all recorded events.
func (s *Service) Summary() model.AnalyticsSummary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := model.AnalyticsSummary{
		TotalSearches:     len(s.events),
		PopularSearches:   []model.PopularSearch{},
		ZeroResultQueries: []model.PopularSearch{},
	}
	if len(s.events) == 0 {
		return summary
	}

	since := s.now().Add(-24 * time.Hour)
	var totalResponse time.Duration
	totalPrimary := 0
	zeroResults := make([]model.SearchEvent, 0)

	for _, event := range s.events {
		if event.Timestamp.After(since) {
			summary.Searches24h++
		}
		totalResponse += event.ResponseTime
		totalPrimary += event.PrimaryCount
		if event.PrimaryPhraseOK {
			summary.PrimaryPhraseHits++
		}
		if event.PrimaryCount == 0 && event.ExtrasCount == 0 {
			zeroResults = append(zeroResults, event)
		}
		switch event.SearchType {
		case SearchTypeKeyword:
			summary.SearchTypes.Keyword++
		case SearchTypePhrase:
			summary.SearchTypes.Phrase++
		case SearchTypeMultiPhrase:
			summary.SearchTypes.MultiPhrase++
		case SearchTypeFiltered:
			summary.SearchTypes.Filtered++
		}
	}

	count := float64(len(s.events))
	summary.AvgResponseTimeMs = float64(totalResponse.Milliseconds()) / count
	summary.AvgPrimaryResults = float64(totalPrimary) / count
	summary.ZeroResultSearches = len(zeroResults)
	summary.PopularSearches = popularSearches(s.events)
	summary.ZeroResultQueries = popularSearches(zeroResults)

	last := s.events[len(s.events)-1].Timestamp
	summary.LastSearchTimestamp = &last

	return summary
}

// popularSearches returns the most frequent queries, most frequent first.
// Ties are ordered by query text.
func popularSearches(events []model.SearchEvent) []model.PopularSearch {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	popular := make([]model.PopularSearch, 0, len(queryCounts))
	for query, count := range queryCounts {
		popular = append(popular, model.PopularSearch{Query: query, SearchCount: count})
	}

	sort.Slice(popular, func(i, j int) bool {
		if popular[i].SearchCount != popular[j].SearchCount {
			return popular[i].SearchCount > popular[j].SearchCount
		}
		return popular[i].Query < popular[j].Query
	})

	if len(popular) > popularSearchLimit {
		popular = popular[:popularSearchLimit]
	}
	return popular
}

// loadData loads analytics data from file
func (s *Service) loadData() error {
	var events []model.SearchEvent
	if err := persistence.LoadJSON(s.dataFilePath, &events); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if events != nil {
		s.events = events
	}
	return nil
}

// saveData saves analytics data to file
func (s *Service) saveData() error {
	s.saveMutex.Lock()
	defer s.saveMutex.Unlock()

	s.mutex.RLock()
	snapshot := make([]model.SearchEvent, len(s.events))
	copy(snapshot, s.events)
	s.mutex.RUnlock()

	return persistence.SaveJSON(s.dataFilePath, snapshot)
}
