package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gcbaptista/go-gig-search/model"
)

func fixedClock(now time.Time) func() time.Time {
	return func() time.Time { return now }
}

func TestSearchTypeFor(t *testing.T) {
	tests := []struct {
		query    string
		filtered bool
		want     string
	}{
		{"logo", false, SearchTypeKeyword},
		{"the", false, SearchTypeKeyword},
		{"logo design", false, SearchTypePhrase},
		{"logo, web design", false, SearchTypeMultiPhrase},
		{"logo design", true, SearchTypeFiltered},
	}

	for _, tt := range tests {
		if got := SearchTypeFor(tt.query, tt.filtered); got != tt.want {
			t.Errorf("SearchTypeFor(%q, %v) = %s, want %s", tt.query, tt.filtered, got, tt.want)
		}
	}
}

func TestAnalyticsService_TrackSearchEvent(t *testing.T) {
	service := NewService("")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = fixedClock(now)

	event := model.SearchEvent{
		Query:        "logo design",
		SearchType:   SearchTypePhrase,
		ResponseTime: 50 * time.Millisecond,
		PrimaryCount: 3,
	}

	if err := service.TrackSearchEvent(event); err != nil {
		t.Fatalf("Failed to track search event: %v", err)
	}

	if len(service.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(service.events))
	}
	if !service.events[0].Timestamp.Equal(now) {
		t.Errorf("Expected timestamp to be set to %v, got %v", now, service.events[0].Timestamp)
	}
}

func TestAnalyticsService_EventsAreCapped(t *testing.T) {
	service := NewService("")
	for i := 0; i < maxEventsToKeep+5; i++ {
		_ = service.TrackSearchEvent(model.SearchEvent{Query: "q"})
	}
	if len(service.events) != maxEventsToKeep {
		t.Errorf("Expected %d events, got %d", maxEventsToKeep, len(service.events))
	}
}

func TestAnalyticsService_Summary(t *testing.T) {
	service := NewService("")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = fixedClock(now)

	events := []model.SearchEvent{
		{Query: "logo", SearchType: SearchTypeKeyword, ResponseTime: 10 * time.Millisecond, PrimaryCount: 2, Timestamp: now.Add(-48 * time.Hour)},
		{Query: "logo", SearchType: SearchTypeKeyword, ResponseTime: 20 * time.Millisecond, PrimaryCount: 4, PrimaryPhraseOK: true, Timestamp: now.Add(-time.Hour)},
		{Query: "violin", SearchType: SearchTypeKeyword, ResponseTime: 30 * time.Millisecond, Timestamp: now.Add(-time.Minute)},
		{Query: "logo, seo", SearchType: SearchTypeMultiPhrase, ResponseTime: 40 * time.Millisecond, ExtrasCount: 1, Timestamp: now},
	}
	for _, e := range events {
		if err := service.TrackSearchEvent(e); err != nil {
			t.Fatalf("Failed to track search event: %v", err)
		}
	}

	summary := service.Summary()

	if summary.TotalSearches != 4 {
		t.Errorf("Expected 4 total searches, got %d", summary.TotalSearches)
	}
	if summary.Searches24h != 3 {
		t.Errorf("Expected 3 searches in the last 24h, got %d", summary.Searches24h)
	}
	if summary.AvgResponseTimeMs != 25 {
		t.Errorf("Expected average response time 25ms, got %v", summary.AvgResponseTimeMs)
	}
	if summary.AvgPrimaryResults != 1.5 {
		t.Errorf("Expected average primary results 1.5, got %v", summary.AvgPrimaryResults)
	}
	if summary.ZeroResultSearches != 1 {
		t.Errorf("Expected 1 zero-result search, got %d", summary.ZeroResultSearches)
	}
	if summary.PrimaryPhraseHits != 1 {
		t.Errorf("Expected 1 primary phrase hit, got %d", summary.PrimaryPhraseHits)
	}
	if summary.SearchTypes.Keyword != 3 || summary.SearchTypes.MultiPhrase != 1 {
		t.Errorf("Unexpected search type stats: %+v", summary.SearchTypes)
	}

	if len(summary.PopularSearches) != 3 {
		t.Fatalf("Expected 3 popular searches, got %d", len(summary.PopularSearches))
	}
	if summary.PopularSearches[0].Query != "logo" || summary.PopularSearches[0].SearchCount != 2 {
		t.Errorf("Expected 'logo' with 2 searches first, got %+v", summary.PopularSearches[0])
	}
	if summary.PopularSearches[1].Query != "logo, seo" {
		t.Errorf("Expected ties ordered by query, got %+v", summary.PopularSearches)
	}

	if len(summary.ZeroResultQueries) != 1 || summary.ZeroResultQueries[0].Query != "violin" {
		t.Errorf("Unexpected zero-result queries: %+v", summary.ZeroResultQueries)
	}
	if summary.LastSearchTimestamp == nil || !summary.LastSearchTimestamp.Equal(now) {
		t.Errorf("Unexpected last search timestamp: %v", summary.LastSearchTimestamp)
	}
}

func TestAnalyticsService_EmptySummary(t *testing.T) {
	summary := NewService("").Summary()
	if summary.TotalSearches != 0 || summary.PopularSearches == nil || summary.ZeroResultQueries == nil {
		t.Errorf("Unexpected empty summary: %+v", summary)
	}
	if summary.LastSearchTimestamp != nil {
		t.Error("Expected no last search timestamp")
	}
}

func TestAnalyticsService_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.json")

	first := NewService(path)
	_ = first.TrackSearchEvent(model.SearchEvent{Query: "logo", SearchType: SearchTypeKeyword})
	_ = first.TrackSearchEvent(model.SearchEvent{Query: "seo", SearchType: SearchTypeKeyword})
	first.Close()

	second := NewService(path)
	summary := second.Summary()
	if summary.TotalSearches != 2 {
		t.Fatalf("Expected 2 persisted searches, got %d", summary.TotalSearches)
	}
}
