package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"kitten sitting", "kitten", "sitting", 3},
		{"simple substitution", "kitten", "sitten", 1},
		{"simple insertion", "apple", "applye", 1},
		{"simple deletion", "banana", "banna", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"transposition costs two", "design", "desing", 2},
		{"longer strings", "algorithm", "altruistic", 6},
		{"unicode chars (same len)", "cliché", "cliche", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Levenshtein(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if reverse := Levenshtein(tt.b, tt.a); reverse != tt.want {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d (symmetry)", tt.b, tt.a, reverse, tt.want)
			}
		})
	}
}

func TestTokenSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"equal", "logo", "logo", 1},
		{"empty a", "", "x", 0},
		{"empty b", "x", "", 0},
		{"query contained in doc", "phone", "phones", 0.85},
		{"doc contained in query", "phones", "phone", 0.75},
		{"short token not treated as contained", "art", "artist", 0.5},
		{"one substitution", "logo", "lego", 0.75},
		{"below floor", "cat", "dog", 0},
		{"two of six edits", "design", "desing", 1 - 2.0/6.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TokenSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSemanticSimilarity(t *testing.T) {
	query := tokenizer.NewTokenSet("laptop", "repair")

	assert.InDelta(t, 1.0, SemanticSimilarity(query, tokenizer.NewTokenSet("laptop", "repair", "service")), 1e-9)
	assert.InDelta(t, 0.5, SemanticSimilarity(query, tokenizer.NewTokenSet("laptop", "garden")), 1e-9)
	assert.Equal(t, 0.0, SemanticSimilarity(query, tokenizer.NewTokenSet()))
	assert.Equal(t, 0.0, SemanticSimilarity(tokenizer.NewTokenSet(), query))
}

func TestHasSemanticOverlap_Synonyms(t *testing.T) {
	query := tokenizer.BuildTokenSet("mobile")
	doc := tokenizer.BuildTokenSet("Best Smartphone Repair")

	assert.True(t, HasSemanticOverlap(query, doc))
	assert.False(t, HasSemanticOverlap(query, tokenizer.BuildTokenSet("Garden Design")))
	assert.False(t, HasSemanticOverlap(query, tokenizer.NewTokenSet()))
}

func TestCountMatches_CountsEveryPair(t *testing.T) {
	query := tokenizer.NewTokenSet("phone")
	doc := tokenizer.NewTokenSet("phone", "phones", "smartphone", "garden")

	assert.Equal(t, 3, CountMatches(query, doc))
	assert.Equal(t, 0, CountMatches(query, tokenizer.NewTokenSet()))
}
