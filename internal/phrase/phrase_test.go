package phrase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-gig-search/internal/tokenizer"
)

func normalizedOf(phrases []Phrase) []string {
	out := make([]string, len(phrases))
	for i, p := range phrases {
		out[i] = p.Normalized
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single phrase", "laptop repair", []string{"laptop repair"}},
		{"or separator", "red shoes or blue bag", []string{"red shoes", "blue bag"}},
		{"case insensitive and", "Web Design AND SEO", []string{"web design", "seo"}},
		{"punctuation separators", "logo, banner / flyer | card & poster", []string{"logo", "banner", "flyer", "card", "poster"}},
		{"ampersand without spaces", "rock&roll", []string{"rock", "roll"}},
		{"trailing and is not a separator", "the and", []string{}},
		{"only separators", ",", []string{}},
		{"duplicates merged", "Logo design, logo design / branding", []string{"logo design", "branding"}},
		{"stop word only part dropped", "the, mobile app", []string{"mobile app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizedOf(Extract(tt.query)))
		})
	}
}

func TestExtract_PhraseFields(t *testing.T) {
	phrases := Extract("red shoes or blue bag")
	require.Len(t, phrases, 2)

	assert.Equal(t, Phrase{
		Raw:        "red shoes",
		Normalized: "red shoes",
		Tokens:     []string{"red", "shoes"},
		TokenCount: 2,
		Index:      0,
	}, phrases[0])
	assert.Equal(t, "blue bag", phrases[1].Raw)
	assert.Equal(t, 2, phrases[1].TokenCount)
	assert.Equal(t, 1, phrases[1].Index)
}

func TestExtract_IndexCountsDroppedParts(t *testing.T) {
	phrases := Extract("the, mobile app")
	require.Len(t, phrases, 1)
	assert.Equal(t, 1, phrases[0].Index)
}

func TestPrimary(t *testing.T) {
	assert.Nil(t, Primary(nil))

	t.Run("most tokens wins", func(t *testing.T) {
		p := Primary(Extract("logo or responsive web design"))
		require.NotNil(t, p)
		assert.Equal(t, "responsive web design", p.Normalized)
	})

	t.Run("tie goes to earliest", func(t *testing.T) {
		p := Primary(Extract("red shoes or blue bag"))
		require.NotNil(t, p)
		assert.Equal(t, "red shoes", p.Normalized)
	})

	t.Run("tie resolved by index not slice order", func(t *testing.T) {
		phrases := []Phrase{
			{Normalized: "b c", TokenCount: 2, Index: 3},
			{Normalized: "a d", TokenCount: 2, Index: 1},
		}
		p := Primary(phrases)
		require.NotNil(t, p)
		assert.Equal(t, "a d", p.Normalized)
	})
}

func TestIntentSummary(t *testing.T) {
	summarize := func(query string) string {
		phrases := Extract(query)
		return IntentSummary(query, tokenizer.BuildTokenSet(query), phrases, Primary(phrases))
	}

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"empty", "   ", "No query provided."},
		{"single phrase", "laptop repair", `Looking for gigs related to "laptop repair".`},
		{"two phrases", "red shoes or blue bag", `Looking primarily for "red shoes" gigs, but also open to "blue bag".`},
		{"three phrases", "logo, web design, seo", `Looking primarily for "web design" gigs, but also open to "logo" or "seo".`},
		{"four phrases", "a1, b2 c3, d4, e5", `Looking primarily for "b2 c3" gigs, but also open to "a1", "d4" or "e5".`},
		{"no phrases no tokens", "!!!", `Looking for gigs related to "!!!".`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.query))
		})
	}
}

func TestIntentSummary_KeywordFallback(t *testing.T) {
	tokens := tokenizer.NewTokenSet("one", "two", "three", "four", "five", "six")
	got := IntentSummary("something", tokens, nil, nil)
	assert.Equal(t, "Looking for gigs matching keywords: one, two, three, four, five.", got)
}
