package tokenizer

// TokenSet is a set of normalized tokens that remembers insertion order.
// Iteration order matters for reproducible summaries and metadata.
type TokenSet struct {
	order []string
	seen  map[string]struct{}
}

// NewTokenSet creates an empty set, optionally seeded with tokens.
func NewTokenSet(tokens ...string) *TokenSet {
	s := &TokenSet{
		order: make([]string, 0, len(tokens)),
		seen:  make(map[string]struct{}, len(tokens)),
	}
	for _, t := range tokens {
		s.Add(t)
	}
	return s
}

// Add inserts the token unless it is empty or already present.
func (s *TokenSet) Add(token string) {
	if token == "" {
		return
	}
	if _, ok := s.seen[token]; ok {
		return
	}
	s.seen[token] = struct{}{}
	s.order = append(s.order, token)
}

// AddAll inserts every token of other into s.
func (s *TokenSet) AddAll(other *TokenSet) {
	if other == nil {
		return
	}
	for _, t := range other.order {
		s.Add(t)
	}
}

// Has reports whether the token is in the set.
func (s *TokenSet) Has(token string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[token]
	return ok
}

// Len returns the number of distinct tokens.
func (s *TokenSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Tokens returns a copy of the tokens in insertion order.
func (s *TokenSet) Tokens() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
