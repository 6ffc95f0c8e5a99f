package tokenizer

import "strings"

// synonymGroups lists words that are treated as interchangeable during matching.
var synonymGroups = [][]string{
	{"phone", "mobile", "smartphone", "cellphone", "handset"},
	{"laptop", "notebook", "computer", "macbook", "ultrabook"},
	{"tv", "television", "smarttv", "smart-tv"},
	{"shoe", "shoes", "sneaker", "sneakers", "footwear"},
	{"dress", "gown", "apparel", "clothing", "outfit"},
	{"bag", "backpack", "handbag", "satchel", "tote"},
	{"watch", "timepiece", "smartwatch", "wristwatch"},
	{"earphone", "earphones", "earbud", "earbuds", "headphone", "headphones"},
	{"camera", "dslr", "mirrorless"},
	{"fridge", "refrigerator", "cooler"},
	{"ac", "airconditioner", "air-conditioner"},
	{"washer", "washingmachine", "laundry"},
}

// stemSuffixes are tried in order; the first one that leaves a stem of at least 3 characters wins.
var stemSuffixes = []string{"ing", "ers", "er", "ies", "ied", "s"}

// synonymLookup maps a word to its siblings. Built once at package init and never mutated.
var synonymLookup = buildSynonymLookup(synonymGroups)

func buildSynonymLookup(groups [][]string) map[string][]string {
	lookup := make(map[string][]string)
	for _, group := range groups {
		for _, word := range group {
			existing := lookup[word]
			for _, candidate := range group {
				if candidate == word || containsString(existing, candidate) {
					continue
				}
				existing = append(existing, candidate)
			}
			lookup[word] = existing
		}
	}
	return lookup
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

// Synonyms returns the siblings of token from the synonym table, or nil.
func Synonyms(token string) []string {
	siblings := synonymLookup[token]
	if len(siblings) == 0 {
		return nil
	}
	out := make([]string, len(siblings))
	copy(out, siblings)
	return out
}

// StemToken strips the first matching suffix from tokens longer than 3 characters,
// provided the remaining stem keeps at least 3 characters. This is a heuristic,
// e.g. "designer" -> "design" but "glass" -> "glas".
func StemToken(token string) string {
	if len(token) <= 3 {
		return token
	}
	for _, suffix := range stemSuffixes {
		if strings.HasSuffix(token, suffix) {
			stem := token[:len(token)-len(suffix)]
			if len(stem) >= 3 {
				return stem
			}
		}
	}
	return token
}

// ExpandToken returns the token, its stem when different, and its synonyms, without duplicates.
func ExpandToken(token string) []string {
	if token == "" {
		return []string{}
	}
	expansions := []string{token}
	if stem := StemToken(token); stem != "" && stem != token {
		expansions = append(expansions, stem)
	}
	for _, synonym := range synonymLookup[token] {
		if !containsString(expansions, synonym) {
			expansions = append(expansions, synonym)
		}
	}
	return expansions
}
