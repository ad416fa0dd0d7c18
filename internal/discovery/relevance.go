package discovery

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"movie-discovery-client/internal/models"
)

// Tier identifies which text rule produced a filtered set.
type Tier int

const (
	TierNone          Tier = iota // no search text, nothing filtered
	TierTitle                     // every token in the title
	TierTitleOriginal             // every token in title + original title
)

func (t Tier) String() string {
	switch t {
	case TierTitle:
		return "title"
	case TierTitleOriginal:
		return "title_original"
	default:
		return "none"
	}
}

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(lower(text))
}

// MatchesTitle reports whether the title contains every token.
func MatchesTitle(m models.Movie, tokens []string) bool {
	return containsAll(lower(m.Title), tokens)
}

// MatchesTitleOrOriginal reports whether the title joined with the original title
// contains every token.
func MatchesTitleOrOriginal(m models.Movie, tokens []string) bool {
	return containsAll(lower(m.Title+" "+m.OriginalTitle), tokens)
}

// StrictFilter keeps the title matches for text when there are any, otherwise the
// title + original title matches. An empty text returns items unchanged.
func StrictFilter(items []models.Movie, text string) ([]models.Movie, Tier) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return items, TierNone
	}

	if strict := filter(items, tokens, MatchesTitle); len(strict) > 0 {
		return strict, TierTitle
	}
	return filter(items, tokens, MatchesTitleOrOriginal), TierTitleOriginal
}

// NeedsDeepSearch reports whether text is long enough for the deep search and no
// item of the aggregate matches it on title.
func NeedsDeepSearch(text string, aggregate []models.Movie) bool {
	if searchLength(text) < DeepSearchMinLength {
		return false
	}
	tokens := Tokenize(text)
	for _, m := range aggregate {
		if MatchesTitle(m, tokens) {
			return false
		}
	}
	return true
}

func filter(items []models.Movie, tokens []string, match func(models.Movie, []string) bool) []models.Movie {
	out := make([]models.Movie, 0, len(items))
	for _, m := range items {
		if match(m, tokens) {
			out = append(out, m)
		}
	}
	return out
}

func containsAll(text string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(text, tok) {
			return false
		}
	}
	return true
}

// lower applies Unicode lowercasing. Casers keep state, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
