// Package discovery turns a filter state into catalog queries and the fetched
// batches into the visible, strictly matched result set.
package discovery

import (
	"unicode/utf8"

	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/tmdb"
)

const (
	PopularPages   = 3
	DiscoverPages  = 10
	MaxSearchPages = tmdb.MaxPages

	// DeepSearchMinLength is the shortest search text eligible for the deep search.
	DeepSearchMinLength = 6

	DefaultFallbackLanguage = "te"
)

// Step is one query mode invocation with its page budget.
type Step struct {
	Query  tmdb.Query
	Budget int
}

// Plan is the ordered list of catalog queries for one cycle.
type Plan struct {
	Steps []Step
}

// Popular reports whether the plan is the plain popular listing.
func (p Plan) Popular() bool {
	return len(p.Steps) == 1 && p.Steps[0].Query.Mode == tmdb.ModePopular
}

// PlanQueries decides which query modes run for filters and how many pages each may fetch.
// Discovery always precedes search.
func PlanQueries(filters models.FilterState, fallbackLanguage string) Plan {
	if !filters.HasSearch() && !filters.HasAttributeFilters() {
		return Plan{Steps: []Step{{Query: tmdb.PopularQuery(), Budget: PopularPages}}}
	}

	language := filters.Language
	if !filters.HasLanguage() {
		language = fallbackLanguage
		if language == "" {
			language = DefaultFallbackLanguage
		}
	}

	steps := []Step{{
		Query:  tmdb.DiscoverQuery(language, filters.Year, filters.Month),
		Budget: DiscoverPages,
	}}
	if filters.HasSearch() {
		steps = append(steps, Step{
			Query:  tmdb.SearchQuery(filters.SearchText),
			Budget: SearchPageBudget(searchLength(filters.SearchText)),
		})
	}
	return Plan{Steps: steps}
}

// SearchPageBudget returns the initial search page budget for a search text of n characters.
// Short texts match more titles and are scanned deeper.
func SearchPageBudget(n int) int {
	var budget int
	switch {
	case n <= 0:
		return 0
	case n == 1:
		budget = 25
	case n == 2:
		budget = 20
	case n == 3:
		budget = 15
	default:
		budget = 10
	}
	return min(budget, MaxSearchPages)
}

func searchLength(text string) int {
	return utf8.RuneCountInString(text)
}
