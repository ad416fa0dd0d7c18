package discovery

import "movie-discovery-client/internal/models"

// ApplyAttributeFilters narrows items by language and release year/month.
// Under a year filter, items without a release date are dropped. A month only
// narrows together with a year.
func ApplyAttributeFilters(items []models.Movie, filters models.FilterState) []models.Movie {
	if !filters.HasLanguage() && !filters.HasYear() {
		return items
	}

	out := make([]models.Movie, 0, len(items))
	for _, m := range items {
		if filters.HasLanguage() && m.OriginalLanguage != filters.Language {
			continue
		}
		if filters.HasYear() {
			year, month, ok := m.ReleaseParts()
			if !ok || year != filters.Year {
				continue
			}
			if filters.HasMonth() && month != filters.Month {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// Visible computes the displayed collection from a cycle's candidates: the strict
// text filter first, then the attribute filters.
func Visible(candidates []models.Movie, filters models.FilterState) []models.Movie {
	filters = filters.Normalize()
	matched, _ := StrictFilter(candidates, filters.SearchText)
	return ApplyAttributeFilters(matched, filters)
}
