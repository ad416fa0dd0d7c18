// Package browse drives the browse page: debounced search input, the single
// authoritative query cycle, pagination and the filter dropdowns.
package browse

import (
	"context"

	"github.com/google/uuid"

	"movie-discovery-client/internal/discovery"
	"movie-discovery-client/internal/models"
)

// Browse runs one cycle for filters and renders page of the result without
// keeping any state. page is clamped to the available pages.
func Browse(ctx context.Context, pipeline *discovery.Pipeline, p Presenter, filters models.FilterState, page int) (models.BrowseView, error) {
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		return models.BrowseView{}, err
	}

	out, err := pipeline.Run(ctx, filters)
	if err != nil {
		return models.BrowseView{}, err
	}

	visible := discovery.Visible(out.Candidates, filters)
	page = min(max(page, 1), TotalPages(len(visible)))

	return models.BrowseView{
		CycleID:       uuid.NewString(),
		Page:          page,
		PageSize:      PageSize,
		TotalPages:    TotalPages(len(visible)),
		TotalResults:  len(visible),
		Search:        filters.SearchText,
		Filters:       filters,
		LanguageLabel: p.LanguageLabel(filters.Language),
		CalendarLabel: CalendarLabel(filters.Year, filters.Month),
		Data:          p.Cards(Slice(visible, page)),
	}, nil
}
