package discovery

import (
	"context"
	"log/slog"

	"movie-discovery-client/internal/metrics"
	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/tmdb"
)

// Catalog fetches consecutive pages of one query.
type Catalog interface {
	FetchPages(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error)
}

// StepResult records what one query step fetched.
type StepResult struct {
	Mode    tmdb.Mode `json:"mode"`
	Budget  int       `json:"budget"`
	Fetched int       `json:"fetched"`
}

// Outcome is the result of one query cycle.
type Outcome struct {
	Candidates []models.Movie
	Escalated  bool
	Steps      []StepResult
}

// Pipeline runs query cycles against a catalog.
type Pipeline struct {
	catalog          Catalog
	fallbackLanguage string
}

// NewPipeline creates a pipeline that discovers in fallbackLanguage when no
// language is selected.
func NewPipeline(catalog Catalog, fallbackLanguage string) *Pipeline {
	if fallbackLanguage == "" {
		fallbackLanguage = DefaultFallbackLanguage
	}
	return &Pipeline{catalog: catalog, fallbackLanguage: fallbackLanguage}
}

// Run executes the plan for filters in order, merges the batches and performs at
// most one deep search. Any fetch error aborts the cycle; a cancelled ctx surfaces
// as context.Canceled.
func (p *Pipeline) Run(ctx context.Context, filters models.FilterState) (Outcome, error) {
	filters = filters.Normalize()
	plan := PlanQueries(filters, p.fallbackLanguage)

	agg := NewAggregator()
	var out Outcome
	for _, step := range plan.Steps {
		if err := p.runStep(ctx, step, agg, &out); err != nil {
			return Outcome{}, err
		}
	}

	if filters.HasSearch() && NeedsDeepSearch(filters.SearchText, agg.Items()) {
		slog.Debug("no title match, running deep search", "search", filters.SearchText)
		metrics.DeepSearchesTotal.Inc()
		deep := Step{Query: tmdb.SearchQuery(filters.SearchText), Budget: MaxSearchPages}
		if err := p.runStep(ctx, deep, agg, &out); err != nil {
			return Outcome{}, err
		}
		out.Escalated = true
	}

	out.Candidates = agg.Items()
	return out, nil
}

func (p *Pipeline) runStep(ctx context.Context, step Step, agg *Aggregator, out *Outcome) error {
	items, err := p.catalog.FetchPages(ctx, step.Query, step.Budget)
	if err != nil {
		return err
	}
	agg.Add(items)
	out.Steps = append(out.Steps, StepResult{Mode: step.Query.Mode, Budget: step.Budget, Fetched: len(items)})
	return nil
}
