package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/tmdb"
)

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) FetchPages(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
	args := m.Called(ctx, q, budget)
	var movies []models.Movie
	if v := args.Get(0); v != nil {
		movies = v.([]models.Movie)
	}
	return movies, args.Error(1)
}

func movie(id int, title string) models.Movie {
	return models.Movie{ID: id, Title: title, OriginalTitle: title, OriginalLanguage: "en"}
}

func ids(items []models.Movie) []int {
	out := make([]int, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

// ---- planner ----

func TestPlanQueriesPopularWhenNoFilters(t *testing.T) {
	plan := PlanQueries(models.DefaultFilterState(), "te")

	require.Len(t, plan.Steps, 1)
	assert.True(t, plan.Popular())
	assert.Equal(t, tmdb.ModePopular, plan.Steps[0].Query.Mode)
	assert.Equal(t, PopularPages, plan.Steps[0].Budget)
}

func TestPlanQueriesDiscoverWithFallbackLanguage(t *testing.T) {
	plan := PlanQueries(models.FilterState{Language: models.LanguageAll, Year: 2021}, "te")

	require.Len(t, plan.Steps, 1)
	step := plan.Steps[0]
	assert.Equal(t, tmdb.ModeDiscover, step.Query.Mode)
	assert.Equal(t, "te", step.Query.Language)
	assert.Equal(t, "2021-01-01", step.Query.ReleaseFrom)
	assert.Equal(t, "2021-12-31", step.Query.ReleaseTo)
	assert.Equal(t, DiscoverPages, step.Budget)
}

func TestPlanQueriesMonthWithoutYearStillDiscovers(t *testing.T) {
	plan := PlanQueries(models.FilterState{Language: models.LanguageAll, Month: "03"}, "")

	require.Len(t, plan.Steps, 1)
	assert.Equal(t, tmdb.ModeDiscover, plan.Steps[0].Query.Mode)
	assert.Equal(t, DefaultFallbackLanguage, plan.Steps[0].Query.Language)
	assert.Empty(t, plan.Steps[0].Query.ReleaseFrom)
}

func TestPlanQueriesSearchAfterDiscover(t *testing.T) {
	plan := PlanQueries(models.FilterState{SearchText: "Up", Language: "ja", Year: 2023, Month: "07"}, "te")

	require.Len(t, plan.Steps, 2)
	assert.Equal(t, tmdb.ModeDiscover, plan.Steps[0].Query.Mode)
	assert.Equal(t, "ja", plan.Steps[0].Query.Language)
	assert.Equal(t, "2023-07-01", plan.Steps[0].Query.ReleaseFrom)
	assert.Equal(t, "2023-07-31", plan.Steps[0].Query.ReleaseTo)
	assert.Equal(t, tmdb.SearchQuery("Up"), plan.Steps[1].Query)
	assert.Equal(t, 20, plan.Steps[1].Budget)
}

func TestSearchPageBudget(t *testing.T) {
	cases := map[int]int{0: 0, 1: 25, 2: 20, 3: 15, 4: 10, 5: 10, 6: 10, 12: 10, 200: 10}
	for n, want := range cases {
		assert.Equal(t, want, SearchPageBudget(n), "length %d", n)
		assert.LessOrEqual(t, SearchPageBudget(n), MaxSearchPages)
	}
}

// ---- aggregator ----

func TestAggregateDedupesLastWriteWins(t *testing.T) {
	first := []models.Movie{movie(1, "A"), movie(2, "B")}
	second := []models.Movie{{ID: 2, Title: "B updated"}, movie(3, "C"), movie(1, "A again")}

	got := Aggregate(first, second)

	assert.Equal(t, []int{1, 2, 3}, ids(got))
	assert.Equal(t, "A again", got[0].Title)
	assert.Equal(t, "B updated", got[1].Title)
}

func TestAggregatorItemsIsACopy(t *testing.T) {
	agg := NewAggregator()
	agg.Add([]models.Movie{movie(1, "A")})

	items := agg.Items()
	items[0].Title = "changed"

	assert.Equal(t, "A", agg.Items()[0].Title)
	assert.Equal(t, 1, agg.Len())
}

// ---- relevance ----

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "dark", "knight"}, Tokenize("  The\tDark   KNIGHT "))
	assert.Empty(t, Tokenize("   "))
	assert.Equal(t, []string{"amélie"}, Tokenize("AMÉLIE"))
}

func TestStrictFilterPrefersTitleTier(t *testing.T) {
	items := []models.Movie{
		movie(1, "Up"),
		movie(2, "Grown Ups"),
		{ID: 3, Title: "Oben", OriginalTitle: "Up"},
		movie(4, "Cars"),
	}

	got, tier := StrictFilter(items, "up")

	assert.Equal(t, TierTitle, tier)
	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestStrictFilterFallsBackToOriginalTitle(t *testing.T) {
	items := []models.Movie{
		{ID: 1, Title: "Le Fabuleux Destin", OriginalTitle: "Amélie"},
		movie(2, "Cars"),
	}

	got, tier := StrictFilter(items, "fabuleux amélie")

	assert.Equal(t, TierTitleOriginal, tier)
	assert.Equal(t, []int{1}, ids(got))
}

func TestStrictFilterTokensMustNotSpanTitles(t *testing.T) {
	items := []models.Movie{{ID: 1, Title: "Star", OriginalTitle: "Wars"}}

	got, _ := StrictFilter(items, "starwars")
	assert.Empty(t, got)

	got, tier := StrictFilter(items, "star wars")
	assert.Equal(t, TierTitleOriginal, tier)
	assert.Len(t, got, 1)
}

func TestStrictFilterEmptyText(t *testing.T) {
	items := []models.Movie{movie(1, "A")}

	got, tier := StrictFilter(items, "  ")
	assert.Equal(t, TierNone, tier)
	assert.Equal(t, items, got)
}

func TestNeedsDeepSearch(t *testing.T) {
	noMatch := []models.Movie{movie(1, "Inception")}
	match := []models.Movie{movie(2, "Interstellar")}

	assert.True(t, NeedsDeepSearch("Interstellar", noMatch))
	assert.False(t, NeedsDeepSearch("Interstellar", match))
	assert.False(t, NeedsDeepSearch("Incep", nil), "five characters never escalate")
	assert.True(t, NeedsDeepSearch("abcdef", nil))
	assert.True(t, NeedsDeepSearch("ÉÉÉÉÉÉ", nil), "length counts characters")
}

// ---- attributes ----

func TestApplyAttributeFiltersYearMonth(t *testing.T) {
	items := []models.Movie{
		{ID: 1, ReleaseDate: "2023-07-21", OriginalLanguage: "en"},
		{ID: 2, ReleaseDate: "2023-08-01", OriginalLanguage: "en"},
		{ID: 3, ReleaseDate: "2022-07-01", OriginalLanguage: "en"},
		{ID: 4, OriginalLanguage: "en"},
	}

	got := ApplyAttributeFilters(items, models.FilterState{Language: models.LanguageAll, Year: 2023, Month: "07"})
	assert.Equal(t, []int{1}, ids(got))

	got = ApplyAttributeFilters(items, models.FilterState{Language: models.LanguageAll, Year: 2023})
	assert.Equal(t, []int{1, 2}, ids(got))
}

func TestApplyAttributeFiltersYearOnlyDate(t *testing.T) {
	items := []models.Movie{
		{ID: 1, ReleaseDate: "2023", OriginalLanguage: "en"},
		{ID: 2, ReleaseDate: "2023-07-21", OriginalLanguage: "en"},
		{ID: 3, ReleaseDate: "2022", OriginalLanguage: "en"},
	}

	got := ApplyAttributeFilters(items, models.FilterState{Language: models.LanguageAll, Year: 2023})
	assert.Equal(t, []int{1, 2}, ids(got))

	got = ApplyAttributeFilters(items, models.FilterState{Language: models.LanguageAll, Year: 2023, Month: "07"})
	assert.Equal(t, []int{2}, ids(got))
}

func TestApplyAttributeFiltersLanguage(t *testing.T) {
	items := []models.Movie{
		{ID: 1, OriginalLanguage: "te"},
		{ID: 2, OriginalLanguage: "en"},
	}

	got := ApplyAttributeFilters(items, models.FilterState{Language: "te"})
	assert.Equal(t, []int{1}, ids(got))

	got = ApplyAttributeFilters(items, models.FilterState{Language: models.LanguageAll, Month: "01"})
	assert.Equal(t, []int{1, 2}, ids(got), "month without year does not narrow")
}

func TestVisibleAttributeFiltersIgnoreTier(t *testing.T) {
	candidates := []models.Movie{
		{ID: 1, Title: "Summer Up", ReleaseDate: "2023-07-02"},
		{ID: 2, Title: "Up", ReleaseDate: "2023-06-30"},
		{ID: 3, Title: "Other", OriginalTitle: "Up", ReleaseDate: "2023-07-15"},
	}

	got := Visible(candidates, models.FilterState{SearchText: "up", Language: models.LanguageAll, Year: 2023, Month: "07"})

	assert.Equal(t, []int{1}, ids(got))
	for _, m := range got {
		assert.Contains(t, m.ReleaseDate, "2023-07")
	}
}

// ---- pipeline ----

func TestPipelinePopularOnly(t *testing.T) {
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, tmdb.PopularQuery(), PopularPages).
		Return([]models.Movie{movie(1, "A"), movie(2, "B")}, nil).Once()

	out, err := NewPipeline(catalog, "te").Run(context.Background(), models.DefaultFilterState())

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, ids(out.Candidates))
	assert.False(t, out.Escalated)
	require.Len(t, out.Steps, 1)
	catalog.AssertExpectations(t)
	catalog.AssertNumberOfCalls(t, "FetchPages", 1)
}

func TestPipelineShortSearchScenario(t *testing.T) {
	discover := tmdb.DiscoverQuery("te", 0, "")
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, discover, DiscoverPages).
		Return([]models.Movie{movie(1, "Up"), movie(2, "Bahubali")}, nil).Once()
	catalog.On("FetchPages", mock.Anything, tmdb.SearchQuery("Up"), 20).
		Return([]models.Movie{movie(1, "Up"), movie(3, "Grown Ups"), movie(4, "Cars")}, nil).Once()

	filters := models.FilterState{SearchText: "Up", Language: models.LanguageAll}
	out, err := NewPipeline(catalog, "te").Run(context.Background(), filters)

	require.NoError(t, err)
	assert.False(t, out.Escalated)
	assert.Equal(t, []int{1, 2, 3, 4}, ids(out.Candidates))
	assert.Equal(t, []int{1, 3}, ids(Visible(out.Candidates, filters)))
	catalog.AssertExpectations(t)
}

func TestPipelineDeepSearchScenario(t *testing.T) {
	discover := tmdb.DiscoverQuery("te", 0, "")
	search := tmdb.SearchQuery("Interstellar")
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, discover, DiscoverPages).
		Return([]models.Movie{movie(1, "Bahubali")}, nil).Once()
	catalog.On("FetchPages", mock.Anything, search, 10).
		Return([]models.Movie{movie(2, "Inception")}, nil).Once()
	catalog.On("FetchPages", mock.Anything, search, MaxSearchPages).
		Return([]models.Movie{movie(3, "Interstellar"), movie(2, "Inception")}, nil).Once()

	filters := models.FilterState{SearchText: "Interstellar", Language: models.LanguageAll}
	out, err := NewPipeline(catalog, "te").Run(context.Background(), filters)

	require.NoError(t, err)
	assert.True(t, out.Escalated)
	assert.Equal(t, []int{1, 2, 3}, ids(out.Candidates))
	assert.Equal(t, []int{3}, ids(Visible(out.Candidates, filters)))
	require.Len(t, out.Steps, 3)
	assert.Equal(t, MaxSearchPages, out.Steps[2].Budget)
	catalog.AssertExpectations(t)
}

func TestPipelineEscalatesAtMostOnce(t *testing.T) {
	search := tmdb.SearchQuery("nothing here")
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, tmdb.DiscoverQuery("te", 0, ""), DiscoverPages).Return(nil, nil)
	catalog.On("FetchPages", mock.Anything, search, 10).Return(nil, nil)
	catalog.On("FetchPages", mock.Anything, search, MaxSearchPages).Return(nil, nil)

	out, err := NewPipeline(catalog, "").Run(context.Background(), models.FilterState{SearchText: "nothing here"})

	require.NoError(t, err)
	assert.True(t, out.Escalated)
	assert.Empty(t, out.Candidates)
	catalog.AssertNumberOfCalls(t, "FetchPages", 3)
}

func TestPipelineNoEscalationWhenDiscoverMatches(t *testing.T) {
	search := tmdb.SearchQuery("Interstellar")
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, tmdb.DiscoverQuery("en", 0, ""), DiscoverPages).
		Return([]models.Movie{movie(1, "Interstellar")}, nil)
	catalog.On("FetchPages", mock.Anything, search, 10).Return(nil, nil)

	out, err := NewPipeline(catalog, "te").Run(context.Background(), models.FilterState{SearchText: "Interstellar", Language: "en"})

	require.NoError(t, err)
	assert.False(t, out.Escalated)
	catalog.AssertNotCalled(t, "FetchPages", mock.Anything, search, MaxSearchPages)
}

func TestPipelineAbortsOnError(t *testing.T) {
	boom := errors.New("boom")
	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, tmdb.DiscoverQuery("te", 0, ""), DiscoverPages).Return(nil, boom)

	out, err := NewPipeline(catalog, "te").Run(context.Background(), models.FilterState{SearchText: "Up"})

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.Candidates)
	catalog.AssertNumberOfCalls(t, "FetchPages", 1)
}

func TestPipelinePropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog := new(mockCatalog)
	catalog.On("FetchPages", mock.Anything, mock.Anything, mock.Anything).Return(nil, context.Canceled)

	_, err := NewPipeline(catalog, "te").Run(ctx, models.FilterState{Language: "ko"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVisibleNeverDuplicates(t *testing.T) {
	batches := [][]models.Movie{
		{movie(1, "Up"), movie(2, "Up Again")},
		{movie(2, "Up Again"), movie(1, "Up")},
		{movie(1, "Up")},
	}
	got := Visible(Aggregate(batches...), models.FilterState{SearchText: "up"})

	seen := map[int]bool{}
	for _, m := range got {
		assert.False(t, seen[m.ID], "duplicate id %d", m.ID)
		seen[m.ID] = true
	}
	assert.Len(t, got, 2)
}
