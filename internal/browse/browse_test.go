package browse

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-discovery-client/internal/backdrop"
	"movie-discovery-client/internal/discovery"
	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/tmdb"
)

type fakeCatalog struct {
	mu    sync.Mutex
	calls []tmdb.Query
	fetch func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error)
}

func (f *fakeCatalog) FetchPages(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	if f.fetch == nil {
		return nil, nil
	}
	return f.fetch(ctx, q, budget)
}

func (f *fakeCatalog) queries() []tmdb.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tmdb.Query(nil), f.calls...)
}

func makeMovies(n int, prefix string) []models.Movie {
	out := make([]models.Movie, n)
	for i := range out {
		out[i] = models.Movie{
			ID:               i + 1,
			Title:            fmt.Sprintf("%s %d", prefix, i+1),
			OriginalLanguage: "en",
			BackdropPath:     fmt.Sprintf("/b%d.jpg", i+1),
		}
	}
	return out
}

func newTestSession(t *testing.T, catalog *fakeCatalog) (*Session, *backdrop.Store) {
	t.Helper()
	store := backdrop.New()
	s := NewSession(context.Background(), discovery.NewPipeline(catalog, "te"), SessionOptions{
		Debounce: 10 * time.Millisecond,
		Backdrop: store,
		Presenter: Presenter{
			Now: func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) },
		},
	})
	t.Cleanup(s.Close)
	return s, store
}

// ---- pager ----

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0))
	assert.Equal(t, 1, TotalPages(20))
	assert.Equal(t, 2, TotalPages(21))
	assert.Equal(t, 3, TotalPages(45))
}

func TestPagerBounds(t *testing.T) {
	p := NewPager()

	assert.False(t, p.Prev(), "prev below page 1 is a no-op")
	assert.Equal(t, 1, p.Page())

	assert.True(t, p.Next(45))
	assert.True(t, p.Next(45))
	assert.False(t, p.Next(45), "next beyond the last page is a no-op")
	assert.Equal(t, 3, p.Page())

	p.Clamp(10)
	assert.Equal(t, 1, p.Page())

	assert.False(t, p.Next(0))
}

func TestSlice(t *testing.T) {
	items := make([]int, 45)
	for i := range items {
		items[i] = i
	}

	assert.Equal(t, items[0:20], Slice(items, 1))
	assert.Equal(t, items[40:45], Slice(items, 3))
	assert.Empty(t, Slice(items, 4))
	assert.Empty(t, Slice([]int{}, 1))
}

// ---- menu ----

func TestMenuTransitions(t *testing.T) {
	var m Menu
	assert.Equal(t, Closed, m.State())

	assert.Equal(t, Open, m.Toggle())
	assert.Equal(t, Closed, m.Toggle())

	m.Toggle()
	m.Dismiss()
	assert.False(t, m.IsOpen())
	m.Dismiss()
	assert.Equal(t, "closed", m.State().String())
}

// ---- debouncer ----

func TestDebouncerRunsOnlyLastTrigger(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var mu sync.Mutex
	var ran []string

	for _, v := range []string{"a", "ab", "abc"} {
		d.Trigger(func() {
			mu.Lock()
			ran = append(ran, v)
			mu.Unlock()
		})
	}
	d.Wait()

	assert.Equal(t, []string{"abc"}, ran)
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var ran atomic.Bool

	d.Trigger(func() { ran.Store(true) })
	d.Stop()
	d.Wait()
	time.Sleep(20 * time.Millisecond)

	assert.False(t, ran.Load())
}

func TestDebouncerWaitWhileTriggering(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	var ran atomic.Int64

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 50 {
				d.Trigger(func() { ran.Add(1) })
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				d.Wait()
			}
		}()
	}
	wg.Wait()
	d.Wait()

	assert.False(t, d.Pending())
	assert.Positive(t, ran.Load())
}

// ---- presenter ----

func TestPresenterImages(t *testing.T) {
	var p Presenter

	assert.Equal(t, models.TMDBImageBaseOriginal+"/b.jpg", p.CardImage(models.Movie{BackdropPath: "/b.jpg", PosterPath: "/p.jpg"}))
	assert.Equal(t, models.TMDBImageBaseOriginal+"/p.jpg", p.CardImage(models.Movie{PosterPath: "/p.jpg"}))
	assert.Equal(t, models.PlaceholderImageURL, p.CardImage(models.Movie{}))
	assert.Empty(t, p.Background(models.Movie{}))
}

func TestLabels(t *testing.T) {
	p := Presenter{LanguageName: func(code string) string {
		if code == "te" {
			return "Telugu"
		}
		return ""
	}}

	assert.Equal(t, "Language filter", p.LanguageLabel(models.LanguageAll))
	assert.Equal(t, "Telugu", p.LanguageLabel("te"))
	assert.Equal(t, "XX", p.LanguageLabel("xx"))

	assert.Equal(t, "Release Month", CalendarLabel(0, ""))
	assert.Equal(t, "2023", CalendarLabel(2023, ""))
	assert.Equal(t, "2023 - Jul", CalendarLabel(2023, "07"))
}

// ---- session ----

func TestSessionStartLoadsPopular(t *testing.T) {
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		return makeMovies(45, "Popular"), nil
	}}
	s, store := newTestSession(t, catalog)

	s.Start()
	s.Wait()

	view := s.View()
	assert.False(t, view.Loading)
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 45, view.TotalResults)
	require.Len(t, view.Data, PageSize)
	assert.NotEmpty(t, view.CycleID)
	assert.Equal(t, "Release Month", view.CalendarLabel)
	assert.Equal(t, 2025, view.CalendarYear)
	assert.Equal(t, []tmdb.Query{tmdb.PopularQuery()}, catalog.queries())
	assert.Equal(t, models.TMDBImageBaseOriginal+"/b1.jpg", store.Current())

	require.True(t, s.Next())
	assert.Equal(t, models.TMDBImageBaseOriginal+"/b21.jpg", store.Current())
}

func TestSessionFilterChangeResetsPage(t *testing.T) {
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		return makeMovies(60, "Movie"), nil
	}}
	s, _ := newTestSession(t, catalog)
	s.Start()
	s.Wait()

	s.Next()
	s.Next()
	assert.False(t, s.Next())
	assert.Equal(t, 3, s.View().Page)

	s.SetLanguage("en")
	assert.Equal(t, 1, s.View().Page)
	s.Wait()

	s.Next()
	require.NoError(t, s.SetYear(2023))
	assert.Equal(t, 1, s.View().Page)
	s.Wait()

	s.Next()
	s.SetSearch("movie")
	s.Wait()
	assert.Equal(t, 1, s.View().Page)
}

func TestSessionDebouncesSearch(t *testing.T) {
	catalog := &fakeCatalog{}
	s, _ := newTestSession(t, catalog)

	s.SetSearch("U")
	s.SetSearch("Up ")
	assert.Equal(t, "Up ", s.View().Search)
	s.Wait()

	assert.Equal(t, "Up", s.Filters().SearchText)
	queries := catalog.queries()
	require.Len(t, queries, 2)
	assert.Equal(t, tmdb.ModeDiscover, queries[0].Mode)
	assert.Equal(t, tmdb.SearchQuery("Up"), queries[1])
}

func TestSessionDiscardsStaleCycle(t *testing.T) {
	release := make(chan struct{})
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		if q.Mode == tmdb.ModePopular {
			// ignores cancellation and answers late
			<-release
			return makeMovies(5, "Stale"), nil
		}
		return []models.Movie{{ID: 99, Title: "Fresh", OriginalLanguage: "en"}}, nil
	}}
	s, _ := newTestSession(t, catalog)

	s.Start()
	s.SetLanguage("en")
	time.Sleep(20 * time.Millisecond)
	close(release)
	s.Wait()

	view := s.View()
	require.Len(t, view.Data, 1)
	assert.Equal(t, 99, view.Data[0].ID)
	assert.False(t, view.Loading)
}

func TestSessionCancelsInFlightCycle(t *testing.T) {
	var cancelled atomic.Bool
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		if q.Mode == tmdb.ModePopular {
			<-ctx.Done()
			cancelled.Store(true)
			return nil, ctx.Err()
		}
		return makeMovies(3, "Telugu"), nil
	}}
	s, _ := newTestSession(t, catalog)

	s.Start()
	s.SetLanguage("te")
	s.Wait()

	assert.True(t, cancelled.Load())
	assert.Len(t, s.View().Data, 0, "language te filters out the en fixtures")
}

func TestSessionFailureEmptiesResults(t *testing.T) {
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		if q.Mode == tmdb.ModePopular {
			return makeMovies(10, "Popular"), nil
		}
		return nil, errors.New("connection reset")
	}}
	s, store := newTestSession(t, catalog)
	s.Start()
	s.Wait()
	require.Len(t, s.View().Data, 10)

	s.SetSearch("popular")
	s.Wait()

	view := s.View()
	assert.Empty(t, view.Data)
	assert.Equal(t, 1, view.TotalPages)
	assert.False(t, view.Loading)
	assert.Empty(t, store.Current())
}

func TestSessionMonthSelection(t *testing.T) {
	s, _ := newTestSession(t, &fakeCatalog{})

	require.NoError(t, s.SelectDate(2023, "07"))
	assert.Equal(t, 2023, s.Filters().Year)
	assert.Equal(t, "07", s.Filters().Month)
	assert.Equal(t, "2023 - Jul", s.View().CalendarLabel)

	require.NoError(t, s.SetMonth("07"))
	assert.Equal(t, 2023, s.Filters().Year)
	assert.Empty(t, s.Filters().Month, "picking the active month clears it")

	require.NoError(t, s.SetMonth("03"))
	assert.Equal(t, "03", s.Filters().Month)

	s.ClearDate()
	assert.Zero(t, s.Filters().Year)
	assert.Equal(t, "Release Month", s.View().CalendarLabel)
	assert.Equal(t, 2025, s.View().CalendarYear)

	assert.Error(t, s.SetMonth("13"))
	assert.Error(t, s.SetYear(0))
	assert.Error(t, s.SelectDate(-1, "01"))
	s.Wait()
}

func TestSessionMenus(t *testing.T) {
	s, _ := newTestSession(t, &fakeCatalog{})

	assert.ErrorIs(t, s.ToggleMenu(MenuYears), ErrUnknownMenu)
	require.NoError(t, s.ToggleMenu(MenuCalendar))
	require.NoError(t, s.ToggleMenu(MenuYears))
	require.NoError(t, s.ToggleMenu(MenuLanguage))

	menus := s.View().Menus
	assert.True(t, menus.Calendar)
	assert.True(t, menus.YearList)
	assert.True(t, menus.Language)

	s.DismissMenus()
	menus = s.View().Menus
	assert.False(t, menus.Calendar || menus.YearList || menus.Language)

	assert.ErrorIs(t, s.ToggleMenu("genre"), ErrUnknownMenu)

	require.NoError(t, s.ToggleMenu(MenuLanguage))
	s.SetLanguage("ja")
	assert.False(t, s.View().Menus.Language, "selecting a language closes the dropdown")
	s.Wait()
}

func TestBrowseClampsPage(t *testing.T) {
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		return makeMovies(25, "Movie"), nil
	}}
	pipeline := discovery.NewPipeline(catalog, "te")

	view, err := Browse(context.Background(), pipeline, Presenter{}, models.FilterState{}, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 2, view.TotalPages)
	assert.Len(t, view.Data, 5)

	_, err = Browse(context.Background(), pipeline, Presenter{}, models.FilterState{Month: "13"}, 1)
	assert.Error(t, err)
}

func TestSessionConcurrentUseWithWait(t *testing.T) {
	catalog := &fakeCatalog{fetch: func(ctx context.Context, q tmdb.Query, budget int) ([]models.Movie, error) {
		return makeMovies(45, "Movie"), nil
	}}
	s, _ := newTestSession(t, catalog)
	s.Start()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 20 {
				switch (i + j) % 6 {
				case 0:
					s.SetSearch(fmt.Sprintf("movie %d", j))
				case 1:
					s.SetLanguage([]string{"en", "ja", "all"}[j%3])
				case 2:
					_ = s.SetYear(2000 + j)
				case 3:
					s.Next()
				case 4:
					s.Wait()
				default:
					_ = s.View()
				}
			}
		}()
	}
	wg.Wait()
	s.Wait()

	assert.False(t, s.View().Loading)
}
