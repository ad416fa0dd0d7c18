package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"movie-discovery-client/internal/backdrop"
	"movie-discovery-client/internal/discovery"
	"movie-discovery-client/internal/metrics"
	"movie-discovery-client/internal/models"
)

// DefaultDebounce is the quiet period before typed search text starts a cycle.
const DefaultDebounce = 350 * time.Millisecond

// Session is the state of the browse page: filters, the authoritative query cycle,
// its committed candidates, the current page and the dropdowns.
//
// Every filter change cancels the running cycle and starts a new one. A cycle only
// commits while it is still the latest; results of superseded cycles are dropped.
type Session struct {
	pipeline  *discovery.Pipeline
	presenter Presenter
	backdrop  *backdrop.Store
	debouncer *Debouncer
	baseCtx   context.Context

	mu           sync.Mutex
	rawSearch    string
	filters      models.FilterState
	calendarYear int
	pager        Pager
	languageMenu Menu
	calendarMenu Menu
	yearList     Menu
	generation   uint64
	cancel       context.CancelFunc
	cycleID      string
	loading      bool
	candidates   []models.Movie
	visible      []models.Movie
	running      int
	idle         *sync.Cond
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Debounce  time.Duration
	Presenter Presenter
	Backdrop  *backdrop.Store
}

// NewSession creates a session whose cycles run under ctx. Call Start to load the
// initial listing.
func NewSession(ctx context.Context, pipeline *discovery.Pipeline, opts SessionOptions) *Session {
	window := opts.Debounce
	if window <= 0 {
		window = DefaultDebounce
	}
	store := opts.Backdrop
	if store == nil {
		store = backdrop.New()
	}
	s := &Session{
		pipeline:  pipeline,
		presenter: opts.Presenter,
		backdrop:  store,
		debouncer: NewDebouncer(window),
		baseCtx:   ctx,
		filters:   models.DefaultFilterState(),
		pager:     NewPager(),
	}
	s.idle = sync.NewCond(&s.mu)
	s.calendarYear = s.presenter.CurrentYear()
	return s
}

// Start runs the first cycle for the default filters.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startCycleLocked()
}

// SetSearch records typed text. The trimmed text is applied after the debounce window.
func (s *Session) SetSearch(text string) {
	s.mu.Lock()
	s.rawSearch = text
	s.mu.Unlock()

	trimmed := strings.TrimSpace(text)
	s.debouncer.Trigger(func() { s.applySearch(trimmed) })
}

func (s *Session) applySearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pager.Reset()
	if text == s.filters.SearchText {
		s.refreshLocked()
		return
	}
	s.filters.SearchText = text
	s.filterChangedLocked()
}

// SetLanguage selects a language code; "" or "all" removes the language filter.
func (s *Session) SetLanguage(code string) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = models.LanguageAll
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.languageMenu.Close()
	s.pager.Reset()
	if code == s.filters.Language {
		s.refreshLocked()
		return
	}
	s.filters.Language = code
	s.filterChangedLocked()
}

// ClearLanguage removes the language filter.
func (s *Session) ClearLanguage() {
	s.SetLanguage(models.LanguageAll)
}

// SetYear selects a whole release year and clears the month.
func (s *Session) SetYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("invalid year: %d", year)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calendarYear = year
	s.yearList.Close()
	s.pager.Reset()
	if s.filters.Year == year && s.filters.Month == "" {
		s.refreshLocked()
		return nil
	}
	s.filters.Year = year
	s.filters.Month = ""
	s.filterChangedLocked()
	return nil
}

// SetMonth picks a month of the year shown by the calendar. Picking the active
// month again clears it.
func (s *Session) SetMonth(month string) error {
	if !models.ValidMonth(month) {
		return fmt.Errorf("invalid month: %q", month)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setMonthLocked(month)
	return nil
}

// SelectDate shows year in the calendar and picks month in it, or the whole year
// when month is empty.
func (s *Session) SelectDate(year int, month string) error {
	if month == "" {
		return s.SetYear(year)
	}
	if year < 1 || year > 9999 {
		return fmt.Errorf("invalid year: %d", year)
	}
	if !models.ValidMonth(month) {
		return fmt.Errorf("invalid month: %q", month)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarYear = year
	s.setMonthLocked(month)
	return nil
}

func (s *Session) setMonthLocked(month string) {
	s.calendarMenu.Close()
	s.yearList.Close()
	s.pager.Reset()

	if s.filters.Year == s.calendarYear && s.filters.Month == month {
		s.filters.Month = ""
	} else {
		s.filters.Year = s.calendarYear
		s.filters.Month = month
	}
	s.filterChangedLocked()
}

// ClearDate removes the year and month filters.
func (s *Session) ClearDate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calendarYear = s.presenter.CurrentYear()
	s.pager.Reset()
	if !s.filters.HasYear() && !s.filters.HasMonth() {
		s.refreshLocked()
		return
	}
	s.filters.Year = 0
	s.filters.Month = ""
	s.filterChangedLocked()
}

// Next moves to the next page; a no-op on the last page.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := s.pager.Next(len(s.visible))
	if moved {
		s.publishBackgroundLocked()
	}
	return moved
}

// Prev moves to the previous page; a no-op on page 1.
func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	moved := s.pager.Prev()
	if moved {
		s.publishBackgroundLocked()
	}
	return moved
}

// ToggleMenu clicks the trigger of the named dropdown.
func (s *Session) ToggleMenu(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case MenuLanguage:
		s.languageMenu.Toggle()
	case MenuCalendar:
		if s.calendarMenu.Toggle() == Open {
			s.yearList.Close()
			s.calendarYear = s.filters.Year
			if s.calendarYear == 0 {
				s.calendarYear = s.presenter.CurrentYear()
			}
		}
	case MenuYears:
		if !s.calendarMenu.IsOpen() {
			return fmt.Errorf("%w: %s is only available with the calendar open", ErrUnknownMenu, name)
		}
		s.yearList.Toggle()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMenu, name)
	}
	return nil
}

// DismissMenus handles a click outside every dropdown.
func (s *Session) DismissMenus() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.languageMenu.Dismiss()
	s.calendarMenu.Dismiss()
	s.yearList.Dismiss()
}

// Filters returns the applied filter state.
func (s *Session) Filters() models.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// View renders the current page.
func (s *Session) View() models.BrowseView {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.pager.Page()
	return models.BrowseView{
		CycleID:       s.cycleID,
		Page:          page,
		PageSize:      PageSize,
		TotalPages:    TotalPages(len(s.visible)),
		TotalResults:  len(s.visible),
		Loading:       s.loading,
		Search:        s.rawSearch,
		Filters:       s.filters,
		LanguageLabel: s.presenter.LanguageLabel(s.filters.Language),
		CalendarLabel: CalendarLabel(s.filters.Year, s.filters.Month),
		Menus: models.MenuState{
			Language: s.languageMenu.IsOpen(),
			Calendar: s.calendarMenu.IsOpen(),
			YearList: s.yearList.IsOpen(),
		},
		CalendarYear: s.calendarYear,
		Data:         s.presenter.Cards(Slice(s.visible, page)),
	}
}

// Wait blocks until no debounced search is pending and no cycle is running.
// Other goroutines may keep changing filters meanwhile; Wait returns at the
// first moment both are idle.
func (s *Session) Wait() {
	for {
		s.debouncer.Wait()
		s.mu.Lock()
		s.waitCyclesLocked()
		s.mu.Unlock()
		if !s.debouncer.Pending() {
			return
		}
	}
}

// Close drops the pending search, cancels the running cycle and waits for it.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.waitCyclesLocked()
}

func (s *Session) waitCyclesLocked() {
	for s.running > 0 {
		s.idle.Wait()
	}
}

func (s *Session) cycleDoneLocked() {
	s.running--
	if s.running == 0 {
		s.idle.Broadcast()
	}
}

func (s *Session) filterChangedLocked() {
	s.refreshLocked()
	s.startCycleLocked()
}

// refreshLocked recomputes the visible set from the committed candidates.
func (s *Session) refreshLocked() {
	s.visible = discovery.Visible(s.candidates, s.filters)
	s.pager.Clamp(len(s.visible))
	s.publishBackgroundLocked()
}

func (s *Session) publishBackgroundLocked() {
	page := Slice(s.visible, s.pager.Page())
	if len(page) == 0 {
		s.backdrop.Set("")
		return
	}
	s.backdrop.Set(s.presenter.Background(page[0]))
}

func (s *Session) startCycleLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.cancel = cancel
	s.cycleID = uuid.NewString()
	s.loading = true

	s.running++
	go s.runCycle(ctx, s.generation, s.cycleID, s.filters)
}

func (s *Session) runCycle(ctx context.Context, generation uint64, cycleID string, filters models.FilterState) {
	started := time.Now()
	out, err := s.pipeline.Run(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.cycleDoneLocked()

	if generation != s.generation {
		metrics.CyclesTotal.WithLabelValues("stale").Inc()
		slog.Debug("discarding superseded cycle", "cycle_id", cycleID)
		return
	}

	switch {
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		metrics.CyclesTotal.WithLabelValues("cancelled").Inc()
		slog.Debug("cycle cancelled", "cycle_id", cycleID)
		s.loading = false
		return
	case err != nil:
		metrics.CyclesTotal.WithLabelValues("failed").Inc()
		slog.Error("query cycle failed", "cycle_id", cycleID, "error", err)
		s.candidates = nil
	default:
		metrics.CyclesTotal.WithLabelValues("committed").Inc()
		metrics.CandidatesPerCycle.Observe(float64(len(out.Candidates)))
		slog.Info("query cycle committed",
			"cycle_id", cycleID,
			"candidates", len(out.Candidates),
			"escalated", out.Escalated,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		s.candidates = out.Candidates
	}

	s.cancel()
	s.cancel = nil
	s.loading = false
	s.refreshLocked()
}
