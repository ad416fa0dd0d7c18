package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"movie-discovery-client/internal/models"
)

// CalendarYears is the number of years offered by the release-month picker.
const CalendarYears = 30

// defaultLanguageCodes seeds the language list before the TMDB list is fetched.
var defaultLanguageCodes = []string{
	"en", "te", "hi", "ta", "ml", "kn", "bn", "mr", "ja", "ko", "zh", "fr",
	"es", "de", "it", "pt", "ru", "tr", "ar", "th", "id", "sv", "da", "no",
}

// DirectoryCatalog is the part of the TMDB client the directory needs.
type DirectoryCatalog interface {
	Genres(ctx context.Context) ([]models.Genre, error)
	Languages(ctx context.Context) ([]models.Language, error)
}

// DirectoryService serves genre names, languages and the calendar.
type DirectoryService struct {
	catalog DirectoryCatalog
	now     func() time.Time

	mu        sync.RWMutex
	genres    []models.Genre
	genreName map[int]string
	languages []models.Language
}

// NewDirectoryService creates a directory seeded with the built-in genre table and
// a default language list.
func NewDirectoryService(catalog DirectoryCatalog) *DirectoryService {
	s := &DirectoryService{catalog: catalog, now: time.Now}
	s.setGenres(models.DefaultGenres)
	s.setLanguages(defaultLanguages())
	return s
}

// Refresh replaces the built-in tables with the live TMDB lists. Failures keep the
// current tables.
func (s *DirectoryService) Refresh(ctx context.Context) error {
	if s.catalog == nil {
		return nil
	}

	genres, err := s.catalog.Genres(ctx)
	if err != nil {
		slog.Warn("failed to refresh genres, keeping built-in table", "error", err)
		return err
	}
	if len(genres) > 0 {
		s.setGenres(genres)
	}

	langs, err := s.catalog.Languages(ctx)
	if err != nil {
		slog.Warn("failed to refresh languages, keeping default list", "error", err)
		return err
	}
	if len(langs) > 0 {
		s.setLanguages(langs)
	}

	slog.Info("directory refreshed", "genres", len(genres), "languages", len(langs))
	return nil
}

// Genres returns the genre table.
func (s *DirectoryService) Genres() []models.Genre {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Genre(nil), s.genres...)
}

// GenreName returns the name of a TMDB genre id.
func (s *DirectoryService) GenreName(id int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.genreName[id]
	return name, ok
}

// Languages returns the languages whose English name contains search, ignoring case.
func (s *DirectoryService) Languages(search string) []models.Language {
	needle := strings.ToLower(search)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Language, 0, len(s.languages))
	for _, l := range s.languages {
		if strings.Contains(strings.ToLower(l.EnglishName), needle) {
			out = append(out, l)
		}
	}
	return out
}

// LanguageName returns the English name of code, or the upper-cased code when unknown.
func (s *DirectoryService) LanguageName(code string) string {
	s.mu.RLock()
	for _, l := range s.languages {
		if l.Code == code {
			s.mu.RUnlock()
			return l.EnglishName
		}
	}
	s.mu.RUnlock()

	if tag, err := language.Parse(code); err == nil {
		if name := display.English.Languages().Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// Calendar lists the selectable years, newest first, and the twelve months.
func (s *DirectoryService) Calendar() models.CalendarView {
	current := s.now().Year()
	years := make([]int, CalendarYears)
	for i := range years {
		years[i] = current - i
	}
	return models.CalendarView{Years: years, Months: models.Months}
}

func (s *DirectoryService) setGenres(genres []models.Genre) {
	names := make(map[int]string, len(genres))
	for _, g := range genres {
		names[g.ID] = g.Name
	}
	s.mu.Lock()
	s.genres = append([]models.Genre(nil), genres...)
	s.genreName = names
	s.mu.Unlock()
}

func (s *DirectoryService) setLanguages(langs []models.Language) {
	sorted := append([]models.Language(nil), langs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EnglishName < sorted[j].EnglishName
	})
	s.mu.Lock()
	s.languages = sorted
	s.mu.Unlock()
}

func defaultLanguages() []models.Language {
	namer := display.English.Languages()
	out := make([]models.Language, 0, len(defaultLanguageCodes))
	for _, code := range defaultLanguageCodes {
		tag := language.MustParse(code)
		out = append(out, models.Language{
			Code:        code,
			EnglishName: namer.Name(tag),
			Name:        display.Self.Name(tag),
		})
	}
	return out
}
