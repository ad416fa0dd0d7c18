package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"movie-discovery-client/internal/models"
	"movie-discovery-client/internal/repository"
)

// AllGenres is the genre selection that disables the genre filter.
const AllGenres = "All Genres"

const (
	SortRating     = "rating"
	SortPopularity = "popularity"
	OrderAsc       = "asc"
	OrderDesc      = "desc"
)

var ErrUnknownSort = errors.New("unknown sort")

// WatchlistService builds the watchlist page and forwards mutations to the repository.
type WatchlistService struct {
	repo      *repository.WatchlistRepository
	directory *DirectoryService
	imageURL  func(path string) string
}

// NewWatchlistService creates a new WatchlistService.
func NewWatchlistService(repo *repository.WatchlistRepository, directory *DirectoryService, imageURL func(string) string) *WatchlistService {
	if imageURL == nil {
		imageURL = func(path string) string { return models.TMDBImageBaseOriginal + path }
	}
	return &WatchlistService{repo: repo, directory: directory, imageURL: imageURL}
}

// Add saves a movie; adding a saved id is a no-op.
func (s *WatchlistService) Add(ctx context.Context, m models.Movie) (bool, error) {
	if m.ID <= 0 {
		return false, fmt.Errorf("invalid movie id: %d", m.ID)
	}
	return s.repo.Add(ctx, m)
}

// Remove deletes a movie; it reports false when the id was not saved.
func (s *WatchlistService) Remove(ctx context.Context, id int) (bool, error) {
	return s.repo.Remove(ctx, id)
}

// Contains reports whether a movie is saved.
func (s *WatchlistService) Contains(id int) bool {
	return s.repo.Contains(id)
}

// View sorts the saved movies, then filters them by genre, language and title.
// A genre that no saved movie has falls back to AllGenres.
func (s *WatchlistService) View(params models.WatchlistParams) (*models.WatchlistView, error) {
	sortBy := strings.ToLower(strings.TrimSpace(params.SortBy))
	order := strings.ToLower(strings.TrimSpace(params.Order))
	if order == "" {
		order = OrderDesc
	}
	switch {
	case sortBy != "" && sortBy != SortRating && sortBy != SortPopularity:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSort, params.SortBy)
	case order != OrderAsc && order != OrderDesc:
		return nil, fmt.Errorf("%w: order %q", ErrUnknownSort, params.Order)
	}

	data := s.repo.All()
	genres := s.genreList(data)

	selected := params.Genre
	if selected == "" || !slices.Contains(genres, selected) {
		selected = AllGenres
	}

	if sortBy != "" {
		slices.SortStableFunc(data, func(a, b models.Movie) int {
			c := cmp.Compare(sortValue(a, sortBy), sortValue(b, sortBy))
			if order == OrderDesc {
				return -c
			}
			return c
		})
	}

	lang := strings.TrimSpace(params.Language)
	search := strings.ToLower(params.Search)

	items := make([]models.WatchlistItem, 0, len(data))
	for _, m := range data {
		names := s.genreNames(m)
		if selected != AllGenres && !slices.Contains(names, selected) {
			continue
		}
		if lang != "" && lang != models.LanguageAll && m.OriginalLanguage != lang {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Title), search) {
			continue
		}
		items = append(items, models.WatchlistItem{
			Movie:        m,
			PosterURL:    s.posterURL(m),
			GenreNames:   names,
			LanguageName: s.directory.LanguageName(m.OriginalLanguage),
		})
	}

	return &models.WatchlistView{
		Genres:        genres,
		SelectedGenre: selected,
		Total:         len(items),
		Data:          items,
	}, nil
}

// genreList is AllGenres followed by the distinct genre names of the saved movies
// in first-seen order.
func (s *WatchlistService) genreList(movies []models.Movie) []string {
	list := []string{AllGenres}
	for _, m := range movies {
		for _, name := range s.genreNames(m) {
			if !slices.Contains(list, name) {
				list = append(list, name)
			}
		}
	}
	return list
}

func (s *WatchlistService) genreNames(m models.Movie) []string {
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		if name, ok := s.directory.GenreName(id); ok {
			names = append(names, name)
		}
	}
	return names
}

func (s *WatchlistService) posterURL(m models.Movie) string {
	if m.PosterPath != "" {
		return s.imageURL(m.PosterPath)
	}
	if m.BackdropPath != "" {
		return s.imageURL(m.BackdropPath)
	}
	return models.PlaceholderImageURL
}

func sortValue(m models.Movie, field string) float64 {
	if field == SortRating {
		return m.VoteAverage
	}
	return m.Popularity
}
