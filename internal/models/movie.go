package models

import "strings"

// Movie is a catalog item as returned by TMDB list endpoints.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	Popularity       float64 `json:"popularity"`
	VoteAverage      float64 `json:"vote_average"`
	GenreIDs         []int   `json:"genre_ids"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
}

// ReleaseParts splits release_date into its year and two-digit month.
// A year-only date yields an empty month. ok is false when the date is absent
// or does not start with a four-digit year.
func (m Movie) ReleaseParts() (year int, month string, ok bool) {
	if m.ReleaseDate == "" {
		return 0, "", false
	}
	parts := strings.SplitN(m.ReleaseDate, "-", 3)
	if len(parts[0]) != 4 {
		return 0, "", false
	}
	for _, c := range parts[0] {
		if c < '0' || c > '9' {
			return 0, "", false
		}
		year = year*10 + int(c-'0')
	}
	if len(parts) == 1 {
		return year, "", true
	}
	return year, parts[1], true
}

// ImagePath returns the backdrop path, falling back to the poster path.
func (m Movie) ImagePath() string {
	if m.BackdropPath != "" {
		return m.BackdropPath
	}
	return m.PosterPath
}

// MovieCard is a movie prepared for display in the browse grid.
type MovieCard struct {
	Movie
	ImageURL    string `json:"image_url"`
	InWatchlist bool   `json:"in_watchlist"`
}

// MovieDetail is the detailed movie info passed through from TMDB.
type MovieDetail struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	OriginalTitle string   `json:"original_title"`
	Overview      string   `json:"overview"`
	ReleaseDate   string   `json:"release_date"`
	Genres        []string `json:"genres"`
	Language      string   `json:"language"`
	Duration      int      `json:"duration"`
	Popularity    float64  `json:"popularity"`
	VoteAverage   float64  `json:"vote_average"`
	PosterURL     string   `json:"poster_url"`
	BackdropURL   string   `json:"backdrop_url"`
}

// BrowseView is the response shape for the browse page.
type BrowseView struct {
	CycleID       string      `json:"cycle_id,omitempty"`
	Page          int         `json:"page"`
	PageSize      int         `json:"page_size"`
	TotalPages    int         `json:"total_pages"`
	TotalResults  int         `json:"total_results"`
	Loading       bool        `json:"loading"`
	Search        string      `json:"search"`
	Filters       FilterState `json:"filters"`
	LanguageLabel string      `json:"language_label"`
	CalendarLabel string      `json:"calendar_label"`
	Menus         MenuState   `json:"menus"`
	CalendarYear  int         `json:"calendar_year"`
	Data          []MovieCard `json:"data"`
}

// MenuState reports which dropdowns of the browse page are open.
type MenuState struct {
	Language bool `json:"language"`
	Calendar bool `json:"calendar"`
	YearList bool `json:"year_list"`
}

const (
	TMDBImageBaseOriginal     = "https://image.tmdb.org/t/p/original"
	PlaceholderImageURL       = "https://via.placeholder.com/300x450?text=No+Image"
	BannerPlaceholderImageURL = "https://via.placeholder.com/1200x800?text=No+Image"
)
