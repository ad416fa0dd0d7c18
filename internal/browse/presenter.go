package browse

import (
	"fmt"
	"strings"
	"time"

	"movie-discovery-client/internal/models"
)

// WatchlistChecker reports whether a movie is saved.
type WatchlistChecker interface {
	Contains(id int) bool
}

// Presenter turns movies into cards and filter values into labels.
// Nil fields fall back to TMDB original-size images, upper-cased language codes
// and the system clock.
type Presenter struct {
	ImageURL     func(path string) string
	Watchlist    WatchlistChecker
	LanguageName func(code string) string
	Now          func() time.Time
}

// Cards prepares items for the browse grid.
func (p Presenter) Cards(items []models.Movie) []models.MovieCard {
	cards := make([]models.MovieCard, 0, len(items))
	for _, m := range items {
		card := models.MovieCard{Movie: m, ImageURL: p.CardImage(m)}
		if p.Watchlist != nil {
			card.InWatchlist = p.Watchlist.Contains(m.ID)
		}
		cards = append(cards, card)
	}
	return cards
}

// CardImage returns the backdrop, else the poster, else the placeholder image.
func (p Presenter) CardImage(m models.Movie) string {
	if url := p.Background(m); url != "" {
		return url
	}
	return models.PlaceholderImageURL
}

// Background returns the image shown behind the page for m, or "" for none.
func (p Presenter) Background(m models.Movie) string {
	path := m.ImagePath()
	if path == "" {
		return ""
	}
	if p.ImageURL != nil {
		return p.ImageURL(path)
	}
	return models.TMDBImageBaseOriginal + path
}

// LanguageLabel is the text of the language dropdown trigger.
func (p Presenter) LanguageLabel(code string) string {
	if code == "" || code == models.LanguageAll {
		return "Language filter"
	}
	if p.LanguageName != nil {
		if name := p.LanguageName(code); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}

// CurrentYear is the first year offered by the calendar.
func (p Presenter) CurrentYear() int {
	if p.Now != nil {
		return p.Now().Year()
	}
	return time.Now().Year()
}

// CalendarLabel is the text of the release-month dropdown trigger.
func CalendarLabel(year int, month string) string {
	if year == 0 {
		return "Release Month"
	}
	if month == "" {
		return fmt.Sprintf("%d", year)
	}
	short := ""
	for _, m := range models.Months {
		if m.Num == month {
			short = m.Short
			break
		}
	}
	return fmt.Sprintf("%d - %s", year, short)
}
