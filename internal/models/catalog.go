package models

// Genre is a TMDB movie genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language is a TMDB language entry.
type Language struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name,omitempty"`
}

// Month is a calendar month as shown in the release-month picker.
type Month struct {
	Num   string `json:"num"`
	Short string `json:"short"`
}

// CalendarView lists the selectable years and months.
type CalendarView struct {
	Years  []int   `json:"years"`
	Months []Month `json:"months"`
}

var Months = []Month{
	{Num: "01", Short: "Jan"},
	{Num: "02", Short: "Feb"},
	{Num: "03", Short: "Mar"},
	{Num: "04", Short: "Apr"},
	{Num: "05", Short: "May"},
	{Num: "06", Short: "Jun"},
	{Num: "07", Short: "Jul"},
	{Num: "08", Short: "Aug"},
	{Num: "09", Short: "Sep"},
	{Num: "10", Short: "Oct"},
	{Num: "11", Short: "Nov"},
	{Num: "12", Short: "Dec"},
}

// DefaultGenres is the TMDB movie genre table used until the live list is fetched.
var DefaultGenres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama"},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 10770, Name: "TV Movie"},
	{ID: 53, Name: "Thriller"},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

// WatchlistParams holds query parameters for the watchlist view.
type WatchlistParams struct {
	Search   string `query:"search"`
	Genre    string `query:"genre"`
	Language string `query:"language"`
	SortBy   string `query:"sort"`
	Order    string `query:"order"`
}

// WatchlistItem is a saved movie prepared for the watchlist table.
type WatchlistItem struct {
	Movie
	PosterURL    string   `json:"poster_url"`
	GenreNames   []string `json:"genre_names"`
	LanguageName string   `json:"language_name"`
}

// WatchlistView is the response shape for the watchlist page.
type WatchlistView struct {
	Genres        []string        `json:"genres"`
	SelectedGenre string          `json:"selected_genre"`
	Total         int             `json:"total"`
	Data          []WatchlistItem `json:"data"`
}

// BannerSlide is one movie of the home-page carousel.
type BannerSlide struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// BannerView is the carousel state.
type BannerView struct {
	Month  string        `json:"month"`
	Active int           `json:"active"`
	Paused bool          `json:"paused"`
	Slides []BannerSlide `json:"slides"`
}
