package tmdb

import (
	"fmt"
	"net/url"

	"movie-discovery-client/internal/models"
)

// Mode selects the TMDB list endpoint a query is sent to.
type Mode string

const (
	ModePopular  Mode = "popular"
	ModeDiscover Mode = "discover"
	ModeSearch   Mode = "search"
)

// Query describes one remote catalog request, independent of the page number.
// Language and the release bounds only apply to ModeDiscover, Text only to ModeSearch.
type Query struct {
	Mode        Mode
	Text        string
	Language    string
	ReleaseFrom string
	ReleaseTo   string
}

// PopularQuery returns the popular listing query.
func PopularQuery() Query {
	return Query{Mode: ModePopular}
}

// SearchQuery returns a full-text title search for text.
func SearchQuery(text string) Query {
	return Query{Mode: ModeSearch, Text: text}
}

// DiscoverQuery returns a discovery query for language, narrowed to the selected
// year (and month, when both are set). A month without a year adds no date range.
func DiscoverQuery(language string, year int, month string) Query {
	q := Query{Mode: ModeDiscover, Language: language}
	if year == 0 {
		return q
	}
	if month != "" && models.ValidMonth(month) {
		// TMDB accepts day 31 for every month and clamps it.
		q.ReleaseFrom = fmt.Sprintf("%04d-%s-01", year, month)
		q.ReleaseTo = fmt.Sprintf("%04d-%s-31", year, month)
		return q
	}
	q.ReleaseFrom = fmt.Sprintf("%04d-01-01", year)
	q.ReleaseTo = fmt.Sprintf("%04d-12-31", year)
	return q
}

func (q Query) path() string {
	switch q.Mode {
	case ModeDiscover:
		return "/discover/movie"
	case ModeSearch:
		return "/search/movie"
	default:
		return "/movie/popular"
	}
}

func (q Query) values() url.Values {
	params := url.Values{}
	params.Set("include_adult", "false")

	switch q.Mode {
	case ModeDiscover:
		params.Set("sort_by", "popularity.desc")
		if q.Language != "" {
			params.Set("with_original_language", q.Language)
		}
		if q.ReleaseFrom != "" {
			params.Set("primary_release_date.gte", q.ReleaseFrom)
		}
		if q.ReleaseTo != "" {
			params.Set("primary_release_date.lte", q.ReleaseTo)
		}
	case ModeSearch:
		params.Set("query", q.Text)
	}
	return params
}
