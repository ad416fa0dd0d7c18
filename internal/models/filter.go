package models

import (
	"fmt"
	"strings"
)

// LanguageAll is the sentinel language code meaning "no language filter".
const LanguageAll = "all"

// FilterState is the user's current browse intent.
// Year is 0 when no year is selected; Month is "" when no month is selected.
type FilterState struct {
	SearchText string `json:"search_text"`
	Language   string `json:"language"`
	Year       int    `json:"year,omitempty"`
	Month      string `json:"month,omitempty"`
}

// DefaultFilterState returns the state with no search and no filters.
func DefaultFilterState() FilterState {
	return FilterState{Language: LanguageAll}
}

// HasSearch, HasLanguage, HasYear and HasMonth report which filters are set.
func (f FilterState) HasSearch() bool   { return f.SearchText != "" }
func (f FilterState) HasLanguage() bool { return f.Language != "" && f.Language != LanguageAll }
func (f FilterState) HasYear() bool     { return f.Year != 0 }
func (f FilterState) HasMonth() bool    { return f.Month != "" }

// HasAttributeFilters reports whether language, year or month narrow the results.
func (f FilterState) HasAttributeFilters() bool {
	return f.HasLanguage() || f.HasYear() || f.HasMonth()
}

// Normalize trims the search text and maps an empty language to LanguageAll.
func (f FilterState) Normalize() FilterState {
	f.SearchText = strings.TrimSpace(f.SearchText)
	f.Language = strings.TrimSpace(f.Language)
	if f.Language == "" {
		f.Language = LanguageAll
	}
	return f
}

// Validate checks the year and month values.
func (f FilterState) Validate() error {
	if f.Year < 0 || f.Year > 9999 {
		return fmt.Errorf("invalid year: %d", f.Year)
	}
	if f.Month != "" && !ValidMonth(f.Month) {
		return fmt.Errorf("invalid month: %q", f.Month)
	}
	return nil
}

// ValidMonth reports whether m is a two-digit month between 01 and 12.
func ValidMonth(m string) bool {
	for _, month := range Months {
		if month.Num == m {
			return true
		}
	}
	return false
}
