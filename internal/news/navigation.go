// Package news resolves a browsing request into either a rendered page of
// headlines or a redirect. It owns page math, upstream query assembly,
// form-action interpretation and article normalization; transport, caching
// and rendering live elsewhere.
package news

import (
	"net/url"
	"strconv"
)

// SearchCategory is the sentinel category of a free-text search.
const SearchCategory = "search"

// Country is a two-letter country preference. The zero value means no preference.
type Country string

// NavigationState identifies one page of a category listing or a search.
// Query is set iff Category == SearchCategory.
type NavigationState struct {
	Category string
	Query    string
	Page     int
}

// CategoryState returns the state for page of a category listing.
func CategoryState(category string, page int) NavigationState {
	return NavigationState{Category: category, Page: page}
}

// SearchState returns the state for page of a free-text search.
func SearchState(query string, page int) NavigationState {
	return NavigationState{Category: SearchCategory, Query: query, Page: page}
}

// IsSearch reports whether s is a free-text search.
func (s NavigationState) IsSearch() bool { return s.Category == SearchCategory }

// WithPage returns a copy of s pointing at page.
func (s NavigationState) WithPage(page int) NavigationState {
	s.Page = page
	return s
}

// URL returns the site-relative path of s, e.g. /category/sports?page=2.
func (s NavigationState) URL() string {
	q := url.Values{"page": {strconv.Itoa(s.Page)}}.Encode()
	if s.IsSearch() {
		return "/search/" + url.PathEscape(s.Query) + "?" + q
	}
	return "/category/" + url.PathEscape(s.Category) + "?" + q
}

// ParsePage interprets the raw page query parameter. Missing or non-integer
// values mean page 1; out-of-range integers are returned as-is for the
// pipeline to correct.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}
