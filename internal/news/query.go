package news

import (
	"net/url"
	"strconv"
)

// Endpoint names an upstream search endpoint.
type Endpoint string

const (
	// TopHeadlines lists current headlines for a category.
	TopHeadlines Endpoint = "top-headlines"
	// Everything searches the full article index.
	Everything Endpoint = "everything"
)

// Query is a fully assembled upstream request.
type Query struct {
	Endpoint Endpoint
	Params   url.Values
}

// QueryBuilder assembles upstream parameters for a fixed page size.
type QueryBuilder struct {
	pageSize int
}

// NewQueryBuilder returns a builder requesting pageSize articles per page.
func NewQueryBuilder(pageSize int) QueryBuilder {
	return QueryBuilder{pageSize: pageSize}
}

// PageSize returns the configured number of articles per page.
func (b QueryBuilder) PageSize() int { return b.pageSize }

// Category builds a top-headlines query. country is only sent when set.
func (b QueryBuilder) Category(category string, page int, country Country) Query {
	p := url.Values{}
	p.Set("page", strconv.Itoa(page))
	p.Set("category", category)
	p.Set("pageSize", strconv.Itoa(b.pageSize))
	if country != "" {
		p.Set("country", string(country))
	}
	return Query{Endpoint: TopHeadlines, Params: p}
}

// Search builds an everything query matching text in titles, most relevant
// first. Country filtering never applies to search.
func (b QueryBuilder) Search(text string, page int) Query {
	p := url.Values{}
	p.Set("qInTitle", text)
	p.Set("sortBy", "relevancy")
	p.Set("page", strconv.Itoa(page))
	p.Set("pageSize", strconv.Itoa(b.pageSize))
	return Query{Endpoint: Everything, Params: p}
}

// For builds the query for state, applying country to category listings only.
func (b QueryBuilder) For(state NavigationState, country Country) Query {
	if state.IsSearch() {
		return b.Search(state.Query, state.Page)
	}
	return b.Category(state.Category, state.Page, country)
}
