package news

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/joestump/newspie/internal/catalog"
)

// Form field names submitted by the navigation UI.
const (
	FieldSearchQuery  = "search_query"
	FieldCountry      = "country"
	FieldNextPage     = "next_page"
	FieldPreviousPage = "previous_page"
)

// Form is one submitted navigation form. Country distinguishes an absent
// field from an empty one: an empty submitted value clears the preference.
type Form struct {
	SearchQuery  string
	Country      string
	HasCountry   bool
	NextPage     string
	PreviousPage string
}

// FormFromValues extracts the navigation fields from a parsed POST body.
func FormFromValues(v url.Values) Form {
	f := Form{
		SearchQuery:  v.Get(FieldSearchQuery),
		NextPage:     v.Get(FieldNextPage),
		PreviousPage: v.Get(FieldPreviousPage),
	}
	if vals, ok := v[FieldCountry]; ok && len(vals) > 0 {
		f.Country = vals[0]
		f.HasCountry = true
	}
	return f
}

// ActionKind identifies which form action was applied.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSearch
	ActionCountry
	ActionNext
	ActionPrevious
)

func (k ActionKind) String() string {
	switch k {
	case ActionSearch:
		return "search"
	case ActionCountry:
		return "country"
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	default:
		return "none"
	}
}

// Action is the navigation decided for a form submission.
type Action struct {
	Kind   ActionKind
	Target NavigationState
	// Country is the preference to persist; non-nil only for ActionCountry.
	Country *Country
}

// ActionResolver interprets submitted forms. It never calls upstream.
type ActionResolver struct {
	catalog *catalog.Catalog
}

// NewActionResolver returns a resolver validating countries against cat.
func NewActionResolver(cat *catalog.Catalog) ActionResolver {
	return ActionResolver{catalog: cat}
}

// Resolve applies the first matching rule: new search, country change,
// next page, previous page. With no recognized action the target is current.
// Previous-page targets are not clamped; the destination route redirects
// pages below 1.
func (r ActionResolver) Resolve(current NavigationState, pref Country, f Form) Action {
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		return Action{Kind: ActionSearch, Target: SearchState(q, 1)}
	}

	if f.HasCountry && Country(f.Country) != pref && r.acceptCountry(f.Country) {
		c := Country(f.Country)
		target := CategoryState(current.Category, 1)
		if current.IsSearch() {
			target = CategoryState(r.catalog.DefaultCategory(), 1)
		}
		return Action{Kind: ActionCountry, Target: target, Country: &c}
	}

	if n, ok := marker(f.NextPage); ok {
		return Action{Kind: ActionNext, Target: current.WithPage(n + 1)}
	}
	if n, ok := marker(f.PreviousPage); ok {
		return Action{Kind: ActionPrevious, Target: current.WithPage(n - 1)}
	}

	return Action{Kind: ActionNone, Target: current}
}

// acceptCountry allows clearing the preference or any catalog country.
func (r ActionResolver) acceptCountry(code string) bool {
	return code == "" || r.catalog.HasCountry(code)
}

func marker(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
