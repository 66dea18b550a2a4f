package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joestump/newspie/internal/catalog"
	"github.com/joestump/newspie/internal/metrics"
	"github.com/joestump/newspie/internal/news"
)

// NewsPage is the template data for a category listing or search result page.
type NewsPage struct {
	BasePage
	Category   string // current category, or news.SearchCategory
	Query      string
	Page       int
	Pages      int // page links shown, capped at news.MaxDisplayPages
	FormAction string
	Articles   []news.DisplayArticle
	Skipped    int
	PageLinks  []PageLink
	Categories []CategoryLink
	Countries  []CountryOption
	Country    string
	HasPrev    bool
	HasNext    bool
}

// PageLink is one numbered pagination link.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// CategoryLink is one entry of the category navigation.
type CategoryLink struct {
	Name   string
	URL    string
	Active bool
}

// CountryOption is one entry of the country selector.
type CountryOption struct {
	Code     string
	Name     string
	Selected bool
}

// upstreamAuthPage is the diagnostic page shown when the API key is rejected.
type upstreamAuthPage struct {
	BasePage
	Reference string
}

// NewsHandler serves category listings and searches.
type NewsHandler struct {
	pipeline *news.Pipeline
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(p *news.Pipeline, cat *catalog.Catalog, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{pipeline: p, catalog: cat, logger: logger}
}

// Home redirects to the first page of the default category. It serves GET
// and POST on / and every unmatched route.
func (h *NewsHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, news.CategoryState(h.catalog.DefaultCategory(), 1).URL(), http.StatusFound)
}

// Category handles GET and POST /category/{category}?page=N.
func (h *NewsHandler) Category(w http.ResponseWriter, r *http.Request) {
	state := news.CategoryState(pathParam(r, "category"), news.ParsePage(r.URL.Query().Get("page")))
	h.serve(w, r, "category", state)
}

// Search handles GET and POST /search/{query}?page=N.
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	state := news.SearchState(pathParam(r, "query"), news.ParsePage(r.URL.Query().Get("page")))
	h.serve(w, r, "search", state)
}

func (h *NewsHandler) serve(w http.ResponseWriter, r *http.Request, route string, state news.NavigationState) {
	req := news.Request{State: state, Country: countryFromRequest(r, h.catalog)}

	var out news.Outcome
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		out = h.pipeline.Submit(req, news.FormFromValues(r.PostForm))
	} else {
		out = h.pipeline.Resolve(r.Context(), req)
	}
	metrics.PageOutcomesTotal.WithLabelValues(route, out.Kind.String()).Inc()

	switch out.Kind {
	case news.OutcomeRender:
		if out.View.Skipped > 0 {
			metrics.ArticlesSkippedTotal.Add(float64(out.View.Skipped))
		}
		render(w, http.StatusOK, "news.html", h.newsPage(out.View))

	case news.OutcomeAuthError:
		ref := uuid.NewString()
		h.logger.ErrorContext(r.Context(), "upstream rejected API key",
			slog.String("reference", ref),
			slog.Any("error", out.Err),
		)
		render(w, http.StatusBadGateway, "upstream_auth.html", upstreamAuthPage{
			BasePage:  newBasePage("Upstream authorization failed"),
			Reference: ref,
		})

	case news.OutcomeRedirectFallback:
		h.logger.WarnContext(r.Context(), "falling back to default category",
			slog.String("path", r.URL.Path),
			slog.Any("error", out.Err),
		)
		http.Redirect(w, r, out.Location(), http.StatusFound)

	default:
		if out.Country != nil {
			setCountryCookie(w, *out.Country)
		}
		http.Redirect(w, r, out.Location(), http.StatusFound)
	}
}

func (h *NewsHandler) newsPage(v *news.View) NewsPage {
	title := v.State.Category
	if v.State.IsSearch() {
		title = v.State.Query
	}
	p := NewsPage{
		BasePage:   newBasePage(title),
		Category:   v.State.Category,
		Query:      v.State.Query,
		Page:       v.State.Page,
		Pages:      v.Pages,
		FormAction: v.State.URL(),
		Articles:   v.Articles,
		Skipped:    v.Skipped,
		Country:    string(v.Country),
		HasPrev:    v.State.Page > 1,
		HasNext:    v.State.Page < v.Pages,
	}
	for n := 1; n <= v.Pages; n++ {
		p.PageLinks = append(p.PageLinks, PageLink{
			Number:  n,
			URL:     v.State.WithPage(n).URL(),
			Current: n == v.State.Page,
		})
	}
	for _, name := range h.catalog.Categories() {
		p.Categories = append(p.Categories, CategoryLink{
			Name:   name,
			URL:    news.CategoryState(name, 1).URL(),
			Active: name == v.State.Category,
		})
	}
	for _, c := range h.catalog.Countries() {
		p.Countries = append(p.Countries, CountryOption{
			Code:     c.Code,
			Name:     c.Name,
			Selected: c.Code == string(v.Country),
		})
	}
	return p
}

// pathParam returns the unescaped value of a chi URL parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
