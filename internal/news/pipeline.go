package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joestump/newspie/internal/catalog"
)

// Upstream issues one query against the headline API. Implementations wrap
// failures with ErrUpstreamAuth or ErrUpstreamUnavailable.
type Upstream interface {
	Fetch(ctx context.Context, q Query) (*Result, error)
}

// OutcomeKind is the terminal state reached for a request.
type OutcomeKind int

const (
	// OutcomeRender carries a View to render.
	OutcomeRender OutcomeKind = iota
	// OutcomeRedirectBounds corrects an out-of-range page on the same route.
	OutcomeRedirectBounds
	// OutcomeAuthError means the upstream rejected the credential; show a diagnostic page.
	OutcomeAuthError
	// OutcomeRedirectFallback sends the client to the default category, page 1.
	OutcomeRedirectFallback
	// OutcomeRedirectAction navigates to the target of a submitted form.
	OutcomeRedirectAction
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRender:
		return "render"
	case OutcomeRedirectBounds:
		return "redirect_bounds"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeRedirectFallback:
		return "redirect_fallback"
	case OutcomeRedirectAction:
		return "redirect_action"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Request is one inbound navigation: the route state plus the client's
// country preference.
type Request struct {
	State   NavigationState
	Country Country
}

// View is the data needed to render one page of headlines.
type View struct {
	State      NavigationState
	Country    Country
	Articles   []DisplayArticle
	TotalPages int
	// Pages is TotalPages capped at MaxDisplayPages.
	Pages int
	// Skipped counts articles dropped for malformed timestamps.
	Skipped int
}

// Outcome is the result of resolving a request. View is set only for
// OutcomeRender; Target holds the redirect destination otherwise.
type Outcome struct {
	Kind   OutcomeKind
	View   *View
	Target NavigationState
	// Country is a preference change to persist; set only by country actions.
	Country *Country
	// Action is the form action applied for OutcomeRedirectAction.
	Action ActionKind
	// Err records why an error or fallback outcome was chosen.
	Err error
}

// Location is the redirect URL for redirect outcomes.
func (o Outcome) Location() string { return o.Target.URL() }

// Pipeline turns requests into outcomes with at most one upstream call.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	upstream Upstream
	queries  QueryBuilder
	actions  ActionResolver
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// NewPipeline wires a pipeline over up using the recognized categories and
// countries in cat and pageSize articles per upstream page.
func NewPipeline(up Upstream, cat *catalog.Catalog, pageSize int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		upstream: up,
		queries:  NewQueryBuilder(pageSize),
		actions:  NewActionResolver(cat),
		catalog:  cat,
		logger:   logger,
	}
}

// Resolve handles a GET: validate the page, query upstream, then render or
// redirect.
func (p *Pipeline) Resolve(ctx context.Context, req Request) Outcome {
	if out, done := p.validate(req.State); done {
		return out
	}

	country := req.Country
	if req.State.IsSearch() {
		country = ""
	}
	res, err := p.upstream.Fetch(ctx, p.queries.For(req.State, country))
	switch {
	case errors.Is(err, ErrUpstreamAuth):
		return Outcome{Kind: OutcomeAuthError, Err: err}
	case err != nil:
		return p.fallback(err)
	case !res.OK():
		return p.fallback(fmt.Errorf("%w: status %q code %q: %s", ErrUpstreamUnavailable, res.Status, res.Code, res.Message))
	}

	total := CountPages(res.TotalResults, p.queries.PageSize())
	if page := Clamp(req.State.Page, total); page != req.State.Page {
		return Outcome{Kind: OutcomeRedirectBounds, Target: req.State.WithPage(page)}
	}

	articles, skipped := p.normalizeAll(ctx, res.Articles)
	return Outcome{
		Kind: OutcomeRender,
		View: &View{
			State:      req.State,
			Country:    req.Country,
			Articles:   articles,
			TotalPages: total,
			Pages:      DisplayPages(total),
			Skipped:    skipped,
		},
	}
}

// Submit handles a POST: validate the route, then resolve the form action
// into a redirect. It never calls upstream.
func (p *Pipeline) Submit(req Request, f Form) Outcome {
	if out, done := p.validate(req.State); done {
		return out
	}
	a := p.actions.Resolve(req.State, req.Country, f)
	return Outcome{
		Kind:    OutcomeRedirectAction,
		Target:  a.Target,
		Country: a.Country,
		Action:  a.Kind,
	}
}

// validate applies the checks shared by GET and POST. done is true when the
// returned outcome is terminal.
func (p *Pipeline) validate(s NavigationState) (out Outcome, done bool) {
	if s.Page < 1 {
		return Outcome{Kind: OutcomeRedirectBounds, Target: s.WithPage(1)}, true
	}
	if !s.IsSearch() && !p.catalog.HasCategory(s.Category) {
		return p.fallback(fmt.Errorf("%w: %q", ErrUnknownCategory, s.Category)), true
	}
	return Outcome{}, false
}

func (p *Pipeline) fallback(cause error) Outcome {
	return Outcome{
		Kind:   OutcomeRedirectFallback,
		Target: CategoryState(p.catalog.DefaultCategory(), 1),
		Err:    cause,
	}
}

// normalizeAll converts articles, dropping any whose timestamp does not parse.
func (p *Pipeline) normalizeAll(ctx context.Context, raw []RawArticle) ([]DisplayArticle, int) {
	out := make([]DisplayArticle, 0, len(raw))
	skipped := 0
	for _, a := range raw {
		d, err := Normalize(a)
		if err != nil {
			skipped++
			p.logger.WarnContext(ctx, "skipping malformed article",
				slog.String("url", a.URL),
				slog.Any("error", err),
			)
			continue
		}
		out = append(out, d)
	}
	return out, skipped
}
