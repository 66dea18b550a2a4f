package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpstream records queries and replays a canned result.
type fakeUpstream struct {
	result  *Result
	err     error
	queries []Query
}

func (f *fakeUpstream) Fetch(_ context.Context, q Query) (*Result, error) {
	f.queries = append(f.queries, q)
	return f.result, f.err
}

func okResult(total int, articles ...RawArticle) *Result {
	return &Result{Status: StatusOK, TotalResults: total, Articles: articles}
}

func newTestPipeline(t *testing.T, up Upstream) *Pipeline {
	t.Helper()
	return NewPipeline(up, testCatalog(t), 10, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPipeline_Resolve_RendersEmptyResult(t *testing.T) {
	up := &fakeUpstream{result: okResult(0)}
	out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: CategoryState("technology", 1)})

	require.Equal(t, OutcomeRender, out.Kind)
	require.NotNil(t, out.View)
	assert.Equal(t, 0, out.View.TotalPages)
	assert.Equal(t, 0, out.View.Pages)
	assert.Empty(t, out.View.Articles)
	assert.Len(t, up.queries, 1)
}

func TestPipeline_Resolve_RedirectsAboveLastPage(t *testing.T) {
	up := &fakeUpstream{result: okResult(15)}
	out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: CategoryState("technology", 5)})

	assert.Equal(t, OutcomeRedirectBounds, out.Kind)
	assert.Equal(t, "/category/technology?page=2", out.Location())
	assert.Nil(t, out.View)
}

func TestPipeline_Resolve_PageBelowOneSkipsUpstream(t *testing.T) {
	for _, state := range []NavigationState{CategoryState("technology", 0), SearchState("go", -2)} {
		up := &fakeUpstream{result: okResult(100)}
		out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: state})

		assert.Equal(t, OutcomeRedirectBounds, out.Kind)
		assert.Equal(t, state.WithPage(1).URL(), out.Location())
		assert.Empty(t, up.queries, "no upstream call for page < 1")
	}
}

func TestPipeline_Resolve_UnknownCategory(t *testing.T) {
	up := &fakeUpstream{result: okResult(100)}
	out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: CategoryState("gossip", 3)})

	assert.Equal(t, OutcomeRedirectFallback, out.Kind)
	assert.Equal(t, "/category/general?page=1", out.Location())
	assert.ErrorIs(t, out.Err, ErrUnknownCategory)
	assert.Empty(t, up.queries)
}

func TestPipeline_Resolve_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		up       *fakeUpstream
		wantKind OutcomeKind
		wantErr  error
	}{
		{
			name:     "auth failure",
			up:       &fakeUpstream{err: fmt.Errorf("%w: 401", ErrUpstreamAuth)},
			wantKind: OutcomeAuthError,
			wantErr:  ErrUpstreamAuth,
		},
		{
			name:     "unavailable",
			up:       &fakeUpstream{err: fmt.Errorf("%w: 500", ErrUpstreamUnavailable)},
			wantKind: OutcomeRedirectFallback,
			wantErr:  ErrUpstreamUnavailable,
		},
		{
			name:     "unclassified error",
			up:       &fakeUpstream{err: errors.New("boom")},
			wantKind: OutcomeRedirectFallback,
		},
		{
			name:     "non-ok body status",
			up:       &fakeUpstream{result: &Result{Status: "error", Code: "rateLimited"}},
			wantKind: OutcomeRedirectFallback,
			wantErr:  ErrUpstreamUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := newTestPipeline(t, tt.up).Resolve(context.Background(), Request{State: CategoryState("science", 2)})
			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Nil(t, out.View)
			require.Error(t, out.Err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, out.Err, tt.wantErr)
			}
			if tt.wantKind == OutcomeRedirectFallback {
				assert.Equal(t, "/category/general?page=1", out.Location())
			}
		})
	}
}

func TestPipeline_Resolve_CountryOnlyForCategories(t *testing.T) {
	up := &fakeUpstream{result: okResult(1, raw("2020-03-01T10:15:00Z"))}
	p := newTestPipeline(t, up)

	p.Resolve(context.Background(), Request{State: CategoryState("business", 1), Country: "gb"})
	p.Resolve(context.Background(), Request{State: SearchState("rates", 1), Country: "gb"})

	require.Len(t, up.queries, 2)
	assert.Equal(t, "gb", up.queries[0].Params.Get("country"))
	assert.Equal(t, url.Values{
		"qInTitle": {"rates"},
		"sortBy":   {"relevancy"},
		"page":     {"1"},
		"pageSize": {"10"},
	}, up.queries[1].Params)
}

func TestPipeline_Resolve_SkipsMalformedArticles(t *testing.T) {
	up := &fakeUpstream{result: okResult(3,
		raw("2020-03-01T10:15:00Z"),
		raw("not a date"),
		raw("2020-03-02T11:00:00+01:00"),
	)}
	out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: SearchState("x", 1)})

	require.Equal(t, OutcomeRender, out.Kind)
	assert.Equal(t, 1, out.View.Skipped)
	require.Len(t, out.View.Articles, 2)
	assert.Equal(t, "01-03 10:15", out.View.Articles[0].PublishedAt)
	assert.Equal(t, "02-03 11:00", out.View.Articles[1].PublishedAt)
}

func TestPipeline_Resolve_DisplayCapDoesNotAffectBounds(t *testing.T) {
	up := &fakeUpstream{result: okResult(500)}
	out := newTestPipeline(t, up).Resolve(context.Background(), Request{State: CategoryState("general", 30)})

	require.Equal(t, OutcomeRender, out.Kind, "page 30 of 50 is in bounds even though only 12 are shown")
	assert.Equal(t, 50, out.View.TotalPages)
	assert.Equal(t, 12, out.View.Pages)

	out = newTestPipeline(t, up).Resolve(context.Background(), Request{State: CategoryState("general", 60)})
	assert.Equal(t, OutcomeRedirectBounds, out.Kind)
	assert.Equal(t, "/category/general?page=50", out.Location())
}

func TestPipeline_Submit(t *testing.T) {
	up := &fakeUpstream{}
	p := newTestPipeline(t, up)

	out := p.Submit(Request{State: CategoryState("sports", 2)}, Form{SearchQuery: "climate", NextPage: "3"})
	assert.Equal(t, OutcomeRedirectAction, out.Kind)
	assert.Equal(t, ActionSearch, out.Action)
	assert.Equal(t, "/search/climate?page=1", out.Location())

	out = p.Submit(Request{State: CategoryState("sports", 2), Country: "us"}, Form{Country: "it", HasCountry: true})
	assert.Equal(t, ActionCountry, out.Action)
	require.NotNil(t, out.Country)
	assert.Equal(t, Country("it"), *out.Country)

	out = p.Submit(Request{State: CategoryState("sports", 0)}, Form{NextPage: "3"})
	assert.Equal(t, OutcomeRedirectBounds, out.Kind)
	assert.Equal(t, "/category/sports?page=1", out.Location())

	out = p.Submit(Request{State: CategoryState("gossip", 1)}, Form{NextPage: "3"})
	assert.Equal(t, OutcomeRedirectFallback, out.Kind)

	assert.Empty(t, up.queries, "form submissions never call upstream")
}

func TestPipeline_PreviousToZeroChain(t *testing.T) {
	up := &fakeUpstream{result: okResult(40)}
	p := newTestPipeline(t, up)

	out := p.Submit(Request{State: CategoryState("technology", 1)}, Form{PreviousPage: "1"})
	require.Equal(t, "/category/technology?page=0", out.Location())

	out = p.Resolve(context.Background(), Request{State: out.Target})
	assert.Equal(t, OutcomeRedirectBounds, out.Kind)
	assert.Equal(t, "/category/technology?page=1", out.Location())

	out = p.Resolve(context.Background(), Request{State: out.Target})
	assert.Equal(t, OutcomeRender, out.Kind)
}
