package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/newspie/internal/catalog"
	"github.com/joestump/newspie/internal/logging"
	"github.com/joestump/newspie/internal/news"
	"github.com/joestump/newspie/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Pipeline *news.Pipeline
	Catalog  *catalog.Catalog
	Logger   *slog.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	// Static assets (embedded). fs.Sub so the file server sees css/app.css
	// directly, not static/css/app.css.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(staticSub))))
	r.Handle("/metrics", promhttp.Handler())

	newsHandler := NewNewsHandler(deps.Pipeline, deps.Catalog, logger)

	r.Get("/", newsHandler.Home)
	r.Post("/", newsHandler.Home)
	r.Get("/category/{category}", newsHandler.Category)
	r.Post("/category/{category}", newsHandler.Category)
	r.Get("/search/{query}", newsHandler.Search)
	r.Post("/search/{query}", newsHandler.Search)

	// Anything else lands on the default category.
	r.NotFound(newsHandler.Home)
	r.MethodNotAllowed(newsHandler.Home)

	return gzhttp.GzipHandler(r)
}
