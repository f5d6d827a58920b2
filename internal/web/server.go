// Package web provides the HTTP server and handlers for the contacts manager.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/microcosm-cc/bluemonday"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/contacts/internal/config"
	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/metrics"
	"github.com/JonMunkholm/contacts/internal/web/middleware"
)

// Server is the HTTP server for the contacts manager.
type Server struct {
	persons   *core.PersonsService
	countries *core.CountriesService
	cfg       *config.Config
	collector *metrics.Collector
	gatherer  prometheus.Gatherer

	router    *chi.Mux
	server    *http.Server
	limiters  []*middleware.RateLimiter
	sanitizer *bluemonday.Policy
}

// NewServer wires the routes. collector and gatherer may be nil, which
// disables request metrics and the /metrics endpoint respectively.
func NewServer(persons *core.PersonsService, countries *core.CountriesService, cfg *config.Config, collector *metrics.Collector, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		persons:   persons,
		countries: countries,
		cfg:       cfg,
		collector: collector,
		gatherer:  gatherer,
		router:    chi.NewRouter(),
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recover(s.respondErrorStatus))
	if s.collector != nil {
		s.router.Use(s.collector.Middleware)
	}
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.limiters = append(s.limiters, limiter)
		s.router.Use(limiter.Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errNotFound, http.StatusNotFound)
	})

	s.router.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Method(http.MethodGet, "/metrics", metrics.Handler(s.gatherer))
	}

	listHeader := middleware.ResponseHeader(s.cfg.Features.ResponseHeaderKey, s.cfg.Features.ResponseHeaderValue)
	s.router.With(listHeader).Get("/", s.handlePersonsIndex)

	s.router.Route("/persons", func(r chi.Router) {
		r.With(listHeader).Get("/", s.handlePersonsIndex)
		r.With(listHeader).Get("/index", s.handlePersonsIndex)

		r.Get("/create", s.handlePersonCreateForm)
		r.Post("/create", s.handlePersonCreate)

		r.With(middleware.IssueEditToken(s.cfg.Security.EditToken)).Get("/edit/{personID}", s.handlePersonEditForm)
		r.With(middleware.RequireEditToken(s.cfg.Security.EditToken)).Post("/edit/{personID}", s.handlePersonEdit)

		r.Get("/delete/{personID}", s.handlePersonDeleteForm)
		r.Post("/delete/{personID}", s.handlePersonDelete)

		r.Get("/personscsv", s.handlePersonsCSV)
		r.Get("/personsexcel", s.handlePersonsExcel)
		r.With(middleware.FeatureToggle(s.cfg.Features.PDFExport)).Get("/personspdf", s.handlePersonsPDF)
	})

	s.router.Route("/countries", func(r chi.Router) {
		r.Get("/uploadfromexcel", s.handleCountriesUploadForm)
		post := r.With()
		if s.cfg.Rate.Enabled {
			limiter := middleware.NewRateLimiter(s.cfg.Rate.UploadLimit, 1)
			s.limiters = append(s.limiters, limiter)
			post = r.With(limiter.Middleware)
		}
		post.Post("/uploadfromexcel", s.handleCountriesUpload)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/persons", s.handleAPIPersons)
		r.Get("/persons/{personID}", s.handleAPIPerson)
		r.Get("/countries", s.handleAPICountries)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its rate limiters.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, l := range s.limiters {
		l.Stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
