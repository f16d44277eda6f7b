// Package web serves the HTML pages of the application.
package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/jobbook/internal/metrics"
	"github.com/mmynk/jobbook/internal/middleware"
	"github.com/mmynk/jobbook/internal/service"
)

const contentSecurityPolicy = "default-src 'self'; style-src 'self'; script-src 'unsafe-inline'; form-action 'self'; frame-ancestors 'none'"

// Options holds the dependencies of a Server.
type Options struct {
	Jobs     *service.JobService
	Clients  *service.ClientService
	Settings *service.SettingsService
	Auth     *service.AuthService
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// Now defaults to time.Now and decides the month shown when none is requested.
	Now func() time.Time
}

// Server routes browser requests to the services.
type Server struct {
	jobs     *service.JobService
	clients  *service.ClientService
	settings *service.SettingsService
	auth     *service.AuthService
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
	pages    map[string]*template.Template
}

// New parses the embedded templates and returns a ready Server.
func New(opts Options) (*Server, error) {
	if opts.Jobs == nil || opts.Clients == nil || opts.Settings == nil || opts.Auth == nil {
		return nil, errors.New("web: jobs, clients, settings and auth services are required")
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{
		jobs:     opts.Jobs,
		clients:  opts.Clients,
		settings: opts.Settings,
		auth:     opts.Auth,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
		pages:    pages,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// Handler returns the full middleware stack around the router.
func (s *Server) Handler() http.Handler {
	return middleware.Chain(s.Router(),
		middleware.Logging(s.logger),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{ContentSecurityPolicy: contentSecurityPolicy}),
	)
}

// Router returns the route table. Every route except the public ones sits
// behind the session guard.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Metrics(s.metrics))
	r.Use(middleware.RequireSession(s.auth.Sessions()))

	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Handle("/static/*", staticHandler())

	r.Get("/", s.handleHome)
	r.Get("/schedule", s.handleSchedule)
	r.Post("/schedule", s.handleCreateJob)
	r.Get("/schedule/export.ics", s.handleExportICS)
	r.Get("/delete/{id:[0-9]+}", s.handleDeleteJob)
	r.Get("/edit/{id:[0-9]+}", s.handleEditJobForm)
	r.Post("/edit/{id:[0-9]+}", s.handleEditJob)

	r.Get("/clients", s.handleClients)
	r.Post("/clients", s.handleCreateClient)
	r.Get("/clients/export.xlsx", s.handleExportClients)
	r.Get("/edit_client/{id:[0-9]+}", s.handleEditClientForm)
	r.Post("/edit_client/{id:[0-9]+}", s.handleEditClient)
	r.Post("/delete_client/{id:[0-9]+}", s.handleDeleteClient)

	r.Get("/settings", s.handleSettingsForm)
	r.Post("/settings", s.handleSettings)

	return r
}

// pathID reads the numeric {id} segment. The route pattern guarantees
// digits, so failure means the value overflowed.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	redirect(w, r, "/schedule")
}
