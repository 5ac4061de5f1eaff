// Package httpapi serves extraction, prompt compilation, planning and
// itinerary re-parsing over HTTP.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/zen-systems/tripgate/pkg/observability"
	"github.com/zen-systems/tripgate/pkg/planner"
)

// Options configures a Server.
type Options struct {
	// Timeout bounds each request. Zero selects 90 seconds.
	Timeout time.Duration
	// Registry, when set, is served on /metrics.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
	// Now is the reference time for extraction and validation.
	Now func() time.Time
}

// Server routes the API.
type Server struct {
	mux     *chi.Mux
	planner *planner.Planner
	logger  zerolog.Logger
	now     func() time.Time
}

// New builds the router with its middleware and routes.
func New(p *planner.Planner, opts Options) *Server {
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	m := chi.NewRouter()
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(opts.Timeout))
	m.Use(Metrics)
	m.Use(Logger(opts.Logger))

	s := &Server{mux: m, planner: p, logger: opts.Logger, now: opts.Now}
	s.routes()
	if opts.Registry != nil {
		m.Handle("/metrics", observability.MetricsHandler(opts.Registry))
	}
	return s
}

func (s *Server) routes() {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.extract)
		r.Post("/prompt", s.prompt)
		r.Post("/plan", s.plan)
		r.Post("/itinerary/parse", s.parseItinerary)
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.mux }
