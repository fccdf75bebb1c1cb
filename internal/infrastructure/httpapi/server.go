// Package httpapi serves the symptom analysis and history endpoints over JSON.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/doeshing/symcheck-go/internal/domain"
	"github.com/doeshing/symcheck-go/internal/ports"
)

// Analyzer runs one analysis. It never fails; see domain.Outcome.
type Analyzer interface {
	Analyze(ctx context.Context, query domain.SymptomQuery) domain.Outcome
}

// Metrics records served requests and exposes the scrape endpoint.
type Metrics interface {
	ObserveHTTP(route, method string, code int, elapsed time.Duration)
	Handler() http.Handler
}

// Options configures a Server. Metrics and Now are optional.
type Options struct {
	Analyzer     Analyzer
	History      ports.HistoryRepository
	Logger       ports.Logger
	Metrics      Metrics
	Selection    domain.Selection
	FrontendURL  string
	MaxBodyBytes int64
	RateLimit    int
	RateWindow   time.Duration
	Now          func() time.Time
}

// Server holds the HTTP handlers.
type Server struct {
	opts    Options
	limiter *ipLimiter
}

// New builds a Server. A zero RateLimit disables request throttling.
func New(opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = 15 * time.Minute
	}
	s := &Server{opts: opts}
	if opts.RateLimit > 0 {
		s.limiter = newIPLimiter(opts.RateLimit, opts.RateWindow)
		s.limiter.now = s.now
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/symptoms/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /api/symptoms/common", s.handleCommonSymptoms)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("POST /api/history", s.handleSaveHistory)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.middleware(h)
	}
	h = s.withCORS(h)
	h = withSecurityHeaders(h)
	h = s.withRecover(h)
	h = s.withRequestLogging(h)
	h = s.withRequestID(h)
	return h
}
