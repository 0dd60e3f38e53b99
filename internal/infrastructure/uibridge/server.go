package uibridge

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/anyonecancode/acc/internal/ports"
)

const shutdownTimeout = 5 * time.Second

// Options configures the HTTP surface.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Version        string
	Metrics        http.Handler
	Logger         ports.Logger
}

// Server exposes /ws, /health and /metrics.
type Server struct {
	opts   Options
	hub    *Hub
	router chi.Router
}

// NewServer builds the router around hub.
func NewServer(hub *Hub, opts Options) *Server {
	s := &Server{opts: opts, hub: hub}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: CORSOrigins(s.opts.AllowedOrigins),
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}
	r.Get("/ws", s.hub.ServeWS)

	s.router = r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once the listener is open.
func (s *Server) Run(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	if ready != nil {
		ready(ln.Addr().String())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version,omitempty"`
	Connected bool   `json:"connected"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Version:   s.opts.Version,
		Connected: s.hub.Connected(),
	})
}

// CORSOrigins turns websocket host patterns ("localhost:*") into CORS origins
// ("http://localhost:*", "https://localhost:*"). Entries that already carry a scheme are kept.
func CORSOrigins(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.Contains(p, "://") || p == "*" {
			out = append(out, p)
			continue
		}
		out = append(out, "http://"+p, "https://"+p)
	}
	return out
}
