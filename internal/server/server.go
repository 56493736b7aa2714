package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/rickgao/share-dashboard/internal/display"
	"github.com/rickgao/share-dashboard/internal/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds server settings.
type Config struct {
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	TableID        string
	InstanceID     string
	MetricsEnabled bool
	MetricsPath    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:           8090,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   20 * time.Second,
		TableID:        "shares-table",
		MetricsEnabled: true,
		MetricsPath:    "/metrics",
	}
}

// Server serves the dashboard page, live feed and status endpoints.
type Server struct {
	cfg        Config
	surface    *display.Surface
	logger     *slog.Logger
	page       *template.Template
	upgrader   websocket.Upgrader
	httpServer *http.Server
	startedAt  time.Time

	// done is closed on Shutdown so hijacked WebSocket connections exit.
	done     chan struct{}
	doneOnce sync.Once
	viewers  sync.WaitGroup
}

// New creates a Server reading from surface.
func New(cfg Config, surface *display.Surface, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TableID == "" {
		cfg.TableID = DefaultConfig().TableID
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = DefaultConfig().MetricsPath
	}

	s := &Server{
		cfg:       cfg,
		surface:   surface,
		logger:    logger,
		page:      template.Must(template.New("page").Funcs(pageFuncs).Parse(pageTemplate)),
		startedAt: time.Now(),
		done:      make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  4096,
			HandshakeTimeout: 10 * time.Second,
		},
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /{$}", s.instrument("/", http.HandlerFunc(s.handlePage)))
	mux.HandleFunc("GET /favicon.ico", faviconHandler)
	mux.Handle("GET /ws", s.instrument("/ws", http.HandlerFunc(s.handleWS)))
	mux.Handle("GET /api/table", s.instrument("/api/table", http.HandlerFunc(s.handleTable)))
	mux.Handle("GET /health", s.instrument("/health", http.HandlerFunc(s.handleHealth)))
	if s.cfg.MetricsEnabled {
		mux.Handle("GET "+s.cfg.MetricsPath, metrics.Handler())
	}

	return mux
}

// ListenAndServe starts the HTTP server. It returns nil after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("dashboard server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes live viewers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })

	err := s.httpServer.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.viewers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// instrument logs each request and counts it under route.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		metrics.IncHTTPRequests(route, rec.status)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrade reach the underlying connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func faviconHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
