// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
	"github.com/jonathan/resume-builder/internal/types"
)

// Grader grades a resume document. *grading.Service implements it.
type Grader interface {
	Grade(ctx context.Context, resume types.ResumeDocument) (*types.GradeResult, error)
	Enabled() bool
	Model() string
}

// Server represents the HTTP server
type Server struct {
	httpServer       *http.Server
	grader           Grader
	store            store.Store
	storeDriver      string
	publisher        events.Publisher
	rateLimiter      *ratelimit.Limiter
	defaultStudentID string
	allowedOrigins   []string
	shutdownTimeout  time.Duration
}

// Config holds server configuration and collaborators
type Config struct {
	Port             int
	DefaultStudentID string
	AllowedOrigins   []string
	ShutdownTimeout  time.Duration

	Grader      Grader
	Store       store.Store
	StoreDriver string
	// Publisher defaults to events.NoopPublisher
	Publisher events.Publisher
	// RateLimit defaults to ratelimit.DefaultSettings()
	RateLimit *ratelimit.Config
	// Logger is attached to every request; defaults to the global logger
	Logger *zerolog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Grader == nil {
		return nil, errors.New("server: grader is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NoopPublisher{}
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.DefaultSettings().Config()
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
	if cfg.DefaultStudentID == "" {
		cfg.DefaultStudentID = store.DemoStudentID
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = store.DriverMemory
	}

	s := &Server{
		grader:           cfg.Grader,
		store:            cfg.Store,
		storeDriver:      cfg.StoreDriver,
		publisher:        cfg.Publisher,
		rateLimiter:      ratelimit.NewLimiter(cfg.RateLimit),
		defaultStudentID: cfg.DefaultStudentID,
		allowedOrigins:   cfg.AllowedOrigins,
		shutdownTimeout:  cfg.ShutdownTimeout,
	}

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/resume/fetch-profile", s.handleFetchProfile)
	mux.HandleFunc("POST /api/resume/save-draft", s.handleSaveDraft)
	mux.HandleFunc("POST /api/resume/grade", s.handleGrade)
	mux.HandleFunc("POST /api/resume/generate", s.handleGenerate)
	mux.HandleFunc("POST /api/resume/apply-suggestions", s.handleApplySuggestions)
	mux.HandleFunc("GET /api/resume/download/{id}", s.handleDownload)
	mux.HandleFunc("GET /api/resume/history/{studentId}", s.handleHistory)
	mux.HandleFunc("GET /health", s.handleHealth)

	var handler http.Handler = middleware.StudentID(s.defaultStudentID)(mux)
	handler = s.withCORS(handler)
	handler = s.withRateLimit(handler)
	handler = s.withLogging(handler, *cfg.Logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // Covers the grading timeout
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully and releases the store and publisher.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", s.httpServer.Addr).Msg("Server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	log.Info().Msg("Server stopped")
	return err
}

// Close stops the rate limiter and releases the store and publisher
func (s *Server) Close() error {
	s.rateLimiter.Stop()
	return errors.Join(s.publisher.Close(), s.store.Close())
}

// withCORS adds CORS headers for the configured origins
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+middleware.HeaderStudentID)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or ""
func (s *Server) allowOrigin(origin string) string {
	if len(s.allowedOrigins) == 0 || slices.Contains(s.allowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.allowedOrigins, origin) {
		return origin
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging attaches a request-scoped logger with a request ID and writes
// one access log line per request.
func (s *Server) withLogging(next http.Handler, logger zerolog.Logger) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request completed")
	})(next)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.RequestIDHandler("request_id", "X-Request-ID")(h)
	return hlog.NewHandler(logger)(h)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	grading := "disabled"
	if s.grader.Enabled() {
		grading = "enabled"
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"grading": grading,
		"store":   s.storeDriver,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Error encoding JSON response")
	}
}

// errorResponse writes a failed envelope with message
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, APIResponse{Success: false, Message: message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"success":   false,
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if retryAfter := int(info.RetryAfter.Seconds()); retryAfter > 0 {
		response["retry_after"] = retryAfter
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
	}

	hlog.FromRequest(r).Warn().
		Int("limit", info.Limit).
		Int("remaining", info.Remaining).
		Time("reset", info.ResetTime).
		Msg("rate limit exceeded")

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
