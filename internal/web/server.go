// Package web serves the question form over HTTP.
package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/joacominatel/askdb/internal/app"
	"github.com/joacominatel/askdb/internal/database"
)

// Asker is the part of app.Service the form needs.
type Asker interface {
	Ask(ctx context.Context, question, kind string) (*app.Answer, error)
	Schema(ctx context.Context) (*database.Schema, error)
	Ping(ctx context.Context) error
	DatabaseName() string
}

// Config holds configuration for the web server.
type Config struct {
	Service       Asker
	Port          int
	SessionSecret string
	Logger        logrus.FieldLogger
}

// Server is the web form server.
type Server struct {
	service      Asker
	sessionStore *sessions.CookieStore
	port         int
	logger       logrus.FieldLogger
}

// NewServer creates a new web server. An empty session secret gets a
// random one, so remembered form values do not survive restarts.
func NewServer(cfg Config) (*Server, error) {
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("session secret: %w", err)
		}
	}

	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		service:      cfg.Service,
		sessionStore: sessionStore,
		port:         cfg.Port,
		logger:       cfg.Logger,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
	)

	r.Get("/", s.handleIndex)
	r.Post("/ask", s.handleAsk)
	r.Get("/schema", s.handleSchema)
	r.Get("/healthz", s.handleHealth)

	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.WithField("addr", fmt.Sprintf("http://localhost:%d", s.port)).Info("starting web server")

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start),
			"req":      middleware.GetReqID(r.Context()),
		}).Info("http request")
	})
}
