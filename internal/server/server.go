// Package server provides the HTTP server for the fingermath web presentation.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ayusman/fingermath/internal/detector"
	"github.com/ayusman/fingermath/internal/game"
	"github.com/ayusman/fingermath/internal/realtime"
	"github.com/ayusman/fingermath/internal/server/api"
	"github.com/ayusman/fingermath/internal/store"
)

// requestTimeout bounds plain API requests. Streams are exempt.
const requestTimeout = 15 * time.Second

//go:embed web
var embeddedWeb embed.FS

// Config holds the server configuration. Game is required; every other
// collaborator enables the routes that need it.
type Config struct {
	Game      api.Game
	Ingest    api.FrameSink
	Snapshots *realtime.Broadcaster[game.Snapshot]
	Frames    *realtime.Broadcaster[detector.FrameRecord]
	Previews  *realtime.Broadcaster[[]byte]
	Store     *store.Store
	// StaticDir replaces the embedded web page when set.
	StaticDir string
}

// Server represents the HTTP server for the fingermath application.
type Server struct {
	config Config
	router chi.Router
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		router: chi.NewRouter(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/health", s.handleHealth)

			if s.config.Game != nil {
				api.NewGameHandler(s.config.Game, s.config.Ingest).RegisterRoutes(r)
			}
			if s.config.Store != nil {
				api.NewRecordingHandler(s.config.Store).RegisterRoutes(r)
			}
		})

		if s.config.Snapshots != nil {
			var initial func() (game.Snapshot, bool)
			if s.config.Game != nil {
				initial = func() (game.Snapshot, bool) { return s.config.Game.Snapshot(), true }
			}
			r.Get("/events", NewBroadcastHandler(s.config.Snapshots, initial).ServeHTTP)
		}
		if s.config.Frames != nil {
			r.Get("/landmarks", NewBroadcastHandler(s.config.Frames, nil).ServeHTTP)
		}
		if s.config.Previews != nil {
			r.Get("/stream", NewStreamHandler(s.config.Previews).ServeHTTP)
		}
	})

	r.Handle("/*", http.FileServer(s.staticFS()))
}

func (s *Server) staticFS() http.FileSystem {
	if s.config.StaticDir != "" {
		return http.Dir(s.config.StaticDir)
	}
	sub, err := fs.Sub(embeddedWeb, "web")
	if err != nil {
		log.Printf("embedded web page unavailable: %v", err)
		return http.Dir(".")
	}
	return http.FS(sub)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
