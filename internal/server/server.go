// Package server exposes the issue document, scraper, and chat proxy over
// HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/joshsymonds/facet/internal/chat"
	"github.com/joshsymonds/facet/internal/issues"
	"github.com/joshsymonds/facet/internal/scrape"
	"github.com/joshsymonds/facet/pkg/logger"
)

// Server is the HTTP boundary adapter. It translates requests into service
// calls and serializes results; all document invariants live behind the
// issue service.
type Server struct {
	issues  *issues.Service
	scraper *scrape.Fetcher
	chat    chat.Driver
	logger  logger.Logger
	origins []string
	router  chi.Router
}

// New assembles the server and its routes.
func New(svc *issues.Service, scraper *scrape.Fetcher, chatDriver chat.Driver, origins []string, log logger.Logger) *Server {
	s := &Server{
		issues:  svc,
		scraper: scraper,
		chat:    chatDriver,
		logger:  log,
		origins: origins,
	}

	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.cors)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/issues", func(r chi.Router) {
		r.Get("/", s.handleDocument)
		r.Get("/flat", s.handleFlatList)
		r.Post("/", s.handleCreate)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})
	r.Post("/scrape", s.handleScrape)
	r.Post("/chat", s.handleChat)

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.Debug("Handled request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// cors answers preflight requests and stamps allowed origins for the
// browser UI.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
