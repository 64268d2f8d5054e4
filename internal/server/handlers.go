package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/joshsymonds/facet/internal/chat"
	"github.com/joshsymonds/facet/internal/issues"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.issues.Document(r.Context())
	if err != nil {
		s.logger.Error("Failed to load issue document", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load issues")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleFlatList(w http.ResponseWriter, r *http.Request) {
	list, err := s.issues.Issues(r.Context())
	if err != nil {
		s.logger.Error("Failed to flatten issue document", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load issues")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"issues": list})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload issues.CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.issues.Create(r.Context(), payload)
	if err != nil {
		s.writeIssueError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "created": created})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch issues.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.issues.Update(r.Context(), issueID(r), patch)
	if err != nil {
		s.writeIssueError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": updated})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.issues.Delete(r.Context(), issueID(r))
	if err != nil {
		s.writeIssueError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URLs []string `json:"urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.URLs) == 0 {
		s.writeError(w, http.StatusBadRequest, "urls required")
		return
	}

	results := s.scraper.FetchAll(r.Context(), req.URLs)
	s.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []chat.Message `json:"messages"`
		Sources  []chat.Source  `json:"sources"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		s.writeError(w, http.StatusBadRequest, "messages required")
		return
	}

	reply, err := s.chat.Complete(r.Context(), req.Messages, req.Sources)
	if err != nil {
		var uerr *chat.UpstreamError
		switch {
		case errors.Is(err, chat.ErrNoCredential):
			s.writeError(w, http.StatusUnauthorized, "chat backend credential not configured")
		case errors.As(err, &uerr):
			s.writeError(w, uerr.Status, "completion backend error")
		default:
			s.logger.Error("Chat completion failed", "error", err)
			s.writeError(w, http.StatusInternalServerError, "chat completion failed")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// writeIssueError maps the mutation engine's error taxonomy onto HTTP
// statuses.
func (s *Server) writeIssueError(w http.ResponseWriter, err error) {
	var (
		verr *issues.ValidationError
		cerr *issues.ConflictError
		nerr *issues.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		s.writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &cerr):
		s.writeError(w, http.StatusConflict, cerr.Error())
	case errors.As(err, &nerr):
		s.writeError(w, http.StatusNotFound, nerr.Error())
	default:
		s.logger.Error("Issue operation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

// issueID extracts the sem_header identity from the path, undoing URL
// encoding.
func issueID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
