package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ersonp/travel-tracker/internal/application/handlers"
	"github.com/ersonp/travel-tracker/internal/domain/entities"
)

// maxFormBytes caps the body of add/remove form posts.
const maxFormBytes = 64 << 10

// MsgFetchFailed is returned when the visited set cannot be read.
const MsgFetchFailed = "Failed to fetch visited countries"

type visitedResponse struct {
	Countries []string `json:"countries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "")
}

func (s *Server) handleAPIVisited(w http.ResponseWriter, r *http.Request) {
	codes, err := s.visited.HandleList(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "listing visited countries failed", "error", err)
		s.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: MsgFetchFailed})
		return
	}
	s.writeJSON(w, r, http.StatusOK, visitedResponse{Countries: entities.UniqueCodes(codes)})
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, s.visited.HandleAdd)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	s.handleMutation(w, r, s.visited.HandleRemove)
}

// handleMutation redirects home on success and re-renders the page with
// the failure message otherwise.
func (s *Server) handleMutation(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, name string) handlers.MutationResult,
) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	result := mutate(r.Context(), r.PostFormValue("country"))
	if result.OK() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	status := http.StatusOK
	if result.Failed {
		status = http.StatusInternalServerError
	}
	s.renderPage(w, r, status, result.Message)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if s.health != nil {
		if err := s.health.Ping(ctx); err != nil {
			s.logger.WarnContext(r.Context(), "health check failed", "error", err)
			s.writeJSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return
		}
	}
	s.writeJSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
}

// renderPage renders the current visited set with an optional message.
// If the visited set itself cannot be read the page shows an empty set.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	ctx := r.Context()

	codes, err := s.visited.HandleList(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "listing visited countries failed", "error", err)
		codes = nil
		if message == "" {
			message = MsgFetchFailed
			status = http.StatusInternalServerError
		}
	}

	var countries []entities.Country
	if s.countries != nil {
		countries, err = s.countries.HandleList(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "listing countries for suggestions failed", "error", err)
			countries = nil
		}
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, NewPageView(codes, countries, message)); err != nil {
		s.logger.ErrorContext(ctx, "rendering page failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.WarnContext(ctx, "writing page failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WarnContext(r.Context(), "encoding response failed", "error", err)
	}
}
