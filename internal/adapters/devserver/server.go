// Package devserver is a wire-compatible, in-memory stand-in for the
// poll backend. It exists so the engine can be exercised end to end
// (CLI local mode, integration tests) without the real service; nothing
// survives a restart on purpose.
package devserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type Server struct {
	store *store
	hub   *hub
}

func NewServer() *Server {
	return &Server{
		store: newStore(),
		hub:   newHub(),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/create", s.handleCreate)
	r.Get("/create/{creationID}", s.handleAdminView)
	r.Patch("/create/{creationID}", s.handleReveal)

	r.Get("/templates", s.handleListTemplates)
	r.Post("/templates", s.handleSaveTemplate)
	r.Delete("/templates", s.handleDeleteTemplate)

	r.Get("/ws/{pollID}", s.handleSubscribe)

	r.Get("/{pollID}", s.handleGetPoll)
	r.Patch("/{pollID}", s.handleVote)

	return r
}

type createRequest struct {
	Questions []domain.Question `json:"questions"`
	Anonymous bool              `json:"anonymous"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Questions) == 0 {
		errorResponse(w, http.StatusBadRequest, "at least one question is required")
		return
	}
	for _, q := range req.Questions {
		if q.Description == "" || len(q.Options) == 0 {
			errorResponse(w, http.StatusBadRequest, "every question needs a description and options")
			return
		}
	}

	pollID, creationID, err := s.store.createPoll(req.Questions, req.Anonymous)
	if err != nil {
		slog.Error("failed to create poll", "error", err)
		errorResponse(w, http.StatusInternalServerError, "failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "anonymous", req.Anonymous)
	jsonResponse(w, http.StatusCreated, map[string]string{
		"poll_id":     pollID,
		"creation_id": creationID,
	})
}

func (s *Server) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.store.snapshot(chi.URLParam(r, "pollID"))
	if !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}
	jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	var b domain.Ballot
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if b.VoterSession == "" {
		errorResponse(w, http.StatusBadRequest, "voter_session is required")
		return
	}

	switch err := s.store.putBallot(pollID, b.VoterSession, b); err {
	case nil:
	case domain.ErrPollNotFound:
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	case domain.ErrPollRevealed:
		errorResponse(w, http.StatusConflict, "results already revealed")
		return
	default:
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.hub.broadcast(pollID, ports.Notification{VoteCast: true})
	jsonResponse(w, http.StatusOK, map[string]string{"message": "vote recorded"})
}

func (s *Server) handleAdminView(w http.ResponseWriter, r *http.Request) {
	pollID, ok := s.store.pollIDForCreation(chi.URLParam(r, "creationID"))
	if !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}
	snap, ok := s.store.snapshot(pollID)
	if !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"poll_id":  pollID,
		"snapshot": snap,
	})
}

type revealRequest struct {
	Revealed bool `json:"revealed"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	pollID, ok := s.store.pollIDForCreation(chi.URLParam(r, "creationID"))
	if !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}

	var req revealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Revealed {
		// the transition is one-way
		errorResponse(w, http.StatusBadRequest, "revealed can only be set to true")
		return
	}

	already, ok := s.store.reveal(pollID)
	if !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}
	if !already {
		slog.Info("poll revealed", "poll_id", pollID)
		s.hub.broadcast(pollID, ports.Notification{ResultsRevealed: true})
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "results revealed"})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")
	if _, ok := s.store.snapshot(pollID); !ok {
		errorResponse(w, http.StatusNotFound, "poll not found")
		return
	}
	s.hub.serve(w, r, pollID)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.store.listTemplates())
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var tmpl domain.Template
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if tmpl.Title == "" || len(tmpl.Questions) == 0 {
		errorResponse(w, http.StatusBadRequest, "template needs a title and questions")
		return
	}
	s.store.saveTemplate(tmpl)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "template saved"})
}

type deleteTemplateRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	var req deleteTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if !s.store.deleteTemplate(req.Title) {
		errorResponse(w, http.StatusNotFound, "template not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "template deleted"})
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}
