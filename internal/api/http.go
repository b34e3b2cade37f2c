package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/folio/internal/engine"
	"github.com/kalambet/folio/internal/knowledge"
	"github.com/kalambet/folio/internal/proxy"
	"github.com/kalambet/folio/internal/session"
)

const maxRequestBodySize = 1 << 20 // 1MB

// ModelLister exposes the completion backend's model catalog.
// Implemented by proxy.Client.
type ModelLister interface {
	ListModels(ctx context.Context) ([]proxy.Model, error)
}

// Deps holds the collaborators the HTTP host needs. Models may be nil when
// no backend catalog is available.
type Deps struct {
	Knowledge *knowledge.Store
	Sessions  *session.Manager
	Engine    *engine.Engine
	Models    ModelLister
}

// NewHandler returns the HTTP surface of the assistant: session lifecycle,
// focus selection, turn processing, and read-only views of the portfolio.
// Sessions carry a single-writer contract; writes go through the Manager's
// per-session lock, shared with every other surface on the same Manager.
func NewHandler(deps Deps) http.Handler {
	h := &handler{deps: deps}

	r := chi.NewRouter()
	r.Get("/health", handleHealth)
	r.Get("/v1/projects", h.handleListProjects)
	r.Get("/v1/models", h.handleListModels)
	r.Post("/v1/sessions", h.handleCreateSession)
	r.Delete("/v1/sessions/{id}", h.handleDeleteSession)
	r.Get("/v1/sessions/{id}/history", h.handleHistory)
	r.Put("/v1/sessions/{id}/focus", h.handleSetFocus)
	r.Post("/v1/sessions/{id}/messages", h.handlePostMessage)

	return r
}

type handler struct {
	deps Deps
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	type projectEntry struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Category string `json:"category,omitempty"`
	}

	projects := h.deps.Knowledge.Projects()
	entries := make([]projectEntry, len(projects))
	for i, p := range projects {
		entries[i] = projectEntry{Name: p.Name, Type: p.Type, Category: p.Category}
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": entries})
}

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.deps.Sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": s.ID})
}

func (h *handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	h.deps.Sessions.Remove(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleListModels(w http.ResponseWriter, r *http.Request) {
	if h.deps.Models == nil {
		httpError(w, http.StatusServiceUnavailable, "api_error", "model listing unavailable")
		return
	}
	models, err := h.deps.Models.ListModels(r.Context())
	if err != nil {
		httpError(w, http.StatusBadGateway, "api_error", "listing models: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, proxy.ModelList{Object: "list", Data: models})
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"messages": s.History(),
		"focus":    s.Focus(),
	})
}

func (h *handler) handleSetFocus(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Project string `json:"project"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	lock := h.deps.Sessions.SessionLock(s.ID)
	lock.Lock()
	s.SetFocus(h.deps.Knowledge, req.Project)
	focus := s.Focus()
	lock.Unlock()

	// An unknown project name clears the focus rather than erroring;
	// the response carries the focus that actually took effect.
	writeJSON(w, http.StatusOK, map[string]string{"focus": focus})
}

func (h *handler) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "content is required")
		return
	}

	lock := h.deps.Sessions.SessionLock(s.ID)
	lock.Lock()
	reply, err := h.deps.Engine.Respond(r.Context(), s, req.Content)
	lock.Unlock()

	if err != nil {
		if errors.Is(err, engine.ErrCompletionUnavailable) {
			httpError(w, http.StatusBadGateway, "api_error", "completion failed: %v", err)
			return
		}
		httpError(w, http.StatusInternalServerError, "api_error", "processing turn: %v", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.deps.Sessions.Get(id)
	if err != nil {
		httpError(w, http.StatusNotFound, "invalid_request_error", "unknown session %q", id)
		return nil, false
	}
	return s, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
