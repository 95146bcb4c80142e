package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/internal/storage"
	"github.com/jwebster45206/campaign-engine/pkg/resolver"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

// ActionResponse carries the decided outcome plus a fresh snapshot of
// the session for the narrative layer.
type ActionResponse struct {
	Outcome  *resolver.Outcome `json:"outcome"`
	Snapshot *state.Snapshot   `json:"snapshot"`
}

// ActionHandler resolves player intents against a session.
// Route: POST /v1/sessions/{id}/action
type ActionHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewActionHandler(storage storage.Storage, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for action endpoint", "method", r.Method)
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Only POST is supported."})
		return
	}

	// Path shape: /v1/sessions/{id}/action
	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	idStr, _, ok := strings.Cut(path, "/")
	if !ok {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Session ID is required"})
		return
	}
	sessionID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
		return
	}

	var intent resolver.Intent
	if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body. Expected a JSON intent with a 'kind' field."})
		return
	}
	if intent.Kind == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Intent 'kind' cannot be empty."})
		return
	}

	gs, err := h.storage.LoadGameState(r.Context(), sessionID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if gs == nil {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}

	graph, err := h.storage.GetCampaign(r.Context(), gs.CampaignFile)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if graph == nil {
		writeJSON(w, h.logger, http.StatusInternalServerError, ErrorResponse{Error: "Campaign data missing for session", Code: "data_integrity"})
		return
	}

	mgr, err := state.NewManager(graph, gs, nil)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	outcome, err := resolver.New(mgr).Resolve(intent)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	snapshot, err := mgr.Snapshot()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.storage.SaveGameState(r.Context(), sessionID, gs); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Debug("Intent resolved", "session_id", sessionID, "kind", intent.Kind)
	writeJSON(w, h.logger, http.StatusOK, ActionResponse{Outcome: outcome, Snapshot: snapshot})
}
