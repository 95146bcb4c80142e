package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/campaign-engine/internal/storage"
	"github.com/jwebster45206/campaign-engine/pkg/actor"
	"github.com/jwebster45206/campaign-engine/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps engine errors onto HTTP statuses: validation
// failures are the player's problem, integrity failures are ours.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var ve *state.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, logger, http.StatusUnprocessableEntity, ErrorResponse{Error: ve.Message, Code: ve.Code})
		return
	}
	var die *state.DataIntegrityError
	if errors.As(err, &die) {
		logger.Error("Data integrity failure", "error", die)
		writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{Error: die.Error(), Code: "data_integrity"})
		return
	}
	logger.Error("Request failed", "error", err)
	writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// CreateSessionRequest starts a new campaign session.
type CreateSessionRequest struct {
	Campaign  string               `json:"campaign"` // campaign filename
	Character *actor.CharacterSpec `json:"character"`
	Seed      int64                `json:"seed,omitempty"`
}

// SessionsHandler handles session lifecycle requests.
// Routes:
// POST /v1/sessions          - Create a new session
// GET /v1/sessions/{id}      - Read session state by ID
// DELETE /v1/sessions/{id}   - Delete session by ID
type SessionsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewSessionsHandler(storage storage.Storage, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	var sessionID uuid.UUID
	if path != "" {
		var err error
		sessionID, err = uuid.Parse(path)
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", path, "error", err)
			writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid session ID format"})
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		if sessionID == uuid.Nil {
			writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Session ID is required for GET requests"})
			return
		}
		h.handleRead(w, r, sessionID)
	case http.MethodDelete:
		if sessionID == uuid.Nil {
			writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Session ID is required for DELETE requests"})
			return
		}
		h.handleDelete(w, r, sessionID)
	default:
		h.logger.Warn("Method not allowed for sessions endpoint", "method", r.Method)
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Supported methods: POST, GET, DELETE"})
	}
}

func (h *SessionsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body. Expected JSON with 'campaign' and 'character' fields."})
		return
	}
	if req.Campaign == "" || req.Character == nil {
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Both 'campaign' and 'character' are required."})
		return
	}
	if _, err := actor.NewCharacterFromSpec(req.Character); err != nil {
		h.logger.Warn("Invalid character spec", "error", err)
		writeJSON(w, h.logger, http.StatusBadRequest, ErrorResponse{Error: "Invalid character: " + err.Error()})
		return
	}

	graph, err := h.storage.GetCampaign(r.Context(), req.Campaign)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if graph == nil {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Campaign not found: " + req.Campaign})
		return
	}

	mgr, err := state.NewSession(graph, req.Character, req.Seed)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	mgr.State.CampaignFile = req.Campaign

	if err := h.storage.SaveGameState(r.Context(), mgr.State.ID, mgr.State); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("Session created", "session_id", mgr.State.ID, "campaign", req.Campaign)
	writeJSON(w, h.logger, http.StatusCreated, mgr.State)
}

func (h *SessionsHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	gs, err := h.storage.LoadGameState(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if gs == nil {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, gs)
}

func (h *SessionsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteGameState(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
