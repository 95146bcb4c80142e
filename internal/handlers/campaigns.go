package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/campaign-engine/internal/storage"
)

// CampaignsHandler serves the campaign catalog.
// Routes:
// GET /v1/campaigns        - List available campaigns (title -> filename)
// GET /v1/campaigns/{file} - Read a single campaign graph
type CampaignsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCampaignsHandler(storage storage.Storage, logger *slog.Logger) *CampaignsHandler {
	return &CampaignsHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *CampaignsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for campaigns endpoint", "method", r.Method)
		writeJSON(w, h.logger, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed. Supported methods: GET"})
		return
	}

	filename := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/campaigns"), "/")
	if filename == "" {
		h.handleList(w, r)
		return
	}
	h.handleRead(w, r, filename)
}

func (h *CampaignsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.storage.ListCampaigns(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, campaigns)
}

func (h *CampaignsHandler) handleRead(w http.ResponseWriter, r *http.Request, filename string) {
	graph, err := h.storage.GetCampaign(r.Context(), filename)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if graph == nil {
		writeJSON(w, h.logger, http.StatusNotFound, ErrorResponse{Error: "Campaign not found: " + filename})
		return
	}
	writeJSON(w, h.logger, http.StatusOK, graph)
}
