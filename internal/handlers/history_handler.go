package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/interfaces"
	"github.com/ternarybob/proppulse/internal/models"
)

const maxHistoryLimit = 200

// HistoryHandler serves the dashboard analysis history
type HistoryHandler struct {
	history HistoryManager
	logger  arbor.ILogger
}

func NewHistoryHandler(history HistoryManager, logger arbor.ILogger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListHistoryHandler handles GET /api/history?user_id=&limit=
func (h *HistoryHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	userID := r.URL.Query().Get("user_id")
	records, err := h.history.List(r.Context(), userID, GetLimitParam(r, maxHistoryLimit))
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list history")
		WriteError(w, http.StatusInternalServerError, "Failed to load analysis history")
		return
	}

	if records == nil {
		records = []*models.HistoryRecord{}
	}
	WriteJSON(w, http.StatusOK, records)
}

// CreateHistoryHandler handles POST /api/history
func (h *HistoryHandler) CreateHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var record models.HistoryRecord
	if err := DecodeJSON(w, r, &record); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(record.PropertyAddress) == "" {
		WriteError(w, http.StatusBadRequest, "property_address is required")
		return
	}

	// IDs are always server-assigned
	record.ID = ""
	record.CreatedAt = record.CreatedAt.UTC()

	if err := h.history.Append(r.Context(), &record); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save history")
		WriteError(w, http.StatusInternalServerError, "Failed to save analysis")
		return
	}

	WriteJSON(w, http.StatusCreated, record)
}

// DeleteHistoryHandler handles DELETE /api/history/{id}?user_id=
func (h *HistoryHandler) DeleteHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/history/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "history id is required")
		return
	}

	err := h.history.Delete(r.Context(), r.URL.Query().Get("user_id"), id)
	if errors.Is(err, interfaces.ErrHistoryNotFound) {
		WriteError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to delete history")
		WriteError(w, http.StatusInternalServerError, "Failed to delete analysis.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
