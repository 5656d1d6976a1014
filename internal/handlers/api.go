package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/common"
)

type APIHandler struct {
	logger arbor.ILogger
	config *common.Config
}

func NewAPIHandler(config *common.Config, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		logger: logger,
		config: config,
	}
}

// VersionHandler returns version information
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// HealthHandler returns health check status
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"version":          common.GetVersion(),
		"llm_provider":     h.config.LLM.DefaultProvider,
		"fallback_enabled": h.config.PropertyData.FallbackEnabled,
		"hosted_history":   h.config.Storage.Redis.Addr != "",
	})
}

// NotFoundHandler handles 404 errors with JSON response
func (h *APIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"error":   "Not Found",
		"path":    r.URL.Path,
		"message": "The requested endpoint does not exist",
	})
}
