package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/services/intake"
)

// UploadHandler validates financial documents before they are sent
type UploadHandler struct {
	logger arbor.ILogger
}

func NewUploadHandler(logger arbor.ILogger) *UploadHandler {
	return &UploadHandler{logger: logger}
}

// ValidateUploadHandler handles POST /api/uploads/validate
func (h *UploadHandler) ValidateUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var upload intake.Upload
	if err := DecodeJSON(w, r, &upload); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := intake.ValidateUpload(upload.Name, upload.Type, upload.Size)
	if err != nil {
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"isValid": false,
			"error":   err.Error(),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"isValid": true,
		"file":    result,
	})
}
