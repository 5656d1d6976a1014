package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/proppulse/internal/services/propertydata"
)

// SelfTestLocation is the location looked up by the property data self-test
const SelfTestLocation = "Los Angeles, CA"

// PropertyHandler serves derived property metrics
type PropertyHandler struct {
	lookup PropertyLookup
	logger arbor.ILogger
}

func NewPropertyHandler(lookup PropertyLookup, logger arbor.ILogger) *PropertyHandler {
	return &PropertyHandler{
		lookup: lookup,
		logger: logger,
	}
}

// PropertyDataHandler handles GET /property-data?location=
func (h *PropertyHandler) PropertyDataHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		WriteErrorDetails(w, http.StatusBadRequest, "Location parameter is required", "Please provide a location parameter")
		return
	}

	report, err := h.lookup.Lookup(r.Context(), location)
	if err != nil {
		h.logger.Error().Err(err).Str("location", location).Msg("Property data lookup failed")
		status := http.StatusInternalServerError
		if errors.Is(err, propertydata.ErrUpstreamUnavailable) {
			status = http.StatusBadGateway
		}
		WriteErrorDetails(w, status, "Failed to fetch property data", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

// TestPropertyHandler handles GET /test-property
func (h *PropertyHandler) TestPropertyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	report, err := h.lookup.Lookup(r.Context(), SelfTestLocation)
	if err != nil {
		h.logger.Error().Err(err).Msg("Property data self-test failed")
		WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"message": "Property data API test failed",
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Property data API is working correctly",
		"data": map[string]string{
			"capRate":       report.CapRate,
			"cashOnCash":    report.CashOnCash,
			"irr":           report.IRR,
			"propertyValue": report.PropertyValue,
		},
	})
}
