package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Property data (metric derivation engine). Legacy root paths are kept for the web client.
	mux.HandleFunc("/property-data", s.app.PropertyHandler.PropertyDataHandler)
	mux.HandleFunc("/api/property-data", s.app.PropertyHandler.PropertyDataHandler)
	mux.HandleFunc("/test-property", s.app.PropertyHandler.TestPropertyHandler)
	mux.HandleFunc("/api/test-property", s.app.PropertyHandler.TestPropertyHandler)

	// Confidence assessment
	mux.HandleFunc("/gemini-analysis", s.app.AnalysisHandler.GeminiAnalysisHandler)
	mux.HandleFunc("/api/gemini-analysis", s.app.AnalysisHandler.GeminiAnalysisHandler)

	// Deal evaluation
	mux.HandleFunc("/api/evaluate", s.app.EvaluationHandler.EvaluateHandler)
	mux.HandleFunc("/api/buybox/templates", s.app.EvaluationHandler.TemplatesHandler)

	// Analysis history
	mux.HandleFunc("/api/history", s.handleHistoryRoute)
	mux.HandleFunc("/api/history/", s.handleHistoryItemRoute)

	// Uploads
	mux.HandleFunc("/api/uploads/validate", s.app.UploadHandler.ValidateUploadHandler)

	// System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleHistoryRoute handles GET (list) and POST (create) for /api/history
func (s *Server) handleHistoryRoute(w http.ResponseWriter, r *http.Request) {
	RouteResourceCollection(w, r,
		s.app.HistoryHandler.ListHistoryHandler,
		s.app.HistoryHandler.CreateHistoryHandler,
	)
}

// handleHistoryItemRoute handles DELETE /api/history/{id}
func (s *Server) handleHistoryItemRoute(w http.ResponseWriter, r *http.Request) {
	RouteByMethod(w, r, MethodRouter{
		http.MethodDelete: s.app.HistoryHandler.DeleteHistoryHandler,
	})
}
