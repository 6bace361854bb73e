package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check and info.
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/info", s.handleInfo)

	// Files collection.
	mux.HandleFunc("POST /v1/files", s.handleUploadFile)
	mux.HandleFunc("GET /v1/files", s.handleListFiles)

	// Single file.
	mux.HandleFunc("GET /v1/files/{id}", s.handleGetFile)
	mux.HandleFunc("GET /v1/files/{id}/download", s.handleDownloadFile)
	mux.HandleFunc("DELETE /v1/files/{id}", s.handleDeleteFile)

	// Metrics.
	mux.HandleFunc("GET /v1/metrics/storage", s.handleStorageMetrics)

	// Admin.
	mux.HandleFunc("POST /v1/admin/gc", s.handleAdminGC)

	return s.withRequestLogging(mux)
}
