package server

import (
	"net/http"

	"filehub/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.catalog.StoreInfo(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := api.InfoResponse{
		DBPath:        s.dbPath,
		DataDir:       s.dataDir,
		SchemaVersion: info.SchemaVersion,
		TotalFiles:    info.TotalFiles,
		TotalBlobs:    info.TotalBlobs,
		StorageBytes:  info.StorageBytes,
	}

	s.writeJSON(w, http.StatusOK, resp)
}
