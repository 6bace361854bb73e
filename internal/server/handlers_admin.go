package server

import (
	"fmt"
	"net/http"
	"strings"

	"filehub/internal/auth"
)

const adminTokenHeader = "X-Admin-Token"

func (s *Server) handleAdminGC(w http.ResponseWriter, r *http.Request) {
	if err := s.requireAdmin(r); err != nil {
		s.writeErrorReq(w, r, httpStatusFromError(err), err)
		return
	}
	if !s.acquireLimiter(s.gcLimiter, w, r, "gc") {
		return
	}
	defer s.releaseLimiter(s.gcLimiter)

	result, err := s.gcService.Sweep(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// requireAdmin verifies the admin token header against the configured
// bcrypt hash. With no hash configured the admin surface is disabled.
func (s *Server) requireAdmin(r *http.Request) error {
	if strings.TrimSpace(s.adminTokenHash) == "" {
		return unauthorized(fmt.Errorf("admin surface is not configured"))
	}
	token := strings.TrimSpace(r.Header.Get(adminTokenHeader))
	if token == "" {
		return unauthorized(fmt.Errorf("missing %s header", adminTokenHeader))
	}
	if !auth.VerifyToken(s.adminTokenHash, token) {
		return unauthorized(fmt.Errorf("invalid admin token"))
	}
	return nil
}
