package httpapi

import (
	"net/http"
)

func (s *Server) dashboardStats(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	stats, err := s.dashboardSvc.UserStats(r.Context(), auth.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
