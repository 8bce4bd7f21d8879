package httpapi

import (
	"net/http"
	"time"
)

func (s *Server) healthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// healthReady reports whether the service can serve traffic: the database
// must answer a ping within the request deadline.
func (s *Server) healthReady(w http.ResponseWriter, r *http.Request) {
	dbOK := s.db != nil && s.db.Ping(r.Context()) == nil

	status := "ready"
	code := http.StatusOK
	if !dbOK {
		status = "not_ready"
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": map[string]bool{
			"database": dbOK,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
