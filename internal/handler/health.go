package handler

import "net/http"

// Health handles GET /healthz. Liveness only; dependency health is the
// orchestrator's concern.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
