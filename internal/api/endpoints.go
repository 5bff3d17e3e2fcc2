package api

import "net/http"

func (s *Server) handleListEndpoints(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.client.Registry().ByPriority())
}

// handleEndpointsHealth probes every configured endpoint concurrently and
// reports the per-endpoint outcome. Individual probe failures show up as
// unhealthy entries rather than failing the whole response.
func (s *Server) handleEndpointsHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.client.CheckAll(r.Context())
	s.writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	langs, _, err := s.client.Languages(r.Context())
	if err != nil {
		s.logger.Error("list languages", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, langs)
}
