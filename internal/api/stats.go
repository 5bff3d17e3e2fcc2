package api

import "net/http"

// statsResponse is the JSON response for GET /v1/stats.
type statsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByLanguage map[string]int `json:"by_language"`
	AvgTimeS   float64        `json:"avg_time_s"`
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetSubmissionStats(r.Context())
	if err != nil {
		s.logger.Error("get submission stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	s.writeJSON(w, http.StatusOK, statsResponse{
		Total:      stats.Total,
		ByStatus:   stats.CountByStatus,
		ByLanguage: stats.CountByLanguage,
		AvgTimeS:   stats.AvgTimeS,
	})
}
