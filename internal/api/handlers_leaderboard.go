package api

import (
	"net/http"
	"strconv"

	"github.com/crowdchain-engine/internal/logging"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

// handleGetLeaderboard handles GET /api/leaderboard?n=10. Returns ranked
// contributors; an empty array is a valid leaderboard.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := defaultLeaderboardSize
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid n parameter", nil)
			return
		}
		n = parsed
	}
	if n > maxLeaderboardSize {
		n = maxLeaderboardSize
	}

	entries, err := s.leaderboardService.Top(r.Context(), n)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("GetLeaderboard failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboard": entries,
	})
}
