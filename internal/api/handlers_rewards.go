package api

import (
	"net/http"

	"github.com/crowdchain-engine/internal/logging"
)

// handleGetRewards handles GET /api/wallets/{wallet}/rewards. Returns the
// reward summary: total earned, tier, and the resolved badge views.
func (s *Server) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	summary, err := s.rewardService.Summary(r.Context(), wallet)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("GetRewards failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
