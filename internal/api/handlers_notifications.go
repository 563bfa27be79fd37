package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
)

// walletParam extracts and validates the wallet path parameter.
func walletParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	wallet := mux.Vars(r)["wallet"]
	if !common.IsHexAddress(wallet) {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid wallet address", nil)
		return "", false
	}
	return wallet, true
}

// handleListNotifications handles GET /api/wallets/{wallet}/notifications.
// Supports ?filter=all|active|ending-soon|ended; unknown values fall back
// to all. Counts are always computed over the unfiltered log.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	filter := types.ParseNotificationFilter(r.URL.Query().Get("filter"))

	page, err := s.notificationService.List(r.Context(), wallet, filter)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("ListNotifications failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// handleRefreshNotifications handles POST /api/wallets/{wallet}/notifications/refresh.
// Rebuilds the wallet's log from current snapshots. Accepts an optional
// ?now= unix-seconds override, mainly for clients replaying history.
func (s *Server) handleRefreshNotifications(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	nowSeconds := time.Now().Unix()
	if raw := r.URL.Query().Get("now"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid now parameter", nil)
			return
		}
		nowSeconds = parsed
	}

	entries, err := s.notificationService.RefreshAt(r.Context(), wallet, nowSeconds)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("RefreshNotifications failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": entries,
	})
}

// handleMarkAllRead handles POST /api/wallets/{wallet}/notifications/read.
func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	entries, err := s.notificationService.MarkAllRead(r.Context(), wallet)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("MarkAllRead failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": entries,
		"unreadCount":   0,
	})
}

// handleUnreadCount handles GET /api/wallets/{wallet}/notifications/unread-count.
func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	wallet, ok := walletParam(w, r)
	if !ok {
		return
	}

	count, err := s.notificationService.UnreadCount(r.Context(), wallet)
	if err != nil {
		logging.GetGlobalLogger().WithError(err).Error("UnreadCount failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"unreadCount": count})
}
