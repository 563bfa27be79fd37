package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crowdchain-engine/internal/amount"
	apperrors "github.com/crowdchain-engine/internal/errors"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/service"
	"github.com/crowdchain-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWallet = "0xAbCd000000000000000000000000000000001234"

type mockNotificationService struct {
	entries    []models.NotificationEntry
	page       *service.NotificationPage
	unread     int
	err        error
	lastNow    int64
	lastFilter types.NotificationFilter
}

func (m *mockNotificationService) RefreshAt(ctx context.Context, wallet string, nowSeconds int64) ([]models.NotificationEntry, error) {
	m.lastNow = nowSeconds
	return m.entries, m.err
}

func (m *mockNotificationService) List(ctx context.Context, wallet string, filter types.NotificationFilter) (*service.NotificationPage, error) {
	m.lastFilter = filter
	return m.page, m.err
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, wallet string) (int, error) {
	return m.unread, m.err
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, wallet string) ([]models.NotificationEntry, error) {
	return m.entries, m.err
}

type mockCampaignService struct {
	payload   *models.CampaignPayload
	err       error
	lastDraft *models.CampaignDraft
}

func (m *mockCampaignService) Validate(draft *models.CampaignDraft) (*models.CampaignDraft, error) {
	m.lastDraft = draft
	if m.err != nil {
		return nil, m.err
	}
	return draft, nil
}

func (m *mockCampaignService) Prepare(ctx context.Context, draft *models.CampaignDraft, image []byte) (*models.CampaignPayload, error) {
	m.lastDraft = draft
	return m.payload, m.err
}

type mockRewardService struct {
	summary *models.RewardSummary
	err     error
}

func (m *mockRewardService) Summary(ctx context.Context, wallet string) (*models.RewardSummary, error) {
	return m.summary, m.err
}

type mockLeaderboardService struct {
	entries []models.LeaderboardEntry
	err     error
	lastN   int
}

func (m *mockLeaderboardService) Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error) {
	m.lastN = n
	return m.entries, m.err
}

type serverMocks struct {
	notifications *mockNotificationService
	campaigns     *mockCampaignService
	rewards       *mockRewardService
	leaderboard   *mockLeaderboardService
}

func newTestServer(t *testing.T) (*Server, *serverMocks) {
	t.Helper()

	mocks := &serverMocks{
		notifications: &mockNotificationService{page: &service.NotificationPage{
			Notifications: []models.NotificationEntry{},
			Counts:        map[types.NotificationFilter]int{},
		}},
		campaigns:   &mockCampaignService{},
		rewards:     &mockRewardService{summary: &models.RewardSummary{}},
		leaderboard: &mockLeaderboardService{},
	}

	server := NewServer(&ServerConfig{
		Host:        "localhost",
		Port:        "0",
		ReadTimeout: 5 * time.Second,
		FreeTierRPS: 1000,
		PaidTierRPS: 1000,
	}, mocks.notifications, mocks.campaigns, mocks.rewards, mocks.leaderboard)

	return server, mocks
}

func doRequest(server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "crowdchain-engine", body["service"])
}

func TestHandleListNotifications(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.notifications.page = &service.NotificationPage{
		Notifications: []models.NotificationEntry{{CampaignID: "7", Title: "Solar Well"}},
		Counts: map[types.NotificationFilter]int{
			types.FilterAll:    1,
			types.FilterActive: 1,
		},
		UnreadCount: 1,
	}

	rec := doRequest(server, "GET", "/api/wallets/"+testWallet+"/notifications?filter=active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.FilterActive, mocks.notifications.lastFilter)

	var page service.NotificationPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, "7", page.Notifications[0].CampaignID)
	assert.Equal(t, 1, page.UnreadCount)
}

func TestHandleListNotificationsUnknownFilterFallsBack(t *testing.T) {
	server, mocks := newTestServer(t)

	rec := doRequest(server, "GET", "/api/wallets/"+testWallet+"/notifications?filter=bogus", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.FilterAll, mocks.notifications.lastFilter)
}

func TestHandleListNotificationsInvalidWallet(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, "GET", "/api/wallets/not-an-address/notifications", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestHandleRefreshNotifications(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.notifications.entries = []models.NotificationEntry{{CampaignID: "3"}}

	rec := doRequest(server, "POST", "/api/wallets/"+testWallet+"/notifications/refresh?now=1700000000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1700000000), mocks.notifications.lastNow)

	var body map[string][]models.NotificationEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["notifications"], 1)
}

func TestHandleRefreshNotificationsInvalidNow(t *testing.T) {
	server, _ := newTestServer(t)

	for _, now := range []string{"-5", "yesterday"} {
		rec := doRequest(server, "POST", "/api/wallets/"+testWallet+"/notifications/refresh?now="+now, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "now=%s", now)
	}
}

func TestHandleRefreshNotificationsServiceError(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.notifications.err = apperrors.NewCacheError("load notification log", fmt.Errorf("connection refused"))

	rec := doRequest(server, "POST", "/api/wallets/"+testWallet+"/notifications/refresh", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleMarkAllRead(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.notifications.entries = []models.NotificationEntry{{CampaignID: "3", Read: true}}

	rec := doRequest(server, "POST", "/api/wallets/"+testWallet+"/notifications/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Notifications []models.NotificationEntry `json:"notifications"`
		UnreadCount   int                        `json:"unreadCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0, body.UnreadCount)
	require.Len(t, body.Notifications, 1)
	assert.True(t, body.Notifications[0].Read)
}

func TestHandleUnreadCount(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.notifications.unread = 4

	rec := doRequest(server, "GET", "/api/wallets/"+testWallet+"/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body["unreadCount"])
}

func TestHandleGetRewards(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.rewards.summary = &models.RewardSummary{
		TotalEarnedDisplay: "0.12",
		Tier:               types.TierSilver,
		TierLabel:          "Silver Supporter",
	}

	rec := doRequest(server, "GET", "/api/wallets/"+testWallet+"/rewards", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.RewardSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, types.TierSilver, summary.Tier)
	assert.Equal(t, "0.12", summary.TotalEarnedDisplay)
}

func TestHandleValidateDraft(t *testing.T) {
	server, mocks := newTestServer(t)

	rec := doRequest(server, "POST", "/api/campaigns/validate", map[string]interface{}{
		"title":        "Community Garden",
		"description":  "Planting beds and irrigation for the north lot.",
		"targetAmount": "1.5",
		"durationDays": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, mocks.campaigns.lastDraft)
	assert.Equal(t, amount.MustBaseUnits("1.5"), mocks.campaigns.lastDraft.TargetAmount)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["valid"])
}

func TestHandleValidateDraftBadAmount(t *testing.T) {
	server, mocks := newTestServer(t)

	rec := doRequest(server, "POST", "/api/campaigns/validate", map[string]interface{}{
		"title":        "Community Garden",
		"description":  "Planting beds and irrigation for the north lot.",
		"targetAmount": "1.5",
		"durationDays": 30,
		"milestones": []map[string]interface{}{
			{"title": "Beds", "description": "Raised beds", "amount": "not-a-number"},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, mocks.campaigns.lastDraft)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "milestones[0].amount", resp.Error.Details["field"])
}

func TestHandleValidateDraftRejectedByRules(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.campaigns.err = apperrors.NewValidationError("title", "title is required")

	rec := doRequest(server, "POST", "/api/campaigns/validate", map[string]interface{}{
		"title":        "",
		"description":  "Missing its title.",
		"targetAmount": "1",
		"durationDays": 30,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidateDraftMalformedBody(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/campaigns/validate", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrepareCampaign(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.campaigns.payload = &models.CampaignPayload{
		MetadataHash:    "QmTestHash",
		DurationSeconds: 30 * 86400,
	}

	rec := doRequest(server, "POST", "/api/campaigns/prepare", map[string]interface{}{
		"title":        "Community Garden",
		"description":  "Planting beds and irrigation for the north lot.",
		"targetAmount": "1.5",
		"durationDays": 30,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var payload models.CampaignPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "QmTestHash", payload.MetadataHash)
	assert.Equal(t, int64(30*86400), payload.DurationSeconds)
}

func TestHandlePrepareCampaignInvalidImage(t *testing.T) {
	server, _ := newTestServer(t)

	rec := doRequest(server, "POST", "/api/campaigns/prepare", map[string]interface{}{
		"title":        "Community Garden",
		"description":  "Planting beds and irrigation for the north lot.",
		"targetAmount": "1.5",
		"durationDays": 30,
		"image":        "%%%not-base64%%%",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePrepareCampaignPinningFails(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.campaigns.err = apperrors.NewProviderError("metadata pinning", fmt.Errorf("503 from gateway"))

	rec := doRequest(server, "POST", "/api/campaigns/prepare", map[string]interface{}{
		"title":        "Community Garden",
		"description":  "Planting beds and irrigation for the north lot.",
		"targetAmount": "1.5",
		"durationDays": 30,
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleGetLeaderboard(t *testing.T) {
	server, mocks := newTestServer(t)
	mocks.leaderboard.entries = []models.LeaderboardEntry{
		{Wallet: "0xaaaa", Rank: 1, TopThree: true},
	}

	rec := doRequest(server, "GET", "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultLeaderboardSize, mocks.leaderboard.lastN)

	var body map[string][]models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body["leaderboard"], 1)
	assert.True(t, body["leaderboard"][0].TopThree)
}

func TestHandleGetLeaderboardSizeParam(t *testing.T) {
	server, mocks := newTestServer(t)

	rec := doRequest(server, "GET", "/api/leaderboard?n=25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, mocks.leaderboard.lastN)

	rec = doRequest(server, "GET", "/api/leaderboard?n=5000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, maxLeaderboardSize, mocks.leaderboard.lastN)
}

func TestHandleGetLeaderboardInvalidSize(t *testing.T) {
	server, _ := newTestServer(t)

	for _, n := range []string{"0", "-3", "ten"} {
		rec := doRequest(server, "GET", "/api/leaderboard?n="+n, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "n=%s", n)
	}
}
