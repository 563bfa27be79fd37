// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/crowdchain-engine/internal/logging"
	"github.com/crowdchain-engine/internal/models"
	"github.com/crowdchain-engine/internal/service"
	"github.com/crowdchain-engine/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// NotificationServiceInterface defines notification operations the API needs.
type NotificationServiceInterface interface {
	RefreshAt(ctx context.Context, wallet string, nowSeconds int64) ([]models.NotificationEntry, error)
	List(ctx context.Context, wallet string, filter types.NotificationFilter) (*service.NotificationPage, error)
	UnreadCount(ctx context.Context, wallet string) (int, error)
	MarkAllRead(ctx context.Context, wallet string) ([]models.NotificationEntry, error)
}

// CampaignServiceInterface defines campaign draft operations the API needs.
type CampaignServiceInterface interface {
	Validate(draft *models.CampaignDraft) (*models.CampaignDraft, error)
	Prepare(ctx context.Context, draft *models.CampaignDraft, image []byte) (*models.CampaignPayload, error)
}

// RewardServiceInterface defines reward operations the API needs.
type RewardServiceInterface interface {
	Summary(ctx context.Context, wallet string) (*models.RewardSummary, error)
}

// LeaderboardServiceInterface defines leaderboard operations the API needs.
type LeaderboardServiceInterface interface {
	Top(ctx context.Context, n int) ([]models.LeaderboardEntry, error)
}

// Server represents the HTTP API server.
type Server struct {
	router              *mux.Router
	httpServer          *http.Server
	notificationService NotificationServiceInterface
	campaignService     CampaignServiceInterface
	rewardService       RewardServiceInterface
	leaderboardService  LeaderboardServiceInterface
	config              *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int
	PaidTierRPS     int
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	notificationService NotificationServiceInterface,
	campaignService CampaignServiceInterface,
	rewardService RewardServiceInterface,
	leaderboardService LeaderboardServiceInterface,
) *Server {
	s := &Server{
		router:              mux.NewRouter(),
		notificationService: notificationService,
		campaignService:     campaignService,
		rewardService:       rewardService,
		leaderboardService:  leaderboardService,
		config:              config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes.
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Middleware order matters: logging wraps everything, rate limiting
	// runs after CORS so preflights are never throttled.
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Notification endpoints
	api.HandleFunc("/wallets/{wallet}/notifications", s.handleListNotifications).Methods("GET")
	api.HandleFunc("/wallets/{wallet}/notifications/refresh", s.handleRefreshNotifications).Methods("POST")
	api.HandleFunc("/wallets/{wallet}/notifications/read", s.handleMarkAllRead).Methods("POST")
	api.HandleFunc("/wallets/{wallet}/notifications/unread-count", s.handleUnreadCount).Methods("GET")

	// Reward endpoints
	api.HandleFunc("/wallets/{wallet}/rewards", s.handleGetRewards).Methods("GET")

	// Campaign draft endpoints
	api.HandleFunc("/campaigns/validate", s.handleValidateDraft).Methods("POST")
	api.HandleFunc("/campaigns/prepare", s.handlePrepareCampaign).Methods("POST")

	// Leaderboard endpoints
	api.HandleFunc("/leaderboard", s.handleGetLeaderboard).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "crowdchain-engine",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.GetGlobalLogger().Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() *mux.Router {
	return s.router
}
