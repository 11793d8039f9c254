// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dentalscope_backend/internal/auth"
	"dentalscope_backend/internal/clerk"
	"dentalscope_backend/internal/common"
	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/diagnosis"
	"dentalscope_backend/internal/firebase"
	"dentalscope_backend/internal/history"
	"dentalscope_backend/internal/jobs"
	"dentalscope_backend/internal/middleware"
	platformES "dentalscope_backend/internal/platform/elasticsearch"
	"dentalscope_backend/internal/rule"
	"dentalscope_backend/internal/shared"
	"dentalscope_backend/internal/symptom"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	ruleRefreshJob *jobs.RuleRefreshJob

	// Exposed for startup tasks in main (index creation, cache warmup).
	ESClient    *platformES.ESClientWrapper
	AppLogger   *zap.Logger
	RuleService rule.Service
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	symptomHandler *symptom.Handler,
	diagnosisHandler *diagnosis.Handler,
	historyHandler *history.Handler,
	ruleHandler *rule.Handler,
	authHandler *auth.Handler,
	ruleRefreshJob *jobs.RuleRefreshJob,
	firebaseService *firebase.FirebaseService,
	clerkService *clerk.ClerkService,
	userService shared.Service,
	ruleService rule.Service,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader, common.SessionIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(firebaseService, clerkService, userService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "DentalScope API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	symptomHandler.RegisterRoutes(v1)
	diagnosisHandler.RegisterRoutes(v1, authMW)
	historyHandler.RegisterRoutes(v1, authMW)
	ruleHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	authHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: cfg.ServerTimeout,
		// No write timeout: the history stream endpoint holds its connection
		// open for as long as the client listens.
		IdleTimeout: 120 * time.Second,
	}

	return &Server{
		httpServer:     httpServer,
		router:         router,
		cfg:            cfg,
		logger:         logger,
		ruleRefreshJob: ruleRefreshJob,
		ESClient:       esClient,
		AppLogger:      logger,
		RuleService:    ruleService,
	}, nil
}

func (s *Server) Start() error {
	if s.ruleRefreshJob != nil {
		if err := s.ruleRefreshJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start rule refresh job", zap.Error(err))
		}
	} else {
		s.logger.Info("Rule refresh job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.ruleRefreshJob != nil {
		s.ruleRefreshJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
