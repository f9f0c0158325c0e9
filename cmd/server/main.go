// Package main runs the relief coordination HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relieflink/backend/config"
	"github.com/relieflink/backend/internal/analytics"
	"github.com/relieflink/backend/internal/assignments"
	"github.com/relieflink/backend/internal/auth"
	"github.com/relieflink/backend/internal/matching"
	"github.com/relieflink/backend/internal/middleware"
	"github.com/relieflink/backend/internal/models"
	"github.com/relieflink/backend/internal/notify"
	"github.com/relieflink/backend/internal/organizations"
	"github.com/relieflink/backend/internal/realtime"
	"github.com/relieflink/backend/internal/requests"
	"github.com/relieflink/backend/internal/sequence"
	"github.com/relieflink/backend/internal/triage"
	"github.com/relieflink/backend/internal/worker"
	"github.com/relieflink/backend/pkg/database"
	"github.com/relieflink/backend/pkg/queue"
	"github.com/relieflink/backend/pkg/redis"
	"github.com/relieflink/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	pubsub := realtime.NewPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, pubsub)

	jobQueue := queue.NewQueue(rdb.Client, logger)
	notifier := notify.NewNotifier(jobQueue, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Requests (intake, needs, components)
	allocator := sequence.NewAllocator(pool, cfg.Sequence.RequestIDBase)
	classifier := triage.NewKeywordClassifier()
	requestRepo := requests.NewRepository(pool)
	requestHandler := requests.NewHandler(requestRepo, allocator, classifier, notifier, hub, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo)

	// Matching
	matcher := matching.NewMatcher(orgRepo)
	matchHandler := matching.NewHandler(matcher, requestRepo, cfg.Matching)

	// Assignments
	assignmentRepo := assignments.NewRepository(pool)
	assignmentHandler := assignments.NewHandler(assignmentRepo, requestRepo, notifier, hub, logger)

	// Analytics
	analyticsRepo := analytics.NewRepository(pool)
	analyticsHandler := analytics.NewHandler(analyticsRepo)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	dispatcherOrAdmin := middleware.RequireRole(string(models.RoleDispatcher), string(models.RoleAdmin))
	adminOnly := middleware.RequireRole(string(models.RoleAdmin))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Public intake: victims may not have an account when disaster strikes.
	router.POST("/requests", requestHandler.Create)

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Requests
		api.GET("/requests", requestHandler.List)
		api.GET("/requests/:id", requestHandler.GetByID)
		api.GET("/requests/:id/components", requestHandler.ListComponents)
		api.PATCH("/requests/:id/needs/:index", requestHandler.UpdateNeed)
		api.DELETE("/requests/:id/needs/:index", requestHandler.DeleteNeed)
		api.GET("/requests/:id/matches", dispatcherOrAdmin, matchHandler.FindMatches)

		// Assignments
		api.POST("/assignments", dispatcherOrAdmin, assignmentHandler.Create)
		api.PATCH("/assignments/:id/status", dispatcherOrAdmin, assignmentHandler.UpdateStatus)
		api.POST("/components/:id/assign", dispatcherOrAdmin, assignmentHandler.AssignComponent)
		api.PATCH("/components/:id/status", dispatcherOrAdmin, assignmentHandler.UpdateComponentStatus)

		// Organizations
		api.POST("/organizations", dispatcherOrAdmin, orgHandler.Create)
		api.GET("/organizations", orgHandler.List)
		api.GET("/organizations/:id", orgHandler.GetByID)
		api.PATCH("/organizations/:id/verification", adminOnly, orgHandler.UpdateVerification)
		api.PATCH("/organizations/:id/suspend", adminOnly, orgHandler.UpdateSuspended)
		api.PUT("/organizations/:id/offers", dispatcherOrAdmin, orgHandler.UpdateOffers)

		// Dashboard
		api.GET("/dashboard", analyticsHandler.GetDashboard)
		api.GET("/dashboard/trends", analyticsHandler.GetTrends)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (notification delivery) runs in-process too, so a single
	// binary works for small deployments. cmd/worker runs the same loop standalone.
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	processor := worker.NewNotificationProcessor(jobQueue, nil, logger)
	go processor.Run(workerCtx)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
