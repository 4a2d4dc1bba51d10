// Package main runs the webinar seat-booking HTTP server with graceful shutdown.
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

	"github.com/seatwave/backend/config"
	"github.com/seatwave/backend/internal/auth"
	"github.com/seatwave/backend/internal/booking"
	"github.com/seatwave/backend/internal/emaillogs"
	"github.com/seatwave/backend/internal/mailer"
	"github.com/seatwave/backend/internal/middleware"
	"github.com/seatwave/backend/internal/participations"
	"github.com/seatwave/backend/internal/webinars"
	"github.com/seatwave/backend/pkg/database"
	"github.com/seatwave/backend/pkg/queue"
	"github.com/seatwave/backend/pkg/redis"
	"github.com/seatwave/backend/pkg/response"
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

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth / users (also the recipient resolver for notifications)
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Webinars
	webinarRepo := webinars.NewRepository(pool)
	webinarHandler := webinars.NewHandler(webinarRepo)

	// Participations
	participationRepo := participations.NewRepository(pool)

	// Notifier: Redis-queued when available, inline SMTP otherwise.
	smtpSender := mailer.NewSMTP(cfg.Email, logger)
	var notifier booking.Notifier
	var jobQueue *queue.Queue
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Warn("redis unavailable, sending notifications inline", zap.Error(err))
		notifier = mailer.NewDirect(authRepo, smtpSender, logger)
	} else {
		defer rdb.Close()
		jobQueue = queue.NewQueue(rdb.Client, logger)
		notifier = mailer.NewQueueNotifier(jobQueue, logger)
	}

	// Booking
	bookingSvc := booking.NewService(webinarRepo, participationRepo, notifier, logger)
	bookingHandler := booking.NewHandler(bookingSvc, webinarRepo, participationRepo, logger)

	// Email logs
	emailLogsRepo := emaillogs.NewRepository(pool)
	emailLogsHandler := emaillogs.NewHandler(emailLogsRepo, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

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
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Webinars
		api.GET("/webinars", webinarHandler.List)
		api.POST("/webinars", middleware.RequireRole("admin"), webinarHandler.Create)
		api.GET("/webinars/:id", webinarHandler.GetByID)
		api.PATCH("/webinars/:id", webinars.RequireOrganizerAccess(webinarRepo), webinarHandler.Update)
		api.DELETE("/webinars/:id", webinars.RequireOrganizerAccess(webinarRepo), webinarHandler.Delete)

		// Booking
		api.POST("/webinars/:id/book", bookingHandler.Book)
		api.GET("/webinars/:id/availability", bookingHandler.Availability)
		api.GET("/webinars/:id/participants", webinars.RequireOrganizerAccess(webinarRepo), bookingHandler.Participants)

		// Notification audit log
		api.GET("/emails", middleware.RequireRole("admin"), emailLogsHandler.List)
		api.POST("/emails/resend", middleware.RequireRole("admin"), emailLogsHandler.Resend)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

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
