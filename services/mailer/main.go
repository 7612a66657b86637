package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"novamailer/services/mailer/email"
	"novamailer/services/mailer/handlers"
	"novamailer/services/mailer/models"
	"novamailer/services/mailer/repository"
	"novamailer/services/mailer/usecase"
	"novamailer/shared/config"
	"novamailer/shared/database"
	"novamailer/shared/logger"
	"novamailer/shared/middleware"
	"novamailer/shared/redis"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger
	log := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		Environment: os.Getenv("ENVIRONMENT"),
	})

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Info("Starting Mailer service...")

	// Connect to database
	dbConfig := database.DefaultConfig(cfg.Database.URL)
	db, err := database.Connect(dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run database migrations
	if err := db.Migrate(
		&models.User{},
		&models.OTP{},
		&models.SMTPConfig{},
		&models.Campaign{},
		&models.Recipient{},
		&models.Attachment{},
		&models.Template{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Info("Database connected and migrations completed")

	// Connect to Redis for the dashboard cache. The cache is optional:
	// without REDIS_URL stats are computed on every request.
	var cache *redis.Client
	if cfg.Redis.URL != "" {
		cache, err = redis.ConnectRedis(redis.DefaultConfig(cfg.Redis.URL))
		if err != nil {
			log.Errorf("Failed to connect to Redis, dashboard cache disabled: %v", err)
			cache = nil
		} else {
			defer cache.Close()
			log.Info("Redis connected")
		}
	}

	// Set Gin mode based on environment
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Outbound SMTP sender
	if cfg.SMTP.AllowInsecureTLS {
		log.Warn("SMTP certificate verification is disabled (SMTP_ALLOW_INSECURE_TLS=true)")
	}
	sender := email.NewSender(&email.Options{
		Timeout:          30 * time.Second,
		AllowInsecureTLS: cfg.SMTP.AllowInsecureTLS,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	smtpRepo := repository.NewSMTPRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	recipientRepo := repository.NewRecipientRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	// Create JWT config
	jwtConfig := middleware.DefaultJWTConfig(cfg.JWT.Secret)

	// Initialize usecases
	otpUsecase := usecase.NewOTPUsecase(otpRepo)
	authUsecase := usecase.NewAuthUsecase(userRepo, smtpRepo, otpUsecase, sender, jwtConfig)
	campaignUsecase := usecase.NewCampaignUsecase(campaignRepo, recipientRepo, attachmentRepo, smtpRepo, sender)
	smtpUsecase := usecase.NewSMTPUsecase(smtpRepo)
	templateUsecase := usecase.NewTemplateUsecase(templateRepo)
	statsUsecase := usecase.NewStatsUsecase(campaignRepo, recipientRepo, cache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase)
	campaignHandler := handlers.NewCampaignHandler(campaignUsecase)
	smtpHandler := handlers.NewSMTPHandler(smtpUsecase)
	templateHandler := handlers.NewTemplateHandler(templateUsecase)
	statsHandler := handlers.NewStatsHandler(statsUsecase)
	uploadHandler := handlers.NewUploadHandler()

	// Create Gin router
	router := gin.New()

	// Setup common middleware
	middleware.SetupCommonMiddleware(router)

	// Setup routes
	setupRoutes(router, db, authHandler, campaignHandler, smtpHandler, templateHandler, statsHandler, uploadHandler, jwtConfig)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Infof("Mailer service starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Mailer service...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Mailer service stopped")
}

// setupRoutes configures all routes for the mailer service
func setupRoutes(
	router *gin.Engine,
	db *database.DB,
	authHandler *handlers.AuthHandler,
	campaignHandler *handlers.CampaignHandler,
	smtpHandler *handlers.SMTPHandler,
	templateHandler *handlers.TemplateHandler,
	statsHandler *handlers.StatsHandler,
	uploadHandler *handlers.UploadHandler,
	jwtConfig *middleware.JWTConfig,
) {
	// Health check endpoint
	router.GET("/health", healthHandler(db))

	// Public authentication routes (no JWT required)
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-login", authHandler.VerifyLogin)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	// Current user route (requires JWT)
	router.GET("/auth/me", middleware.JWTMiddleware(jwtConfig), authHandler.Me)

	// API v1 routes (all require JWT authentication)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTMiddleware(jwtConfig))
	{
		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.Create)                                        // POST /api/v1/campaigns
			campaigns.GET("", campaignHandler.List)                                           // GET /api/v1/campaigns
			campaigns.GET("/:id", campaignHandler.Get)                                        // GET /api/v1/campaigns/:id
			campaigns.GET("/:id/details", campaignHandler.Details)                            // GET /api/v1/campaigns/:id/details
			campaigns.POST("/:id/upload-csv", campaignHandler.UploadCSV)                      // POST /api/v1/campaigns/:id/upload-csv
			campaigns.POST("/:id/preview", campaignHandler.Preview)                           // POST /api/v1/campaigns/:id/preview
			campaigns.POST("/:id/test-send", campaignHandler.TestSend)                        // POST /api/v1/campaigns/:id/test-send
			campaigns.POST("/:id/send", campaignHandler.Send)                                 // POST /api/v1/campaigns/:id/send
			campaigns.POST("/:id/attachments", campaignHandler.UploadAttachment)              // POST /api/v1/campaigns/:id/attachments
			campaigns.GET("/:id/attachments", campaignHandler.ListAttachments)                // GET /api/v1/campaigns/:id/attachments
			campaigns.DELETE("/:id/attachments/:attachment_id", campaignHandler.DeleteAttachment) // DELETE /api/v1/campaigns/:id/attachments/:attachment_id
		}

		smtp := v1.Group("/smtp")
		{
			smtp.POST("", smtpHandler.Upsert) // POST /api/v1/smtp
			smtp.GET("", smtpHandler.Get)     // GET /api/v1/smtp
		}

		templates := v1.Group("/templates")
		{
			templates.POST("", templateHandler.Create) // POST /api/v1/templates
			templates.GET("", templateHandler.List)    // GET /api/v1/templates
		}

		v1.GET("/stats/dashboard", statsHandler.Dashboard) // GET /api/v1/stats/dashboard

		v1.POST("/uploads/csv/preview", uploadHandler.PreviewCSV) // POST /api/v1/uploads/csv/preview
	}
}

// healthHandler handles health check requests
func healthHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Health(); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"service":   "mailer-service",
			"timestamp": time.Now().UTC(),
			"version":   "1.0.0",
		})
	}
}
