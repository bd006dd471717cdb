package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "gymetra/docs"
	"gymetra/internal/caching"
	"gymetra/internal/config"
	"gymetra/internal/handlers"
	"gymetra/internal/jobs/background"
	"gymetra/internal/metrics"
	"gymetra/internal/middleware"
	"gymetra/internal/migrations"
	"gymetra/internal/models"
	"gymetra/internal/repositories"
	"gymetra/internal/services"
	"gymetra/pkg/database"
	"gymetra/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "gymetra",
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.GeneratedJWTSecret() {
		log.Warn().Msg("using a generated JWT secret; tokens will not survive a restart")
	}

	// Database connection
	pool, err := database.NewPool(ctx, cfg.DB.URL, cfg.DB.MaxConns, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := migrations.Up(ctx, pool, log); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	defer cacheSvc.Close()

	receiptStorage, err := services.NewMinioReceiptStorage(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Minio.Bucket,
		cfg.Minio.PresignTTL,
	)
	if err != nil {
		return fmt.Errorf("init receipt storage: %w", err)
	}
	if err := receiptStorage.EnsureBucketExists(ctx); err != nil {
		// Receipts are optional; the rest of the API keeps working.
		log.Warn().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("receipt bucket unavailable")
	}

	mailSvc := services.NewSMTPMailService(services.SMTPConfig{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromAddress: cfg.SMTP.FromAddress,
		FromName:    cfg.SMTP.FromName,
		BaseURL:     cfg.SMTP.BaseURL,
	}, log)

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	membershipRepo := repositories.NewMembershipRepo(pool)
	userMembershipRepo := repositories.NewUserMembershipRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)

	// Create services
	authSvc := services.NewAuthService(userRepo, cacheSvc, mailSvc, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)
	membershipSvc := services.NewMembershipService(membershipRepo, cacheSvc, cfg.Redis.PlanCacheTTL, log)
	lifecycleSvc := services.NewUserMembershipService(userMembershipRepo, membershipSvc, log)
	paymentSvc := services.NewPaymentService(paymentRepo, userMembershipRepo, receiptStorage, log)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	jobMetrics := metrics.NewJobMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	scheduler, err := background.NewJobScheduler(lifecycleSvc, jobMetrics, background.Config{
		CleanupInterval: cfg.Jobs.PendingCleanupInterval,
		PendingMaxAge:   cfg.Jobs.PendingMaxAge,
	}, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown")
		}
	}()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(httpMetrics.Middleware())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	versionMiddleware := middleware.NewVersionMiddleware(version)
	e.Use(versionMiddleware.APIVersionResolver())

	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, receiptStorage, version)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1", versionMiddleware.VersionHeader("v1"))
	registerRoutes(v1, routeDeps{
		jwt:             middleware.JWTMiddleware(authSvc, log),
		auth:            handlers.NewAuthHandlers(authSvc, log),
		memberships:     handlers.NewMembershipHandlers(membershipSvc, log),
		userMemberships: handlers.NewUserMembershipHandlers(lifecycleSvc, log),
		payments:        handlers.NewPaymentHandlers(paymentSvc, lifecycleSvc, log),
	})

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		log.Info().Str("addr", addr).Str("version", version).Str("env", cfg.App.Env).Msg("gymetra server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

type routeDeps struct {
	jwt             echo.MiddlewareFunc
	auth            *handlers.AuthHandlers
	memberships     *handlers.MembershipHandlers
	userMemberships *handlers.UserMembershipHandlers
	payments        *handlers.PaymentHandlers
}

func registerRoutes(v1 *echo.Group, d routeDeps) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Authentication routes (no JWT required)
	auth := v1.Group("/auth")
	auth.POST("/register", d.auth.Register)
	auth.POST("/login", d.auth.Login)
	auth.POST("/password/forgot", d.auth.ForgotPassword)
	auth.POST("/password/reset", d.auth.ResetPassword)
	auth.POST("/logout", d.auth.Logout, d.jwt)

	protected := v1.Group("", d.jwt)

	protected.GET("/me", d.auth.Me)
	protected.PUT("/users/:id", d.auth.UpdateUser)

	// Membership catalog
	protected.GET("/memberships", d.memberships.ListPlans)
	protected.GET("/memberships/:id", d.memberships.GetPlan)
	protected.POST("/memberships", d.memberships.CreatePlan, adminOnly)
	protected.PUT("/memberships/:id", d.memberships.UpdatePlan, adminOnly)
	protected.DELETE("/memberships/:id", d.memberships.DeletePlan, adminOnly)

	// Subscriptions
	um := protected.Group("/user-memberships")
	um.POST("", d.userMemberships.CreateOrUpdate)
	um.GET("", d.userMemberships.List, adminOnly)
	um.GET("/:id", d.userMemberships.Get)
	um.PUT("/:id/activate", d.userMemberships.Activate, adminOnly)
	um.PUT("/:id/suspend", d.userMemberships.Suspend)
	um.PUT("/:id/cancel", d.userMemberships.Cancel)
	um.PATCH("/:id/status", d.userMemberships.UpdateStatus)
	um.DELETE("/:id", d.userMemberships.Delete, adminOnly)
	um.GET("/user/:userId", d.userMemberships.ListByUser)
	um.GET("/user/:userId/remaining-days", d.userMemberships.RemainingDays)
	um.GET("/user/:userId/pending", d.userMemberships.HasPending)

	// Payments
	payments := protected.Group("/payments")
	payments.POST("", d.payments.Create)
	payments.GET("", d.payments.List, adminOnly)
	payments.GET("/:id", d.payments.Get)
	payments.GET("/user/:userId", d.payments.ListByUser)
	payments.PATCH("/:id/status", d.payments.UpdateStatus, adminOnly)
	payments.DELETE("/:id", d.payments.Delete, adminOnly)
	payments.POST("/:id/receipt", d.payments.UploadReceipt)
	payments.GET("/:id/receipt", d.payments.ReceiptURL)
}
