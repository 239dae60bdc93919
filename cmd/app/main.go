package main

import (
	"context"
	"log"
	"net/http"

	"github.com/barak7821/CRM-Dashboard/external/abstractapi"
	"github.com/barak7821/CRM-Dashboard/external/google"
	"github.com/barak7821/CRM-Dashboard/external/resend"

	"github.com/barak7821/CRM-Dashboard/internal/config"
	"github.com/barak7821/CRM-Dashboard/internal/db"
	"github.com/barak7821/CRM-Dashboard/internal/middleware"
	"github.com/barak7821/CRM-Dashboard/internal/repository"
	"github.com/barak7821/CRM-Dashboard/internal/seed"
	"github.com/barak7821/CRM-Dashboard/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("cannot init database", zap.Error(err))
	}
	defer pool.Close()

	redisClient, err := repository.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("cannot init redis", zap.Error(err))
	}
	defer redisClient.Close()

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if cfg.UseEmailReputation {
		emailValidator, err = abstractapi.NewAbstractReputationValidator(cfg.ReputationAPIKey)
		if err != nil {
			logger.Fatal("cannot init email validator", zap.Error(err))
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	var mailer services.CodeSender
	if cfg.ResendAPIKey != "" {
		mailer, err = resend.NewResendMailer(cfg.ResendAPIKey, "CRM Dashboard <onboarding@resend.dev>")
		if err != nil {
			logger.Fatal("cannot init mailer", zap.Error(err))
		}
	} else {
		logger.Warn("RESEND_API_KEY not set, reset codes will only be logged")
		mailer = services.NewLogSender(logger)
	}

	var googleVerifier services.IdentityVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier, err = google.NewVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			logger.Fatal("cannot init google verifier", zap.Error(err))
		}
	} else {
		logger.Warn("GOOGLE_CLIENT_ID not set, google sign-in disabled")
	}

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)
	codeRepo := repository.NewResetCodeRepository(redisClient)

	// ======================
	// SERVICES
	// ======================
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, codeRepo, mailer, emailValidator,
		tokens, googleVerifier, cfg.ResetCodeTTL, logger)
	userSvc := services.NewUserService(userRepo, logger)
	clientSvc := services.NewClientService(clientRepo, userRepo, logger)

	auth := middleware.NewAuth(tokens, userRepo, logger)

	if cfg.SeedDemoData {
		if err := seed.Run(ctx, userRepo, clientRepo, logger); err != nil {
			logger.Fatal("cannot seed demo data", zap.Error(err))
		}
	}

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigin},
	}))

	api := e.Group("/api")

	// ======================
	// ROUTES
	// ======================
	registerAuthRoutes(api, authSvc, logger)
	registerUserRoutes(api, userSvc, auth, logger)
	registerAdminRoutes(api, userSvc, clientSvc, auth, logger)
	registerClientRoutes(api, clientSvc, auth, logger)

	api.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "Running")
	})

	// ======================
	// SERVER
	// ======================
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
