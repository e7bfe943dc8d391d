package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"shop-shielder/internal/config"
	"shop-shielder/internal/db"
	"shop-shielder/internal/email"
	apihttp "shop-shielder/internal/http"
	"shop-shielder/internal/llm"
	"shop-shielder/internal/repository"
	"shop-shielder/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	var (
		userRepo  repository.UserRepository
		badgeRepo repository.BadgeRepository
	)
	if cfg.PreviewDatabase() {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		userRepo = repository.NewMemoryUserRepository()
		badgeRepo = repository.NewMemoryBadgeRepository()
	} else {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer pool.Close()
		userRepo = repository.NewPgUserRepository(pool)
		badgeRepo = repository.NewPgBadgeRepository(pool)
	}

	var llmClient llm.LLMClient
	if cfg.PreviewLLM() {
		logger.Warn("LLM_API_KEY not set, AI tools run in preview mode")
		llmClient = &llm.MockClient{}
	} else {
		llmClient = llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	loginLimiter := service.NewAttemptLimiter(10*time.Minute, 5)
	var tokenStore service.RefreshTokenStore
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisAttemptLimiter(redisClient, 10*time.Minute, 5)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}

	authSvc := service.NewAuthService(logger, userRepo, emailSender, loginLimiter)
	badgeSvc := service.NewBadgeService(logger, badgeRepo, cfg.PublicBaseURL)
	checkoutSvc := service.NewCheckoutService(logger, userRepo, badgeSvc)
	complianceSvc := service.NewComplianceService(llmClient, logger)
	policySvc := service.NewPolicyService(llmClient, logger)
	secretSvc := service.NewSecretScanService(llmClient, logger)

	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc, cfg.PublicBaseURL)
	profileHandler := apihttp.NewProfileHandler(logger, authSvc, jwtSvc, checkoutSvc)
	complianceHandler := apihttp.NewComplianceHandler(logger, complianceSvc, policySvc, secretSvc)
	verifyHandler := apihttp.NewVerifyHandler(logger, authSvc, badgeSvc)
	router := apihttp.NewRouter(logger, jwtSvc, authHandler, profileHandler, complianceHandler, verifyHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
