package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/jeogi-market/docs" // Swagger docs
	"github.com/redmonkez12/jeogi-market/internal/account"
	"github.com/redmonkez12/jeogi-market/internal/auth"
	"github.com/redmonkez12/jeogi-market/internal/config"
	"github.com/redmonkez12/jeogi-market/internal/database"
	"github.com/redmonkez12/jeogi-market/internal/email"
	httpServer "github.com/redmonkez12/jeogi-market/internal/http"
	"github.com/redmonkez12/jeogi-market/internal/logging"
	"github.com/redmonkez12/jeogi-market/internal/media"
	"github.com/redmonkez12/jeogi-market/internal/product"
	"github.com/redmonkez12/jeogi-market/internal/ratelimit"
	"github.com/redmonkez12/jeogi-market/internal/signup"
	"github.com/redmonkez12/jeogi-market/internal/storage"
)

// @title           Jeogi Market API
// @version         1.0
// @description     Campus marketplace API: email-link signup, bearer tokens, product listings and image uploads.

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_format", cfg.Auth.TokenFormat,
	)

	// Initialize database connection
	db, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// Initialize Redis connection
	redisClient, err := initRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize object storage
	objectStore, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize token service
	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	if !cfg.Auth.VerifySignatures {
		logger.Warn("AUTH_VERIFY_SIGNATURES=false: bearer tokens are decoded without signature checks")
	}

	// Initialize email service
	emailService, err := email.NewService(newEmailSender(cfg.Email, logger), cfg.Signup.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Initialize repositories
	accountRepo := account.NewRepository(db)
	signupRepo := signup.NewRepository(db)
	productRepo := product.NewRepository(db)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewLimiter(redisClient, ratelimit.WithEmailCooldown(cfg.Signup.EmailCooldown))

	// Initialize services
	authService := auth.NewService(accountRepo, tokenService, logger, cfg.Auth.AccessTokenDuration)
	signupService := signup.NewService(signupRepo, emailService, logger, signup.Options{
		TokenTTL:           cfg.Signup.TokenTTL,
		AllowedEmailDomain: cfg.Signup.AllowedEmailDomain,
		PasswordMinLength:  cfg.Signup.PasswordMinLength,
		VerifyURL:          cfg.Server.VerifyURL(),
	})
	productService := product.NewService(productRepo, accountRepo, objectStore, logger, cfg.Storage.UploadConcurrency)
	mediaService := media.NewService(objectStore, cfg.Storage.MaxUploadBytes, cfg.Storage.UploadConcurrency)

	// Initialize HTTP handlers
	handlers := httpServer.Handlers{
		Auth:    auth.NewHandler(authService, rateLimiter, cfg.Auth.TrustedCallerKey),
		Signup:  signup.NewHandler(signupService, accountRepo, rateLimiter, cfg.Server.LoginURL()),
		Product: product.NewHandler(productService),
		Media:   media.NewHandler(mediaService),
	}
	authMiddleware := auth.NewMiddleware(tokenService, cfg.Auth.VerifySignatures)

	// Initialize router
	router := httpServer.NewRouter(cfg, handlers, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newEmailSender prefers SendGrid, then SMTP, and falls back to logging
func newEmailSender(cfg config.EmailConfig, logger *logging.Logger) email.Sender {
	switch {
	case cfg.UsesSendGrid():
		logger.Info("email provider: sendgrid")
		return email.NewSendGridSender(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	case cfg.SMTPHost != "":
		logger.Info("email provider: smtp", "host", cfg.SMTPHost)
		return email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromEmail, cfg.FromName)
	default:
		logger.Warn("no email provider configured; verification emails are only logged")
		return email.NewLogSender(logger)
	}
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
