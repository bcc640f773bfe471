package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/stylecloset/wardrobe-service/internal/app"
	"github.com/stylecloset/wardrobe-service/internal/config"
	"github.com/stylecloset/wardrobe-service/internal/database"
	"github.com/stylecloset/wardrobe-service/internal/http/cookies"
	"github.com/stylecloset/wardrobe-service/internal/http/handler"
	"github.com/stylecloset/wardrobe-service/internal/http/middleware"
	"github.com/stylecloset/wardrobe-service/internal/http/router"
	"github.com/stylecloset/wardrobe-service/internal/observability"
	"github.com/stylecloset/wardrobe-service/internal/repository"
	"github.com/stylecloset/wardrobe-service/internal/service"
	"github.com/stylecloset/wardrobe-service/internal/storage"
	"github.com/stylecloset/wardrobe-service/internal/tools/loadgen"
)

func main() {
	root := &cobra.Command{
		Use:   "wardrobe-service",
		Short: "Wardrobe and style assistant backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(loadgen.NewCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger, runtime, err := observability.InitRuntime(ctx, cfg)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}

	cookieCfg := cookies.Config{Name: cfg.SessionCookieName, Secure: cfg.IsProduction()}
	sessions := service.NewSessionService(
		repository.NewSessionRepository(db), cfg.SessionTTL, cfg.SessionRememberTTL)
	auth := service.NewAuthService(repository.NewUserRepository(db), cfg.BcryptCost)

	deps := router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(auth, sessions, cookieCfg),
		WardrobeHandler:     handler.NewWardrobeHandler(repository.NewWardrobeRepository(db)),
		StyleProfileHandler: handler.NewStyleProfileHandler(repository.NewStyleProfileRepository(db)),
		Sessions:            sessions,
		CookieConfig:        cookieCfg,
		AuthRateLimitRPM:    cfg.AuthRateLimitRPM,
		ChatRateLimitRPM:    cfg.ChatRateLimitRPM,
		StaticDir:           cfg.StaticDir,
		EnableOTelHTTP:      cfg.EnableOTelHTTP,
	}

	if cfg.OpenAIAPIKey != "" {
		chat := service.NewStyleChatService(service.NewOpenAICompleter(cfg.OpenAIAPIKey), cfg.OpenAIModel)
		deps.StyleChatHandler = handler.NewStyleChatHandler(chat)
	} else {
		logger.Warn("OPENAI_API_KEY not set, style chat disabled")
	}

	if cfg.S3Bucket != "" {
		uploader, err := storage.New(ctx, storage.Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			BaseURL:        cfg.S3BaseURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return err
		}
		deps.UploadHandler = handler.NewUploadHandler(uploader)
	} else {
		logger.Warn("S3_BUCKET not set, image upload disabled")
	}

	// A Redis URL switches the chat limiter to the shared fixed window so
	// replicas enforce one budget per client.
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(redisOpts)
		deps.ChatRateLimiter = middleware.NewRateLimiter(
			middleware.NewRedisFixedWindowLimiter(client, cfg.ChatRateLimitRPM, time.Minute, "chat"),
			middleware.FailOpen,
		).Middleware()
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return app.New(cfg, logger, server, runtime, sessions).Run(ctx)
}
