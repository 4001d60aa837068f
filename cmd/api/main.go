package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/descripto-api/internal/api/http"
	"github.com/spec-kit/descripto-api/internal/api/http/handlers"
	"github.com/spec-kit/descripto-api/internal/auth"
	"github.com/spec-kit/descripto-api/internal/config"
	"github.com/spec-kit/descripto-api/internal/events"
	"github.com/spec-kit/descripto-api/internal/llm"
	"github.com/spec-kit/descripto-api/internal/observability"
	"github.com/spec-kit/descripto-api/internal/persistence"
	"github.com/spec-kit/descripto-api/internal/repository"
	"github.com/spec-kit/descripto-api/internal/service"
	"github.com/spec-kit/descripto-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	tabRepo := repository.NewTabRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	revocationStore := repository.NewRevocationStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:        userRepo,
		RevocationStore: revocationStore,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	contentService := service.NewContentService(
		llm.NewGeminiClient(cfg.LLM, logger),
		tabRepo,
		messageRepo,
		logger,
	)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, logger)
	cookiePolicy := auth.NewCookiePolicy(cfg.App.IsProduction(), cfg.Cookie.Domain)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, cookiePolicy)
	contentHandler := handlers.NewContentHandler(contentService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Content:        contentHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
