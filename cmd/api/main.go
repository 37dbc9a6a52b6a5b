package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campusdesk/helpdesk-service/internal/api/http"
	"github.com/campusdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/campusdesk/helpdesk-service/internal/auth"
	"github.com/campusdesk/helpdesk-service/internal/config"
	"github.com/campusdesk/helpdesk-service/internal/events"
	"github.com/campusdesk/helpdesk-service/internal/observability"
	"github.com/campusdesk/helpdesk-service/internal/persistence"
	"github.com/campusdesk/helpdesk-service/internal/repository"
	"github.com/campusdesk/helpdesk-service/internal/service"
	"github.com/campusdesk/helpdesk-service/internal/worker"
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
	profileRepo := repository.NewProfileRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		ProfileRepo:    profileRepo,
		AttachmentRepo: attachmentRepo,
		HistoryRepo:    historyRepo,
		Defaults:       cfg.TicketDefaults,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	catalogService := service.NewCatalogService(catalogRepo, redis.ClientHandle(), cfg.Catalog.CacheTTL(), logger)
	profileService := service.NewProfileService(profileRepo)

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret)
	authMiddleware := auth.NewMiddleware(verifier)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Catalogs:       handlers.NewCatalogsHandler(catalogService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(profileService),
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
