// Package app assembles the shop backend from its configuration.
package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sklep/internal/config"
	"sklep/internal/fulfillment"
	"sklep/internal/handlers"
	"sklep/internal/middleware"
	"sklep/internal/payments"
	"sklep/internal/repositories"
	"sklep/internal/services"
	"sklep/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options replaces external collaborators, mostly in tests.
type Options struct {
	// Provider is used instead of the Stripe client built from the config.
	Provider payments.Provider
	// Publisher is used instead of the RabbitMQ publisher built from the config.
	Publisher services.FulfillmentPublisher
}

// App is the wired HTTP application with its background workers.
type App struct {
	cfg         *config.Config
	db          *gorm.DB
	fiber       *fiber.App
	mq          *rabbitmq.Client
	sched       *cron.Cron
	syncService *services.SyncService
}

// New builds the repositories, services and routes on top of db.
func New(cfg *config.Config, db *gorm.DB, opts Options) (*App, error) {
	a := &App{cfg: cfg, db: db}

	provider := opts.Provider
	if provider == nil && cfg.StripeEnabled() {
		provider = payments.NewStripeProvider(cfg.StripeSecretKey)
	}
	if provider == nil {
		zap.S().Warn("STRIPE_SECRET_KEY is not set, payment sync and checkout are disabled")
	}

	publisher := opts.Publisher
	if publisher == nil && cfg.RabbitMQURL != "" {
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, err
		}
		a.mq = client
		publisher = fulfillment.NewPublisher(client)
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	eventRepo := repositories.NewGORMEventRepository(db)
	imageRepo := repositories.NewGORMImageRepository(db)
	webhookRepo := repositories.NewGORMWebhookEventRepository(db)

	// --- Services ---
	cache := services.NewFilterCache()
	a.syncService = services.NewSyncService(provider, productRepo, cache, cfg.PublicURL)
	productService := services.NewProductService(productRepo, imageRepo, a.syncService, cache)
	catalogService := services.NewCatalogService(productRepo, eventRepo, imageRepo, cache)
	checkoutService := services.NewCheckoutService(provider)
	webhookService := services.NewWebhookService(cfg.StripeWebhookSecret, productRepo, webhookRepo, a.syncService, publisher)
	eventService := services.NewEventService(eventRepo, imageRepo)
	imageService := services.NewImageService(imageRepo)
	verifier := services.NewTokenVerifier(cfg.AdminJWTSecret)
	if !verifier.Enabled() {
		zap.S().Warn("ADMIN_JWT_SECRET is not set, the admin API rejects every request")
	}

	// --- Fiber ---
	a.fiber = fiber.New(fiber.Config{
		AppName:      "sklep",
		ErrorHandler: middleware.ErrorHandler(cfg.IsDevelopment()),
	})
	a.fiber.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDevelopment()}))
	a.fiber.Use(cors.New())
	a.fiber.Use(middleware.RequestLogger())

	handlers.NewHealthHandler(db).RegisterRoutes(a.fiber)
	if cfg.MediaRoot != "" {
		a.fiber.Static("/media", cfg.MediaRoot)
	}

	api := a.fiber.Group("/api")
	handlers.NewCatalogHandler(catalogService, cfg.PublicURL).RegisterRoutes(api)
	handlers.NewCheckoutHandler(productService, checkoutService).RegisterRoutes(api)
	handlers.NewWebhookHandler(webhookService).RegisterRoutes(api)

	admin := api.Group("/admin", middleware.AdminRequired(verifier))
	handlers.NewAdminHandler(productService, eventService, imageService, cfg.PublicURL).RegisterRoutes(admin)

	return a, nil
}

// Fiber returns the HTTP application.
func (a *App) Fiber() *fiber.App {
	return a.fiber
}

// Sync returns the product sync service.
func (a *App) Sync() *services.SyncService {
	return a.syncService
}

// Start launches the background workers: the scheduled sync and the
// fulfillment consumer.
func (a *App) Start() error {
	if err := a.initJobs(); err != nil {
		return fmt.Errorf("failed to schedule product sync: %w", err)
	}
	if a.mq != nil {
		if err := a.mq.Consume(rabbitmq.ProductSoldQueue, fulfillment.HandleProductSold); err != nil {
			return err
		}
	}
	return nil
}

// Run starts the workers and serves HTTP until SIGINT or SIGTERM.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		zap.S().Infow("starting server", "port", a.cfg.AppPort)
		listenErr <- a.fiber.Listen(a.cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		a.Close()
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	zap.S().Info("shutting down server...")
	if err := a.fiber.Shutdown(); err != nil {
		zap.S().Errorw("error during fiber shutdown", "error", err)
	}
	a.Close()
	zap.S().Info("server gracefully stopped")
	return nil
}

// Close stops the scheduler and the broker connection.
func (a *App) Close() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			zap.S().Errorw("error closing RabbitMQ client", "error", err)
		}
	}
}
