package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"instantnums-wallet/config"
	"instantnums-wallet/handlers"
	"instantnums-wallet/middleware"
	"instantnums-wallet/models"
	"instantnums-wallet/services"
	"instantnums-wallet/utils"
	"instantnums-wallet/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	verifier, err := services.NewSignatureVerifier(cfg.WebhookSecret)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive services.PayloadArchiver
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Archive(ctx, cfg.R2.AccountID, cfg.R2.AccessKeyID, cfg.R2.AccessKeySecret, cfg.R2.Bucket)
		if err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		archive = r2
	} else {
		log.Println("⚠️  R2 credentials not set, webhook payloads are kept in the database only")
	}

	var notifier services.Notifier = services.LogNotifier{}
	if cfg.NotifyURL != "" {
		notifier = services.NewHTTPNotifier(cfg.NotifyURL, cfg.NotifyToken)
	} else {
		log.Println("⚠️  NOTIFY_SERVICE_URL not set, deposit notifications are only logged")
	}

	payments := services.NewPaymentService(db, verifier, services.DefaultPolicy, notifier, archive)
	reconciler := services.NewReconcileService(db, payments)

	sched, err := reconciler.StartReconcileScheduler(cfg.ReconcileInterval)
	if err != nil {
		log.Fatal("failed to start reconcile scheduler:", err)
	}

	if cfg.AccountSyncURL != "" {
		syncClient := workers.NewAccountSyncClient(db, cfg.AccountSyncURL, cfg.AccountSyncToken)
		go workers.PollAccounts(ctx, syncClient, cfg.AccountSyncInterval)
	} else {
		log.Println("⚠️  ACCOUNT_SYNC_URL not set, accounts must be provisioned directly in the database")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-User-ID, X-User-Roles",
		MaxAge:       86400,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.SetupWebhookRoutes(app, payments)

	// Everything under /s comes through the gateway with user context.
	secured := app.Group("/s", middleware.GatewayAuthMiddleware(cfg.GatewayToken), middleware.UserContextMiddleware())
	handlers.SetupWalletRoutes(secured, payments.Ledger)
	handlers.SetupAdminRoutes(secured, reconciler)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)
	log.Printf("✅ Reconcile scheduler running (every %s)", cfg.ReconcileInterval)
	log.Printf("✅ CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}
}
