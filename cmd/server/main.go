package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Okpara007/buzz4less/internal/config"
	"github.com/Okpara007/buzz4less/internal/handler"
	"github.com/Okpara007/buzz4less/internal/mail"
	"github.com/Okpara007/buzz4less/internal/middleware"
	"github.com/Okpara007/buzz4less/internal/payment"
	"github.com/Okpara007/buzz4less/internal/repository"
	"github.com/Okpara007/buzz4less/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	repo, err := repository.New(cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	mailer := mail.New(cfg.SMTP)
	provider := payment.NewClient(cfg.Payment.APIBase, cfg.Payment.SecretKey, cfg.Payment.RequestTimeout)

	accountSvc := service.NewAccountService(repo, mailer, cfg.Server.BaseURL, cfg.Server.JWTSecret, zlog)
	referralSvc := service.NewReferralService(repo, cfg.Referral.CommissionRate, cfg.Server.BaseURL, zlog)
	catalogSvc := service.NewCatalogService(repo)
	subscriptionSvc := service.NewSubscriptionService(repo, provider, zlog)
	checkoutSvc := service.NewCheckoutService(repo, provider, subscriptionSvc, referralSvc,
		cfg.Server.BaseURL, service.CreditPolicy(cfg.Referral.CreditPolicy), zlog)
	withdrawalSvc := service.NewWithdrawalService(repo, referralSvc, mailer,
		cfg.Server.BaseURL, cfg.SMTP.AdminRecipients, zlog)
	contactSvc := service.NewContactService(repo, mailer, cfg.Server.BaseURL, cfg.SMTP.AdminRecipients, zlog)

	h := handler.New(cfg, accountSvc, catalogSvc, subscriptionSvc, checkoutSvc, referralSvc, withdrawalSvc, contactSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Signature",
	}))

	app.Get("/health", h.Health)

	// Webhooks (no auth) - signed provider notifications
	app.Post("/webhook/payment", h.PaymentWebhook)

	// Public API
	api := app.Group("/api")
	api.Post("/auth/register", h.Register)
	api.Post("/auth/verify", h.VerifyEmail)
	api.Post("/auth/login", h.Login)
	api.Get("/services", h.GetServices)
	api.Get("/services/:service_id/plans", h.GetServicePlans)
	api.Post("/contact", h.SubmitContact)

	// Authenticated API
	authed := api.Group("", middleware.Auth(cfg))
	authed.Post("/checkout", h.StartCheckout)
	authed.Get("/subscriptions", h.GetMySubscriptions)
	authed.Post("/subscriptions/:subscription_id/cancel", h.CancelSubscription)
	authed.Get("/referral", h.GetReferralOverview)
	authed.Post("/withdrawals", h.SubmitWithdrawal)

	// Catalog authoring (staff only)
	admin := api.Group("/admin", middleware.Auth(cfg), middleware.StaffOnly(repo))
	admin.Post("/services", h.CreateService)
	admin.Post("/plans", h.CreatePlan)

	// Internal endpoints (for cron jobs)
	internal := app.Group("/internal")
	internal.Post("/cron/expire", h.ExpireSubscriptions)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		_ = app.Shutdown()
	}()

	zlog.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
