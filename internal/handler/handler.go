package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Okpara007/buzz4less/internal/config"
	"github.com/Okpara007/buzz4less/internal/service"
)

type Handler struct {
	cfg             *config.Config
	accountSvc      *service.AccountService
	catalogSvc      *service.CatalogService
	subscriptionSvc *service.SubscriptionService
	checkoutSvc     *service.CheckoutService
	referralSvc     *service.ReferralService
	withdrawalSvc   *service.WithdrawalService
	contactSvc      *service.ContactService
}

func New(
	cfg *config.Config,
	accountSvc *service.AccountService,
	catalogSvc *service.CatalogService,
	subscriptionSvc *service.SubscriptionService,
	checkoutSvc *service.CheckoutService,
	referralSvc *service.ReferralService,
	withdrawalSvc *service.WithdrawalService,
	contactSvc *service.ContactService,
) *Handler {
	return &Handler{
		cfg:             cfg,
		accountSvc:      accountSvc,
		catalogSvc:      catalogSvc,
		subscriptionSvc: subscriptionSvc,
		checkoutSvc:     checkoutSvc,
		referralSvc:     referralSvc,
		withdrawalSvc:   withdrawalSvc,
		contactSvc:      contactSvc,
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
