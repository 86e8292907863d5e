/**
 * @description
 * This file sets up the HTTP router for the campaign service. It defines the
 * API endpoints, associates them with their corresponding handlers, and
 * applies middleware. Sign-up, sign-in, the public campaign listing and the
 * payment webhook are open; everything else sits behind the bearer-token
 * middleware. Admin checks happen in the application layer, not here.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// CampaignRoutes creates and returns the router for the campaign service.
func CampaignRoutes(h *CampaignHandlers, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Public endpoints.
	r.Post("/users", h.SaveUserHandler)
	r.Post("/users/signin", h.SignInHandler)
	r.Get("/campanha", h.SearchCampaignsHandler)
	r.Get("/campanha/{campanha_id}", h.GetCampaignHandler)
	r.Get("/campanha/{campanha_id}/comments", h.ListCommentsHandler)
	r.Get("/banks", h.SearchBanksHandler)
	r.Get("/banks/{bank_id}", h.GetBankHandler)
	r.Post("/webhooks/mercadopago", h.MercadoPagoWebhookHandler)

	// Group routes that require authentication.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		// Users
		r.Get("/users/{user_id}", h.GetUserHandler)
		r.Put("/users", h.SaveUserHandler)
		r.Delete("/users/{user_id}", h.DeleteUserHandler)
		r.Get("/users/{user_id}/campanhas", h.ListCampaignsByOwnerHandler)
		r.Get("/users/{user_id}/doacoes", h.ListDonationsByDonorHandler)
		r.Get("/users/{user_id}/depositos", h.ListDepositsByUserHandler)

		// Campaigns
		r.Post("/campanha", h.SaveCampaignHandler)
		r.Put("/campanha", h.SaveCampaignHandler)
		r.Delete("/campanha/{campanha_id}", h.DeleteCampaignHandler)
		r.Post("/campanha/{campanha_id}/comments", h.AddCommentHandler)
		r.Delete("/campanha/{campanha_id}/comments/{comment_id}", h.DeleteCommentHandler)

		// Donations
		r.Post("/doacoes", h.CreateDonationHandler)
		r.Get("/campanha/{campanha_id}/doacoes", h.ListDonationsByCampaignHandler)
		r.Post("/doacoes/{payment_id}/refund", h.RefundDonationHandler)

		// Deposit workflow
		r.Post("/campanha/deposito/request", h.CreateDepositHandler)
		r.Patch("/campanha/admin/depositos/status", h.UpdateDepositStatusHandler)
		r.Get("/campanha/admin/{user_id}/deposito/pending", h.ListPendingDepositsHandler)

		// Campaign lifecycle moderation
		r.Patch("/campanha/admin/{user_id}/campanhas/{campanha_id}/{status}", h.SetCampaignStatusHandler)
		r.Patch("/campanha/admin/{user_id}/campanha/{campanha_id}/suspend", h.SuspendCampaignHandler)
		r.Patch("/campanha/admin/{user_id}/campanha/{campanha_id}/reactivate", h.ReactivateCampaignHandler)

		// Identity validation
		r.Get("/validation/{user_id}", h.GetValidationHandler)
		r.Post("/validation", h.SaveValidationHandler)
		r.Patch("/validation/admin/{user_id}/review", h.ReviewValidationHandler)
		r.Get("/validation/admin/{user_id}/pending", h.ListPendingValidationsHandler)

		// Payout configuration
		r.Post("/config-receipt", h.SavePayoutConfigHandler)
		r.Get("/config-receipt/{user_id}", h.GetPayoutConfigHandler)

		// Moderation reports
		r.Post("/report", h.ReportCampaignHandler)
		r.Get("/report/admin/{user_id}", h.ListModerationReportsHandler)
		r.Patch("/report/admin/{user_id}/{report_id}", h.UpdateModerationReportStatusHandler)

		// Financial reports
		r.Post("/campanha/{campanha_id}/relatorio", h.GenerateFinancialReportHandler)
		r.Get("/campanha/{campanha_id}/relatorios", h.ListFinancialReportsHandler)
	})

	return r
}
