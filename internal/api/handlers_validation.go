/**
 * @description
 * Identity validation (KYC) and payout configuration endpoints, plus the bank
 * directory used to fill in payout details.
 */

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// GetValidationHandler returns a user's KYC record.
func (h *CampaignHandlers) GetValidationHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	validation, err := h.service.GetValidation(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, "get_validation", err)
		return
	}
	h.writeJSON(w, http.StatusOK, validation)
}

// SaveValidationHandler submits or resubmits KYC material.
func (h *CampaignHandlers) SaveValidationHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SaveValidationPayload
	if !h.decode(w, r, &payload) {
		return
	}
	validation, err := h.service.SaveValidation(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "save_validation", err)
		return
	}
	h.writeJSON(w, http.StatusOK, validation)
}

// ReviewValidationHandler records an admin verdict on a KYC record.
func (h *CampaignHandlers) ReviewValidationHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	var payload domain.ReviewValidationPayload
	if !h.decode(w, r, &payload) {
		return
	}
	validation, err := h.service.ReviewValidation(r.Context(), callerID, payload)
	if err != nil {
		h.handleServiceError(w, "review_validation", err)
		return
	}
	h.writeJSON(w, http.StatusOK, validation)
}

// ListPendingValidationsHandler returns the admin review queue.
func (h *CampaignHandlers) ListPendingValidationsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	validations, err := h.service.ListPendingValidations(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, "list_pending_validations", err)
		return
	}
	h.writeJSON(w, http.StatusOK, validations)
}

// SavePayoutConfigHandler creates or replaces a user's settlement destination.
func (h *CampaignHandlers) SavePayoutConfigHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SavePayoutConfigPayload
	if !h.decode(w, r, &payload) {
		return
	}
	cfg, err := h.service.SavePayoutConfig(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "save_payout_config", err)
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

// GetPayoutConfigHandler returns a user's settlement destination.
func (h *CampaignHandlers) GetPayoutConfigHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	cfg, err := h.service.GetPayoutConfig(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, "get_payout_config", err)
		return
	}
	h.writeJSON(w, http.StatusOK, cfg)
}

// SearchBanksHandler runs the paginated bank directory lookup.
func (h *CampaignHandlers) SearchBanksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("itemsPerPage"))
	filter := domain.BankSearchFilter{
		Search:       q.Get("search"),
		Page:         page,
		ItemsPerPage: perPage,
	}
	banks, err := h.service.SearchBanks(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, "search_banks", err)
		return
	}
	h.writeJSON(w, http.StatusOK, banks)
}

// GetBankHandler returns one bank directory entry.
func (h *CampaignHandlers) GetBankHandler(w http.ResponseWriter, r *http.Request) {
	bankID := chi.URLParam(r, "bank_id")
	if bankID == "" {
		h.writeError(w, http.StatusBadRequest, "invalid bank_id")
		return
	}
	bank, err := h.service.GetBank(r.Context(), bankID)
	if err != nil {
		h.handleServiceError(w, "get_bank", err)
		return
	}
	h.writeJSON(w, http.StatusOK, bank)
}
