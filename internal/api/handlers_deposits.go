/**
 * @description
 * Deposit (withdrawal) request endpoints: owner-facing creation and listing,
 * and the admin resolution queue.
 */

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// CreateDepositHandler opens a withdrawal request for a campaign.
func (h *CampaignHandlers) CreateDepositHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.CreateDepositPayload
	if !h.decode(w, r, &payload) {
		return
	}
	req, err := h.service.CreateDeposit(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "create_deposit", err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// UpdateDepositStatusHandler resolves a pending request. The caller's id
// travels in the body together with the verdict.
func (h *CampaignHandlers) UpdateDepositStatusHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID uuid.UUID `json:"user_id"`
		domain.UpdateDepositStatusPayload
	}
	if !h.decode(w, r, &body) {
		return
	}
	req, err := h.service.UpdateDepositStatus(r.Context(), body.UserID, body.UpdateDepositStatusPayload)
	if err != nil {
		h.handleServiceError(w, "update_deposit_status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

// ListPendingDepositsHandler returns the admin resolution queue.
func (h *CampaignHandlers) ListPendingDepositsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	deposits, err := h.service.ListPendingDeposits(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, "list_pending_deposits", err)
		return
	}
	h.writeJSON(w, http.StatusOK, deposits)
}

// ListDepositsByUserHandler returns a user's withdrawal requests.
func (h *CampaignHandlers) ListDepositsByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	deposits, err := h.service.ListDepositsByUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, "list_deposits_by_user", err)
		return
	}
	h.writeJSON(w, http.StatusOK, deposits)
}
