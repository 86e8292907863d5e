/**
 * @description
 * This file contains the shared pieces of the HTTP handler layer: the
 * CampaignHandlers struct, the JSON response helpers, the error-to-status
 * mapping, and the user account endpoints. Handlers parse requests, call the
 * application service and write responses; every business decision lives in
 * internal/app.
 *
 * @dependencies
 * - encoding/json, log, net/http: Standard Go libraries.
 * - github.com/go-chi/chi/v5: URL parameter extraction.
 * - internal/app, internal/domain, internal/store: For service logic, models, and custom errors.
 */

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/app"
	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

// CampaignHandlers holds the application service that handlers will use.
type CampaignHandlers struct {
	service *app.Service
}

// NewCampaignHandlers creates a new instance of CampaignHandlers.
func NewCampaignHandlers(service *app.Service) *CampaignHandlers {
	return &CampaignHandlers{service: service}
}

func (h *CampaignHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (h *CampaignHandlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps application and store errors onto HTTP statuses.
// Authorization failures all share one body so callers cannot probe which
// check rejected them. Anything unmapped is a 500 with a static message.
func (h *CampaignHandlers) handleServiceError(w http.ResponseWriter, endpoint string, err error) {
	switch {
	case errors.Is(err, app.ErrAccessDenied):
		h.writeError(w, http.StatusUnauthorized, "access denied")
	case errors.Is(err, app.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, app.ErrValidationNotApproved):
		h.writeError(w, http.StatusUnauthorized, "identity validation not approved")
	case errors.Is(err, app.ErrPayoutConfigRequired):
		h.writeError(w, http.StatusUnauthorized, "payout configuration required")
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrCampaignNotFound),
		errors.Is(err, store.ErrCommentNotFound),
		errors.Is(err, store.ErrDonationNotFound),
		errors.Is(err, store.ErrDepositNotFound),
		errors.Is(err, store.ErrValidationNotFound),
		errors.Is(err, store.ErrPayoutConfigNotFound),
		errors.Is(err, store.ErrBankNotFound),
		errors.Is(err, store.ErrReportNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, app.ErrSuspensionReasonRequired),
		errors.Is(err, app.ErrJustificationRequired),
		errors.Is(err, app.ErrCampaignHasDonations),
		errors.Is(err, app.ErrCampaignNotActive),
		errors.Is(err, app.ErrInvalidStatusTransition),
		errors.Is(err, app.ErrDonationNotRefundable),
		errors.Is(err, store.ErrDepositAlreadyExists),
		errors.Is(err, store.ErrEmailTaken),
		errors.Is(err, store.ErrDuplicateDonation):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("level=error component=api endpoint=%s outcome=error err=%v", endpoint, err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// urlUUID extracts a UUID path parameter; a malformed value is reported as 400.
func (h *CampaignHandlers) urlUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func (h *CampaignHandlers) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// SaveUserHandler creates or updates a user account.
func (h *CampaignHandlers) SaveUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SaveUserPayload
	if !h.decode(w, r, &payload) {
		return
	}
	user, err := h.service.SaveUser(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "save_user", err)
		return
	}
	status := http.StatusOK
	if payload.UserID == nil {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, user)
}

// SignInHandler checks credentials and returns a bearer token.
func (h *CampaignHandlers) SignInHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SignInPayload
	if !h.decode(w, r, &payload) {
		return
	}
	result, err := h.service.SignIn(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "sign_in", err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// GetUserHandler returns one user's public profile.
func (h *CampaignHandlers) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, "get_user", err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// DeleteUserHandler removes an account.
func (h *CampaignHandlers) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		h.handleServiceError(w, "delete_user", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
