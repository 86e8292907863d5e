/**
 * @description
 * Campaign endpoints: CRUD, public search, comments, and the admin lifecycle
 * routes (status change, suspend, reactivate). The admin routes keep the
 * caller's user id in the URL; the service still resolves and checks that
 * user through the authorization guard.
 */

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// SaveCampaignHandler creates or updates a campaign.
func (h *CampaignHandlers) SaveCampaignHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.SaveCampaignPayload
	if !h.decode(w, r, &payload) {
		return
	}
	campaign, err := h.service.SaveCampaign(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "save_campaign", err)
		return
	}
	status := http.StatusOK
	if payload.CampaignID == nil {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, campaign)
}

// GetCampaignHandler returns one campaign.
func (h *CampaignHandlers) GetCampaignHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	campaign, err := h.service.GetCampaign(r.Context(), campaignID)
	if err != nil {
		h.handleServiceError(w, "get_campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// SearchCampaignsHandler runs the public paginated listing.
func (h *CampaignHandlers) SearchCampaignsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("itemsPerPage"))
	filter := domain.CampaignSearchFilter{
		Search:       q.Get("search"),
		Category:     q.Get("category"),
		Page:         page,
		ItemsPerPage: perPage,
	}
	campaigns, err := h.service.SearchCampaigns(r.Context(), filter)
	if err != nil {
		h.handleServiceError(w, "search_campaigns", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

// ListCampaignsByOwnerHandler returns a user's campaigns.
func (h *CampaignHandlers) ListCampaignsByOwnerHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	campaigns, err := h.service.ListCampaignsByOwner(r.Context(), ownerID)
	if err != nil {
		h.handleServiceError(w, "list_campaigns_by_owner", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaigns)
}

// DeleteCampaignHandler removes a campaign with no donations.
func (h *CampaignHandlers) DeleteCampaignHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	if err := h.service.DeleteCampaign(r.Context(), campaignID); err != nil {
		h.handleServiceError(w, "delete_campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

// SetCampaignStatusHandler moves a campaign to the status named in the URL.
func (h *CampaignHandlers) SetCampaignStatusHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	status := strings.ToUpper(chi.URLParam(r, "status"))

	campaign, err := h.service.SetCampaignStatus(r.Context(), callerID, campaignID, status, nil)
	if err != nil {
		h.handleServiceError(w, "set_campaign_status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// SuspendCampaignHandler suspends a campaign with a mandatory reason.
func (h *CampaignHandlers) SuspendCampaignHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if !h.decode(w, r, &body) {
		return
	}

	campaign, err := h.service.SuspendCampaign(r.Context(), callerID, campaignID, body.Reason)
	if err != nil {
		h.handleServiceError(w, "suspend_campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// ReactivateCampaignHandler returns a suspended campaign to ACTIVE.
func (h *CampaignHandlers) ReactivateCampaignHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}

	campaign, err := h.service.ReactivateCampaign(r.Context(), callerID, campaignID)
	if err != nil {
		h.handleServiceError(w, "reactivate_campaign", err)
		return
	}
	h.writeJSON(w, http.StatusOK, campaign)
}

// AddCommentHandler attaches a comment to a campaign.
func (h *CampaignHandlers) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	var payload domain.AddCommentPayload
	if !h.decode(w, r, &payload) {
		return
	}
	comment, err := h.service.AddComment(r.Context(), campaignID, payload)
	if err != nil {
		h.handleServiceError(w, "add_comment", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, comment)
}

// ListCommentsHandler returns the comments of a campaign.
func (h *CampaignHandlers) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	comments, err := h.service.ListComments(r.Context(), campaignID)
	if err != nil {
		h.handleServiceError(w, "list_comments", err)
		return
	}
	h.writeJSON(w, http.StatusOK, comments)
}

// DeleteCommentHandler removes one comment.
func (h *CampaignHandlers) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	commentID, ok := h.urlUUID(w, r, "comment_id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(r.Context(), campaignID, commentID); err != nil {
		h.handleServiceError(w, "delete_comment", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
