/**
 * @description
 * Moderation report and financial report endpoints. Financial report
 * generation accepts an optional date range and a format ("pdf" or "csv");
 * the response is the stored file's metadata, not the file itself.
 */

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// ReportCampaignHandler files a moderation complaint against a campaign.
func (h *CampaignHandlers) ReportCampaignHandler(w http.ResponseWriter, r *http.Request) {
	var payload domain.FileModerationReportPayload
	if !h.decode(w, r, &payload) {
		return
	}
	report, err := h.service.ReportCampaign(r.Context(), payload)
	if err != nil {
		h.handleServiceError(w, "report_campaign", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, report)
}

// ListModerationReportsHandler returns the moderation queue.
func (h *CampaignHandlers) ListModerationReportsHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	reports, err := h.service.ListModerationReports(r.Context(), callerID)
	if err != nil {
		h.handleServiceError(w, "list_moderation_reports", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reports)
}

// UpdateModerationReportStatusHandler moves a report through the workflow.
func (h *CampaignHandlers) UpdateModerationReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.urlUUID(w, r, "user_id")
	if !ok {
		return
	}
	reportID, ok := h.urlUUID(w, r, "report_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	if body.Status == "" {
		h.writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	report, err := h.service.UpdateModerationReportStatus(r.Context(), callerID, reportID, strings.ToUpper(body.Status))
	if err != nil {
		h.handleServiceError(w, "update_moderation_report_status", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// GenerateFinancialReportHandler renders and stores a campaign report.
func (h *CampaignHandlers) GenerateFinancialReportHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	var body struct {
		UserID    string  `json:"user_id"`
		Format    string  `json:"format"`
		StartDate *string `json:"start_date,omitempty"`
		EndDate   *string `json:"end_date,omitempty"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	userID, authed := GetAuthUserID(r.Context())
	if body.UserID != "" {
		parsed, err := uuid.Parse(body.UserID)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		userID = parsed
	} else if !authed {
		h.writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	period, err := parseReportPeriod(body.StartDate, body.EndDate)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid date range")
		return
	}

	record, err := h.service.GenerateReport(r.Context(), userID, campaignID, strings.ToLower(body.Format), period)
	if err != nil {
		h.handleServiceError(w, "generate_financial_report", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, record)
}

// ListFinancialReportsHandler returns a campaign's generated report files.
func (h *CampaignHandlers) ListFinancialReportsHandler(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := h.urlUUID(w, r, "campanha_id")
	if !ok {
		return
	}
	records, err := h.service.ListFinancialReports(r.Context(), campaignID)
	if err != nil {
		h.handleServiceError(w, "list_financial_reports", err)
		return
	}
	h.writeJSON(w, http.StatusOK, records)
}

func parseReportPeriod(start, end *string) (domain.ReportPeriod, error) {
	var period domain.ReportPeriod
	if start != nil && *start != "" {
		t, err := time.Parse("2006-01-02", *start)
		if err != nil {
			return period, err
		}
		period.Start = &t
	}
	if end != nil && *end != "" {
		t, err := time.Parse("2006-01-02", *end)
		if err != nil {
			return period, err
		}
		// Include the whole end day.
		t = t.Add(24*time.Hour - time.Nanosecond)
		period.End = &t
	}
	return period, nil
}
