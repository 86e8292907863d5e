/**
 * @description
 * Moderation report use cases: users flag campaigns, admins work the queue.
 */

package app

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// ReportCampaign files a complaint against a campaign.
func (s *Service) ReportCampaign(ctx context.Context, payload domain.FileModerationReportPayload) (*domain.ModerationReport, error) {
	if payload.Reason == "" || payload.Description == "" || payload.UserID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.FindCampaignByID(ctx, payload.CampaignID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindUserByID(ctx, payload.UserID); err != nil {
		return nil, err
	}

	report := &domain.ModerationReport{
		ID:          uuid.New(),
		CampaignID:  payload.CampaignID,
		UserID:      payload.UserID,
		Reason:      payload.Reason,
		Description: payload.Description,
		Status:      domain.ModerationStatusPending,
	}
	if err := s.repo.CreateModerationReport(ctx, report); err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=report_campaign report_id=%s campaign_id=%s", report.ID, report.CampaignID)
	return report, nil
}

// ListModerationReports returns the moderation queue for an admin.
func (s *Service) ListModerationReports(ctx context.Context, callerID uuid.UUID) ([]domain.ModerationReport, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListModerationReports(ctx)
}

// UpdateModerationReportStatus moves a report through the moderation workflow.
func (s *Service) UpdateModerationReportStatus(ctx context.Context, callerID, reportID uuid.UUID, status string) (*domain.ModerationReport, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	switch status {
	case domain.ModerationStatusPending, domain.ModerationStatusReviewed, domain.ModerationStatusArchived:
	default:
		return nil, ErrInvalidInput
	}
	return s.repo.UpdateModerationReportStatus(ctx, reportID, status)
}
