/**
 * @description
 * Deposit (withdrawal) request use cases. Creating a request is the terminal
 * event of a campaign's donation lifecycle: eligibility is checked in a fixed
 * order (campaign, identity validation, payout configuration), then the store
 * snapshots the raised total, records the request and finishes the campaign
 * inside one transaction.
 */

package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

// CreateDeposit opens a withdrawal request for a campaign. Preconditions are
// checked in order: the campaign must exist, the requester's identity
// validation must be APPROVED, and a payout configuration must exist. At most
// one request may exist per campaign.
func (s *Service) CreateDeposit(ctx context.Context, payload domain.CreateDepositPayload) (*domain.DepositRequest, error) {
	campaign, err := s.repo.FindCampaignByID(ctx, payload.CampaignID)
	if err != nil {
		return nil, err
	}

	validation, err := s.repo.FindValidationByUserID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, store.ErrValidationNotFound) {
			return nil, ErrValidationNotApproved
		}
		return nil, err
	}
	if validation.Status != domain.ValidationStatusApproved {
		return nil, ErrValidationNotApproved
	}

	if _, err := s.repo.FindPayoutConfigByUserID(ctx, payload.UserID); err != nil {
		if errors.Is(err, store.ErrPayoutConfigNotFound) {
			return nil, ErrPayoutConfigRequired
		}
		return nil, err
	}

	req := &domain.DepositRequest{
		ID:             uuid.New(),
		UserID:         payload.UserID,
		CampaignID:     campaign.ID,
		RequestMessage: payload.RequestMessage,
	}
	if err := s.repo.CreateDepositAndFinishCampaign(ctx, req); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, domain.EventDepositRequested, domain.DepositEvent{
		RequestID:  req.ID,
		CampaignID: req.CampaignID,
		UserID:     req.UserID,
		Status:     req.Status,
		Amount:     req.ValueDonated,
		Timestamp:  time.Now().UTC(),
	})
	log.Printf("level=info component=app op=create_deposit request_id=%s campaign_id=%s amount=%d", req.ID, req.CampaignID, req.ValueDonated)
	return req, nil
}

// UpdateDepositStatus resolves a pending request on behalf of an admin.
// Rejection requires a justification; COMPLETED and REJECTED are terminal.
func (s *Service) UpdateDepositStatus(ctx context.Context, callerID uuid.UUID, payload domain.UpdateDepositStatusPayload) (*domain.DepositRequest, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if payload.NewStatus != domain.DepositStatusCompleted && payload.NewStatus != domain.DepositStatusRejected {
		return nil, ErrInvalidInput
	}
	if payload.NewStatus == domain.DepositStatusRejected &&
		(payload.Justification == nil || *payload.Justification == "") {
		return nil, ErrJustificationRequired
	}

	req, err := s.repo.FindDepositByID(ctx, payload.RequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.DepositStatusPending {
		return nil, ErrInvalidStatusTransition
	}

	updated, err := s.repo.UpdateDepositStatus(ctx, payload.RequestID, payload.NewStatus, payload.Justification)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, domain.EventDepositStatusChanged, domain.DepositEvent{
		RequestID:  updated.ID,
		CampaignID: updated.CampaignID,
		UserID:     updated.UserID,
		Status:     updated.Status,
		Amount:     updated.ValueDonated,
		Timestamp:  time.Now().UTC(),
	})
	log.Printf("level=info component=app op=update_deposit_status request_id=%s status=%s admin_id=%s", updated.ID, updated.Status, callerID)
	return updated, nil
}

// ListDepositsByUser returns a user's withdrawal requests.
func (s *Service) ListDepositsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DepositRequest, error) {
	return s.repo.FindDepositsByUser(ctx, userID)
}

// ListPendingDeposits returns every unresolved request for the admin queue.
func (s *Service) ListPendingDeposits(ctx context.Context, callerID uuid.UUID) ([]domain.DepositRequest, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.FindPendingDeposits(ctx)
}
