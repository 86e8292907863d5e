/**
 * @description
 * This file contains the core of the campaign service's business logic. The
 * `Service` struct orchestrates every use case, coordinating between the
 * database repository, the Mercado Pago client, object storage and the message
 * broker. It also owns the authorization guard and the campaign lifecycle
 * state machine used by the admin moderation endpoints.
 *
 * Key features:
 * - Single reusable admin guard: every privileged operation goes through
 *   requireAdmin, which answers the same error for a missing caller and a
 *   non-admin caller so the API cannot leak which of the two happened.
 * - Explicit status transition table for campaign moderation.
 *
 * @dependencies
 * - context, errors, log: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/mercadopago, pkg/rabbitmq: For external service communication.
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
	"github.com/hopeshare/campaign-service/pkg/mercadopago"
	"github.com/hopeshare/campaign-service/pkg/rabbitmq"
)

// Business rule errors surfaced by the application layer. Handlers map these
// onto HTTP statuses with errors.Is.
var (
	ErrAccessDenied             = errors.New("access denied")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrCampaignHasDonations     = errors.New("campaign has received donations and cannot be deleted")
	ErrCampaignNotActive        = errors.New("campaign is not accepting donations")
	ErrInvalidStatusTransition  = errors.New("status transition not allowed")
	ErrSuspensionReasonRequired = errors.New("suspension reason is required")
	ErrJustificationRequired    = errors.New("justification is required when rejecting")
	ErrValidationNotApproved    = errors.New("identity validation not approved")
	ErrPayoutConfigRequired     = errors.New("payout configuration not found")
	ErrDonationNotRefundable    = errors.New("only approved donations can be refunded")
	ErrInvalidInput             = errors.New("invalid input")
)

// PaymentGateway is the subset of the Mercado Pago client the service uses.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*mercadopago.PaymentResponse, error)
	RefundPayment(ctx context.Context, paymentID string, amountCentavos *int64) (*mercadopago.RefundResponse, error)
}

// ObjectStore is the subset of the object storage client the service uses.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// Service provides the business logic for the campaign platform.
type Service struct {
	repo          store.Repository
	gateway       PaymentGateway
	eventProducer rabbitmq.Publisher
	objects       ObjectStore
	webhookGuard  *RedisWebhookGuard
	jwtSecret     []byte
	tokenTTL      time.Duration
	frontendURL   string
	apiBaseURL    string
}

// NewService creates a new campaign service instance.
func NewService(repo store.Repository, gateway PaymentGateway, producer rabbitmq.Publisher, objects ObjectStore, webhookGuard *RedisWebhookGuard, jwtSecret, frontendURL, apiBaseURL string) *Service {
	return &Service{
		repo:          repo,
		gateway:       gateway,
		eventProducer: producer,
		objects:       objects,
		webhookGuard:  webhookGuard,
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      24 * time.Hour,
		frontendURL:   frontendURL,
		apiBaseURL:    apiBaseURL,
	}
}

// requireAdmin loads the caller and checks the admin flag. A missing user and
// a present-but-not-admin user both return ErrAccessDenied so callers cannot
// distinguish the two cases.
func (s *Service) requireAdmin(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, err
	}
	if !user.Admin {
		return nil, ErrAccessDenied
	}
	return user, nil
}

// campaignTransitions is the set of allowed lifecycle moves. FINISHED is
// terminal; a same-status update is treated as a no-op before this table is
// consulted.
var campaignTransitions = map[string]map[string]bool{
	domain.CampaignStatusActive: {
		domain.CampaignStatusSuspended: true,
		domain.CampaignStatusFinished:  true,
	},
	domain.CampaignStatusSuspended: {
		domain.CampaignStatusActive:   true,
		domain.CampaignStatusFinished: true,
	},
	domain.CampaignStatusFinished: {},
}

func transitionAllowed(from, to string) bool {
	allowed, ok := campaignTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}

// SetCampaignStatus moves a campaign to newStatus on behalf of an admin. A
// non-nil reason is recorded as the suspension reason; moving to any other
// status clears it.
func (s *Service) SetCampaignStatus(ctx context.Context, callerID, campaignID uuid.UUID, newStatus string, reason *string) (*domain.Campaign, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Status == newStatus {
		return campaign, nil
	}
	if !transitionAllowed(campaign.Status, newStatus) {
		log.Printf("level=warn component=app op=set_campaign_status campaign_id=%s from=%s to=%s outcome=denied", campaignID, campaign.Status, newStatus)
		return nil, ErrInvalidStatusTransition
	}

	if newStatus != domain.CampaignStatusSuspended {
		reason = nil
	}
	updated, err := s.repo.UpdateCampaignStatus(ctx, campaignID, newStatus, reason)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=set_campaign_status campaign_id=%s from=%s to=%s admin_id=%s", campaignID, campaign.Status, newStatus, callerID)
	return updated, nil
}

// SuspendCampaign suspends a campaign with a mandatory reason.
func (s *Service) SuspendCampaign(ctx context.Context, callerID, campaignID uuid.UUID, reason string) (*domain.Campaign, error) {
	if reason == "" {
		return nil, ErrSuspensionReasonRequired
	}
	return s.SetCampaignStatus(ctx, callerID, campaignID, domain.CampaignStatusSuspended, &reason)
}

// ReactivateCampaign returns a suspended campaign to ACTIVE, clearing the
// suspension reason.
func (s *Service) ReactivateCampaign(ctx context.Context, callerID, campaignID uuid.UUID) (*domain.Campaign, error) {
	return s.SetCampaignStatus(ctx, callerID, campaignID, domain.CampaignStatusActive, nil)
}

// DeleteCampaign removes a campaign that has not received any donations. A
// campaign with a non-zero raised total must stay on record.
func (s *Service) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if campaign.ValueDonated > 0 {
		return ErrCampaignHasDonations
	}
	if err := s.repo.DeleteCampaign(ctx, campaignID); err != nil {
		return err
	}
	log.Printf("level=info component=app op=delete_campaign campaign_id=%s outcome=deleted", campaignID)
	return nil
}

// publishEvent is a best-effort publish; broker trouble never fails the
// operation that produced the event.
func (s *Service) publishEvent(ctx context.Context, routingKey string, body interface{}) {
	if s.eventProducer == nil {
		return
	}
	if err := s.eventProducer.Publish(ctx, rabbitmq.EventsExchange, routingKey, body); err != nil {
		log.Printf("level=warn component=app op=publish_event routing_key=%s err=%v", routingKey, err)
	}
}
