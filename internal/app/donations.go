/**
 * @description
 * Donation use cases: checkout creation against Mercado Pago, webhook
 * processing, and refunds. The webhook path is the only place a campaign's
 * raised total is credited, and it is guarded twice: a Redis claim per
 * (payment, status) pair, and a conditional pending-to-approved transition in
 * the store. Either guard alone keeps a duplicate delivery from crediting a
 * campaign twice.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
	"github.com/hopeshare/campaign-service/pkg/mercadopago"
)

// CreateDonation opens a checkout for a donation. The campaign must be ACTIVE
// and both campaign and donor must exist. The donation is recorded as pending,
// keyed by a reference this service generates; the webhook later rebinds it to
// the gateway's payment id.
func (s *Service) CreateDonation(ctx context.Context, payload domain.CreateDonationPayload) (*domain.DonationCheckout, error) {
	if payload.Amount <= 0 {
		return nil, ErrInvalidInput
	}

	campaign, err := s.repo.FindCampaignByID(ctx, payload.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignStatusActive {
		return nil, ErrCampaignNotActive
	}
	donor, err := s.repo.FindUserByID(ctx, payload.UserID)
	if err != nil {
		return nil, err
	}

	reference := uuid.New().String()
	pref, err := s.gateway.CreatePreference(ctx, mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{{
			Title:      "Doação - " + campaign.Title,
			Quantity:   1,
			UnitPrice:  float64(payload.Amount) / 100,
			CurrencyID: "BRL",
		}},
		Payer: &mercadopago.PreferencePayer{
			Name:  donor.Name,
			Email: donor.Email,
		},
		Metadata: map[string]string{
			"campaign_id": campaign.ID.String(),
			"user_id":     donor.ID.String(),
		},
		ExternalReference: reference,
		NotificationURL:   s.apiBaseURL + "/webhooks/mercadopago",
		BackURLs: mercadopago.BackURLs{
			Success: s.frontendURL + "/campanha/" + campaign.ID.String() + "?payment=success",
			Failure: s.frontendURL + "/campanha/" + campaign.ID.String() + "?payment=failure",
			Pending: s.frontendURL + "/campanha/" + campaign.ID.String() + "?payment=pending",
		},
		AutoReturn: "approved",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment preference: %w", err)
	}

	donation := &domain.Donation{
		PaymentID:     reference,
		CampaignID:    campaign.ID,
		DonorID:       donor.ID,
		CampaignTitle: campaign.Title,
		Amount:        payload.Amount,
		Status:        domain.DonationStatusPending,
	}
	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	log.Printf("level=info component=app op=create_donation campaign_id=%s user_id=%s amount=%d reference=%s", campaign.ID, donor.ID, payload.Amount, reference)
	return &domain.DonationCheckout{
		PreferenceID:     pref.ID,
		InitPoint:        pref.InitPoint,
		SandboxInitPoint: pref.SandboxInitPoint,
	}, nil
}

// donationStatusFor maps a gateway payment status onto the donation ledger
// statuses. Anything unrecognized stays pending.
func donationStatusFor(gatewayStatus string) string {
	switch gatewayStatus {
	case "approved":
		return domain.DonationStatusApproved
	case "rejected", "cancelled":
		return domain.DonationStatusRejected
	case "refunded", "charged_back":
		return domain.DonationStatusRefunded
	default:
		return domain.DonationStatusPending
	}
}

// HandlePaymentNotification processes one webhook delivery. Notifications of
// other types are acknowledged and ignored. Errors bubble up so the handler
// can report success:false, but the HTTP status stays 200 either way.
func (s *Service) HandlePaymentNotification(ctx context.Context, n domain.PaymentNotification) error {
	if n.Type != "payment" || n.Data.ID == "" {
		return nil
	}

	payment, err := s.gateway.GetPayment(ctx, n.Data.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment %s: %w", n.Data.ID, err)
	}
	paymentID := fmt.Sprintf("%d", payment.ID)

	// First delivery for a payment still carries our reference; rebind the
	// ledger row to the gateway's payment id. Only an actual miss triggers the
	// rebind, a failing store lookup bubbles up as-is.
	if _, err := s.repo.FindDonationByPaymentID(ctx, paymentID); err != nil {
		if !errors.Is(err, store.ErrDonationNotFound) {
			return fmt.Errorf("failed to look up donation %s: %w", paymentID, err)
		}
		if payment.ExternalReference == "" {
			return err
		}
		if err := s.repo.RebindDonationPaymentID(ctx, payment.ExternalReference, paymentID); err != nil {
			return fmt.Errorf("failed to bind payment %s to donation: %w", paymentID, err)
		}
	}

	claimed, err := s.webhookGuard.ClaimOnce(ctx, paymentID, payment.Status)
	if err != nil {
		log.Printf("level=warn component=app op=payment_notification payment_id=%s msg=\"idempotency claim failed, proceeding\" err=%v", paymentID, err)
		claimed = true
	}
	if !claimed {
		log.Printf("level=info component=app op=payment_notification payment_id=%s status=%s outcome=duplicate", paymentID, payment.Status)
		return nil
	}

	status := donationStatusFor(payment.Status)
	if status == domain.DonationStatusApproved {
		method := payment.PaymentMethodID
		credited, err := s.repo.ApproveDonationAndCredit(ctx, paymentID, &method)
		if err != nil {
			s.webhookGuard.Release(ctx, paymentID, payment.Status)
			return fmt.Errorf("failed to credit donation %s: %w", paymentID, err)
		}
		if !credited {
			log.Printf("level=info component=app op=payment_notification payment_id=%s outcome=already_credited", paymentID)
			return nil
		}
		donation, err := s.repo.FindDonationByPaymentID(ctx, paymentID)
		if err == nil {
			s.publishEvent(ctx, domain.EventDonationApproved, domain.DonationEvent{
				PaymentID:  paymentID,
				CampaignID: donation.CampaignID,
				DonorID:    donation.DonorID,
				Amount:     donation.Amount,
				Status:     domain.DonationStatusApproved,
				Timestamp:  time.Now().UTC(),
			})
		}
		log.Printf("level=info component=app op=payment_notification payment_id=%s outcome=credited", paymentID)
		return nil
	}

	if err := s.repo.UpdateDonationStatus(ctx, paymentID, status); err != nil {
		s.webhookGuard.Release(ctx, paymentID, payment.Status)
		return fmt.Errorf("failed to update donation %s: %w", paymentID, err)
	}
	log.Printf("level=info component=app op=payment_notification payment_id=%s status=%s outcome=updated", paymentID, status)
	return nil
}

// RefundDonation refunds an approved donation with the gateway and debits the
// campaign total, clamped at zero. A nil amount means a full refund.
func (s *Service) RefundDonation(ctx context.Context, paymentID string, amount *int64) (*domain.RefundResult, error) {
	donation, err := s.repo.FindDonationByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if donation.Status != domain.DonationStatusApproved {
		return nil, ErrDonationNotRefundable
	}

	refundAmount := donation.Amount
	if amount != nil {
		if *amount <= 0 || *amount > donation.Amount {
			return nil, ErrInvalidInput
		}
		refundAmount = *amount
	}

	// amount nil lets the gateway refund the whole payment; a partial amount
	// must reach it too, or the payer would get back more than the books show.
	refund, err := s.gateway.RefundPayment(ctx, paymentID, amount)
	if err != nil {
		return nil, fmt.Errorf("gateway refund failed for payment %s: %w", paymentID, err)
	}
	if err := s.repo.RefundDonationAndDebit(ctx, paymentID, refundAmount); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, domain.EventDonationRefunded, domain.DonationEvent{
		PaymentID:  paymentID,
		CampaignID: donation.CampaignID,
		DonorID:    donation.DonorID,
		Amount:     refundAmount,
		Status:     domain.DonationStatusRefunded,
		Timestamp:  time.Now().UTC(),
	})
	log.Printf("level=info component=app op=refund_donation payment_id=%s amount=%d", paymentID, refundAmount)
	return &domain.RefundResult{RefundID: fmt.Sprintf("%d", refund.ID), Amount: refundAmount}, nil
}

// ListDonationsByDonor returns a donor's donation history, newest first.
func (s *Service) ListDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.Donation, error) {
	if _, err := s.repo.FindUserByID(ctx, donorID); err != nil {
		return nil, err
	}
	return s.repo.FindDonationsByDonor(ctx, donorID)
}

// ListDonationsByCampaign returns a campaign's donations in arrival order.
func (s *Service) ListDonationsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Donation, error) {
	if _, err := s.repo.FindCampaignByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.FindDonationsByCampaign(ctx, campaignID)
}
