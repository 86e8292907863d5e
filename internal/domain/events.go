/**
 * @description
 * Message payloads published to RabbitMQ for asynchronous consumers
 * (notification fan-out, analytics). Publishing is best-effort; the HTTP
 * request that triggered the event never fails because the broker is down.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Routing keys on the hopeshare.events exchange.
const (
	EventDonationApproved     = "donation.approved"
	EventDonationRefunded     = "donation.refunded"
	EventDepositRequested     = "deposit.requested"
	EventDepositStatusChanged = "deposit.status_changed"
)

// DonationEvent is published when a donation is approved or refunded.
type DonationEvent struct {
	PaymentID  string    `json:"payment_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	DonorID    uuid.UUID `json:"donor_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// DepositEvent is published when a deposit request is created or resolved.
type DepositEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	Amount     int64     `json:"amount"` // snapshot value, in centavos
	Timestamp  time.Time `json:"timestamp"`
}
