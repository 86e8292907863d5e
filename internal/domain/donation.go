/**
 * @description
 * Domain models for donations. A donation is a single payment event attributed
 * to a donor and a campaign, keyed by the payment gateway's identifier so that
 * webhook notifications can be matched back to the ledger row.
 *
 * @notes
 * - Donation statuses mirror MercadoPago payment states verbatim (lower case),
 *   unlike the upper-case lifecycle enums owned by this system.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Gateway-mirrored donation statuses.
const (
	DonationStatusPending  = "pending"
	DonationStatusApproved = "approved"
	DonationStatusRejected = "rejected"
	DonationStatusRefunded = "refunded"
)

// Donation is the ledger record for one payment event. PaymentID is the
// gateway's identifier (preference id at creation, payment id once observed).
type Donation struct {
	PaymentID     string     `json:"payment_id"`
	CampaignID    uuid.UUID  `json:"campaign_id"`
	DonorID       uuid.UUID  `json:"user_id"`
	CampaignTitle string     `json:"campaign_title"`
	Amount        int64      `json:"amount"` // in centavos
	Status        string     `json:"status"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateDonationPayload is the DTO for initiating a donation checkout.
type CreateDonationPayload struct {
	UserID     uuid.UUID `json:"user_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Amount     int64     `json:"amount"` // in centavos
}

// DonationCheckout is returned to the client after a payment preference has
// been created with the gateway; the client redirects the donor to InitPoint.
type DonationCheckout struct {
	PreferenceID     string `json:"preference_id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point,omitempty"`
}

// RefundResult summarizes a processed refund.
type RefundResult struct {
	RefundID string `json:"refund_id"`
	Amount   int64  `json:"amount"`
}

// PaymentNotification is the decoded body of a MercadoPago webhook call.
type PaymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}
