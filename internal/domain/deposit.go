/**
 * @description
 * Domain models for deposit (withdrawal) requests. A deposit request transfers
 * a campaign's raised funds to its owner and is the terminal event of the
 * campaign's donation lifecycle: creating one moves the campaign to FINISHED.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deposit request statuses. PENDING is the only non-terminal state.
const (
	DepositStatusPending   = "PENDING"
	DepositStatusCompleted = "COMPLETED"
	DepositStatusRejected  = "REJECTED"
)

// DepositRequest captures a withdrawal request together with a snapshot of the
// campaign's raised total at request time. The snapshot is what gets paid out;
// later refunds do not retroactively change it.
type DepositRequest struct {
	ID                 uuid.UUID  `json:"request_id"`
	UserID             uuid.UUID  `json:"user_id"`
	CampaignID         uuid.UUID  `json:"campaign_id"`
	CampaignTitle      string     `json:"campaign_title"`
	ValueDonated       int64      `json:"value_donated"` // snapshot, in centavos
	Status             string     `json:"status"`
	RequestMessage     *string    `json:"request_message,omitempty"`
	AdminJustification *string    `json:"justification_admin,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
}

// CreateDepositPayload is the DTO for a campaign owner requesting a withdrawal.
type CreateDepositPayload struct {
	UserID         uuid.UUID `json:"user_id"`
	CampaignID     uuid.UUID `json:"campaign_id"`
	RequestMessage *string   `json:"request_message,omitempty"`
}

// UpdateDepositStatusPayload is the DTO for an admin resolving a deposit request.
type UpdateDepositStatusPayload struct {
	RequestID     uuid.UUID `json:"request_id"`
	NewStatus     string    `json:"new_status"`
	Justification *string   `json:"justification_admin,omitempty"`
}
