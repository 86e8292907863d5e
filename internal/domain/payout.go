/**
 * @description
 * Domain models for payout configurations: the bank or PIX destination a
 * campaign owner's withdrawals are settled to. At most one configuration
 * exists per user; saving again overwrites the destination details.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// PayoutConfig holds the settlement destination for a user's withdrawals.
type PayoutConfig struct {
	ID            uuid.UUID `json:"config_id"`
	UserID        uuid.UUID `json:"user_id"`
	BankID        *string   `json:"bank,omitempty"`
	Agency        *string   `json:"agency,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	AccountType   *string   `json:"account_type,omitempty"`
	PixKey        *string   `json:"pix_key,omitempty"`
	CNPJ          *string   `json:"cnpj,omitempty"`
	CNPJVerified  bool      `json:"cnpj_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SavePayoutConfigPayload is the DTO for creating or replacing a user's
// settlement destination.
type SavePayoutConfigPayload struct {
	UserID        uuid.UUID `json:"user_id"`
	BankID        *string   `json:"bank,omitempty"`
	Agency        *string   `json:"agency,omitempty"`
	AccountNumber *string   `json:"account_number,omitempty"`
	AccountType   *string   `json:"account_type,omitempty"`
	PixKey        *string   `json:"pix_key,omitempty"`
	CNPJ          *string   `json:"cnpj,omitempty"`
}
