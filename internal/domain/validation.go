/**
 * @description
 * Domain models for identity (KYC) validation records. One record exists per
 * user; its status gates withdrawal eligibility together with the payout
 * configuration.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity validation statuses.
const (
	ValidationStatusPending  = "PENDING"
	ValidationStatusApproved = "APPROVED"
	ValidationStatusRejected = "REJECTED"
)

// ValidationDocument is an object-storage reference to an uploaded KYC document.
type ValidationDocument struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"type"`
}

// IdentityValidation is the KYC approval record for a user.
type IdentityValidation struct {
	ID              uuid.UUID            `json:"validation_id"`
	UserID          uuid.UUID            `json:"user_id"`
	Status          string               `json:"status"`
	CNPJ            *string              `json:"cnpj,omitempty"`
	CompanyName     *string              `json:"company_name,omitempty"`
	Observation     *string              `json:"observation,omitempty"`
	ObservationRead bool                 `json:"observation_read"`
	Documents       []ValidationDocument `json:"documents"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// DocumentUpload carries raw document bytes submitted with a validation request.
type DocumentUpload struct {
	Name        string `json:"name"`
	ContentType string `json:"type"`
	Content     []byte `json:"file"` // base64 over the wire
}

// SaveValidationPayload is the DTO for submitting or resubmitting KYC material.
// Resubmission resets the record to PENDING and acknowledges any admin observation.
type SaveValidationPayload struct {
	UserID      uuid.UUID        `json:"user_id"`
	CNPJ        *string          `json:"cnpj,omitempty"`
	CompanyName *string          `json:"company_name,omitempty"`
	Documents   []DocumentUpload `json:"documents"`
}

// ReviewValidationPayload is the DTO for an admin approving or rejecting a record.
type ReviewValidationPayload struct {
	ValidationID uuid.UUID `json:"validation_id"`
	Status       string    `json:"status"`
	Observation  *string   `json:"observation,omitempty"`
}
