/**
 * @description
 * This file defines the core domain models for campaigns. These structs represent
 * the main entities and data transfer objects (DTOs) used throughout the service's
 * business logic, database interactions, and API layers.
 *
 * @notes
 * - Amounts are stored as `int64` to represent the value in the smallest currency
 *   unit (centavos), which avoids floating-point inaccuracies with financial data.
 * - A campaign's `value_donated` only moves through donation approval and refund;
 *   it is never written directly by API clients.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign lifecycle statuses. A campaign is created ACTIVE and leaves ACTIVE
// either by admin suspension or by its owner requesting a withdrawal (FINISHED).
const (
	CampaignStatusActive    = "ACTIVE"
	CampaignStatusFinished  = "FINISHED"
	CampaignStatusSuspended = "SUSPENDED"
)

// Campaign represents a fundraising effort with a goal and running total.
// This struct maps directly to the `campaigns` table in the database.
type Campaign struct {
	ID               uuid.UUID `json:"campaign_id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ImageURL         *string   `json:"image_url,omitempty"`
	Category         string    `json:"category"`
	Emergency        bool      `json:"request_emergency"`
	ValueRequired    int64     `json:"value_required"` // in centavos
	ValueDonated     int64     `json:"value_donated"`  // in centavos
	Status           string    `json:"status"`
	SuspensionReason *string   `json:"reason_suspension,omitempty"`
	AddressCity      *string   `json:"address_city,omitempty"`
	AddressState     *string   `json:"address_state,omitempty"`
	HasAddress       bool      `json:"have_address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Comment is a user-authored note attached to a campaign.
type Comment struct {
	ID         uuid.UUID `json:"comment_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	UserID     uuid.UUID `json:"user_id"`
	UserName   string    `json:"user_name"`
	UserImage  *string   `json:"user_image,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveCampaignPayload is the DTO for creating or updating a campaign. An empty
// CampaignID means create.
type SaveCampaignPayload struct {
	CampaignID    *uuid.UUID `json:"campaign_id,omitempty"`
	OwnerID       uuid.UUID  `json:"owner_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Category      string     `json:"category"`
	Emergency     bool       `json:"request_emergency"`
	ValueRequired int64      `json:"value_required"`
	AddressCity   *string    `json:"address_city,omitempty"`
	AddressState  *string    `json:"address_state,omitempty"`
	HasAddress    bool       `json:"have_address"`
}

// CampaignSearchFilter controls search and pagination for the public campaign listing.
type CampaignSearchFilter struct {
	Search       string `json:"search"`
	Category     string `json:"category"`
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"itemsPerPage"`
}

// AddCommentPayload is the DTO for attaching a comment to a campaign.
type AddCommentPayload struct {
	UserID  uuid.UUID `json:"user_id"`
	Content string    `json:"comment"`
}
