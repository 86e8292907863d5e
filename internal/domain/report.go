/**
 * @description
 * Domain models for the two kinds of reports the platform produces:
 * moderation reports filed against campaigns, and the generated financial /
 * accounting report artifacts stored in object storage.
 */

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Moderation report statuses.
const (
	ModerationStatusPending  = "PENDING"
	ModerationStatusReviewed = "REVIEWED"
	ModerationStatusArchived = "ARCHIVED"
)

// ModerationReport is a user complaint filed against a campaign.
type ModerationReport struct {
	ID          uuid.UUID `json:"report_id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileModerationReportPayload is the DTO for reporting a campaign.
type FileModerationReportPayload struct {
	CampaignID  uuid.UUID `json:"campaign_id"`
	UserID      uuid.UUID `json:"user_id"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
}

// Financial report artifact types.
const (
	ReportTypeFinancial  = "FINANCIAL"
	ReportTypeAccounting = "ACCOUNTING"
)

// FinancialReportRecord is the stored metadata of a rendered report file.
type FinancialReportRecord struct {
	ID          uuid.UUID  `json:"report_id"`
	CampaignID  uuid.UUID  `json:"campaign_id"`
	UserID      uuid.UUID  `json:"user_id"`
	ReportType  string     `json:"report_type"`
	FileURL     string     `json:"file_url"`
	FileKey     string     `json:"file_key"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// ReportPeriod bounds the movements included in a generated report. Either
// side may be nil (open-ended).
type ReportPeriod struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the period.
func (p ReportPeriod) Contains(t time.Time) bool {
	if p.Start != nil && t.Before(*p.Start) {
		return false
	}
	if p.End != nil && t.After(*p.End) {
		return false
	}
	return true
}

// Movement types used in the accounting statement.
const (
	MovementIncome   = "RECEITA"
	MovementTransfer = "SAIDA"
	MovementFee      = "TAXA"
)

// Movement is one line of the chronological accounting statement.
type Movement struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Method      string    `json:"method"`
	Amount      int64     `json:"amount"` // in centavos
}

// MethodBreakdown aggregates approved donations per payment method.
type MethodBreakdown struct {
	Method string `json:"method"`
	Count  int    `json:"count"`
	Amount int64  `json:"amount"`
}

// TopDonor aggregates a donor's approved giving to one campaign.
type TopDonor struct {
	UserID uuid.UUID `json:"user_id"`
	Count  int       `json:"count"`
	Amount int64     `json:"amount"`
}

// AccountingReport is the fully aggregated report handed to the renderer.
type AccountingReport struct {
	CampaignID        uuid.UUID         `json:"campaign_id"`
	CampaignTitle     string            `json:"campaign_title"`
	CampaignStatus    string            `json:"campaign_status"`
	OwnerName         string            `json:"owner_name"`
	OwnerDocument     string            `json:"owner_document"` // CPF or CNPJ, "N/A" when absent
	Period            ReportPeriod      `json:"-"`
	GeneratedAt       time.Time         `json:"generated_at"`
	TotalIncome       int64             `json:"total_income"`
	TotalTransferred  int64             `json:"total_transferred"`
	TotalFees         int64             `json:"total_fees"`
	FinalBalance      int64             `json:"final_balance"`
	DonationCount     int               `json:"donation_count"`
	AverageDonation   int64             `json:"average_donation"`
	UniqueDonors      int               `json:"unique_donors"`
	GoalAmount        int64             `json:"goal_amount"`
	GoalPercent       float64           `json:"goal_percent"`
	PendingTransfers  int               `json:"pending_transfers"`
	PendingAmount     int64             `json:"pending_amount"`
	ByMethod          []MethodBreakdown `json:"by_method"`
	TopDonors         []TopDonor        `json:"top_donors"`
	Movements         []Movement        `json:"movements"`
}
