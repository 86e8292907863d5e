/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for all
 * data access operations required by the campaign service. By defining an interface,
 * we decouple the application's business logic from the specific database
 * implementation (PostgreSQL), making the code more modular and easier to test.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/google/uuid: For UUID handling.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hopeshare/campaign-service/internal/domain"
)

// Sentinel errors surfaced by repository implementations. The application
// layer maps these onto HTTP statuses with errors.Is.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrDonationNotFound     = errors.New("donation not found")
	ErrDepositNotFound      = errors.New("deposit request not found")
	ErrDepositAlreadyExists = errors.New("deposit request already exists for campaign")
	ErrValidationNotFound   = errors.New("validation record not found")
	ErrPayoutConfigNotFound = errors.New("payout configuration not found")
	ErrBankNotFound         = errors.New("bank not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrDuplicateDonation    = errors.New("donation already recorded for payment id")
)

// Repository defines the set of methods for interacting with the database.
type Repository interface {
	// User methods
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	IncrementCampaignsCreated(ctx context.Context, userID uuid.UUID) error

	// Campaign methods
	CreateCampaign(ctx context.Context, campaign *domain.Campaign) error
	UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error
	FindCampaignByID(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error)
	FindCampaignsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Campaign, error)
	SearchCampaigns(ctx context.Context, filter domain.CampaignSearchFilter) ([]domain.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error
	// UpdateCampaignStatus overwrites the lifecycle status. A non-nil reason is
	// stored as the suspension reason; a nil reason clears it.
	UpdateCampaignStatus(ctx context.Context, campaignID uuid.UUID, status string, reason *string) (*domain.Campaign, error)

	// Comment methods
	AddComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, campaignID uuid.UUID) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, campaignID, commentID uuid.UUID) error

	// Donation methods
	CreateDonation(ctx context.Context, donation *domain.Donation) error
	FindDonationByPaymentID(ctx context.Context, paymentID string) (*domain.Donation, error)
	FindDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.Donation, error)
	FindDonationsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Donation, error)
	UpdateDonationStatus(ctx context.Context, paymentID, status string) error
	RebindDonationPaymentID(ctx context.Context, preferenceID, paymentID string) error
	// ApproveDonationAndCredit transitions a donation from pending to approved
	// and credits the campaign total plus the donor's lifetime aggregate in one
	// transaction. It reports false without error when the donation was not in
	// pending (duplicate webhook delivery).
	ApproveDonationAndCredit(ctx context.Context, paymentID string, method *string) (bool, error)
	// RefundDonationAndDebit marks an approved donation refunded and subtracts
	// amount from the campaign total, clamped at zero, in one transaction.
	RefundDonationAndDebit(ctx context.Context, paymentID string, amount int64) error

	// Deposit request methods
	// CreateDepositAndFinishCampaign snapshots the campaign total into the
	// request, inserts it PENDING and moves the campaign to FINISHED in a
	// single transaction. Returns ErrDepositAlreadyExists when a request for
	// the campaign already exists.
	CreateDepositAndFinishCampaign(ctx context.Context, req *domain.DepositRequest) error
	FindDepositByID(ctx context.Context, requestID uuid.UUID) (*domain.DepositRequest, error)
	FindDepositsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DepositRequest, error)
	FindDepositsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.DepositRequest, error)
	FindPendingDeposits(ctx context.Context) ([]domain.DepositRequest, error)
	UpdateDepositStatus(ctx context.Context, requestID uuid.UUID, status string, justification *string) (*domain.DepositRequest, error)

	// Identity validation methods
	CreateValidation(ctx context.Context, v *domain.IdentityValidation) error
	FindValidationByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityValidation, error)
	FindValidationByID(ctx context.Context, validationID uuid.UUID) (*domain.IdentityValidation, error)
	UpdateValidationResubmission(ctx context.Context, validationID uuid.UUID, companyName *string, documents []domain.ValidationDocument) (*domain.IdentityValidation, error)
	UpdateValidationReview(ctx context.Context, validationID uuid.UUID, status string, observation *string) (*domain.IdentityValidation, error)
	ListPendingValidations(ctx context.Context) ([]domain.IdentityValidation, error)

	// Payout configuration methods
	CreatePayoutConfig(ctx context.Context, cfg *domain.PayoutConfig) error
	UpdatePayoutConfig(ctx context.Context, cfg *domain.PayoutConfig) error
	FindPayoutConfigByUserID(ctx context.Context, userID uuid.UUID) (*domain.PayoutConfig, error)

	// Bank directory methods
	SearchBanks(ctx context.Context, filter domain.BankSearchFilter) ([]domain.Bank, error)
	FindBankByID(ctx context.Context, bankID string) (*domain.Bank, error)

	// Moderation report methods
	CreateModerationReport(ctx context.Context, report *domain.ModerationReport) error
	ListModerationReports(ctx context.Context) ([]domain.ModerationReport, error)
	UpdateModerationReportStatus(ctx context.Context, reportID uuid.UUID, status string) (*domain.ModerationReport, error)

	// Financial report artifact methods
	SaveFinancialReport(ctx context.Context, record *domain.FinancialReportRecord) error
	ListFinancialReportsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.FinancialReportRecord, error)
}
