/**
 * @description
 * PostgreSQL queries for the donation ledger. The approve and refund paths are
 * transactional: the donation status flip and the campaign total adjustment
 * either both land or neither does. The approve path is additionally guarded by
 * a conditional status transition so a redelivered webhook cannot credit twice.
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/hopeshare/campaign-service/internal/domain"
)

const donationColumns = `payment_id, campaign_id, donor_id, campaign_title, amount, status,
	payment_method, refunded_at, created_at, updated_at`

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	err := row.Scan(
		&d.PaymentID, &d.CampaignID, &d.DonorID, &d.CampaignTitle, &d.Amount, &d.Status,
		&d.PaymentMethod, &d.RefundedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	return &d, nil
}

// CreateDonation inserts a new ledger row keyed by the gateway payment id.
func (r *PostgresRepository) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (payment_id, campaign_id, donor_id, campaign_title, amount, status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		donation.PaymentID, donation.CampaignID, donation.DonorID, donation.CampaignTitle,
		donation.Amount, donation.Status, donation.PaymentMethod,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDonation
		}
		return err
	}
	return nil
}

// FindDonationByPaymentID retrieves one donation by its gateway identifier.
func (r *PostgresRepository) FindDonationByPaymentID(ctx context.Context, paymentID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE payment_id = $1`
	return scanDonation(r.db.QueryRow(ctx, query, paymentID))
}

func (r *PostgresRepository) collectDonations(ctx context.Context, query string, args ...any) ([]domain.Donation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]domain.Donation, 0)
	for rows.Next() {
		var d domain.Donation
		err := rows.Scan(
			&d.PaymentID, &d.CampaignID, &d.DonorID, &d.CampaignTitle, &d.Amount, &d.Status,
			&d.PaymentMethod, &d.RefundedAt, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// FindDonationsByDonor lists a user's donations, newest first.
func (r *PostgresRepository) FindDonationsByDonor(ctx context.Context, donorID uuid.UUID) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donor_id = $1 ORDER BY created_at DESC`
	return r.collectDonations(ctx, query, donorID)
}

// FindDonationsByCampaign lists a campaign's donations, oldest first (report order).
func (r *PostgresRepository) FindDonationsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE campaign_id = $1 ORDER BY created_at`
	return r.collectDonations(ctx, query, campaignID)
}

// UpdateDonationStatus overwrites the gateway-mirrored status.
func (r *PostgresRepository) UpdateDonationStatus(ctx context.Context, paymentID, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE donations SET status = $2, updated_at = now() WHERE payment_id = $1`, paymentID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// RebindDonationPaymentID replaces the preference id used at checkout with the
// concrete payment id reported by the first webhook for the payment.
func (r *PostgresRepository) RebindDonationPaymentID(ctx context.Context, preferenceID, paymentID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE donations SET payment_id = $2, updated_at = now() WHERE payment_id = $1`, preferenceID, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// ApproveDonationAndCredit flips a pending donation to approved and credits the
// campaign plus the donor aggregate in one transaction. The WHERE status =
// 'pending' clause is the duplicate-delivery guard: a second delivery matches
// zero rows and the method reports (false, nil).
func (r *PostgresRepository) ApproveDonationAndCredit(ctx context.Context, paymentID string, method *string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var (
		campaignID uuid.UUID
		donorID    uuid.UUID
		amount     int64
	)
	err = tx.QueryRow(ctx, `
		UPDATE donations
		SET status = $2, payment_method = COALESCE($3, payment_method), updated_at = now()
		WHERE payment_id = $1 AND status = $4
		RETURNING campaign_id, donor_id, amount
	`, paymentID, domain.DonationStatusApproved, method, domain.DonationStatusPending).
		Scan(&campaignID, &donorID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already approved (or otherwise out of pending); nothing to credit.
			return false, nil
		}
		return false, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE campaigns SET value_donated = value_donated + $2, updated_at = now() WHERE id = $1
	`, campaignID, amount)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, ErrCampaignNotFound
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET total_donated = total_donated + $2, updated_at = now() WHERE id = $1
	`, donorID, amount); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// RefundDonationAndDebit marks an approved donation refunded and subtracts the
// amount from the campaign total, clamped at zero.
func (r *PostgresRepository) RefundDonationAndDebit(ctx context.Context, paymentID string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("refund amount must be non-negative, got %d", amount)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var campaignID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE donations
		SET status = $2, refunded_at = now(), updated_at = now()
		WHERE payment_id = $1 AND status = $3
		RETURNING campaign_id
	`, paymentID, domain.DonationStatusRefunded, domain.DonationStatusApproved).Scan(&campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDonationNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE campaigns
		SET value_donated = GREATEST(value_donated - $2, 0), updated_at = now()
		WHERE id = $1
	`, campaignID, amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
