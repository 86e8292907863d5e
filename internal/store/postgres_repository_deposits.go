/**
 * @description
 * PostgreSQL queries for deposit (withdrawal) requests. Creation is a single
 * transaction covering the snapshot of the campaign total, the request insert
 * and the campaign's move to FINISHED, so no window exists in which a FINISHED
 * campaign has no request or a request references a stale total.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hopeshare/campaign-service/internal/domain"
)

const depositColumns = `id, user_id, campaign_id, campaign_title, value_donated, status,
	request_message, admin_justification, created_at, updated_at, resolved_at`

func scanDeposit(row pgx.Row) (*domain.DepositRequest, error) {
	var d domain.DepositRequest
	err := row.Scan(
		&d.ID, &d.UserID, &d.CampaignID, &d.CampaignTitle, &d.ValueDonated, &d.Status,
		&d.RequestMessage, &d.AdminJustification, &d.CreatedAt, &d.UpdatedAt, &d.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &d, nil
}

// CreateDepositAndFinishCampaign snapshots the campaign total, inserts the
// request in PENDING and flips the campaign to FINISHED in one transaction.
// The campaign row is locked FOR UPDATE so a concurrent donation approval
// cannot slide between the snapshot and the status change.
func (r *PostgresRepository) CreateDepositAndFinishCampaign(ctx context.Context, req *domain.DepositRequest) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var (
		title        string
		valueDonated int64
	)
	err = tx.QueryRow(ctx,
		`SELECT title, value_donated FROM campaigns WHERE id = $1 FOR UPDATE`, req.CampaignID).
		Scan(&title, &valueDonated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCampaignNotFound
		}
		return err
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM deposit_requests WHERE campaign_id = $1)`, req.CampaignID).
		Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDepositAlreadyExists
	}

	req.CampaignTitle = title
	req.ValueDonated = valueDonated
	req.Status = domain.DepositStatusPending

	if _, err := tx.Exec(ctx, `
		INSERT INTO deposit_requests (id, user_id, campaign_id, campaign_title, value_donated, status, request_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, req.ID, req.UserID, req.CampaignID, req.CampaignTitle, req.ValueDonated, req.Status, req.RequestMessage); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1
	`, req.CampaignID, domain.CampaignStatusFinished); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// FindDepositByID retrieves one deposit request.
func (r *PostgresRepository) FindDepositByID(ctx context.Context, requestID uuid.UUID) (*domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE id = $1`
	return scanDeposit(r.db.QueryRow(ctx, query, requestID))
}

func (r *PostgresRepository) collectDeposits(ctx context.Context, query string, args ...any) ([]domain.DepositRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deposits := make([]domain.DepositRequest, 0)
	for rows.Next() {
		var d domain.DepositRequest
		err := rows.Scan(
			&d.ID, &d.UserID, &d.CampaignID, &d.CampaignTitle, &d.ValueDonated, &d.Status,
			&d.RequestMessage, &d.AdminJustification, &d.CreatedAt, &d.UpdatedAt, &d.ResolvedAt,
		)
		if err != nil {
			return nil, err
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

// FindDepositsByUser lists a user's deposit requests, newest first.
func (r *PostgresRepository) FindDepositsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE user_id = $1 ORDER BY created_at DESC`
	return r.collectDeposits(ctx, query, userID)
}

// FindDepositsByCampaign lists the requests tied to one campaign (report input).
func (r *PostgresRepository) FindDepositsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE campaign_id = $1 ORDER BY created_at`
	return r.collectDeposits(ctx, query, campaignID)
}

// FindPendingDeposits lists every request awaiting admin resolution, oldest first.
func (r *PostgresRepository) FindPendingDeposits(ctx context.Context) ([]domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE status = $1 ORDER BY created_at`
	return r.collectDeposits(ctx, query, domain.DepositStatusPending)
}

// UpdateDepositStatus resolves a request, recording the admin justification and
// the resolution time, and returns the updated record.
func (r *PostgresRepository) UpdateDepositStatus(ctx context.Context, requestID uuid.UUID, status string, justification *string) (*domain.DepositRequest, error) {
	query := `
		UPDATE deposit_requests
		SET status = $2, admin_justification = $3, resolved_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING ` + depositColumns
	return scanDeposit(r.db.QueryRow(ctx, query, requestID, status, justification))
}
