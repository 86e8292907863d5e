/**
 * @description
 * PostgreSQL queries for identity validations, payout configurations,
 * moderation reports and stored financial report metadata. Validation
 * documents are kept as a JSONB array on the record; pgx marshals the slice
 * through the codec registered for jsonb columns.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hopeshare/campaign-service/internal/domain"
)

const validationColumns = `id, user_id, status, cnpj, company_name, observation,
	observation_read, documents, created_at, updated_at`

func scanValidation(row pgx.Row) (*domain.IdentityValidation, error) {
	var v domain.IdentityValidation
	err := row.Scan(
		&v.ID, &v.UserID, &v.Status, &v.CNPJ, &v.CompanyName, &v.Observation,
		&v.ObservationRead, &v.Documents, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrValidationNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateValidation inserts a new KYC record in PENDING.
func (r *PostgresRepository) CreateValidation(ctx context.Context, v *domain.IdentityValidation) error {
	query := `
		INSERT INTO identity_validations (id, user_id, status, cnpj, company_name, documents)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, v.ID, v.UserID, v.Status, v.CNPJ, v.CompanyName, v.Documents)
	return err
}

// FindValidationByUserID retrieves the single KYC record for a user.
func (r *PostgresRepository) FindValidationByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityValidation, error) {
	query := `SELECT ` + validationColumns + ` FROM identity_validations WHERE user_id = $1`
	return scanValidation(r.db.QueryRow(ctx, query, userID))
}

// FindValidationByID retrieves a KYC record by its own id.
func (r *PostgresRepository) FindValidationByID(ctx context.Context, validationID uuid.UUID) (*domain.IdentityValidation, error) {
	query := `SELECT ` + validationColumns + ` FROM identity_validations WHERE id = $1`
	return scanValidation(r.db.QueryRow(ctx, query, validationID))
}

// UpdateValidationResubmission replaces the submitted material, resets the
// record to PENDING and marks any prior admin observation as read.
func (r *PostgresRepository) UpdateValidationResubmission(ctx context.Context, validationID uuid.UUID, companyName *string, documents []domain.ValidationDocument) (*domain.IdentityValidation, error) {
	query := `
		UPDATE identity_validations
		SET status = $2, company_name = COALESCE($3, company_name), documents = $4,
			observation_read = TRUE, updated_at = now()
		WHERE id = $1
		RETURNING ` + validationColumns
	return scanValidation(r.db.QueryRow(ctx, query, validationID, domain.ValidationStatusPending, companyName, documents))
}

// UpdateValidationReview records the admin verdict. A fresh observation is
// unread until the owner resubmits.
func (r *PostgresRepository) UpdateValidationReview(ctx context.Context, validationID uuid.UUID, status string, observation *string) (*domain.IdentityValidation, error) {
	query := `
		UPDATE identity_validations
		SET status = $2, observation = $3, observation_read = FALSE, updated_at = now()
		WHERE id = $1
		RETURNING ` + validationColumns
	return scanValidation(r.db.QueryRow(ctx, query, validationID, status, observation))
}

// ListPendingValidations returns every record awaiting review, oldest first.
func (r *PostgresRepository) ListPendingValidations(ctx context.Context) ([]domain.IdentityValidation, error) {
	query := `SELECT ` + validationColumns + ` FROM identity_validations WHERE status = $1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, domain.ValidationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	validations := make([]domain.IdentityValidation, 0)
	for rows.Next() {
		var v domain.IdentityValidation
		err := rows.Scan(
			&v.ID, &v.UserID, &v.Status, &v.CNPJ, &v.CompanyName, &v.Observation,
			&v.ObservationRead, &v.Documents, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		validations = append(validations, v)
	}
	return validations, rows.Err()
}

const payoutColumns = `id, user_id, bank_id, agency, account_number, account_type,
	pix_key, cnpj, cnpj_verified, created_at, updated_at`

func scanPayoutConfig(row pgx.Row) (*domain.PayoutConfig, error) {
	var cfg domain.PayoutConfig
	err := row.Scan(
		&cfg.ID, &cfg.UserID, &cfg.BankID, &cfg.Agency, &cfg.AccountNumber, &cfg.AccountType,
		&cfg.PixKey, &cfg.CNPJ, &cfg.CNPJVerified, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPayoutConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// CreatePayoutConfig inserts the settlement destination for a user.
func (r *PostgresRepository) CreatePayoutConfig(ctx context.Context, cfg *domain.PayoutConfig) error {
	query := `
		INSERT INTO payout_configs (id, user_id, bank_id, agency, account_number, account_type, pix_key, cnpj, cnpj_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		cfg.ID, cfg.UserID, cfg.BankID, cfg.Agency, cfg.AccountNumber, cfg.AccountType,
		cfg.PixKey, cfg.CNPJ, cfg.CNPJVerified,
	)
	return err
}

// UpdatePayoutConfig replaces the destination details of an existing config.
func (r *PostgresRepository) UpdatePayoutConfig(ctx context.Context, cfg *domain.PayoutConfig) error {
	query := `
		UPDATE payout_configs
		SET bank_id = $2, agency = $3, account_number = $4, account_type = $5,
			pix_key = $6, cnpj = $7, cnpj_verified = $8, updated_at = now()
		WHERE user_id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		cfg.UserID, cfg.BankID, cfg.Agency, cfg.AccountNumber, cfg.AccountType,
		cfg.PixKey, cfg.CNPJ, cfg.CNPJVerified,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPayoutConfigNotFound
	}
	return nil
}

// FindPayoutConfigByUserID retrieves the single config for a user.
func (r *PostgresRepository) FindPayoutConfigByUserID(ctx context.Context, userID uuid.UUID) (*domain.PayoutConfig, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_configs WHERE user_id = $1`
	return scanPayoutConfig(r.db.QueryRow(ctx, query, userID))
}

// CreateModerationReport files a complaint against a campaign.
func (r *PostgresRepository) CreateModerationReport(ctx context.Context, report *domain.ModerationReport) error {
	query := `
		INSERT INTO moderation_reports (id, campaign_id, user_id, reason, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		report.ID, report.CampaignID, report.UserID, report.Reason, report.Description, report.Status,
	)
	return err
}

// ListModerationReports returns all filed reports, newest first.
func (r *PostgresRepository) ListModerationReports(ctx context.Context) ([]domain.ModerationReport, error) {
	query := `
		SELECT id, campaign_id, user_id, reason, description, status, created_at
		FROM moderation_reports ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]domain.ModerationReport, 0)
	for rows.Next() {
		var m domain.ModerationReport
		err := rows.Scan(&m.ID, &m.CampaignID, &m.UserID, &m.Reason, &m.Description, &m.Status, &m.CreatedAt)
		if err != nil {
			return nil, err
		}
		reports = append(reports, m)
	}
	return reports, rows.Err()
}

// UpdateModerationReportStatus moves a report through the moderation workflow.
func (r *PostgresRepository) UpdateModerationReportStatus(ctx context.Context, reportID uuid.UUID, status string) (*domain.ModerationReport, error) {
	query := `
		UPDATE moderation_reports SET status = $2 WHERE id = $1
		RETURNING id, campaign_id, user_id, reason, description, status, created_at
	`
	var m domain.ModerationReport
	err := r.db.QueryRow(ctx, query, reportID, status).
		Scan(&m.ID, &m.CampaignID, &m.UserID, &m.Reason, &m.Description, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &m, nil
}

// SaveFinancialReport records the metadata of a rendered report artifact.
func (r *PostgresRepository) SaveFinancialReport(ctx context.Context, record *domain.FinancialReportRecord) error {
	query := `
		INSERT INTO financial_reports (id, campaign_id, user_id, report_type, file_url, file_key, file_name, file_size, period_start, period_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.CampaignID, record.UserID, record.ReportType,
		record.FileURL, record.FileKey, record.FileName, record.FileSize,
		record.PeriodStart, record.PeriodEnd,
	)
	return err
}

// ListFinancialReportsByCampaign returns the generated artifacts for a
// campaign, newest first.
func (r *PostgresRepository) ListFinancialReportsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.FinancialReportRecord, error) {
	query := `
		SELECT id, campaign_id, user_id, report_type, file_url, file_key, file_name, file_size, period_start, period_end, generated_at
		FROM financial_reports WHERE campaign_id = $1 ORDER BY generated_at DESC
	`
	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.FinancialReportRecord, 0)
	for rows.Next() {
		var rec domain.FinancialReportRecord
		err := rows.Scan(
			&rec.ID, &rec.CampaignID, &rec.UserID, &rec.ReportType,
			&rec.FileURL, &rec.FileKey, &rec.FileName, &rec.FileSize,
			&rec.PeriodStart, &rec.PeriodEnd, &rec.GeneratedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
