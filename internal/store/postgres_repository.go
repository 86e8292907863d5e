/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface
 * for users and the bank directory. Campaign, donation, deposit, validation and
 * report queries live in sibling postgres_repository_*.go files.
 *
 * @dependencies
 * - context, errors, strings: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/hopeshare/campaign-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, image_url, cpf, cnpj, cnpj_verified,
	type_user, is_admin, campaigns_created, total_donated, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.ImageURL, &u.CPF, &u.CNPJ,
		&u.CNPJVerified, &u.TypeUser, &u.Admin, &u.CampaignsCreated, &u.TotalDonated,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row. A unique-violation on email maps to ErrEmailTaken.
func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, image_url, cpf, cnpj, type_user, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, strings.ToLower(strings.TrimSpace(user.Email)), user.PasswordHash,
		user.ImageURL, user.CPF, user.CNPJ, user.TypeUser, user.Admin,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// UpdateUser overwrites the mutable profile fields of a user.
func (r *PostgresRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $2, image_url = $3, cpf = $4, cnpj = $5, type_user = $6, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Name, user.ImageURL, user.CPF, user.CNPJ, user.TypeUser)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindUserByID retrieves a user from the database by their ID.
func (r *PostgresRepository) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, userID))
}

// FindUserByEmail retrieves a user by their email address, case-insensitively.
func (r *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(btrim($1))`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

// DeleteUser removes a user row.
func (r *PostgresRepository) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementCampaignsCreated bumps the owner's campaign counter atomically.
func (r *PostgresRepository) IncrementCampaignsCreated(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET campaigns_created = campaigns_created + 1, updated_at = now() WHERE id = $1`,
		userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchBanks filters the bank directory by name or code fragment.
func (r *PostgresRepository) SearchBanks(ctx context.Context, filter domain.BankSearchFilter) ([]domain.Bank, error) {
	limit := filter.ItemsPerPage
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `
		SELECT id, name, full_name FROM banks
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR id ILIKE '%' || $1 || '%')
		ORDER BY id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, strings.TrimSpace(filter.Search), limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banks := make([]domain.Bank, 0)
	for rows.Next() {
		var b domain.Bank
		if err := rows.Scan(&b.ID, &b.Name, &b.FullName); err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// FindBankByID retrieves one bank directory entry.
func (r *PostgresRepository) FindBankByID(ctx context.Context, bankID string) (*domain.Bank, error) {
	var b domain.Bank
	err := r.db.QueryRow(ctx, `SELECT id, name, full_name FROM banks WHERE id = $1`, bankID).
		Scan(&b.ID, &b.Name, &b.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBankNotFound
		}
		return nil, err
	}
	return &b, nil
}
