/**
 * @description
 * PostgreSQL queries for campaigns and their comments. Status writes go through
 * UpdateCampaignStatus so the suspension reason is always set or cleared in the
 * same statement as the status itself.
 */

package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/hopeshare/campaign-service/internal/domain"
)

const campaignColumns = `id, owner_id, title, description, image_url, category, emergency,
	value_required, value_donated, status, suspension_reason, address_city, address_state,
	has_address, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.Emergency,
		&c.ValueRequired, &c.ValueDonated, &c.Status, &c.SuspensionReason,
		&c.AddressCity, &c.AddressState, &c.HasAddress, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	defer rows.Close()
	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		var c domain.Campaign
		err := rows.Scan(
			&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.ImageURL, &c.Category, &c.Emergency,
			&c.ValueRequired, &c.ValueDonated, &c.Status, &c.SuspensionReason,
			&c.AddressCity, &c.AddressState, &c.HasAddress, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// CreateCampaign inserts a new campaign. value_donated always starts at zero.
func (r *PostgresRepository) CreateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, owner_id, title, description, image_url, category, emergency,
			value_required, value_donated, status, address_city, address_state, has_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11, $12)
	`
	_, err := r.db.Exec(ctx, query,
		campaign.ID, campaign.OwnerID, campaign.Title, campaign.Description, campaign.ImageURL,
		campaign.Category, campaign.Emergency, campaign.ValueRequired, campaign.Status,
		campaign.AddressCity, campaign.AddressState, campaign.HasAddress,
	)
	return err
}

// UpdateCampaign overwrites the owner-editable fields. Lifecycle status and the
// donated total are deliberately excluded.
func (r *PostgresRepository) UpdateCampaign(ctx context.Context, campaign *domain.Campaign) error {
	query := `
		UPDATE campaigns
		SET title = $2, description = $3, image_url = $4, category = $5, emergency = $6,
			value_required = $7, address_city = $8, address_state = $9, has_address = $10,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		campaign.ID, campaign.Title, campaign.Description, campaign.ImageURL, campaign.Category,
		campaign.Emergency, campaign.ValueRequired, campaign.AddressCity, campaign.AddressState,
		campaign.HasAddress,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// FindCampaignByID retrieves a campaign by its ID.
func (r *PostgresRepository) FindCampaignByID(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return scanCampaign(r.db.QueryRow(ctx, query, campaignID))
}

// FindCampaignsByOwner lists all campaigns responsible to one user.
func (r *PostgresRepository) FindCampaignsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// SearchCampaigns applies title and category filters with pagination.
func (r *PostgresRepository) SearchCampaigns(ctx context.Context, filter domain.CampaignSearchFilter) ([]domain.Campaign, error) {
	limit := filter.ItemsPerPage
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `
		SELECT ` + campaignColumns + ` FROM campaigns
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(ctx, query,
		strings.TrimSpace(filter.Search), strings.TrimSpace(filter.Category), limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// DeleteCampaign removes a campaign row. The "no donations" business rule is
// enforced by the application layer before this is called.
func (r *PostgresRepository) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, campaignID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// UpdateCampaignStatus overwrites the lifecycle status and sets or clears the
// suspension reason in the same statement, returning the updated record.
func (r *PostgresRepository) UpdateCampaignStatus(ctx context.Context, campaignID uuid.UUID, status string, reason *string) (*domain.Campaign, error) {
	query := `
		UPDATE campaigns
		SET status = $2, suspension_reason = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + campaignColumns
	return scanCampaign(r.db.QueryRow(ctx, query, campaignID, status, reason))
}

// AddComment appends a comment to a campaign.
func (r *PostgresRepository) AddComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO campaign_comments (id, campaign_id, user_id, user_name, user_image, content)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.CampaignID, comment.UserID, comment.UserName, comment.UserImage, comment.Content)
	return err
}

// ListComments returns a campaign's comments in chronological order.
func (r *PostgresRepository) ListComments(ctx context.Context, campaignID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT id, campaign_id, user_id, user_name, user_image, content, created_at
		FROM campaign_comments
		WHERE campaign_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.CampaignID, &c.UserID, &c.UserName, &c.UserImage, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes one comment scoped to its campaign.
func (r *PostgresRepository) DeleteComment(ctx context.Context, campaignID, commentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM campaign_comments WHERE id = $1 AND campaign_id = $2`, commentID, campaignID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}
