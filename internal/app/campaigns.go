/**
 * @description
 * Campaign CRUD, public search and comment use cases. Lifecycle moderation
 * (suspend, reactivate, finish) lives in service.go next to the transition
 * table; this file covers the owner-facing and public surface.
 */

package app

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// SaveCampaign creates a campaign when the payload carries no id, otherwise
// updates the existing record. New campaigns start ACTIVE with nothing raised;
// updates never touch the lifecycle status or the raised total.
func (s *Service) SaveCampaign(ctx context.Context, payload domain.SaveCampaignPayload) (*domain.Campaign, error) {
	if payload.Title == "" || payload.ValueRequired <= 0 {
		return nil, ErrInvalidInput
	}

	if payload.CampaignID == nil {
		owner, err := s.repo.FindUserByID(ctx, payload.OwnerID)
		if err != nil {
			return nil, err
		}
		campaign := &domain.Campaign{
			ID:            uuid.New(),
			OwnerID:       owner.ID,
			Title:         payload.Title,
			Description:   payload.Description,
			ImageURL:      payload.ImageURL,
			Category:      payload.Category,
			Emergency:     payload.Emergency,
			ValueRequired: payload.ValueRequired,
			Status:        domain.CampaignStatusActive,
			AddressCity:   payload.AddressCity,
			AddressState:  payload.AddressState,
			HasAddress:    payload.HasAddress,
		}
		if err := s.repo.CreateCampaign(ctx, campaign); err != nil {
			return nil, err
		}
		if err := s.repo.IncrementCampaignsCreated(ctx, owner.ID); err != nil {
			log.Printf("level=warn component=app op=save_campaign msg=\"counter increment failed\" user_id=%s err=%v", owner.ID, err)
		}
		log.Printf("level=info component=app op=save_campaign outcome=created campaign_id=%s owner_id=%s", campaign.ID, owner.ID)
		return campaign, nil
	}

	campaign, err := s.repo.FindCampaignByID(ctx, *payload.CampaignID)
	if err != nil {
		return nil, err
	}
	campaign.Title = payload.Title
	campaign.Description = payload.Description
	campaign.ImageURL = payload.ImageURL
	campaign.Category = payload.Category
	campaign.Emergency = payload.Emergency
	campaign.ValueRequired = payload.ValueRequired
	campaign.AddressCity = payload.AddressCity
	campaign.AddressState = payload.AddressState
	campaign.HasAddress = payload.HasAddress
	if err := s.repo.UpdateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=save_campaign outcome=updated campaign_id=%s", campaign.ID)
	return campaign, nil
}

// GetCampaign returns one campaign.
func (s *Service) GetCampaign(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	return s.repo.FindCampaignByID(ctx, campaignID)
}

// ListCampaignsByOwner returns every campaign owned by a user.
func (s *Service) ListCampaignsByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Campaign, error) {
	return s.repo.FindCampaignsByOwner(ctx, ownerID)
}

// SearchCampaigns runs the public paginated listing.
func (s *Service) SearchCampaigns(ctx context.Context, filter domain.CampaignSearchFilter) ([]domain.Campaign, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.ItemsPerPage < 1 || filter.ItemsPerPage > 100 {
		filter.ItemsPerPage = 20
	}
	return s.repo.SearchCampaigns(ctx, filter)
}

// AddComment attaches a comment to a campaign. The author must exist and the
// comment must not be empty.
func (s *Service) AddComment(ctx context.Context, campaignID uuid.UUID, payload domain.AddCommentPayload) (*domain.Comment, error) {
	if payload.Content == "" || payload.UserID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.FindCampaignByID(ctx, campaignID); err != nil {
		return nil, err
	}
	author, err := s.repo.FindUserByID(ctx, payload.UserID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ID:         uuid.New(),
		CampaignID: campaignID,
		UserID:     author.ID,
		UserName:   author.Name,
		UserImage:  author.ImageURL,
		Content:    payload.Content,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns the comments of a campaign.
func (s *Service) ListComments(ctx context.Context, campaignID uuid.UUID) ([]domain.Comment, error) {
	if _, err := s.repo.FindCampaignByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, campaignID)
}

// DeleteComment removes one comment from a campaign.
func (s *Service) DeleteComment(ctx context.Context, campaignID, commentID uuid.UUID) error {
	return s.repo.DeleteComment(ctx, campaignID, commentID)
}
