/**
 * @description
 * Payout configuration and bank directory use cases. A user has at most one
 * settlement destination; saving again overwrites it.
 */

package app

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

// SavePayoutConfig creates or replaces a user's settlement destination. When a
// bank id is supplied it must exist in the directory.
func (s *Service) SavePayoutConfig(ctx context.Context, payload domain.SavePayoutConfigPayload) (*domain.PayoutConfig, error) {
	if payload.PixKey == nil && payload.AccountNumber == nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.FindUserByID(ctx, payload.UserID); err != nil {
		return nil, err
	}
	if payload.BankID != nil {
		if _, err := s.repo.FindBankByID(ctx, *payload.BankID); err != nil {
			return nil, err
		}
	}

	existing, err := s.repo.FindPayoutConfigByUserID(ctx, payload.UserID)
	if err != nil && !errors.Is(err, store.ErrPayoutConfigNotFound) {
		return nil, err
	}

	if existing == nil {
		cfg := &domain.PayoutConfig{
			ID:            uuid.New(),
			UserID:        payload.UserID,
			BankID:        payload.BankID,
			Agency:        payload.Agency,
			AccountNumber: payload.AccountNumber,
			AccountType:   payload.AccountType,
			PixKey:        payload.PixKey,
			CNPJ:          payload.CNPJ,
		}
		if err := s.repo.CreatePayoutConfig(ctx, cfg); err != nil {
			return nil, err
		}
		log.Printf("level=info component=app op=save_payout_config outcome=created user_id=%s", payload.UserID)
		return cfg, nil
	}

	existing.BankID = payload.BankID
	existing.Agency = payload.Agency
	existing.AccountNumber = payload.AccountNumber
	existing.AccountType = payload.AccountType
	existing.PixKey = payload.PixKey
	existing.CNPJ = payload.CNPJ
	if err := s.repo.UpdatePayoutConfig(ctx, existing); err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=save_payout_config outcome=updated user_id=%s", payload.UserID)
	return existing, nil
}

// GetPayoutConfig returns a user's settlement destination.
func (s *Service) GetPayoutConfig(ctx context.Context, userID uuid.UUID) (*domain.PayoutConfig, error) {
	return s.repo.FindPayoutConfigByUserID(ctx, userID)
}

// SearchBanks runs the paginated bank directory lookup.
func (s *Service) SearchBanks(ctx context.Context, filter domain.BankSearchFilter) ([]domain.Bank, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.ItemsPerPage < 1 || filter.ItemsPerPage > 100 {
		filter.ItemsPerPage = 20
	}
	return s.repo.SearchBanks(ctx, filter)
}

// GetBank returns one bank directory entry.
func (s *Service) GetBank(ctx context.Context, bankID string) (*domain.Bank, error) {
	return s.repo.FindBankByID(ctx, bankID)
}
