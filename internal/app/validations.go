/**
 * @description
 * Identity validation (KYC) use cases. Submitted documents go to object
 * storage under a per-user prefix; a resubmission replaces the whole set. An
 * upload failure mid-batch rolls back the objects already written so storage
 * never holds a partial set.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
	"github.com/hopeshare/campaign-service/pkg/objstore"
)

// GetValidation returns a user's KYC record.
func (s *Service) GetValidation(ctx context.Context, userID uuid.UUID) (*domain.IdentityValidation, error) {
	return s.repo.FindValidationByUserID(ctx, userID)
}

// uploadValidationDocuments writes a document batch under the user's prefix.
// On failure it deletes whatever it already wrote before returning the error.
func (s *Service) uploadValidationDocuments(ctx context.Context, userID uuid.UUID, docs []domain.DocumentUpload) ([]domain.ValidationDocument, error) {
	uploaded := make([]domain.ValidationDocument, 0, len(docs))
	for _, doc := range docs {
		key := fmt.Sprintf("validations/%s/%d-%s", userID, time.Now().UnixMilli(), objstore.SanitizeFilename(doc.Name))
		url, err := s.objects.Upload(ctx, key, doc.Content, doc.ContentType)
		if err != nil {
			for _, done := range uploaded {
				if delErr := s.objects.Delete(ctx, done.Key); delErr != nil {
					log.Printf("level=warn component=app op=upload_validation_documents user_id=%s msg=\"rollback delete failed\" key=%s err=%v", userID, done.Key, delErr)
				}
			}
			return nil, fmt.Errorf("document upload failed for %s: %w", doc.Name, err)
		}
		uploaded = append(uploaded, domain.ValidationDocument{
			Name:        doc.Name,
			URL:         url,
			Key:         key,
			ContentType: doc.ContentType,
		})
	}
	return uploaded, nil
}

// SaveValidation submits or resubmits KYC material. A resubmission replaces
// the stored document set, resets the record to PENDING and acknowledges any
// admin observation.
func (s *Service) SaveValidation(ctx context.Context, payload domain.SaveValidationPayload) (*domain.IdentityValidation, error) {
	if len(payload.Documents) == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.FindUserByID(ctx, payload.UserID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindValidationByUserID(ctx, payload.UserID)
	if err != nil && !errors.Is(err, store.ErrValidationNotFound) {
		return nil, err
	}

	if existing != nil {
		// Replace the prior document set before uploading the new one.
		if _, err := s.objects.DeletePrefix(ctx, "validations/"+payload.UserID.String()+"/"); err != nil {
			return nil, fmt.Errorf("failed to clear previous documents: %w", err)
		}
	}

	documents, err := s.uploadValidationDocuments(ctx, payload.UserID, payload.Documents)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		v := &domain.IdentityValidation{
			ID:          uuid.New(),
			UserID:      payload.UserID,
			Status:      domain.ValidationStatusPending,
			CNPJ:        payload.CNPJ,
			CompanyName: payload.CompanyName,
			Documents:   documents,
		}
		if err := s.repo.CreateValidation(ctx, v); err != nil {
			return nil, err
		}
		log.Printf("level=info component=app op=save_validation outcome=created user_id=%s documents=%d", payload.UserID, len(documents))
		return v, nil
	}

	updated, err := s.repo.UpdateValidationResubmission(ctx, existing.ID, payload.CompanyName, documents)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=save_validation outcome=resubmitted user_id=%s documents=%d", payload.UserID, len(documents))
	return updated, nil
}

// ReviewValidation records an admin verdict on a KYC record.
func (s *Service) ReviewValidation(ctx context.Context, callerID uuid.UUID, payload domain.ReviewValidationPayload) (*domain.IdentityValidation, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	if payload.Status != domain.ValidationStatusApproved && payload.Status != domain.ValidationStatusRejected {
		return nil, ErrInvalidInput
	}
	if _, err := s.repo.FindValidationByID(ctx, payload.ValidationID); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateValidationReview(ctx, payload.ValidationID, payload.Status, payload.Observation)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=review_validation validation_id=%s status=%s admin_id=%s", payload.ValidationID, payload.Status, callerID)
	return updated, nil
}

// ListPendingValidations returns the admin review queue.
func (s *Service) ListPendingValidations(ctx context.Context, callerID uuid.UUID) ([]domain.IdentityValidation, error) {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.ListPendingValidations(ctx)
}
