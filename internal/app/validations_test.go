package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

type validationRepoStub struct {
	store.Repository

	user       *domain.User
	caller     *domain.User
	validation *domain.IdentityValidation

	createCalled   bool
	created        *domain.IdentityValidation
	resubmitCalled bool
	resubmitDocs   []domain.ValidationDocument
	reviewCalled   bool
	reviewStatus   string
}

func (s *validationRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.caller != nil && s.caller.ID == userID {
		return s.caller, nil
	}
	if s.user != nil && s.user.ID == userID {
		return s.user, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *validationRepoStub) FindValidationByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityValidation, error) {
	if s.validation == nil {
		return nil, store.ErrValidationNotFound
	}
	return s.validation, nil
}

func (s *validationRepoStub) FindValidationByID(ctx context.Context, validationID uuid.UUID) (*domain.IdentityValidation, error) {
	if s.validation == nil {
		return nil, store.ErrValidationNotFound
	}
	return s.validation, nil
}

func (s *validationRepoStub) CreateValidation(ctx context.Context, v *domain.IdentityValidation) error {
	s.createCalled = true
	s.created = v
	return nil
}

func (s *validationRepoStub) UpdateValidationResubmission(ctx context.Context, validationID uuid.UUID, companyName *string, documents []domain.ValidationDocument) (*domain.IdentityValidation, error) {
	s.resubmitCalled = true
	s.resubmitDocs = documents
	updated := *s.validation
	updated.Status = domain.ValidationStatusPending
	updated.Documents = documents
	updated.ObservationRead = true
	return &updated, nil
}

func (s *validationRepoStub) UpdateValidationReview(ctx context.Context, validationID uuid.UUID, status string, observation *string) (*domain.IdentityValidation, error) {
	s.reviewCalled = true
	s.reviewStatus = status
	updated := *s.validation
	updated.Status = status
	updated.Observation = observation
	updated.ObservationRead = false
	return &updated, nil
}

type objectStoreStub struct {
	uploads       []string
	deletes       []string
	deletedPrefix string

	failAfter int // fail the nth upload (1-based); 0 disables
}

func (o *objectStoreStub) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if o.failAfter > 0 && len(o.uploads)+1 >= o.failAfter {
		return "", errors.New("storage unavailable")
	}
	o.uploads = append(o.uploads, key)
	return "https://cdn.example/" + key, nil
}

func (o *objectStoreStub) Delete(ctx context.Context, key string) error {
	o.deletes = append(o.deletes, key)
	return nil
}

func (o *objectStoreStub) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	o.deletedPrefix = prefix
	return 0, nil
}

func TestSaveValidation_CreatesPendingRecord(t *testing.T) {
	repo := &validationRepoStub{user: &domain.User{ID: uuid.New(), Name: "Instituição Esperança"}}
	objects := &objectStoreStub{}
	svc := NewService(repo, nil, nil, objects, nil, "secret", "http://front", "http://api")

	result, err := svc.SaveValidation(context.Background(), domain.SaveValidationPayload{
		UserID: repo.user.ID,
		Documents: []domain.DocumentUpload{
			{Name: "contrato social.pdf", ContentType: "application/pdf", Content: []byte("doc")},
			{Name: "cartão cnpj.pdf", ContentType: "application/pdf", Content: []byte("doc")},
		},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !repo.createCalled {
		t.Fatal("expected a validation record to be created")
	}
	if result.Status != domain.ValidationStatusPending {
		t.Fatalf("expected PENDING, got %q", result.Status)
	}
	if len(result.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(result.Documents))
	}
	for _, doc := range result.Documents {
		if !strings.HasPrefix(doc.Key, "validations/"+repo.user.ID.String()+"/") {
			t.Fatalf("expected per-user key prefix, got %q", doc.Key)
		}
	}
}

func TestSaveValidation_RequiresDocuments(t *testing.T) {
	repo := &validationRepoStub{user: &domain.User{ID: uuid.New()}}
	svc := NewService(repo, nil, nil, &objectStoreStub{}, nil, "secret", "http://front", "http://api")

	_, err := svc.SaveValidation(context.Background(), domain.SaveValidationPayload{UserID: repo.user.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveValidation_UploadFailureRollsBack(t *testing.T) {
	repo := &validationRepoStub{user: &domain.User{ID: uuid.New()}}
	objects := &objectStoreStub{failAfter: 2}
	svc := NewService(repo, nil, nil, objects, nil, "secret", "http://front", "http://api")

	_, err := svc.SaveValidation(context.Background(), domain.SaveValidationPayload{
		UserID: repo.user.ID,
		Documents: []domain.DocumentUpload{
			{Name: "a.pdf", ContentType: "application/pdf", Content: []byte("doc")},
			{Name: "b.pdf", ContentType: "application/pdf", Content: []byte("doc")},
		},
	})
	if err == nil {
		t.Fatal("expected an error when the second upload fails")
	}
	if repo.createCalled {
		t.Fatal("expected no validation record after a failed upload")
	}
	if len(objects.deletes) != 1 {
		t.Fatalf("expected the first upload to be rolled back, got %d deletes", len(objects.deletes))
	}
}

func TestSaveValidation_ResubmissionReplacesDocumentSet(t *testing.T) {
	userID := uuid.New()
	observation := "documento ilegível"
	repo := &validationRepoStub{
		user: &domain.User{ID: userID},
		validation: &domain.IdentityValidation{
			ID:          uuid.New(),
			UserID:      userID,
			Status:      domain.ValidationStatusRejected,
			Observation: &observation,
		},
	}
	objects := &objectStoreStub{}
	svc := NewService(repo, nil, nil, objects, nil, "secret", "http://front", "http://api")

	result, err := svc.SaveValidation(context.Background(), domain.SaveValidationPayload{
		UserID: userID,
		Documents: []domain.DocumentUpload{
			{Name: "contrato social v2.pdf", ContentType: "application/pdf", Content: []byte("doc")},
		},
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if objects.deletedPrefix != "validations/"+userID.String()+"/" {
		t.Fatalf("expected previous documents to be cleared, got prefix %q", objects.deletedPrefix)
	}
	if !repo.resubmitCalled {
		t.Fatal("expected a resubmission update")
	}
	if result.Status != domain.ValidationStatusPending {
		t.Fatalf("expected PENDING after resubmission, got %q", result.Status)
	}
	if !result.ObservationRead {
		t.Fatal("expected the admin observation to be acknowledged")
	}
}

func TestReviewValidation_AdminOnly(t *testing.T) {
	repo := &validationRepoStub{
		caller:     &domain.User{ID: uuid.New(), Admin: false},
		validation: &domain.IdentityValidation{ID: uuid.New(), Status: domain.ValidationStatusPending},
	}
	svc := NewService(repo, nil, nil, &objectStoreStub{}, nil, "secret", "http://front", "http://api")

	_, err := svc.ReviewValidation(context.Background(), repo.caller.ID, domain.ReviewValidationPayload{
		ValidationID: repo.validation.ID,
		Status:       domain.ValidationStatusApproved,
	})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if repo.reviewCalled {
		t.Fatal("expected no review write for a denied caller")
	}
}

func TestReviewValidation_RejectsUnknownVerdict(t *testing.T) {
	repo := &validationRepoStub{
		caller:     adminUser(),
		validation: &domain.IdentityValidation{ID: uuid.New(), Status: domain.ValidationStatusPending},
	}
	svc := NewService(repo, nil, nil, &objectStoreStub{}, nil, "secret", "http://front", "http://api")

	_, err := svc.ReviewValidation(context.Background(), repo.caller.ID, domain.ReviewValidationPayload{
		ValidationID: repo.validation.ID,
		Status:       "MAYBE",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReviewValidation_RecordsVerdict(t *testing.T) {
	repo := &validationRepoStub{
		caller:     adminUser(),
		validation: &domain.IdentityValidation{ID: uuid.New(), Status: domain.ValidationStatusPending},
	}
	svc := NewService(repo, nil, nil, &objectStoreStub{}, nil, "secret", "http://front", "http://api")

	observation := "aprovado após conferência do CNPJ"
	result, err := svc.ReviewValidation(context.Background(), repo.caller.ID, domain.ReviewValidationPayload{
		ValidationID: repo.validation.ID,
		Status:       domain.ValidationStatusApproved,
		Observation:  &observation,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Status != domain.ValidationStatusApproved {
		t.Fatalf("expected APPROVED, got %q", result.Status)
	}
	if result.ObservationRead {
		t.Fatal("expected a fresh observation to be unread")
	}
}
