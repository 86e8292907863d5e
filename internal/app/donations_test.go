package app

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
	"github.com/hopeshare/campaign-service/pkg/mercadopago"
)

type donationRepoStub struct {
	store.Repository

	donor    *domain.User
	campaign *domain.Campaign

	donationsByPaymentID map[string]*domain.Donation
	findErr              error

	createdDonation *domain.Donation

	rebindCalled bool
	rebindFrom   string
	rebindTo     string

	creditCalled   bool
	creditedID     string
	creditedMethod *string
	creditResult   bool

	statusUpdateCalled bool
	updatedStatus      string

	refundCalled bool
	refundAmount int64
}

func (s *donationRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.donor == nil {
		return nil, store.ErrUserNotFound
	}
	return s.donor, nil
}

func (s *donationRepoStub) FindCampaignByID(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	if s.campaign == nil {
		return nil, store.ErrCampaignNotFound
	}
	return s.campaign, nil
}

func (s *donationRepoStub) CreateDonation(ctx context.Context, donation *domain.Donation) error {
	s.createdDonation = donation
	return nil
}

func (s *donationRepoStub) FindDonationByPaymentID(ctx context.Context, paymentID string) (*domain.Donation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	donation, ok := s.donationsByPaymentID[paymentID]
	if !ok {
		return nil, store.ErrDonationNotFound
	}
	return donation, nil
}

func (s *donationRepoStub) RebindDonationPaymentID(ctx context.Context, preferenceID, paymentID string) error {
	s.rebindCalled = true
	s.rebindFrom = preferenceID
	s.rebindTo = paymentID
	donation, ok := s.donationsByPaymentID[preferenceID]
	if !ok {
		return store.ErrDonationNotFound
	}
	delete(s.donationsByPaymentID, preferenceID)
	donation.PaymentID = paymentID
	s.donationsByPaymentID[paymentID] = donation
	return nil
}

func (s *donationRepoStub) ApproveDonationAndCredit(ctx context.Context, paymentID string, method *string) (bool, error) {
	s.creditCalled = true
	s.creditedID = paymentID
	s.creditedMethod = method
	if s.creditResult {
		if donation, ok := s.donationsByPaymentID[paymentID]; ok {
			donation.Status = domain.DonationStatusApproved
		}
	}
	return s.creditResult, nil
}

func (s *donationRepoStub) UpdateDonationStatus(ctx context.Context, paymentID, status string) error {
	s.statusUpdateCalled = true
	s.updatedStatus = status
	return nil
}

func (s *donationRepoStub) RefundDonationAndDebit(ctx context.Context, paymentID string, amount int64) error {
	s.refundCalled = true
	s.refundAmount = amount
	return nil
}

type gatewayStub struct {
	preference *mercadopago.PreferenceResponse
	payment    *mercadopago.PaymentResponse
	refund     *mercadopago.RefundResponse

	preferenceErr error
	refundErr     error

	lastPreference   mercadopago.PreferenceRequest
	refundRequested  bool
	lastRefundAmount *int64
}

func (g *gatewayStub) CreatePreference(ctx context.Context, req mercadopago.PreferenceRequest) (*mercadopago.PreferenceResponse, error) {
	g.lastPreference = req
	if g.preferenceErr != nil {
		return nil, g.preferenceErr
	}
	return g.preference, nil
}

func (g *gatewayStub) GetPayment(ctx context.Context, paymentID string) (*mercadopago.PaymentResponse, error) {
	return g.payment, nil
}

func (g *gatewayStub) RefundPayment(ctx context.Context, paymentID string, amountCentavos *int64) (*mercadopago.RefundResponse, error) {
	g.refundRequested = true
	g.lastRefundAmount = amountCentavos
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	return g.refund, nil
}

func donationTestFixtures() (*donationRepoStub, *gatewayStub) {
	repo := &donationRepoStub{
		donor: &domain.User{ID: uuid.New(), Name: "Maria"},
		campaign: &domain.Campaign{
			ID:     uuid.New(),
			Title:  "Cirurgia da Ana",
			Status: domain.CampaignStatusActive,
		},
		donationsByPaymentID: map[string]*domain.Donation{},
	}
	gateway := &gatewayStub{
		preference: &mercadopago.PreferenceResponse{
			ID:        "pref-123",
			InitPoint: "https://mp.example/checkout/pref-123",
		},
	}
	return repo, gateway
}

func TestCreateDonation_RecordsPendingLedgerRow(t *testing.T) {
	repo, gateway := donationTestFixtures()
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	checkout, err := svc.CreateDonation(context.Background(), domain.CreateDonationPayload{
		UserID:     repo.donor.ID,
		CampaignID: repo.campaign.ID,
		Amount:     2500,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if checkout.InitPoint != "https://mp.example/checkout/pref-123" {
		t.Fatalf("unexpected init point %q", checkout.InitPoint)
	}
	if repo.createdDonation == nil {
		t.Fatal("expected a donation record to be created")
	}
	if repo.createdDonation.Status != domain.DonationStatusPending {
		t.Fatalf("expected pending, got %q", repo.createdDonation.Status)
	}
	if repo.createdDonation.PaymentID != gateway.lastPreference.ExternalReference {
		t.Fatal("expected donation to be keyed by the preference's external reference")
	}
	if gateway.lastPreference.Items[0].UnitPrice != 25.0 {
		t.Fatalf("expected unit price 25.00, got %f", gateway.lastPreference.Items[0].UnitPrice)
	}
	if gateway.lastPreference.Payer == nil || gateway.lastPreference.Payer.Name != "Maria" {
		t.Fatalf("expected the donor on the preference payer, got %+v", gateway.lastPreference.Payer)
	}
	if gateway.lastPreference.Metadata["campaign_id"] != repo.campaign.ID.String() {
		t.Fatalf("expected campaign id in the preference metadata, got %v", gateway.lastPreference.Metadata)
	}
}

func TestCreateDonation_RejectsNonActiveCampaign(t *testing.T) {
	for _, status := range []string{domain.CampaignStatusSuspended, domain.CampaignStatusFinished} {
		t.Run(status, func(t *testing.T) {
			repo, gateway := donationTestFixtures()
			repo.campaign.Status = status
			svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

			_, err := svc.CreateDonation(context.Background(), domain.CreateDonationPayload{
				UserID:     repo.donor.ID,
				CampaignID: repo.campaign.ID,
				Amount:     2500,
			})
			if !errors.Is(err, ErrCampaignNotActive) {
				t.Fatalf("expected ErrCampaignNotActive, got %v", err)
			}
			if repo.createdDonation != nil {
				t.Fatal("expected no donation record")
			}
		})
	}
}

func TestCreateDonation_RejectsNonPositiveAmount(t *testing.T) {
	repo, gateway := donationTestFixtures()
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	for _, amount := range []int64{0, -500} {
		_, err := svc.CreateDonation(context.Background(), domain.CreateDonationPayload{
			UserID:     repo.donor.ID,
			CampaignID: repo.campaign.ID,
			Amount:     amount,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %d: expected ErrInvalidInput, got %v", amount, err)
		}
	}
}

func TestHandlePaymentNotification_ApprovedCreditsOnce(t *testing.T) {
	repo, gateway := donationTestFixtures()
	repo.donationsByPaymentID["ref-abc"] = &domain.Donation{
		PaymentID:  "ref-abc",
		CampaignID: repo.campaign.ID,
		DonorID:    repo.donor.ID,
		Amount:     2500,
		Status:     domain.DonationStatusPending,
	}
	repo.creditResult = true
	gateway.payment = &mercadopago.PaymentResponse{
		ID:                987654,
		Status:            "approved",
		ExternalReference: "ref-abc",
		PaymentMethodID:   "pix",
	}
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	notification := domain.PaymentNotification{Type: "payment"}
	notification.Data.ID = "987654"
	if err := svc.HandlePaymentNotification(context.Background(), notification); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !repo.rebindCalled || repo.rebindFrom != "ref-abc" || repo.rebindTo != "987654" {
		t.Fatal("expected the ledger row to be rebound to the gateway payment id")
	}
	if !repo.creditCalled || repo.creditedID != "987654" {
		t.Fatal("expected the campaign to be credited for payment 987654")
	}
	if repo.creditedMethod == nil || *repo.creditedMethod != "pix" {
		t.Fatal("expected the payment method to be recorded")
	}
}

func TestHandlePaymentNotification_DuplicateApprovedIsIgnored(t *testing.T) {
	repo, gateway := donationTestFixtures()
	repo.donationsByPaymentID["987654"] = &domain.Donation{
		PaymentID:  "987654",
		CampaignID: repo.campaign.ID,
		DonorID:    repo.donor.ID,
		Amount:     2500,
		Status:     domain.DonationStatusApproved,
	}
	repo.creditResult = false
	gateway.payment = &mercadopago.PaymentResponse{
		ID:              987654,
		Status:          "approved",
		PaymentMethodID: "pix",
	}
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	notification := domain.PaymentNotification{Type: "payment"}
	notification.Data.ID = "987654"
	if err := svc.HandlePaymentNotification(context.Background(), notification); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !repo.creditCalled {
		t.Fatal("expected the conditional credit to be attempted")
	}
	if repo.statusUpdateCalled {
		t.Fatal("expected no further status write for a duplicate delivery")
	}
}

func TestHandlePaymentNotification_IgnoresNonPaymentTypes(t *testing.T) {
	repo, gateway := donationTestFixtures()
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	notification := domain.PaymentNotification{Type: "merchant_order"}
	notification.Data.ID = "555"
	if err := svc.HandlePaymentNotification(context.Background(), notification); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repo.creditCalled || repo.statusUpdateCalled {
		t.Fatal("expected no ledger activity for non-payment notifications")
	}
}

func TestHandlePaymentNotification_RejectedUpdatesStatus(t *testing.T) {
	repo, gateway := donationTestFixtures()
	repo.donationsByPaymentID["987654"] = &domain.Donation{
		PaymentID: "987654",
		Status:    domain.DonationStatusPending,
	}
	gateway.payment = &mercadopago.PaymentResponse{ID: 987654, Status: "rejected"}
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	notification := domain.PaymentNotification{Type: "payment"}
	notification.Data.ID = "987654"
	if err := svc.HandlePaymentNotification(context.Background(), notification); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if repo.creditCalled {
		t.Fatal("expected no credit for a rejected payment")
	}
	if !repo.statusUpdateCalled || repo.updatedStatus != domain.DonationStatusRejected {
		t.Fatalf("expected status update to rejected, got called=%t status=%q", repo.statusUpdateCalled, repo.updatedStatus)
	}
}

func TestRefundDonation_OnlyApprovedDonations(t *testing.T) {
	for _, status := range []string{domain.DonationStatusPending, domain.DonationStatusRejected, domain.DonationStatusRefunded} {
		t.Run(status, func(t *testing.T) {
			repo, gateway := donationTestFixtures()
			repo.donationsByPaymentID["987654"] = &domain.Donation{
				PaymentID: "987654",
				Amount:    2500,
				Status:    status,
			}
			svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

			_, err := svc.RefundDonation(context.Background(), "987654", nil)
			if !errors.Is(err, ErrDonationNotRefundable) {
				t.Fatalf("expected ErrDonationNotRefundable, got %v", err)
			}
			if repo.refundCalled {
				t.Fatal("expected no debit for a non-approved donation")
			}
		})
	}
}

func TestRefundDonation_FullRefundByDefault(t *testing.T) {
	repo, gateway := donationTestFixtures()
	repo.donationsByPaymentID["987654"] = &domain.Donation{
		PaymentID: "987654",
		Amount:    2500,
		Status:    domain.DonationStatusApproved,
	}
	gateway.refund = &mercadopago.RefundResponse{ID: 42, Status: "approved"}
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	result, err := svc.RefundDonation(context.Background(), "987654", nil)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.Amount != 2500 {
		t.Fatalf("expected full refund of 2500, got %d", result.Amount)
	}
	if repo.refundAmount != 2500 {
		t.Fatalf("expected debit of 2500, got %d", repo.refundAmount)
	}
	if !gateway.refundRequested || gateway.lastRefundAmount != nil {
		t.Fatalf("expected a full gateway refund without an amount, got %v", gateway.lastRefundAmount)
	}
}

func TestRefundDonation_PartialAmountValidated(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		wantErr error
	}{
		{name: "valid partial", amount: 1000},
		{name: "zero amount", amount: 0, wantErr: ErrInvalidInput},
		{name: "negative amount", amount: -100, wantErr: ErrInvalidInput},
		{name: "exceeds donation", amount: 9999, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, gateway := donationTestFixtures()
			repo.donationsByPaymentID["987654"] = &domain.Donation{
				PaymentID: "987654",
				Amount:    2500,
				Status:    domain.DonationStatusApproved,
			}
			gateway.refund = &mercadopago.RefundResponse{ID: 42, Status: "approved"}
			svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

			result, err := svc.RefundDonation(context.Background(), "987654", &tt.amount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if gateway.refundRequested {
					t.Fatal("expected no gateway refund for an invalid amount")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if result.Amount != tt.amount {
				t.Fatalf("expected refund of %d, got %d", tt.amount, result.Amount)
			}
			if gateway.lastRefundAmount == nil || *gateway.lastRefundAmount != tt.amount {
				t.Fatalf("expected partial amount %d to reach the gateway, got %v", tt.amount, gateway.lastRefundAmount)
			}
			if repo.refundAmount != tt.amount {
				t.Fatalf("expected debit of %d, got %d", tt.amount, repo.refundAmount)
			}
		})
	}
}

func TestHandlePaymentNotification_StoreFailureIsNotTreatedAsMiss(t *testing.T) {
	repo, gateway := donationTestFixtures()
	repo.findErr = errors.New("connection reset by peer")
	gateway.payment = &mercadopago.PaymentResponse{
		ID:                987654,
		Status:            "approved",
		ExternalReference: "ref-abc",
		PaymentMethodID:   "pix",
	}
	svc := NewService(repo, gateway, nil, nil, nil, "secret", "http://front", "http://api")

	notification := domain.PaymentNotification{Type: "payment"}
	notification.Data.ID = "987654"
	err := svc.HandlePaymentNotification(context.Background(), notification)
	if !errors.Is(err, repo.findErr) {
		t.Fatalf("expected the store failure to bubble up, got %v", err)
	}
	if repo.rebindCalled {
		t.Fatal("expected no rebind attempt on a failing lookup")
	}
	if repo.creditCalled || repo.statusUpdateCalled {
		t.Fatal("expected no ledger write on a failing lookup")
	}
}
