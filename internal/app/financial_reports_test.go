package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/internal/store"
)

type reportRepoStub struct {
	store.Repository

	campaign  *domain.Campaign
	owner     *domain.User
	donations []domain.Donation
	deposits  []domain.DepositRequest

	savedRecord *domain.FinancialReportRecord
}

func (s *reportRepoStub) FindCampaignByID(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, error) {
	if s.campaign == nil {
		return nil, store.ErrCampaignNotFound
	}
	return s.campaign, nil
}

func (s *reportRepoStub) FindUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if s.owner == nil {
		return nil, store.ErrUserNotFound
	}
	return s.owner, nil
}

func (s *reportRepoStub) FindDonationsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Donation, error) {
	return s.donations, nil
}

func (s *reportRepoStub) FindDepositsByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.DepositRequest, error) {
	return s.deposits, nil
}

func (s *reportRepoStub) SaveFinancialReport(ctx context.Context, record *domain.FinancialReportRecord) error {
	s.savedRecord = record
	return nil
}

func reportFixtures() *reportRepoStub {
	cnpj := "12.345.678/0001-90"
	pix := "pix"
	card := "credit_card"
	campaignID := uuid.New()
	donorA := uuid.New()
	donorB := uuid.New()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	return &reportRepoStub{
		campaign: &domain.Campaign{
			ID:            campaignID,
			OwnerID:       uuid.New(),
			Title:         "Reconstrução pós enchente",
			Status:        domain.CampaignStatusFinished,
			ValueRequired: 1000000,
			ValueDonated:  300000,
		},
		owner: &domain.User{ID: uuid.New(), Name: "Associação Recomeço", CNPJ: &cnpj},
		donations: []domain.Donation{
			{PaymentID: "1001", CampaignID: campaignID, DonorID: donorA, Amount: 200000, Status: domain.DonationStatusApproved, PaymentMethod: &pix, CreatedAt: base},
			{PaymentID: "1002", CampaignID: campaignID, DonorID: donorB, Amount: 50000, Status: domain.DonationStatusApproved, PaymentMethod: &card, CreatedAt: base.Add(time.Hour)},
			{PaymentID: "1003", CampaignID: campaignID, DonorID: donorA, Amount: 100000, Status: domain.DonationStatusApproved, PaymentMethod: &pix, CreatedAt: base.Add(2 * time.Hour)},
			{PaymentID: "1004", CampaignID: campaignID, DonorID: donorB, Amount: 75000, Status: domain.DonationStatusPending, CreatedAt: base.Add(3 * time.Hour)},
		},
		deposits: []domain.DepositRequest{
			{ID: uuid.New(), CampaignID: campaignID, ValueDonated: 300000, Status: domain.DepositStatusPending, CreatedAt: base.Add(48 * time.Hour)},
		},
	}
}

func TestBuildAccountingReport_AggregatesApprovedDonations(t *testing.T) {
	repo := reportFixtures()
	svc := NewService(repo, nil, nil, nil, nil, "secret", "http://front", "http://api")

	r, err := svc.BuildAccountingReport(context.Background(), repo.campaign.ID, domain.ReportPeriod{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if r.TotalIncome != 350000 {
		t.Fatalf("expected income of 350000, got %d", r.TotalIncome)
	}
	if r.DonationCount != 3 {
		t.Fatalf("expected 3 counted donations, got %d", r.DonationCount)
	}
	if r.UniqueDonors != 2 {
		t.Fatalf("expected 2 unique donors, got %d", r.UniqueDonors)
	}
	if r.AverageDonation != 116666 {
		t.Fatalf("expected average of 116666, got %d", r.AverageDonation)
	}
	if r.GoalPercent != 35.0 {
		t.Fatalf("expected 35%% of goal, got %f", r.GoalPercent)
	}
	if r.OwnerDocument != "12.345.678/0001-90" {
		t.Fatalf("expected owner CNPJ, got %q", r.OwnerDocument)
	}
	if len(r.ByMethod) != 2 || r.ByMethod[0].Method != "pix" || r.ByMethod[0].Amount != 300000 {
		t.Fatalf("expected pix to lead the method breakdown, got %+v", r.ByMethod)
	}
	if len(r.TopDonors) != 2 || r.TopDonors[0].Amount != 300000 {
		t.Fatalf("expected the larger donor first, got %+v", r.TopDonors)
	}
	if r.PendingTransfers != 1 || r.PendingAmount != 300000 {
		t.Fatalf("expected one pending transfer of 300000, got %d/%d", r.PendingTransfers, r.PendingAmount)
	}
}

func TestBuildAccountingReport_RefundReversesAggregates(t *testing.T) {
	repo := reportFixtures()
	refundedAt := repo.donations[2].CreatedAt.Add(time.Hour)
	repo.donations[2].Status = domain.DonationStatusRefunded
	repo.donations[2].RefundedAt = &refundedAt
	svc := NewService(repo, nil, nil, nil, nil, "secret", "http://front", "http://api")

	r, err := svc.BuildAccountingReport(context.Background(), repo.campaign.ID, domain.ReportPeriod{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if r.TotalIncome != 250000 {
		t.Fatalf("expected income of 250000 after the refund, got %d", r.TotalIncome)
	}
	if r.DonationCount != 2 {
		t.Fatalf("expected 2 counted donations, got %d", r.DonationCount)
	}

	var sawRefundLine bool
	for _, m := range r.Movements {
		if m.Amount == -100000 && m.Type == domain.MovementTransfer {
			sawRefundLine = true
		}
	}
	if !sawRefundLine {
		t.Fatal("expected a negative movement line for the refund")
	}
}

func TestBuildAccountingReport_RefundOfEarlierReceiptStaysOnStatement(t *testing.T) {
	repo := reportFixtures()
	// Donation 1001 is received at 12:00 and reversed at 17:00; the window
	// opens at 15:00, after every receipt.
	refundedAt := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	repo.donations[0].Status = domain.DonationStatusRefunded
	repo.donations[0].RefundedAt = &refundedAt
	svc := NewService(repo, nil, nil, nil, nil, "secret", "http://front", "http://api")

	start := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	r, err := svc.BuildAccountingReport(context.Background(), repo.campaign.ID, domain.ReportPeriod{Start: &start})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	var sawRefundLine bool
	for _, m := range r.Movements {
		if m.Amount == -200000 && m.Type == domain.MovementTransfer {
			sawRefundLine = true
		}
	}
	if !sawRefundLine {
		t.Fatal("expected the reversal line even though the receipt predates the window")
	}
	if r.TotalIncome != 0 {
		t.Fatalf("expected no income inside the window, got %d", r.TotalIncome)
	}
	if r.FinalBalance != -200000 {
		t.Fatalf("expected the reversal in the closing balance, got %d", r.FinalBalance)
	}
	if r.DonationCount != 0 {
		t.Fatalf("expected no counted donations, got %d", r.DonationCount)
	}
}

func TestBuildAccountingReport_PeriodFiltersDonations(t *testing.T) {
	repo := reportFixtures()
	svc := NewService(repo, nil, nil, nil, nil, "secret", "http://front", "http://api")

	start := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	r, err := svc.BuildAccountingReport(context.Background(), repo.campaign.ID, domain.ReportPeriod{Start: &start})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	// The first donation lands before the window opens.
	if r.TotalIncome != 150000 {
		t.Fatalf("expected income of 150000 inside the window, got %d", r.TotalIncome)
	}
	if r.DonationCount != 2 {
		t.Fatalf("expected 2 donations inside the window, got %d", r.DonationCount)
	}
}

func TestBuildAccountingReport_CompletedDepositCountsAsTransfer(t *testing.T) {
	repo := reportFixtures()
	resolved := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	repo.deposits[0].Status = domain.DepositStatusCompleted
	repo.deposits[0].ResolvedAt = &resolved
	svc := NewService(repo, nil, nil, nil, nil, "secret", "http://front", "http://api")

	r, err := svc.BuildAccountingReport(context.Background(), repo.campaign.ID, domain.ReportPeriod{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if r.TotalTransferred != 300000 {
		t.Fatalf("expected 300000 transferred, got %d", r.TotalTransferred)
	}
	if r.FinalBalance != 50000 {
		t.Fatalf("expected final balance of 50000, got %d", r.FinalBalance)
	}
	if r.PendingTransfers != 0 {
		t.Fatalf("expected no pending transfers, got %d", r.PendingTransfers)
	}
}

func TestGenerateReport_StoresCSVArtifact(t *testing.T) {
	repo := reportFixtures()
	objects := &objectStoreStub{}
	svc := NewService(repo, nil, nil, objects, nil, "secret", "http://front", "http://api")

	record, err := svc.GenerateReport(context.Background(), repo.owner.ID, repo.campaign.ID, "csv", domain.ReportPeriod{})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if record.ReportType != domain.ReportTypeAccounting {
		t.Fatalf("expected ACCOUNTING, got %q", record.ReportType)
	}
	if record.FileSize == 0 {
		t.Fatal("expected a non-empty rendered file")
	}
	if len(objects.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(objects.uploads))
	}
	if repo.savedRecord == nil {
		t.Fatal("expected the report metadata to be persisted")
	}
}

func TestGenerateReport_RejectsUnknownFormat(t *testing.T) {
	repo := reportFixtures()
	svc := NewService(repo, nil, nil, &objectStoreStub{}, nil, "secret", "http://front", "http://api")

	_, err := svc.GenerateReport(context.Background(), repo.owner.ID, repo.campaign.ID, "xlsx", domain.ReportPeriod{})
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}
