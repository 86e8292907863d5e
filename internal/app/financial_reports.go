/**
 * @description
 * Financial report use cases. BuildAccountingReport aggregates a campaign's
 * ledger (approved donation receipts, completed transfers, fee lines) over an
 * optional date range; GenerateReport renders the aggregate as PDF or CSV,
 * stores the file and persists its metadata.
 */

package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hopeshare/campaign-service/internal/domain"
	"github.com/hopeshare/campaign-service/pkg/report"
)

// Platform and gateway fee rates applied to report totals. Both are currently
// zero; the fee lines stay in the statement so the layout is stable when a
// rate is introduced.
const (
	platformFeeRate = 0.0
	gatewayFeeRate  = 0.0
)

// BuildAccountingReport aggregates a campaign's financial activity.
func (s *Service) BuildAccountingReport(ctx context.Context, campaignID uuid.UUID, period domain.ReportPeriod) (*domain.AccountingReport, error) {
	campaign, err := s.repo.FindCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	owner, err := s.repo.FindUserByID(ctx, campaign.OwnerID)
	if err != nil {
		return nil, err
	}
	donations, err := s.repo.FindDonationsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	deposits, err := s.repo.FindDepositsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	r := &domain.AccountingReport{
		CampaignID:     campaign.ID,
		CampaignTitle:  campaign.Title,
		CampaignStatus: campaign.Status,
		OwnerName:      owner.Name,
		OwnerDocument:  ownerDocument(owner),
		Period:         period,
		GeneratedAt:    time.Now().UTC(),
		GoalAmount:     campaign.ValueRequired,
	}

	byMethod := make(map[string]*domain.MethodBreakdown)
	byDonor := make(map[uuid.UUID]*domain.TopDonor)

	// Refunds of receipts counted before the period start reduce the closing
	// balance but not the period's income.
	var priorRefunds int64

	for _, d := range donations {
		if d.Status != domain.DonationStatusApproved && d.Status != domain.DonationStatusRefunded {
			continue
		}
		method := "N/A"
		if d.PaymentMethod != nil && *d.PaymentMethod != "" {
			method = *d.PaymentMethod
		}

		received := period.Contains(d.CreatedAt)
		if received {
			r.TotalIncome += d.Amount
			r.DonationCount++
			r.Movements = append(r.Movements, domain.Movement{
				Date:        d.CreatedAt,
				Description: "Doação recebida - ID " + d.PaymentID,
				Type:        domain.MovementIncome,
				Method:      method,
				Amount:      d.Amount,
			})

			mb, ok := byMethod[method]
			if !ok {
				mb = &domain.MethodBreakdown{Method: method}
				byMethod[method] = mb
			}
			mb.Count++
			mb.Amount += d.Amount

			td, ok := byDonor[d.DonorID]
			if !ok {
				td = &domain.TopDonor{UserID: d.DonorID}
				byDonor[d.DonorID] = td
			}
			td.Count++
			td.Amount += d.Amount
		}

		// The refund window is evaluated on its own: a donation received before
		// the period but reversed inside it still puts the outgoing line on
		// this period's statement. The donor and method breakdowns only change
		// when the receipt was counted above.
		if d.Status == domain.DonationStatusRefunded && d.RefundedAt != nil && period.Contains(*d.RefundedAt) {
			r.Movements = append(r.Movements, domain.Movement{
				Date:        *d.RefundedAt,
				Description: "Doação estornada - ID " + d.PaymentID,
				Type:        domain.MovementTransfer,
				Method:      method,
				Amount:      -d.Amount,
			})
			if received {
				r.TotalIncome -= d.Amount
				r.DonationCount--
				byMethod[method].Count--
				byMethod[method].Amount -= d.Amount
				byDonor[d.DonorID].Count--
				byDonor[d.DonorID].Amount -= d.Amount
			} else {
				priorRefunds += d.Amount
			}
		}
	}

	for _, dep := range deposits {
		switch dep.Status {
		case domain.DepositStatusCompleted:
			resolved := dep.UpdatedAt
			if dep.ResolvedAt != nil {
				resolved = *dep.ResolvedAt
			}
			if !period.Contains(resolved) {
				continue
			}
			r.TotalTransferred += dep.ValueDonated
			r.Movements = append(r.Movements, domain.Movement{
				Date:        resolved,
				Description: "Transferência realizada - ID " + dep.ID.String(),
				Type:        domain.MovementTransfer,
				Method:      "N/A",
				Amount:      dep.ValueDonated,
			})
		case domain.DepositStatusPending:
			r.PendingTransfers++
			r.PendingAmount += dep.ValueDonated
		}
	}

	platformFee := int64(float64(r.TotalIncome) * platformFeeRate)
	gatewayFee := int64(float64(r.TotalIncome) * gatewayFeeRate)
	r.TotalFees = platformFee + gatewayFee
	r.Movements = append(r.Movements,
		domain.Movement{
			Date:        r.GeneratedAt,
			Description: "Taxa da plataforma",
			Type:        domain.MovementFee,
			Method:      "N/A",
			Amount:      platformFee,
		},
		domain.Movement{
			Date:        r.GeneratedAt,
			Description: "Taxa do gateway de pagamento",
			Type:        domain.MovementFee,
			Method:      "N/A",
			Amount:      gatewayFee,
		},
	)

	r.FinalBalance = r.TotalIncome - priorRefunds - r.TotalTransferred - r.TotalFees
	if r.DonationCount > 0 {
		r.AverageDonation = r.TotalIncome / int64(r.DonationCount)
	}
	r.UniqueDonors = len(byDonor)
	if r.GoalAmount > 0 {
		r.GoalPercent = float64(r.TotalIncome) / float64(r.GoalAmount) * 100
	}

	for _, mb := range byMethod {
		r.ByMethod = append(r.ByMethod, *mb)
	}
	sort.Slice(r.ByMethod, func(i, j int) bool { return r.ByMethod[i].Amount > r.ByMethod[j].Amount })

	for _, td := range byDonor {
		r.TopDonors = append(r.TopDonors, *td)
	}
	sort.Slice(r.TopDonors, func(i, j int) bool { return r.TopDonors[i].Amount > r.TopDonors[j].Amount })
	if len(r.TopDonors) > 10 {
		r.TopDonors = r.TopDonors[:10]
	}

	sort.Slice(r.Movements, func(i, j int) bool { return r.Movements[i].Date.Before(r.Movements[j].Date) })
	return r, nil
}

func ownerDocument(u *domain.User) string {
	if u.CNPJ != nil && *u.CNPJ != "" {
		return *u.CNPJ
	}
	if u.CPF != nil && *u.CPF != "" {
		return *u.CPF
	}
	return "N/A"
}

// GenerateReport builds the accounting aggregate for a campaign, renders it in
// the requested format ("pdf" or "csv"), uploads the file and persists its
// metadata record.
func (s *Service) GenerateReport(ctx context.Context, userID, campaignID uuid.UUID, format string, period domain.ReportPeriod) (*domain.FinancialReportRecord, error) {
	if _, err := s.repo.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	aggregate, err := s.BuildAccountingReport(ctx, campaignID, period)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch format {
	case "pdf":
		data, err = report.RenderPDF(aggregate)
		contentType = "application/pdf"
		ext = "pdf"
	case "csv":
		data, err = report.RenderCSV(aggregate)
		contentType = "text/csv"
		ext = "csv"
	default:
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, fmt.Errorf("report rendering failed: %w", err)
	}

	fileName := fmt.Sprintf("accounting-report-%s-%d.%s", campaignID, time.Now().UnixMilli(), ext)
	key := fmt.Sprintf("reports/%s/%s", campaignID, fileName)
	url, err := s.objects.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("report upload failed: %w", err)
	}

	record := &domain.FinancialReportRecord{
		ID:          uuid.New(),
		CampaignID:  campaignID,
		UserID:      userID,
		ReportType:  domain.ReportTypeAccounting,
		FileURL:     url,
		FileKey:     key,
		FileName:    fileName,
		FileSize:    int64(len(data)),
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
		GeneratedAt: aggregate.GeneratedAt,
	}
	if err := s.repo.SaveFinancialReport(ctx, record); err != nil {
		return nil, err
	}
	log.Printf("level=info component=app op=generate_report campaign_id=%s format=%s size=%d", campaignID, format, record.FileSize)
	return record, nil
}

// ListFinancialReports returns the generated report files of a campaign.
func (s *Service) ListFinancialReports(ctx context.Context, campaignID uuid.UUID) ([]domain.FinancialReportRecord, error) {
	if _, err := s.repo.FindCampaignByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListFinancialReportsByCampaign(ctx, campaignID)
}
