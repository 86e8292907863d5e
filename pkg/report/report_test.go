package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hopeshare/campaign-service/internal/domain"
)

func TestFormatCentavos(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   string
	}{
		{name: "zero", amount: 0, want: "R$ 0,00"},
		{name: "cents only", amount: 99, want: "R$ 0,99"},
		{name: "single real", amount: 100, want: "R$ 1,00"},
		{name: "thousands grouping", amount: 123456, want: "R$ 1.234,56"},
		{name: "millions grouping", amount: 123456789, want: "R$ 1.234.567,89"},
		{name: "negative amount", amount: -250050, want: "-R$ 2.500,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCentavos(tt.amount); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func sampleReport() *domain.AccountingReport {
	return &domain.AccountingReport{
		CampaignID:     uuid.New(),
		CampaignTitle:  "Reforma da escola João de Barro",
		CampaignStatus: "FINISHED",
		OwnerName:      "Associação Recomeço",
		OwnerDocument:  "12.345.678/0001-90",
		GeneratedAt:    time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		TotalIncome:    350000,
		TotalFees:      0,
		FinalBalance:   350000,
		DonationCount:  3,
		UniqueDonors:   2,
		GoalAmount:     1000000,
		GoalPercent:    35.0,
		ByMethod: []domain.MethodBreakdown{
			{Method: "pix", Count: 2, Amount: 300000},
			{Method: "credit_card", Count: 1, Amount: 50000},
		},
		Movements: []domain.Movement{
			{
				Date:        time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
				Description: "Doação recebida - ID 1001",
				Type:        domain.MovementIncome,
				Method:      "pix",
				Amount:      200000,
			},
			{
				Date:        time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC),
				Description: "Doação recebida - ID 1002",
				Type:        domain.MovementIncome,
				Method:      "credit_card",
				Amount:      50000,
			},
		},
	}
}

func TestRenderCSV_StartsWithBOMAndListsMovements(t *testing.T) {
	data, err := RenderCSV(sampleReport())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")) {
		t.Fatal("expected the output to start with a UTF-8 BOM")
	}

	content := string(data)
	if !strings.Contains(content, "Data,Descrição,Tipo,Método,Valor") {
		t.Fatal("expected the column header row")
	}
	if !strings.Contains(content, "10/03/2026,Doação recebida - ID 1001,RECEITA,pix,\"R$ 2.000,00\"") {
		t.Fatalf("expected the first movement row, got:\n%s", content)
	}
	if !strings.Contains(content, "Total arrecadado") {
		t.Fatal("expected the totals block")
	}
	if !strings.Contains(content, "\"R$ 3.500,00\"") {
		t.Fatal("expected the formatted income total")
	}
}

func TestRenderPDF_ProducesDocument(t *testing.T) {
	data, err := RenderPDF(sampleReport())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("expected a PDF document header")
	}
	if len(data) < 1000 {
		t.Fatalf("expected a rendered document, got %d bytes", len(data))
	}
}
