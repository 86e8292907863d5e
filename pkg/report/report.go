/**
 * @description
 * This package renders the aggregated accounting report of a campaign into the
 * two downloadable formats the platform offers: a PDF statement and a CSV
 * export. The caller supplies a fully aggregated domain.AccountingReport; this
 * package only formats, it never queries.
 *
 * @dependencies
 * - github.com/jung-kurt/gofpdf: PDF generation.
 * - encoding/csv: Standard library CSV writer.
 */
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hopeshare/campaign-service/internal/domain"
)

// FormatCentavos renders an amount in centavos as a BRL string, e.g. 123456
// becomes "R$ 1.234,56".
func FormatCentavos(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	reais := amount / 100
	cents := amount % 100

	digits := strconv.FormatInt(reais, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped, cents)
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func periodLabel(p domain.ReportPeriod) string {
	start := "início da campanha"
	if p.Start != nil {
		start = formatDate(*p.Start)
	}
	end := "até agora"
	if p.End != nil {
		end = formatDate(*p.End)
	}
	return start + " - " + end
}

// RenderPDF produces the PDF statement of a report.
func RenderPDF(r *domain.AccountingReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Relatório Financeiro - "+r.CampaignTitle), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Relatório Financeiro"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(r.CampaignTitle), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Período: %s | Gerado em: %s", periodLabel(r.Period), r.GeneratedAt.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("Resumo"), "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	summary := [][2]string{
		{"Responsável", r.OwnerName},
		{"Documento", r.OwnerDocument},
		{"Situação da campanha", r.CampaignStatus},
		{"Total arrecadado", FormatCentavos(r.TotalIncome)},
		{"Total transferido", FormatCentavos(r.TotalTransferred)},
		{"Taxas aplicadas", FormatCentavos(r.TotalFees)},
		{"Saldo final", FormatCentavos(r.FinalBalance)},
		{"Doações aprovadas", strconv.Itoa(r.DonationCount)},
		{"Doação média", FormatCentavos(r.AverageDonation)},
		{"Doadores únicos", strconv.Itoa(r.UniqueDonors)},
		{"Meta da campanha", FormatCentavos(r.GoalAmount)},
		{"Percentual atingido", fmt.Sprintf("%.1f%%", r.GoalPercent)},
	}
	for _, row := range summary {
		pdf.CellFormat(70, 6, tr(row[0]), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(r.ByMethod) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Doações por método de pagamento"), "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(70, 6, tr("Método"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, tr("Quantidade"), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, tr("Valor"), "1", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, m := range r.ByMethod {
			pdf.CellFormat(70, 6, tr(m.Method), "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(m.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, tr(FormatCentavos(m.Amount)), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("Movimentações"), "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(25, 6, tr("Data"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, tr("Descrição"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, tr("Tipo"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 6, tr("Método"), "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, tr("Valor"), "1", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	for _, m := range r.Movements {
		pdf.CellFormat(25, 6, formatDate(m.Date), "1", 0, "L", false, 0, "")
		pdf.CellFormat(85, 6, tr(m.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, tr(m.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, tr(m.Method), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, tr(FormatCentavos(m.Amount)), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCSV produces the CSV export of a report. The output starts with a
// UTF-8 BOM so spreadsheet tools decode accented text correctly.
func RenderCSV(r *domain.AccountingReport) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\xEF\xBB\xBF")
	w := csv.NewWriter(&buf)

	header := []string{"Data", "Descrição", "Tipo", "Método", "Valor"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, m := range r.Movements {
		record := []string{
			formatDate(m.Date),
			m.Description,
			m.Type,
			m.Method,
			FormatCentavos(m.Amount),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	totals := [][]string{
		{},
		{"", "Total arrecadado", "", "", FormatCentavos(r.TotalIncome)},
		{"", "Total transferido", "", "", FormatCentavos(r.TotalTransferred)},
		{"", "Taxas aplicadas", "", "", FormatCentavos(r.TotalFees)},
		{"", "Saldo final", "", "", FormatCentavos(r.FinalBalance)},
	}
	for _, record := range totals {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv totals: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
