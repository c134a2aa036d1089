package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/iho/agroledger/internal/domain"
)

// Statement is the content of a party statement.
type Statement struct {
	Party       *domain.Party
	PartyID     string
	Entries     []*domain.LedgerEntry
	Summary     domain.LedgerSummary
	GeneratedAt time.Time
}

// BuildPartyStatementPDF renders a party ledger as a pdf statement.
func BuildPartyStatementPDF(stmt Statement) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Party Ledger Statement")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Party: %s", stmt.PartyID))
	pdf.Ln(5)
	if stmt.Party != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Name: %s", stmt.Party.Name))
		pdf.Ln(5)
		if stmt.Party.Village != "" {
			pdf.Cell(0, 6, fmt.Sprintf("Village: %s", stmt.Party.Village))
			pdf.Ln(5)
		}
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", stmt.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Total disbursed: %s", stmt.Summary.TotalDisbursed.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total interest: %s", stmt.Summary.TotalInterest.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total repaid: %s", stmt.Summary.TotalRepaid.StringFixed(2)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Balance: %s", stmt.Summary.CurrentBalance.StringFixed(2)))
	pdf.Ln(8)

	// Entries table
	widths := []float64{12, 24, 30, 30, 30, 34}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range []string{"No", "Date", "Type", "Debit", "Credit", "Balance"} {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, e := range stmt.Entries {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", e.SerialNo), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[1], 6, domain.FormatDate(e.Date), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, string(e.TransactionType), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, blankZero(e.DebitAmount.StringFixed(2)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, blankZero(e.CreditAmount.StringFixed(2)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, e.Balance.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func blankZero(s string) string {
	if s == "0.00" {
		return ""
	}
	return s
}
