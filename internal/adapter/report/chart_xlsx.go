package report

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/iho/agroledger/internal/domain"
)

const (
	chartSheet  = "chart"
	detailSheet = "detail"
)

var chartHeaders = []any{
	"Party", "Name", "Village", "From", "To", "Rate",
	"Opening", "Disbursements", "Recoveries", "Closing", "Interest",
}

// ChartMeta labels an exported interest chart.
type ChartMeta struct {
	OrganizationID string
	From           string
	To             string
	Rate           decimal.Decimal
}

// BuildInterestChartXLSX renders an interest chart as a workbook with a
// per-party summary sheet and a sheet of constant-balance rows.
func BuildInterestChartXLSX(meta ChartMeta, entries []domain.InterestChartEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", chartSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(chartSheet, "A1", "Interest Chart")
	_ = f.SetCellValue(chartSheet, "A2", "Organization")
	_ = f.SetCellValue(chartSheet, "B2", meta.OrganizationID)
	_ = f.SetCellValue(chartSheet, "A3", "Period")
	_ = f.SetCellValue(chartSheet, "B3", meta.From+" to "+meta.To)
	_ = f.SetCellValue(chartSheet, "A4", "Rate per month")
	_ = f.SetCellValue(chartSheet, "B4", meta.Rate.String())

	const headerRow = 6
	if err := writeRow(f, chartSheet, headerRow, chartHeaders); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, e := range entries {
		row := []any{
			e.PartyID,
			e.PartyName,
			e.Village,
			domain.FormatDate(e.FromDate),
			domain.FormatDate(e.ToDate),
			e.Rate.String(),
			amount(e.OpeningBalance),
			amount(e.Disbursements),
			amount(e.Recoveries),
			amount(e.ClosingBalance),
			amount(e.Interest),
		}
		if err := writeRow(f, chartSheet, headerRow+1+i, row); err != nil {
			return nil, err
		}
		total = total.Add(e.Interest)
	}

	totalRow := headerRow + len(entries) + 1
	_ = f.SetCellValue(chartSheet, fmt.Sprintf("J%d", totalRow), "Total")
	_ = f.SetCellValue(chartSheet, fmt.Sprintf("K%d", totalRow), amount(total))

	if err := writeRow(f, detailSheet, 1, []any{"Party", "Period start", "Period end", "Days", "Balance", "Rate", "Interest"}); err != nil {
		return nil, err
	}
	row := 2
	for _, e := range entries {
		for _, r := range e.Rows {
			err := writeRow(f, detailSheet, row, []any{
				e.PartyID,
				domain.FormatDate(r.PeriodStart),
				domain.FormatDate(r.PeriodEnd),
				r.Days,
				amount(r.Balance),
				r.Rate.String(),
				amount(r.Interest),
			})
			if err != nil {
				return nil, err
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// amount renders money as a float cell; workbook consumers sum these columns.
func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
