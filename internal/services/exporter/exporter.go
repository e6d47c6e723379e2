// Package exporter serializes the cleaned ledger and its summaries into a
// downloadable spreadsheet report.
package exporter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"expensedash/internal/models"
)

const (
	// MIMEType identifies the report as a modern spreadsheet document
	MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetExpenses = "Expenses"
	sheetCategory = "Category Summary"
	sheetMonthly  = "Monthly Summary"
)

// Filename embeds the generation date, e.g. expense_report_20240315.xlsx
func Filename(now time.Time) string {
	return fmt.Sprintf("expense_report_%s.xlsx", now.Format("20060102"))
}

// BuildReport produces the three-sheet report as an in-memory byte buffer:
// the full cleaned ledger in ledger order, per-category sums, and
// chronological per-month sums.
func BuildReport(records []models.ExpenseRecord, categories []models.CategorySummary, monthly []models.MonthlySummary) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeExpenses(f, records); err != nil {
		return nil, fmt.Errorf("writing %s sheet: %w", sheetExpenses, err)
	}
	if err := writeCategorySummary(f, categories); err != nil {
		return nil, fmt.Errorf("writing %s sheet: %w", sheetCategory, err)
	}
	if err := writeMonthlySummary(f, monthly); err != nil {
		return nil, fmt.Errorf("writing %s sheet: %w", sheetMonthly, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing report: %w", err)
	}
	return buf, nil
}

func writeExpenses(f *excelize.File, records []models.ExpenseRecord) error {
	if err := f.SetSheetName("Sheet1", sheetExpenses); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetExpenses, "A1", &[]interface{}{"Date", "Category", "Amount", "Description"}); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Date.Format("2006-01-02"),
			rec.Category,
			rec.Amount,
			rec.Description,
		}
		if err := f.SetSheetRow(sheetExpenses, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCategorySummary(f *excelize.File, categories []models.CategorySummary) error {
	if _, err := f.NewSheet(sheetCategory); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetCategory, "A1", &[]interface{}{"Category", "Amount"}); err != nil {
		return err
	}

	for i, cs := range categories {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{cs.Category, cs.Amount}
		if err := f.SetSheetRow(sheetCategory, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthlySummary(f *excelize.File, monthly []models.MonthlySummary) error {
	if _, err := f.NewSheet(sheetMonthly); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetMonthly, "A1", &[]interface{}{"Month", "Amount"}); err != nil {
		return err
	}

	for i, ms := range monthly {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{ms.Month, ms.Amount}
		if err := f.SetSheetRow(sheetMonthly, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
