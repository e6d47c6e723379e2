// Package importer parses uploaded CSV batches into canonical records.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"expensedash/internal/models"
	"expensedash/internal/services/cleaner"
)

// requiredColumns must all be present in the header row; an upload missing
// any of them is rejected wholesale before per-row normalization runs.
var requiredColumns = []string{"Date", "Category", "Amount"}

// descriptionColumn is optional; absent or blank cells default per row.
const descriptionColumn = "Description"

// Result reports the outcome of a batch import
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"` // rows dropped for bad date/amount
}

// MissingColumnsError identifies the required columns absent from an upload
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("CSV is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Import reads a CSV batch and returns the normalized records plus counts.
// Rows with an unparsable date or amount are dropped silently; only the
// aggregate counts are reported.
func Import(r io.Reader) ([]models.ExpenseRecord, Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, Result{}, fmt.Errorf("error reading CSV header: %w", err)
	}

	colIndex := buildColumnIndex(header)

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, Result{}, &MissingColumnsError{Columns: missing}
	}

	var records []models.ExpenseRecord
	var result Result

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		raw := cleaner.RawRecord{
			Date:        field(row, colIndex, "Date"),
			Category:    field(row, colIndex, "Category"),
			Amount:      field(row, colIndex, "Amount"),
			Description: field(row, colIndex, descriptionColumn),
		}

		rec, ok := cleaner.Normalize(raw)
		if !ok {
			result.Skipped++
			continue
		}

		records = append(records, rec)
		result.Imported++
	}

	return records, result, nil
}

// buildColumnIndex maps trimmed header names to their positions. Extra
// columns are carried along but ignored; first match wins on duplicates.
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int)
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, exists := colIndex[name]; !exists {
			colIndex[name] = i
		}
	}
	return colIndex
}

func field(row []string, colIndex map[string]int, name string) string {
	idx, ok := colIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
