// Package cleaner turns raw, possibly malformed expense input into canonical
// ledger records. Cleaning is deterministic and idempotent: records with an
// unparsable date or a non-numeric/negative amount are dropped, unknown
// categories coerce to Other, and empty descriptions get the placeholder.
package cleaner

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"expensedash/internal/models"
)

// RawRecord is a record as it arrives from the presentation layer or a CSV
// row, before any validation.
type RawRecord struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// dateFormats are tried in order when parsing raw dates
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate tries multiple date formats, returning the zero time on failure
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseAmount parses an amount string, handling currency symbols, thousands
// separators, and parentheses for negatives. The second return value is
// false when the string is not numeric at all.
func ParseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	// (100.00) -> -100.00
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// Normalize produces zero or one canonical record from a raw one. The second
// return value is false when the record must be dropped (bad date, bad or
// negative amount).
func Normalize(raw RawRecord) (models.ExpenseRecord, bool) {
	date := ParseDate(raw.Date)
	if date.IsZero() {
		return models.ExpenseRecord{}, false
	}

	amount, ok := ParseAmount(raw.Amount)
	if !ok || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.ExpenseRecord{}, false
	}

	description := strings.TrimSpace(raw.Description)
	if description == "" {
		description = models.DescriptionPlaceholder
	}

	rec := models.ExpenseRecord{
		ID:          uuid.NewString(),
		Date:        date,
		Category:    models.CoerceCategory(strings.TrimSpace(raw.Category)),
		Amount:      amount,
		Description: description,
	}
	rec.ComputeDerivedFields()
	return rec, true
}

// Clean applies the cleaning rules to an entire raw ledger: drop records
// with a zero date or invalid amount, coerce categories, default empty
// descriptions, and recompute the derived month. It is a pure function of
// its input and safe to re-run on already-clean data.
func Clean(ledger []models.ExpenseRecord) []models.ExpenseRecord {
	cleaned := make([]models.ExpenseRecord, 0, len(ledger))

	for _, rec := range ledger {
		if rec.Date.IsZero() {
			continue
		}
		if rec.Amount < 0 || math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) {
			continue
		}

		rec.Category = models.CoerceCategory(rec.Category)
		if strings.TrimSpace(rec.Description) == "" {
			rec.Description = models.DescriptionPlaceholder
		}
		rec.ComputeDerivedFields()

		cleaned = append(cleaned, rec)
	}

	return cleaned
}
