package models

import (
	"sort"
	"time"
)

// Categories is the fixed set of expense categories. Anything outside this
// set is coerced to CategoryOther during cleaning.
var Categories = []string{
	"Food",
	"Transport",
	"Entertainment",
	"Utilities",
	"Health",
	"Shopping",
	"Other",
}

const (
	// CategoryOther is the fallback for unrecognized categories.
	CategoryOther = "Other"

	// DescriptionPlaceholder substitutes an empty description.
	DescriptionPlaceholder = "N/A"

	// MonthLayout is the key format for month grouping.
	MonthLayout = "2006-01"
)

// IsKnownCategory reports whether c is an exact (case-sensitive) match for
// one of the fixed categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CoerceCategory returns c unchanged if it is a known category, otherwise
// CategoryOther.
func CoerceCategory(c string) string {
	if IsKnownCategory(c) {
		return c
	}
	return CategoryOther
}

// ExpenseRecord represents a single expense entry in the ledger
type ExpenseRecord struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`

	// Derived field (computed during cleaning, not user input)
	Month string `json:"month,omitempty"` // "2024-01"
}

// ComputeDerivedFields populates computed fields from Date
func (e *ExpenseRecord) ComputeDerivedFields() {
	e.Month = e.Date.Format(MonthLayout)
}

// RecordSet wraps a slice of records with grouping/aggregation methods
type RecordSet struct {
	Records []ExpenseRecord
}

// NewRecordSet creates a new RecordSet from a slice
func NewRecordSet(records []ExpenseRecord) *RecordSet {
	return &RecordSet{Records: records}
}

// Len returns the number of records
func (rs *RecordSet) Len() int {
	return len(rs.Records)
}

// SumAmount returns the sum of all record amounts
func (rs *RecordSet) SumAmount() float64 {
	var sum float64
	for _, rec := range rs.Records {
		sum += rec.Amount
	}
	return sum
}

// MonthlyTotals returns a map of month -> total amount
func (rs *RecordSet) MonthlyTotals() map[string]float64 {
	result := make(map[string]float64)
	for _, rec := range rs.Records {
		result[rec.Date.Format(MonthLayout)] += rec.Amount
	}
	return result
}

// CategoryTotals returns a map of category -> total amount, covering exactly
// the categories present in the data
func (rs *RecordSet) CategoryTotals() map[string]float64 {
	result := make(map[string]float64)
	for _, rec := range rs.Records {
		result[rec.Category] += rec.Amount
	}
	return result
}

// Months returns the months present in the data in chronological order.
// Month keys use MonthLayout, so lexical order is chronological order.
func (rs *RecordSet) Months() []string {
	seen := make(map[string]bool)
	for _, rec := range rs.Records {
		seen[rec.Date.Format(MonthLayout)] = true
	}

	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	return months
}

// LatestMonth returns the chronologically latest month present in the data,
// or "" for an empty set
func (rs *RecordSet) LatestMonth() string {
	months := rs.Months()
	if len(months) == 0 {
		return ""
	}
	return months[len(months)-1]
}

// FilterByMonth returns records falling in the given month
func (rs *RecordSet) FilterByMonth(month string) *RecordSet {
	result := &RecordSet{}
	for _, rec := range rs.Records {
		if rec.Date.Format(MonthLayout) == month {
			result.Records = append(result.Records, rec)
		}
	}
	return result
}

// Copy creates a shallow copy of the RecordSet
func (rs *RecordSet) Copy() *RecordSet {
	copied := make([]ExpenseRecord, len(rs.Records))
	copy(copied, rs.Records)
	return &RecordSet{Records: copied}
}
