// Package aggregator derives summary statistics from a cleaned ledger.
package aggregator

import (
	"sort"

	"expensedash/internal/models"
)

// Summarize computes the headline metrics for a cleaned ledger. On an empty
// ledger everything is zero and the caller should short-circuit to the
// empty state.
func Summarize(records []models.ExpenseRecord) *models.Summary {
	rs := models.NewRecordSet(records)

	summary := &models.Summary{
		TotalSpent: rs.SumAmount(),
		EntryCount: rs.Len(),
	}

	// Mean of per-month sums, not total divided by elapsed months.
	monthly := rs.MonthlyTotals()
	if len(monthly) > 0 {
		var sum float64
		for _, amount := range monthly {
			sum += amount
		}
		summary.AvgMonthly = sum / float64(len(monthly))
	}

	return summary
}

// ByCategory returns per-category sums for exactly the categories present,
// sorted by category name.
func ByCategory(records []models.ExpenseRecord) []models.CategorySummary {
	totals := models.NewRecordSet(records).CategoryTotals()

	summaries := make([]models.CategorySummary, 0, len(totals))
	for category, amount := range totals {
		summaries = append(summaries, models.CategorySummary{
			Category: category,
			Amount:   amount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Category < summaries[j].Category
	})
	return summaries
}

// ByMonth returns per-month sums in chronological order
func ByMonth(records []models.ExpenseRecord) []models.MonthlySummary {
	rs := models.NewRecordSet(records)
	totals := rs.MonthlyTotals()

	summaries := make([]models.MonthlySummary, 0, len(totals))
	for _, month := range rs.Months() {
		summaries = append(summaries, models.MonthlySummary{
			Month:  month,
			Amount: totals[month],
		})
	}
	return summaries
}
