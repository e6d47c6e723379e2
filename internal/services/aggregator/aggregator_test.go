package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensedash/internal/models"
)

func rec(date string, category string, amount float64) models.ExpenseRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	r := models.ExpenseRecord{Date: d, Category: category, Amount: amount, Description: "N/A"}
	r.ComputeDerivedFields()
	return r
}

func TestSummarize(t *testing.T) {
	records := []models.ExpenseRecord{
		rec("2024-01-05", "Food", 50),
		rec("2024-01-20", "Food", 30),
		rec("2024-02-01", "Transport", 20),
	}

	summary := Summarize(records)
	assert.Equal(t, 100.0, summary.TotalSpent)
	assert.Equal(t, 3, summary.EntryCount)

	// Mean of monthly sums: (80 + 20) / 2.
	assert.Equal(t, 50.0, summary.AvgMonthly)
}

func TestSummarizeAvgMonthlyIsMeanOfMonthlySums(t *testing.T) {
	// Three records, two months: Jan = 90, Mar = 10. The mean of monthly
	// sums is 50 regardless of the gap month with no data.
	records := []models.ExpenseRecord{
		rec("2024-01-05", "Food", 60),
		rec("2024-01-06", "Food", 30),
		rec("2024-03-01", "Food", 10),
	}

	summary := Summarize(records)
	assert.Equal(t, 50.0, summary.AvgMonthly)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0.0, summary.TotalSpent)
	assert.Equal(t, 0.0, summary.AvgMonthly)
	assert.Equal(t, 0, summary.EntryCount)
}

func TestByCategory(t *testing.T) {
	records := []models.ExpenseRecord{
		rec("2024-01-05", "Transport", 20),
		rec("2024-01-06", "Food", 50),
		rec("2024-02-01", "Food", 30),
	}

	categories := ByCategory(records)
	require.Len(t, categories, 2)

	// Sorted by category name; only categories present in the data.
	assert.Equal(t, models.CategorySummary{Category: "Food", Amount: 80}, categories[0])
	assert.Equal(t, models.CategorySummary{Category: "Transport", Amount: 20}, categories[1])
}

func TestByMonthChronological(t *testing.T) {
	records := []models.ExpenseRecord{
		rec("2024-02-01", "Food", 20),
		rec("2023-12-31", "Food", 5),
		rec("2024-01-05", "Food", 50),
		rec("2024-01-20", "Food", 30),
	}

	monthly := ByMonth(records)
	require.Len(t, monthly, 3)
	assert.Equal(t, models.MonthlySummary{Month: "2023-12", Amount: 5}, monthly[0])
	assert.Equal(t, models.MonthlySummary{Month: "2024-01", Amount: 80}, monthly[1])
	assert.Equal(t, models.MonthlySummary{Month: "2024-02", Amount: 20}, monthly[2])
}

// Total spent must equal the sum of the category summary and the sum of the
// monthly summary for any cleaned ledger.
func TestSummariesAreConsistent(t *testing.T) {
	records := []models.ExpenseRecord{
		rec("2024-01-05", "Food", 50.25),
		rec("2024-01-20", "Shopping", 30.10),
		rec("2024-02-01", "Transport", 20.99),
		rec("2024-03-15", "Other", 0),
	}

	total := Summarize(records).TotalSpent

	var catTotal float64
	for _, cs := range ByCategory(records) {
		catTotal += cs.Amount
	}
	var monthTotal float64
	for _, ms := range ByMonth(records) {
		monthTotal += ms.Amount
	}

	assert.InDelta(t, total, catTotal, 1e-9)
	assert.InDelta(t, total, monthTotal, 1e-9)
}

func TestByCategoryAndByMonthEmpty(t *testing.T) {
	assert.Empty(t, ByCategory(nil))
	assert.Empty(t, ByMonth(nil))
}
