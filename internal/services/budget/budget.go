// Package budget evaluates the monthly budget against the latest month's
// spending. Evaluation is stateless and recomputed on every view.
package budget

import "expensedash/internal/models"

// Evaluate compares the chronologically latest month's total against the
// configured budget. It returns nil when no alert applies: budget unset
// (<= 0), no data, or spending within budget.
func Evaluate(monthly []models.MonthlySummary, budget float64) *models.BudgetAlert {
	if budget <= 0 || len(monthly) == 0 {
		return nil
	}

	// monthly is chronological; the current month is the last entry.
	current := monthly[len(monthly)-1]
	if current.Amount <= budget {
		return nil
	}

	return &models.BudgetAlert{
		Month:   current.Month,
		Spent:   current.Amount,
		Budget:  budget,
		Overage: current.Amount - budget,
	}
}
