package models

// Summary contains the main KPI metrics for the dashboard
type Summary struct {
	TotalSpent float64 `json:"total_spent"`
	AvgMonthly float64 `json:"avg_monthly"` // mean of per-month sums
	EntryCount int     `json:"entry_count"`
}

// CategorySummary represents total spending in one category
type CategorySummary struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlySummary represents total spending in one month
type MonthlySummary struct {
	Month  string  `json:"month"` // "2024-01"
	Amount float64 `json:"amount"`
}

// BudgetAlert signals that the latest month's spending exceeds the budget
type BudgetAlert struct {
	Month   string  `json:"month"`
	Spent   float64 `json:"spent"`
	Budget  float64 `json:"budget"`
	Overage float64 `json:"overage"` // Spent - Budget
}

// ChartData represents one series of a chart payload
type ChartData struct {
	Type   string    `json:"type"` // bar, pie
	X      []string  `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Labels []string  `json:"labels,omitempty"` // for pie charts
	Values []float64 `json:"values,omitempty"` // for pie charts
	Name   string    `json:"name,omitempty"`
}

// ChartResponse wraps chart data with layout options
type ChartResponse struct {
	Data   []ChartData `json:"data"`
	Layout ChartLayout `json:"layout,omitempty"`
}

// ChartLayout defines chart layout options
type ChartLayout struct {
	Title      string `json:"title,omitempty"`
	XAxisTitle string `json:"xaxis_title,omitempty"`
	YAxisTitle string `json:"yaxis_title,omitempty"`
}
