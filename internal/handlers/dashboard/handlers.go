package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	httputil "expensedash/internal/http"
	"expensedash/internal/models"
	"expensedash/internal/services/aggregator"
	"expensedash/internal/services/budget"
	"expensedash/internal/services/cleaner"
	"expensedash/internal/session"
	"expensedash/internal/templates"
)

var (
	sessions *session.Manager
	renderer *templates.Renderer
)

// Initialize sets up the dashboard package with required dependencies
func Initialize(m *session.Manager, r *templates.Renderer) {
	sessions = m
	renderer = r
}

// RegisterRoutes registers all dashboard routes
func RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", handleDashboard)
	r.Get("/dashboard/metrics", handleMetricsPartial)
	r.Get("/dashboard/alert", handleAlertPartial)
	r.Get("/dashboard/expenses", handleExpensesPartial)
	r.Get("/dashboard/charts/data/{chartType}", handleChartData)
}

// viewData recomputes the full view-model from the session's cleaned ledger
func viewData(w http.ResponseWriter, r *http.Request) map[string]interface{} {
	sess := sessions.Get(w, r)
	cleaned := sess.Cleaned(cleaner.Clean)

	monthly := aggregator.ByMonth(cleaned)

	return map[string]interface{}{
		"HasData":         len(cleaned) > 0,
		"Records":         cleaned,
		"Summary":         aggregator.Summarize(cleaned),
		"CategorySummary": aggregator.ByCategory(cleaned),
		"MonthlySummary":  monthly,
		"Alert":           budget.Evaluate(monthly, sess.Budget()),
		"Budget":          sess.Budget(),
	}
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := viewData(w, r)
	data["Title"] = "Expense Tracker Dashboard"
	data["ActiveTab"] = "dashboard"
	data["Categories"] = models.Categories

	// Flash messages carried across the post/redirect/get cycle
	q := r.URL.Query()
	data["Notice"] = q.Get("notice")
	data["Error"] = q.Get("error")

	httputil.RenderTemplate(w, renderer, "base", data)
}

func handleMetricsPartial(w http.ResponseWriter, r *http.Request) {
	httputil.RenderPartial(w, renderer, "metrics", viewData(w, r))
}

func handleAlertPartial(w http.ResponseWriter, r *http.Request) {
	httputil.RenderPartial(w, renderer, "alert", viewData(w, r))
}

func handleExpensesPartial(w http.ResponseWriter, r *http.Request) {
	httputil.RenderPartial(w, renderer, "expenses_table", viewData(w, r))
}

func handleChartData(w http.ResponseWriter, r *http.Request) {
	sess := sessions.Get(w, r)
	cleaned := sess.Cleaned(cleaner.Clean)

	chartType := chi.URLParam(r, "chartType")

	var resp models.ChartResponse
	switch chartType {
	case "category":
		resp = categoryChart(aggregator.ByCategory(cleaned))
	case "monthly":
		resp = monthlyChart(aggregator.ByMonth(cleaned))
	default:
		httputil.ErrorResponse(w, "unknown chart type: "+chartType, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func categoryChart(categories []models.CategorySummary) models.ChartResponse {
	if len(categories) == 0 {
		return models.ChartResponse{Data: []models.ChartData{}}
	}

	labels := make([]string, len(categories))
	values := make([]float64, len(categories))
	for i, cs := range categories {
		labels[i] = cs.Category
		values[i] = cs.Amount
	}

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type:   "pie",
			Labels: labels,
			Values: values,
			Name:   "By Category",
		}},
		Layout: models.ChartLayout{Title: "Expenses by Category"},
	}
}

func monthlyChart(monthly []models.MonthlySummary) models.ChartResponse {
	if len(monthly) == 0 {
		return models.ChartResponse{Data: []models.ChartData{}}
	}

	x := make([]string, len(monthly))
	y := make([]float64, len(monthly))
	for i, ms := range monthly {
		x[i] = ms.Month
		y[i] = ms.Amount
	}

	return models.ChartResponse{
		Data: []models.ChartData{{
			Type: "bar",
			X:    x,
			Y:    y,
			Name: "Monthly",
		}},
		Layout: models.ChartLayout{
			Title:      "Monthly Expenses",
			XAxisTitle: "Month",
			YAxisTitle: "Amount ($)",
		},
	}
}
