// Package ledger handles the mutating user actions: manual expense entry,
// budget configuration, and CSV batch import. Every action either fully
// succeeds (state updated, redirect to a refreshed view) or fully no-ops
// with an error.
package ledger

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/config"
	httputil "expensedash/internal/http"
	"expensedash/internal/services/cleaner"
	"expensedash/internal/services/importer"
	"expensedash/internal/session"
)

var (
	cfg      *config.Config
	sessions *session.Manager
)

// Initialize sets up the ledger package with required dependencies
func Initialize(c *config.Config, m *session.Manager) {
	cfg = c
	sessions = m
}

// RegisterRoutes registers all ledger mutation routes
func RegisterRoutes(r chi.Router) {
	r.Post("/expenses", handleAddExpense)
	r.Post("/budget", handleSetBudget)
	r.Post("/import", handleImport)
}

func handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.ErrorResponse(w, "invalid form data", http.StatusBadRequest)
		return
	}

	// Manual entries are validated at the boundary: a bad date or a
	// non-positive amount rejects the request with no state change.
	amount, ok := cleaner.ParseAmount(r.FormValue("amount"))
	if !ok || amount <= 0 {
		httputil.ErrorResponse(w, "amount must be greater than zero", http.StatusBadRequest)
		return
	}
	if cleaner.ParseDate(r.FormValue("date")).IsZero() {
		httputil.ErrorResponse(w, "invalid date", http.StatusBadRequest)
		return
	}

	rec, ok := cleaner.Normalize(cleaner.RawRecord{
		Date:        r.FormValue("date"),
		Category:    r.FormValue("category"),
		Amount:      r.FormValue("amount"),
		Description: r.FormValue("description"),
	})
	if !ok {
		httputil.ErrorResponse(w, "invalid expense entry", http.StatusBadRequest)
		return
	}

	sess := sessions.Get(w, r)
	sess.Append(rec)

	redirectWithNotice(w, r, "Added!")
}

func handleSetBudget(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.ErrorResponse(w, "invalid form data", http.StatusBadRequest)
		return
	}

	budget, ok := cleaner.ParseAmount(r.FormValue("budget"))
	if !ok || budget < 0 {
		httputil.ErrorResponse(w, "budget must be a non-negative number", http.StatusBadRequest)
		return
	}

	sess := sessions.Get(w, r)
	sess.SetBudget(budget)

	redirectWithNotice(w, r, "Budget set")
}

func handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
		httputil.ErrorResponse(w, "file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.ErrorResponse(w, "error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		httputil.ErrorResponse(w, "only CSV files are allowed", http.StatusBadRequest)
		return
	}

	records, result, err := importer.Import(file)
	if err != nil {
		var missing *importer.MissingColumnsError
		if errors.As(err, &missing) {
			httputil.ErrorResponse(w, missing.Error(), http.StatusBadRequest)
			return
		}
		httputil.ErrorResponse(w, "could not parse CSV: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess := sessions.Get(w, r)
	sess.Append(records...)

	redirectWithNotice(w, r, fmt.Sprintf("Uploaded %d rows!", result.Imported))
}

// redirectWithNotice sends the post/redirect/get response with a flash
// message the dashboard renders.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, notice string) {
	http.Redirect(w, r, "/dashboard?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
