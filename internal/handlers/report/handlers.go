// Package report serves the downloadable spreadsheet report.
package report

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	httputil "expensedash/internal/http"
	"expensedash/internal/services/aggregator"
	"expensedash/internal/services/cleaner"
	"expensedash/internal/services/exporter"
	"expensedash/internal/session"
)

var sessions *session.Manager

// Initialize sets up the report package with required dependencies
func Initialize(m *session.Manager) {
	sessions = m
}

// RegisterRoutes registers the export route
func RegisterRoutes(r chi.Router) {
	r.Get("/export", handleExport)
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	sess := sessions.Get(w, r)
	cleaned := sess.Cleaned(cleaner.Clean)

	if len(cleaned) == 0 {
		httputil.ErrorResponse(w, "no expense data to export", http.StatusConflict)
		return
	}

	buf, err := exporter.BuildReport(
		cleaned,
		aggregator.ByCategory(cleaned),
		aggregator.ByMonth(cleaned),
	)
	if err != nil {
		// Fails this export attempt only; ledger and budget are untouched.
		httputil.ErrorResponse(w, "export failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := exporter.Filename(time.Now())
	w.Header().Set("Content-Type", exporter.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
