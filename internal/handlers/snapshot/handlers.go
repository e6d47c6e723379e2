// Package snapshot handles encrypted session snapshot download and restore.
package snapshot

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"expensedash/internal/config"
	httputil "expensedash/internal/http"
	snapsvc "expensedash/internal/services/snapshot"
	"expensedash/internal/session"
)

var (
	cfg      *config.Config
	sessions *session.Manager
)

// Initialize sets up the snapshot package with required dependencies
func Initialize(c *config.Config, m *session.Manager) {
	cfg = c
	sessions = m
}

// RegisterRoutes registers snapshot routes
func RegisterRoutes(r chi.Router) {
	r.Get("/snapshot", handleDownload)
	r.Post("/snapshot", handleRestore)
}

func handleDownload(w http.ResponseWriter, r *http.Request) {
	passphrase := r.URL.Query().Get("passphrase")
	if passphrase == "" {
		httputil.ErrorResponse(w, "passphrase is required", http.StatusBadRequest)
		return
	}

	sess := sessions.Get(w, r)
	payload := &snapsvc.Payload{
		Ledger:  sess.Ledger(),
		Budget:  sess.Budget(),
		SavedAt: time.Now(),
	}

	data, err := snapsvc.Encrypt(payload, passphrase)
	if err != nil {
		httputil.ErrorResponse(w, "snapshot failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := snapsvc.Filename(time.Now())
	w.Header().Set("Content-Type", snapsvc.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

func handleRestore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(cfg.MaxUploadBytes); err != nil {
		httputil.ErrorResponse(w, "file too large", http.StatusBadRequest)
		return
	}

	passphrase := r.FormValue("passphrase")
	if passphrase == "" {
		httputil.ErrorResponse(w, "passphrase is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httputil.ErrorResponse(w, "error reading file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.ErrorResponse(w, "error reading file", http.StatusBadRequest)
		return
	}

	payload, err := snapsvc.Decrypt(data, passphrase)
	if err != nil {
		httputil.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Replaces the session's ledger and budget wholesale.
	sess := sessions.Get(w, r)
	sess.Restore(payload.Ledger, payload.Budget)

	notice := fmt.Sprintf("Restored %d records", len(payload.Ledger))
	http.Redirect(w, r, "/dashboard?notice="+url.QueryEscape(notice), http.StatusSeeOther)
}
