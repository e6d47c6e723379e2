package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"expensedash/internal/config"
	"expensedash/internal/handlers/dashboard"
	"expensedash/internal/handlers/ledger"
	"expensedash/internal/handlers/report"
	"expensedash/internal/handlers/snapshot"
	"expensedash/internal/session"
	"expensedash/internal/templates"
	"expensedash/internal/version"
)

var (
	cfg      *config.Config
	sessions *session.Manager
	renderer *templates.Renderer
)

func main() {
	cfg = config.Load()
	log.Printf("Starting Expense Dashboard on %s", cfg.ListenAddr)

	if err := SetupDependencies(cfg); err != nil {
		log.Printf("Warning: %v", err)
	}

	r := SetupRouter()

	log.Printf("Server starting on %s", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}

// SetupDependencies initializes shared services and the handler packages
func SetupDependencies(c *config.Config) error {
	cfg = c
	sessions = session.NewManager(c.SessionTTL)

	var err error
	renderer, err = templates.New(c.TemplatesDirectory, c.Debug)
	if err != nil {
		renderer = nil
		err = fmt.Errorf("could not load templates: %w", err)
	}

	dashboard.Initialize(sessions, renderer)
	ledger.Initialize(c, sessions)
	report.Initialize(sessions)
	snapshot.Initialize(c, sessions)

	return err
}

// SetupRouter builds the chi router with middleware and all routes
func SetupRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Static files
	fileServer := http.FileServer(http.Dir(cfg.StaticDirectory))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
	})

	dashboard.RegisterRoutes(r)
	ledger.RegisterRoutes(r)
	report.RegisterRoutes(r)
	snapshot.RegisterRoutes(r)

	// API routes
	r.Get("/api/health", handleHealth)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}{
		Status:  "ok",
		Version: version.Get().Version,
	})
}
