package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Directories
	TemplatesDirectory string `json:"templates_directory"`
	StaticDirectory    string `json:"static_directory"`

	// Limits
	MaxUploadBytes int64         `json:"max_upload_bytes"`
	SessionTTL     time.Duration `json:"session_ttl"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:         ":8080",
		Debug:              false,
		TemplatesDirectory: filepath.Join(wd, "web", "templates"),
		StaticDirectory:    filepath.Join(wd, "web", "static"),
		MaxUploadBytes:     10 << 20, // 10MB
		SessionTTL:         4 * time.Hour,
	}
}

// Load loads configuration from defaults and environment overrides
func Load() *Config {
	cfg := DefaultConfig()

	if addr := os.Getenv("EXPENSE_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("EXPENSE_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if templatesDir := os.Getenv("EXPENSE_TEMPLATES_DIR"); templatesDir != "" {
		cfg.TemplatesDirectory = templatesDir
	}
	if staticDir := os.Getenv("EXPENSE_STATIC_DIR"); staticDir != "" {
		cfg.StaticDirectory = staticDir
	}
	if maxUpload := os.Getenv("EXPENSE_MAX_UPLOAD_BYTES"); maxUpload != "" {
		if n, err := strconv.ParseInt(maxUpload, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadBytes = n
		}
	}
	if ttl := os.Getenv("EXPENSE_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil && d > 0 {
			cfg.SessionTTL = d
		}
	}

	return cfg
}
