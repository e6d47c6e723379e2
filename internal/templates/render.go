package templates

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Renderer handles template rendering
type Renderer struct {
	templates *template.Template
	debug     bool
	baseDir   string
}

// New creates a new template renderer
func New(templateDir string, debug bool) (*Renderer, error) {
	r := &Renderer{
		debug:   debug,
		baseDir: templateDir,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

// getFuncMap returns the template function map
func getFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatMoney":  formatMoney,
		"formatNumber": formatNumber,
		"formatDate":   formatDate,
		"formatMonth":  formatMonth,
		"toJSON":       jsonMarshal,
		"lower":        strings.ToLower,
		"now":          time.Now,
	}
}

// loadTemplates parses all templates with per-file error reporting
func (r *Renderer) loadTemplates() error {
	funcMap := getFuncMap()
	tmpl := template.New("").Funcs(funcMap)

	var templateFiles []string
	for _, subdir := range []string{"layouts", "pages", "partials"} {
		subPattern := filepath.Join(r.baseDir, subdir, "*.html")
		matches, err := filepath.Glob(subPattern)
		if err != nil {
			return fmt.Errorf("error globbing %s: %w", subPattern, err)
		}
		templateFiles = append(templateFiles, matches...)
	}

	if len(templateFiles) == 0 {
		return fmt.Errorf("no template files found in %s", r.baseDir)
	}

	var parseErrors []string
	for _, file := range templateFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("  %s: failed to read: %v", file, err))
			continue
		}

		if _, err := tmpl.New(filepath.Base(file)).Parse(string(content)); err != nil {
			parseErrors = append(parseErrors, formatTemplateError(file, err))
		}
	}

	if len(parseErrors) > 0 {
		for _, e := range parseErrors {
			log.Printf("Template parse error:%s", e)
		}
		return fmt.Errorf("template parsing failed with %d error(s)", len(parseErrors))
	}

	r.templates = tmpl
	log.Printf("Templates loaded successfully: %d files", len(templateFiles))
	return nil
}

// formatTemplateError formats a template error with its source line number
func formatTemplateError(file string, err error) string {
	errStr := err.Error()
	if lineNum := extractLineNumber(errStr); lineNum > 0 {
		return fmt.Sprintf("\n  File: %s\n  Line: %d\n  Error: %s", file, lineNum, errStr)
	}
	return fmt.Sprintf("\n  File: %s\n  Error: %s", file, errStr)
}

// extractLineNumber tries to extract a line number from a template error
func extractLineNumber(errStr string) int {
	// Go template errors often contain ":LINE:" pattern
	re := regexp.MustCompile(`:(\d+):`)
	matches := re.FindStringSubmatch(errStr)
	if len(matches) >= 2 {
		var lineNum int
		fmt.Sscanf(matches[1], "%d", &lineNum)
		return lineNum
	}
	return 0
}

// Reload reloads templates (useful for development)
func (r *Renderer) Reload() error {
	return r.loadTemplates()
}

// Render renders a full page with the base layout
func (r *Renderer) Render(w http.ResponseWriter, name string, data interface{}) error {
	// In debug mode, reload templates on each request
	if r.debug {
		if err := r.loadTemplates(); err != nil {
			log.Printf("Error reloading templates: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	return nil
}

// RenderPartial renders a partial template (no base layout)
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) error {
	if r.debug {
		if err := r.loadTemplates(); err != nil {
			log.Printf("Error reloading templates: %v", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering partial %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return err
	}

	return nil
}

// RenderToString renders a template to a string
func (r *Renderer) RenderToString(name string, data interface{}) (string, error) {
	var buf strings.Builder
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ExecuteTemplate executes a template to a writer
func (r *Renderer) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// formatMoney formats a float as currency, e.g. $1,234.56
func formatMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + addThousands(fmt.Sprintf("%.2f", v))
}

// formatNumber formats an integer with thousands separators
func formatNumber(n int) string {
	return addThousands(fmt.Sprintf("%d", n))
}

// formatDate formats a time as 2006-01-02
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatMonth formats a "2006-01" month key as "Jan 2006"
func formatMonth(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("Jan 2006")
}

// addThousands inserts commas into the integer part of a numeric string
func addThousands(s string) string {
	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var sb strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(ch)
	}
	return sb.String() + fracPart
}

// jsonMarshal renders a value as JSON for inline script data
func jsonMarshal(v interface{}) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}
