// Package testutil provides testing utilities for the expense dashboard.
package testutil

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestServer wraps httptest.Server with convenience methods. Its client
// keeps a cookie jar so the session survives across requests in a test.
type TestServer struct {
	Server  *httptest.Server
	BaseURL string
	Client  *http.Client
	t       *testing.T
}

// ProjectRoot returns the root directory of the project.
// It works by finding the go.mod file.
func ProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not get caller info")
	}

	// Start from this file's directory and walk up
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// TestConfig returns environment overrides suitable for testing
func TestConfig() map[string]string {
	root := ProjectRoot()
	return map[string]string{
		"EXPENSE_TEMPLATES_DIR": filepath.Join(root, "web", "templates"),
		"EXPENSE_STATIC_DIR":    filepath.Join(root, "web", "static"),
		"EXPENSE_DEBUG":         "true",
		"EXPENSE_LISTEN_ADDR":   ":0", // Random port
	}
}

// SetTestEnv sets environment variables for testing and returns a cleanup function
func SetTestEnv(t *testing.T) func() {
	t.Helper()

	cfg := TestConfig()
	oldValues := make(map[string]string)

	for k, v := range cfg {
		oldValues[k] = os.Getenv(k)
		os.Setenv(k, v)
	}

	return func() {
		for k, v := range oldValues {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}
}

// NewTestServer creates a new test server using the application's router
func NewTestServer(t *testing.T, router http.Handler) *TestServer {
	t.Helper()

	server := httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return &TestServer{
		Server:  server,
		BaseURL: server.URL,
		Client:  &http.Client{Jar: jar},
		t:       t,
	}
}

// GET performs a GET request to the given path
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()

	resp, err := ts.Client.Get(ts.BaseURL + path)
	if err != nil {
		ts.t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

// POST performs a POST request to the given path
func (ts *TestServer) POST(path string, contentType string, body io.Reader) *http.Response {
	ts.t.Helper()

	resp, err := ts.Client.Post(ts.BaseURL+path, contentType, body)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// PostForm performs a form POST to the given path
func (ts *TestServer) PostForm(path string, values url.Values) *http.Response {
	ts.t.Helper()

	resp, err := ts.Client.PostForm(ts.BaseURL+path, values)
	if err != nil {
		ts.t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

// Upload performs a multipart POST with a single file field plus extra
// form fields
func (ts *TestServer) Upload(path, field, filename string, content []byte, extra map[string]string) *http.Response {
	ts.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		ts.t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		ts.t.Fatalf("Failed to write form file: %v", err)
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			ts.t.Fatalf("Failed to write form field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		ts.t.Fatalf("Failed to close multipart writer: %v", err)
	}

	return ts.POST(path, mw.FormDataContentType(), &buf)
}

// NoRedirectClient returns a client sharing the session cookies but not
// following redirects
func (ts *TestServer) NoRedirectClient() *http.Client {
	return &http.Client{
		Jar: ts.Client.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// ReadBody reads and returns the response body as a string
func ReadBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return string(body)
}
