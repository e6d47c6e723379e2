package main

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"expensedash/internal/config"
	"expensedash/internal/testutil"
)

// setupTestServer initializes dependencies and returns a test server whose
// client carries the session cookie across requests.
func setupTestServer(t *testing.T) *testutil.TestServer {
	t.Helper()

	root := testutil.ProjectRoot()
	cfg := &config.Config{
		ListenAddr:         ":0",
		Debug:              false,
		TemplatesDirectory: filepath.Join(root, "web", "templates"),
		StaticDirectory:    filepath.Join(root, "web", "static"),
		MaxUploadBytes:     10 << 20,
		SessionTTL:         time.Hour,
	}

	if err := SetupDependencies(cfg); err != nil {
		t.Fatalf("Failed to setup dependencies: %v", err)
	}

	return testutil.NewTestServer(t, SetupRouter())
}

func addExpense(ts *testutil.TestServer, date, category, amount, description string) *http.Response {
	return ts.PostForm("/expenses", url.Values{
		"date":        {date},
		"category":    {category},
		"amount":      {amount},
		"description": {description},
	})
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := ts.GET("/api/health")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		Contains(`"status":"ok"`)
}

func TestRootRedirect(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	client := ts.NoRedirectClient()
	resp, err := client.Get(ts.BaseURL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("Expected status %d, got %d", http.StatusTemporaryRedirect, resp.StatusCode)
	}
	if location := resp.Header.Get("Location"); location != "/dashboard" {
		t.Errorf("Expected redirect to /dashboard, got %q", location)
	}
}

func TestDashboardEmptyState(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeHTML().
		Contains("get started")
}

func TestAddExpenseFlow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	// The POST redirects to the refreshed dashboard.
	resp := addExpense(ts, "2024-01-05", "Food", "50", "lunch")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeHTML().
		ContainsAll("Added!", "lunch", "$50.00", "Food")
}

func TestAddExpenseRejectsNonPositiveAmount(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	for _, amount := range []string{"0", "-5", "abc", ""} {
		resp := addExpense(ts, "2024-01-05", "Food", amount, "")
		testutil.AssertResponse(t, resp).Status(http.StatusBadRequest)
	}

	// No state change: the dashboard still shows the empty state.
	resp := ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).StatusOK().Contains("get started")
}

func TestAddExpenseRejectsBadDate(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := addExpense(ts, "not-a-date", "Food", "10", "")
	testutil.AssertResponse(t, resp).Status(http.StatusBadRequest)
}

func TestUnknownCategoryCoercedToOther(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := addExpense(ts, "2024-01-05", "Gambling", "10", "scratch card")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll("Other", "scratch card").
		NotContains("Gambling")
}

func TestBudgetAlert(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "lunch")
	addExpense(ts, "2024-01-20", "Food", "30", "")

	// January total is 80 > 75: alert with overage 5.
	ts.PostForm("/budget", url.Values{"budget": {"75"}})
	resp := ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll("Budget Alert!", "$80.00", "$75.00", "$5.00")

	// February data moves the current month; 20 <= 75 clears the alert.
	addExpense(ts, "2024-02-01", "Transport", "20", "")
	resp = ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).
		StatusOK().
		NotContains("Budget Alert!")
}

func TestBudgetZeroDisablesAlert(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "500", "")
	ts.PostForm("/budget", url.Values{"budget": {"0"}})

	resp := ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).
		StatusOK().
		NotContains("Budget Alert!")
}

func TestImportCSV(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	csv := "Date,Category,Amount\n2024-03-01,Food,15.5\nbad-date,Food,10\n"
	resp := ts.Upload("/import", "file", "expenses.csv", []byte(csv), nil)
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll("Uploaded 1 rows!", "$15.50")
}

func TestImportCSVMissingColumns(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	csv := "Date,Amount\n2024-03-01,15.5\n"
	resp := ts.Upload("/import", "file", "expenses.csv", []byte(csv), nil)
	testutil.AssertResponse(t, resp).
		Status(http.StatusBadRequest).
		Contains("missing required columns")

	// Wholesale rejection: nothing was appended.
	resp = ts.GET("/dashboard")
	testutil.AssertResponse(t, resp).StatusOK().Contains("get started")
}

func TestImportRejectsNonCSV(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := ts.Upload("/import", "file", "expenses.txt", []byte("whatever"), nil)
	testutil.AssertResponse(t, resp).Status(http.StatusBadRequest)
}

func TestChartData(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "")
	addExpense(ts, "2024-02-01", "Transport", "20", "")

	resp := ts.GET("/dashboard/charts/data/category")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		ContainsAll(`"pie"`, "Food", "Transport")

	resp = ts.GET("/dashboard/charts/data/monthly")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentTypeJSON().
		ContainsAll(`"bar"`, "2024-01", "2024-02")

	resp = ts.GET("/dashboard/charts/data/bogus")
	testutil.AssertResponse(t, resp).Status(http.StatusNotFound)
}

func TestExport(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "lunch")

	resp := ts.GET("/export")
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet").
		Header("Content-Disposition", "expense_report_")
}

func TestExportEmptyLedger(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	resp := ts.GET("/export")
	testutil.AssertResponse(t, resp).
		Status(http.StatusConflict).
		Contains("no expense data to export")
}

func TestSnapshotRoundtrip(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "lunch")
	ts.PostForm("/budget", url.Values{"budget": {"75"}})

	resp := ts.GET("/snapshot?passphrase=secret")
	testutil.AssertResponse(t, resp).
		StatusOK().
		Header("Content-Disposition", "expense_session_")
	data := []byte(testutil.ReadBody(t, resp))

	resp = ts.Upload("/snapshot", "file", "session.age", data, map[string]string{"passphrase": "secret"})
	testutil.AssertResponse(t, resp).
		StatusOK().
		ContainsAll("Restored 1 records", "lunch")
}

func TestSnapshotWrongPassphrase(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "")

	resp := ts.GET("/snapshot?passphrase=secret")
	data := []byte(testutil.ReadBody(t, resp))

	resp = ts.Upload("/snapshot", "file", "session.age", data, map[string]string{"passphrase": "nope"})
	testutil.AssertResponse(t, resp).
		Status(http.StatusBadRequest).
		Contains("incorrect passphrase")
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.Close()

	addExpense(ts, "2024-01-05", "Food", "50", "lunch")

	// A second client without the first client's cookie sees a fresh session.
	other := testutil.NewTestServer(t, SetupRouter())
	defer other.Close()

	resp := other.GET("/dashboard")
	testutil.AssertResponse(t, resp).StatusOK().Contains("get started")
}
