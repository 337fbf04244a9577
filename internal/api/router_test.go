package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense-tracker/internal/api/handlers"
	"expense-tracker/internal/repository/memory"
	"expense-tracker/internal/service"
	"expense-tracker/pkg/auth"
	"expense-tracker/pkg/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message *string         `json:"message"`
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:         "test",
			ProjectName: "Expense Tracker API",
			APIPrefix:   "/api/v1",
			Timezone:    "UTC",
		},
		Server: config.ServerConfig{
			Port:             "8000",
			ReadTimeout:      time.Second,
			WriteTimeout:     time.Second,
			CORSAllowOrigins: "*",
		},
		Database: config.DatabaseConfig{Backend: config.BackendMemory},
	}
}

func newTestApp(t *testing.T, today time.Time, jwtManager *auth.JWTManager) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	cfg := testConfig()
	store := memory.New().WithClock(func() time.Time { return today })
	clock := service.NewFixedClock(today)

	txHandler := handlers.NewTransactionHandler(service.NewTransactionService(store, nil, clock, logger), logger)
	summaryHandler := handlers.NewSummaryHandler(service.NewSummaryService(store, clock, logger), logger)
	return SetupRouter(cfg, txHandler, summaryHandler, handlers.NewHealthHandler(cfg), jwtManager, logger)
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return v
}

func TestTransactionCRUD(t *testing.T) {
	app := newTestApp(t, time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC), nil)

	status, env := do(t, app, http.MethodPost, "/api/v1/transactions",
		`{"amount": 42.5, "type": "expense", "category": "food", "description": "Lunch", "transaction_date": "2024-01-05T18:30:00Z"}`)
	if status != http.StatusCreated || !env.Success {
		t.Fatalf("create status = %d, env = %+v", status, env)
	}
	created := decode[map[string]any](t, env.Data)
	if created["amount"] != "42.50" || created["transaction_date"] != "2024-01-05" {
		t.Errorf("created = %v", created)
	}
	id := int64(created["id"].(float64))

	status, env = do(t, app, http.MethodPatch, fmt.Sprintf("/api/v1/transactions/%d", id), `{"description": null}`)
	if status != http.StatusOK {
		t.Fatalf("patch status = %d, message = %v", status, env.Message)
	}
	updated := decode[map[string]any](t, env.Data)
	if updated["description"] != nil || updated["amount"] != "42.50" || updated["category"] != "food" {
		t.Errorf("updated = %v", updated)
	}

	status, env = do(t, app, http.MethodPut, fmt.Sprintf("/api/v1/transactions/%d", id), `{"category": "groceries"}`)
	if status != http.StatusOK {
		t.Fatalf("put status = %d", status)
	}
	if got := decode[map[string]any](t, env.Data)["category"]; got != "groceries" {
		t.Errorf("category = %v, want groceries", got)
	}

	status, _ = do(t, app, http.MethodGet, fmt.Sprintf("/api/v1/transactions/%d", id), "")
	if status != http.StatusOK {
		t.Errorf("get status = %d", status)
	}

	status, env = do(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", id), "")
	if status != http.StatusOK || string(env.Data) != "true" {
		t.Errorf("delete status = %d, data = %s", status, env.Data)
	}

	status, env = do(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/transactions/%d", id), "")
	if status != http.StatusNotFound || env.Success || env.Message == nil || *env.Message != "Transaction not found" {
		t.Errorf("second delete status = %d, env = %+v", status, env)
	}
}

func TestBadRequests(t *testing.T) {
	app := newTestApp(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), nil)
	do(t, app, http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "income", "category": "salary"}`)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"zero amount", http.MethodPost, "/api/v1/transactions", `{"amount": 0, "type": "expense", "category": "food"}`},
		{"missing amount", http.MethodPost, "/api/v1/transactions", `{"type": "expense", "category": "food"}`},
		{"unknown type", http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "transfer", "category": "food"}`},
		{"unknown category", http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "expense", "category": "pets"}`},
		{"bad date", http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "expense", "category": "food", "transaction_date": "05/01/2024"}`},
		{"long description", http.MethodPost, "/api/v1/transactions", `{"amount": 1, "type": "expense", "category": "food", "description": "` + strings.Repeat("a", 256) + `"}`},
		{"malformed json", http.MethodPost, "/api/v1/transactions", `{"amount":`},
		{"null amount", http.MethodPatch, "/api/v1/transactions/1", `{"amount": null}`},
		{"negative amount", http.MethodPatch, "/api/v1/transactions/1", `{"amount": -5}`},
		{"sub-cent amount", http.MethodPost, "/api/v1/transactions", `{"amount": 0.004, "type": "expense", "category": "food"}`},
		{"sub-cent update", http.MethodPatch, "/api/v1/transactions/1", `{"amount": "0.004"}`},
		{"oversized amount", http.MethodPost, "/api/v1/transactions", `{"amount": 100000000, "type": "expense", "category": "food"}`},
		{"bad id", http.MethodGet, "/api/v1/transactions/abc", ""},
		{"zero id", http.MethodGet, "/api/v1/transactions/0", ""},
		{"page zero", http.MethodGet, "/api/v1/transactions?page_no=0", ""},
		{"page too big", http.MethodGet, "/api/v1/transactions?max_per_page=101", ""},
		{"page not a number", http.MethodGet, "/api/v1/transactions?page_no=x", ""},
		{"year too early", http.MethodGet, "/api/v1/transactions/summary/monthly?year=1999&month=1", ""},
		{"month out of range", http.MethodGet, "/api/v1/transactions/summary/category?year=2024&month=13", ""},
		{"missing month", http.MethodGet, "/api/v1/transactions/summary/projection?year=2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := do(t, app, tt.method, tt.path, tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (message %v)", status, env.Message)
			}
			if env.Success || env.Message == nil {
				t.Errorf("env = %+v, want failure with message", env)
			}
		})
	}
}

func TestListEndpoint(t *testing.T) {
	app := newTestApp(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), nil)
	for day := 1; day <= 25; day++ {
		body := fmt.Sprintf(`{"amount": "%d.00", "type": "expense", "category": "food", "transaction_date": "2024-01-%02d"}`, day, day)
		if status, _ := do(t, app, http.MethodPost, "/api/v1/transactions", body); status != http.StatusCreated {
			t.Fatalf("seed status = %d", status)
		}
	}

	status, env := do(t, app, http.MethodGet, "/api/v1/transactions?page_no=2&max_per_page=10", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	page := decode[struct {
		Data []struct {
			TransactionDate string `json:"transaction_date"`
		} `json:"data"`
		Total        int `json:"total"`
		PageNo       int `json:"page_no"`
		MaxPerPage   int `json:"max_per_page"`
		CurrentCount int `json:"current_count"`
	}](t, env.Data)

	if page.Total != 25 || page.CurrentCount != 10 || page.PageNo != 2 || page.MaxPerPage != 10 {
		t.Errorf("page meta = %+v", page)
	}
	if len(page.Data) != 10 || page.Data[0].TransactionDate != "2024-01-15" {
		t.Errorf("page data = %+v", page.Data)
	}

	status, env = do(t, app, http.MethodGet, "/api/v1/transactions?start_date=2024-01-20&category=food", "")
	if status != http.StatusOK {
		t.Fatalf("filtered status = %d", status)
	}
	if got := decode[map[string]any](t, env.Data)["total"]; got != float64(6) {
		t.Errorf("filtered total = %v, want 6", got)
	}
}

func TestSummaryEndpoints(t *testing.T) {
	app := newTestApp(t, time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC), nil)
	for _, body := range []string{
		`{"amount": 100, "type": "expense", "category": "food", "transaction_date": "2024-01-05"}`,
		`{"amount": 200, "type": "expense", "category": "rent", "transaction_date": "2024-01-10"}`,
		`{"amount": 500, "type": "income", "category": "salary", "transaction_date": "2024-01-20"}`,
	} {
		if status, _ := do(t, app, http.MethodPost, "/api/v1/transactions", body); status != http.StatusCreated {
			t.Fatalf("seed status = %d", status)
		}
	}

	_, env := do(t, app, http.MethodGet, "/api/v1/transactions/summary/monthly?year=2024&month=1", "")
	monthly := decode[map[string]string](t, env.Data)
	if monthly["total_expense"] != "300.00" || monthly["total_income"] != "500.00" || monthly["net_savings"] != "200.00" {
		t.Errorf("monthly = %v", monthly)
	}

	_, env = do(t, app, http.MethodGet, "/api/v1/transactions/summary/projection?year=2024&month=1", "")
	projection := decode[map[string]any](t, env.Data)
	if projection["spent_so_far"] != "300.00" || projection["projected_month_end"] != "930.00" ||
		projection["days_passed"] != float64(10) || projection["total_days"] != float64(31) {
		t.Errorf("projection = %v", projection)
	}

	_, env = do(t, app, http.MethodGet, "/api/v1/transactions/summary/category?year=2024&month=1", "")
	breakdown := decode[struct {
		TotalExpense string `json:"total_expense"`
		Items        []struct {
			Category string `json:"category"`
			Total    string `json:"total"`
		} `json:"items"`
	}](t, env.Data)
	if breakdown.TotalExpense != "300.00" || len(breakdown.Items) != 2 || breakdown.Items[0].Category != "rent" {
		t.Errorf("breakdown = %+v", breakdown)
	}

	_, env = do(t, app, http.MethodGet, "/api/v1/transactions/summary/weekly", "")
	weekly := decode[map[string]string](t, env.Data)
	if weekly["week_start"] != "2024-01-08" || weekly["week_end"] != "2024-01-14" || weekly["total_expense"] != "200.00" {
		t.Errorf("weekly = %v", weekly)
	}

	_, env = do(t, app, http.MethodGet, "/api/v1/transactions/summary/daily?year=2024&month=1", "")
	daily := decode[map[string]any](t, env.Data)
	if days, ok := daily["days"].([]any); !ok || len(days) != 2 {
		t.Errorf("daily = %v", daily)
	}
}

func TestAuthRequiredWhenConfigured(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	app := newTestApp(t, time.Now(), jwtManager)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", resp.StatusCode)
	}

	token, err := jwtManager.GenerateToken("tester")
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status with token = %d, want 200", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d, want 200", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, time.Now(), nil)

	status, env := do(t, app, http.MethodGet, "/api/v1/nope", "")
	if status != http.StatusNotFound || env.Success {
		t.Errorf("status = %d, env = %+v", status, env)
	}
}
