package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/session"
	"fintrack/internal/storage/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := memory.NewStore()
	if _, err := store.SeedCategories(context.Background(), core.Catalog); err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	srv := NewServer(":0",
		services.NewAuthService(store, logger),
		services.NewCategoryService(store, logger),
		services.NewTransactionService(store, store, nil, logger),
		services.NewGoalService(store, logger),
		services.NewReportService(store, logger),
		session.NewManager(),
		logger,
	)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, srv *Server) {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/api/register", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "s3cret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email": "ada@example.com", "password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	t.Run("protected route requires login", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
			"email": "nobody@example.com", "password": "whatever",
		})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("register then login then logout", func(t *testing.T) {
		login(t, srv)

		rec := doJSON(t, srv, http.MethodGet, "/api/categories", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("categories status = %d", rec.Code)
		}
		var categories []struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
			t.Fatalf("decode categories: %v", err)
		}
		if len(categories) != len(core.Catalog) {
			t.Errorf("got %d categories, want %d", len(categories), len(core.Catalog))
		}

		if rec := doJSON(t, srv, http.MethodPost, "/api/logout", nil); rec.Code != http.StatusNoContent {
			t.Errorf("logout status = %d, want 204", rec.Code)
		}
		if rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("status after logout = %d, want 401", rec.Code)
		}
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/register", map[string]string{
			"username": "other", "email": "ada@example.com", "password": "s3cret",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("short password is 422", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/register", map[string]string{
			"username": "bob", "email": "bob@example.com", "password": "abcd",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestTransactionEndpoints(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"type": "income", "category": "Salary", "description": "pay", "amount": "1000.00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var created transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Amount != "1000.00" || created.Type != "income" {
		t.Errorf("created = %+v", created)
	}

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"type": "expense", "category": "Groceries", "description": "shop", "amount": "300.00",
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("list status = %d", rec.Code)
		}
		var list []transactionResponse
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 2 {
			t.Errorf("listed %d transactions, want 2", len(list))
		}
	})

	t.Run("filter by type", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions?type=expense", nil)
		var list []transactionResponse
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 1 || list[0].Type != "expense" {
			t.Errorf("filtered list = %+v", list)
		}
	})

	t.Run("filter by category", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/transactions?category_id=%d", created.CategoryID), nil)
		var list []transactionResponse
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 1 || list[0].ID != created.ID {
			t.Errorf("filtered list = %+v", list)
		}
	})

	t.Run("omitted range endpoint stays open", func(t *testing.T) {
		old := core.Transaction{
			UserID:      1,
			CategoryID:  created.CategoryID,
			Type:        core.Income,
			Description: "last year's bonus",
			Amount:      core.Money{Cents: 5000},
			CreatedOn:   time.Now().UTC().AddDate(-1, 0, 0),
		}
		if _, err := srv.transactions.Create(context.Background(), old); err != nil {
			t.Fatalf("create old transaction: %v", err)
		}

		tomorrow := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions?end="+tomorrow, nil)
		var list []transactionResponse
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 3 {
			t.Errorf("end-only filter returned %d transactions, want 3", len(list))
		}

		monthAgo := time.Now().UTC().AddDate(0, -1, 0).Format("2006-01-02")
		rec = doJSON(t, srv, http.MethodGet, "/api/transactions?start="+monthAgo, nil)
		list = nil
		json.Unmarshal(rec.Body.Bytes(), &list)
		if len(list) != 2 {
			t.Errorf("start-only filter returned %d transactions, want 2", len(list))
		}
		for _, tx := range list {
			if tx.Description == "last year's bonus" {
				t.Error("start-only filter must exclude entries before the bound")
			}
		}
	})

	t.Run("invalid amount is 422", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
			"type": "expense", "category": "Groceries", "description": "bad", "amount": "-5",
		})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/transactions/9999", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodDelete, "/api/transactions/1", nil)
		if rec.Code != http.StatusNoContent {
			t.Errorf("delete status = %d, want 204", rec.Code)
		}
	})
}

func TestGoalEndpoints(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/goals", map[string]string{
		"description": "Vacation",
		"target":      "1000.00",
		"start_date":  "2025-01-01",
		"end_date":    "2099-12-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body)
	}
	var goal goalResponse
	json.Unmarshal(rec.Body.Bytes(), &goal)
	if goal.Status != "current" {
		t.Errorf("new goal status = %q, want current", goal.Status)
	}

	t.Run("progress", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/goals/1/progress", map[string]string{"amount": "500.00"})
		if rec.Code != http.StatusOK {
			t.Fatalf("progress status = %d, body %s", rec.Code, rec.Body)
		}
		var g goalResponse
		json.Unmarshal(rec.Body.Bytes(), &g)
		if g.Current != "500.00" || g.Percentage != 50.0 {
			t.Errorf("after progress: %+v", g)
		}
	})

	t.Run("complete then progress rejected", func(t *testing.T) {
		if rec := doJSON(t, srv, http.MethodPost, "/api/goals/1/complete", nil); rec.Code != http.StatusOK {
			t.Fatalf("complete status = %d", rec.Code)
		}
		rec := doJSON(t, srv, http.MethodPost, "/api/goals/1/progress", map[string]string{"amount": "1.00"})
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("progress on completed goal status = %d, want 422", rec.Code)
		}
	})

	t.Run("reactivate", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/api/goals/1/reactivate", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("reactivate status = %d", rec.Code)
		}
		var g goalResponse
		json.Unmarshal(rec.Body.Bytes(), &g)
		if g.Status != "current" {
			t.Errorf("reactivated status = %q, want current", g.Status)
		}
	})

	t.Run("list by status", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/goals?status=current", nil)
		var goals []goalResponse
		json.Unmarshal(rec.Body.Bytes(), &goals)
		if len(goals) != 1 {
			t.Errorf("current goals = %d, want 1", len(goals))
		}
	})

	t.Run("percentage endpoint", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/goals/1/percentage", nil)
		var out map[string]float64
		json.Unmarshal(rec.Body.Bytes(), &out)
		if out["completion_percentage"] != 50.0 {
			t.Errorf("percentage = %v, want 50.0", out["completion_percentage"])
		}
	})
}

func TestReportEndpointsAndCache(t *testing.T) {
	srv := newTestServer(t)
	login(t, srv)

	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"type": "income", "category": "Salary", "description": "pay", "amount": "1000.00",
	})
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"type": "expense", "category": "Groceries", "description": "shop", "amount": "300.00",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/reports/monthly", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("monthly report status = %d, body %s", rec.Code, rec.Body)
	}
	var report struct {
		NetBalance string `json:"net_balance"`
	}
	json.Unmarshal(rec.Body.Bytes(), &report)
	if report.NetBalance != "700.00" {
		t.Errorf("net_balance = %q, want 700.00", report.NetBalance)
	}

	if srv.reportCache.Size() == 0 {
		t.Error("report was not cached")
	}

	// A new ledger write must invalidate the cached report.
	doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]string{
		"type": "expense", "category": "Transport", "description": "fuel", "amount": "100.00",
	})
	if srv.reportCache.Size() != 0 {
		t.Error("ledger write did not invalidate the report cache")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/reports/monthly", nil)
	json.Unmarshal(rec.Body.Bytes(), &report)
	if report.NetBalance != "600.00" {
		t.Errorf("net_balance after new expense = %q, want 600.00", report.NetBalance)
	}

	t.Run("daily report", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/reports/daily?date="+core.Today().String(), nil)
		if rec.Code != http.StatusOK {
			t.Errorf("daily report status = %d", rec.Code)
		}
	})

	t.Run("weekly report", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/reports/weekly", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("weekly report status = %d", rec.Code)
		}
	})

	t.Run("bad date is 422", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/api/reports/daily?date=March-1st", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}
