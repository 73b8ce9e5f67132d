package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/calendar"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

const testTransactionID = "0190a6f4-3c2b-7d4e-8f00-0000000000d1"

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn   func(userID string, amount money.Amount, description string, date *calendar.Date, categoryID *string, requestTZ string) (*models.Transaction, error)
	getUserTransactionsFn func(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getTransactionByIDFn  func(userID, transactionID string) (*models.Transaction, error)
	updateTransactionFn   func(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error)
	deleteTransactionFn   func(userID, transactionID string) error
	restoreTransactionFn  func(userID, transactionID string) (*models.Transaction, error)
}

func (m *mockTransactionService) CreateTransaction(userID string, amount money.Amount, description string, date *calendar.Date, categoryID *string, requestTZ string) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, amount, description, date, categoryID, requestTZ)
	}
	return testTransaction(), nil
}

func (m *mockTransactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return testTransaction(), nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, update services.TransactionUpdate) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, update)
	}
	return testTransaction(), nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) RestoreTransaction(userID, transactionID string) (*models.Transaction, error) {
	if m.restoreTransactionFn != nil {
		return m.restoreTransactionFn(userID, transactionID)
	}
	return testTransaction(), nil
}

func testTransaction() *models.Transaction {
	tx := &models.Transaction{
		UserID: testUserID,
		Amount: money.RequireFromString("12.50"),
		Date:   calendar.New(2025, 3, 10),
	}
	tx.ID = testTransactionID
	return tx
}

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", middleware.RequestTimezone(), injectUserID(testUserID))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.POST("/transactions/:id/restore", handler.RestoreTransaction)
	return r
}

// --- tests ---

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 and forwards the request timezone", func(t *testing.T) {
		var (
			gotAmount money.Amount
			gotDate   *calendar.Date
			gotCat    *string
			gotTZ     string
		)
		svc := &mockTransactionService{
			createTransactionFn: func(_ string, amount money.Amount, _ string, date *calendar.Date, categoryID *string, tz string) (*models.Transaction, error) {
				gotAmount, gotDate, gotCat, gotTZ = amount, date, categoryID, tz
				return testTransaction(), nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		req := httptest.NewRequest("POST", "/transactions",
			strings.NewReader(`{"amount":12.5,"description":"lunch","category_id":"`+testCategoryID+`"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.TimezoneHeader, "Asia/Tokyo")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount.String() != "12.50" {
			t.Errorf("expected amount 12.50, got %s", gotAmount)
		}
		if gotDate != nil {
			t.Errorf("expected no date, got %s", gotDate)
		}
		if gotCat == nil || *gotCat != testCategoryID {
			t.Errorf("expected category %s, got %v", testCategoryID, gotCat)
		}
		if gotTZ != "Asia/Tokyo" {
			t.Errorf("expected Asia/Tokyo, got %q", gotTZ)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"] != 12.5 {
			t.Errorf("expected amount 12.5, got %v", tx["amount"])
		}
		if tx["date"] != "2025-03-10" {
			t.Errorf("expected date 2025-03-10, got %v", tx["date"])
		}
		if audit.lastAction() != "CREATE_TRANSACTION" {
			t.Errorf("expected CREATE_TRANSACTION audit entry, got %q", audit.lastAction())
		}
	})

	t.Run("accepts an explicit date", func(t *testing.T) {
		var gotDate *calendar.Date
		svc := &mockTransactionService{
			createTransactionFn: func(_ string, _ money.Amount, _ string, date *calendar.Date, _ *string, _ string) (*models.Transaction, error) {
				gotDate = date
				return testTransaction(), nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"amount":"8.00","date":"2025-02-28"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDate == nil || gotDate.String() != "2025-02-28" {
			t.Errorf("expected 2025-02-28, got %v", gotDate)
		}
	})

	invalid := []struct {
		name string
		body string
	}{
		{"missing amount", `{"description":"lunch"}`},
		{"zero amount", `{"amount":0}`},
		{"negative amount", `{"amount":-3}`},
		{"three decimal places", `{"amount":1.005}`},
		{"malformed date", `{"amount":5,"date":"10/03/2025"}`},
		{"impossible date", `{"amount":5,"date":"2025-02-30"}`},
		{"non-uuid category", `{"amount":5,"category_id":"groceries"}`},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/transactions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 on unusable category", func(t *testing.T) {
		svc := &mockTransactionService{
			createTransactionFn: func(string, money.Amount, string, *calendar.Date, *string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidCategory
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"amount":5,"category_id":"`+testCategoryID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CATEGORY")
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("parses every filter", func(t *testing.T) {
		var got services.TransactionFilter
		svc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{*testTransaction()}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?from_date=2025-03-01&to_date=2025-03-31&category_id="+testCategoryID+"&min_amount=5&max_amount=100.50", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.FromDate == nil || got.FromDate.String() != "2025-03-01" {
			t.Errorf("unexpected from_date: %v", got.FromDate)
		}
		if got.ToDate == nil || got.ToDate.String() != "2025-03-31" {
			t.Errorf("unexpected to_date: %v", got.ToDate)
		}
		if got.CategoryID == nil || *got.CategoryID != testCategoryID {
			t.Errorf("unexpected category_id: %v", got.CategoryID)
		}
		if got.MinAmount == nil || got.MinAmount.String() != "5.00" {
			t.Errorf("unexpected min_amount: %v", got.MinAmount)
		}
		if got.MaxAmount == nil || got.MaxAmount.String() != "100.50" {
			t.Errorf("unexpected max_amount: %v", got.MaxAmount)
		}
	})

	t.Run("no filters leaves every field nil", func(t *testing.T) {
		var got services.TransactionFilter
		svc := &mockTransactionService{
			getUserTransactionsFn: func(_ string, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.FromDate != nil || got.ToDate != nil || got.CategoryID != nil || got.MinAmount != nil || got.MaxAmount != nil {
			t.Errorf("expected empty filter, got %+v", got)
		}
	})

	for _, q := range []string{"from_date=yesterday", "category_id=7", "min_amount=lots"} {
		t.Run("rejects "+q, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "GET", "/transactions?"+q, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 403 for another user's transaction", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionByIDFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrForbidden
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockTransactionService{
			getTransactionByIDFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("maps the request onto an update", func(t *testing.T) {
		var got services.TransactionUpdate
		svc := &mockTransactionService{
			updateTransactionFn: func(_, _ string, update services.TransactionUpdate) (*models.Transaction, error) {
				got = update
				return testTransaction(), nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(svc, audit))

		rec := doRequest(r, "PUT", "/transactions/"+testTransactionID, `{"amount":20,"clear_category":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Amount == nil || got.Amount.String() != "20.00" {
			t.Errorf("unexpected amount: %v", got.Amount)
		}
		if !got.ClearCategory || got.CategoryID != nil || got.Date != nil || got.Description != nil {
			t.Errorf("unexpected update: %+v", got)
		}
		if audit.lastAction() != "UPDATE_TRANSACTION" {
			t.Errorf("expected UPDATE_TRANSACTION audit entry, got %q", audit.lastAction())
		}
	})

	t.Run("rejects a zero amount", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/"+testTransactionID, `{"amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteAndRestore(t *testing.T) {
	t.Run("delete returns 204", func(t *testing.T) {
		var deleted string
		svc := &mockTransactionService{
			deleteTransactionFn: func(_, id string) error {
				deleted = id
				return nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/"+testTransactionID, "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if deleted != testTransactionID {
			t.Errorf("expected %s, got %q", testTransactionID, deleted)
		}
	})

	t.Run("restore of a live transaction conflicts", func(t *testing.T) {
		svc := &mockTransactionService{
			restoreTransactionFn: func(string, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotDeleted
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions/"+testTransactionID+"/restore", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_DELETED")
	})
}
