package services

import (
	"testing"
	"time"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"

	"gorm.io/gorm"
)

// 23:30 UTC on 2025-03-10 is already 2025-03-11 in Tokyo.
var fixedNow = time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)

func fixedResolver() *budgeting.DateResolver {
	return &budgeting.DateResolver{
		Now:             func() time.Time { return fixedNow },
		Load:            time.LoadLocation,
		DefaultTimezone: "UTC",
	}
}

type recordingAlerter struct {
	checked []*models.Transaction
}

func (r *recordingAlerter) CheckTransaction(tx *models.Transaction) {
	r.checked = append(r.checked, tx)
}

func newTransactionService(db *gorm.DB) (TransactionServicer, *recordingAlerter) {
	alerter := &recordingAlerter{}
	return NewTransactionService(db, fixedResolver(), alerter), alerter
}

func amountPtr(s string) *money.Amount {
	a := money.RequireFromString(s)
	return &a
}

func datePtr(s string) *calendar.Date {
	d := calendar.MustParse(s)
	return &d
}

func TestCreateTransaction(t *testing.T) {
	t.Run("explicit_date_and_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, alerter := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)

		tx, err := svc.CreateTransaction(user.ID, money.RequireFromString("150.50"), " lunch ", datePtr("2025-01-15"), &cat.ID, "")
		testutil.AssertNoError(t, err)

		if tx.Amount.String() != "150.50" {
			t.Errorf("expected amount 150.50, got %s", tx.Amount)
		}
		if tx.Date.String() != "2025-01-15" {
			t.Errorf("expected date 2025-01-15, got %s", tx.Date)
		}
		if tx.Description != "lunch" {
			t.Errorf("expected trimmed description, got %q", tx.Description)
		}
		if tx.Category == nil || tx.Category.ID != cat.ID {
			t.Error("expected category to be preloaded")
		}
		if len(alerter.checked) != 1 {
			t.Errorf("expected budgets to be checked once, got %d", len(alerter.checked))
		}
	})

	t.Run("date_defaults_to_user_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		tz := "Asia/Tokyo"
		db.Model(user).Update("timezone", tz)

		tx, err := svc.CreateTransaction(user.ID, money.RequireFromString("5"), "", nil, nil, "America/New_York")
		testutil.AssertNoError(t, err)
		if tx.Date.String() != "2025-03-11" {
			t.Errorf("expected user zone date 2025-03-11, got %s", tx.Date)
		}
	})

	t.Run("date_defaults_to_request_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, money.RequireFromString("5"), "", nil, nil, "Asia/Tokyo")
		testutil.AssertNoError(t, err)
		if tx.Date.String() != "2025-03-11" {
			t.Errorf("expected request zone date 2025-03-11, got %s", tx.Date)
		}
	})

	t.Run("date_defaults_to_system_timezone", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, money.RequireFromString("5"), "", nil, nil, "Bogus/Zone")
		testutil.AssertNoError(t, err)
		if tx.Date.String() != "2025-03-10" {
			t.Errorf("expected UTC date 2025-03-10, got %s", tx.Date)
		}
	})

	t.Run("invalid_amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, alerter := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)

		for _, amount := range []string{"0", "-10", "1.005"} {
			_, err := svc.CreateTransaction(user.ID, money.RequireFromString(amount), "", datePtr("2025-01-01"), nil, "")
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
		if len(alerter.checked) != 0 {
			t.Error("rejected transactions must not trigger budget checks")
		}
	})

	t.Run("category_rules", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		foreign := testutil.CreateTestCategory(t, db, other.ID)
		deleted := testutil.CreateTestCategory(t, db, user.ID)
		testutil.SoftDelete(t, db, deleted)

		for _, id := range []string{foreign.ID, deleted.ID, missingID, "garbage"} {
			id := id
			_, err := svc.CreateTransaction(user.ID, money.RequireFromString("1"), "", datePtr("2025-01-01"), &id, "")
			testutil.AssertAppError(t, err, "INVALID_CATEGORY")
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	food := testutil.CreateTestCategory(t, db, user.ID)
	rent := testutil.CreateTestCategory(t, db, user.ID)

	testutil.CreateTestTransaction(t, db, user.ID, &food.ID, "10.00", "2025-01-05")
	testutil.CreateTestTransaction(t, db, user.ID, &rent.ID, "900.00", "2025-01-01")
	testutil.CreateTestTransaction(t, db, user.ID, &food.ID, "25.50", "2025-01-20")
	gone := testutil.CreateTestTransaction(t, db, user.ID, &food.ID, "99.00", "2025-01-10")
	testutil.SoftDelete(t, db, gone)
	testutil.CreateTestTransaction(t, db, other.ID, nil, "1.00", "2025-01-10")
	testutil.SoftDelete(t, db, food)

	t.Run("newest_first_excluding_deleted", func(t *testing.T) {
		res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if res.TotalItems != 3 {
			t.Fatalf("expected 3 transactions, got %d", res.TotalItems)
		}
		want := []string{"2025-01-20", "2025-01-05", "2025-01-01"}
		for i, w := range want {
			if res.Data[i].Date.String() != w {
				t.Errorf("position %d: expected %s, got %s", i, w, res.Data[i].Date)
			}
		}
		if res.Data[0].Category == nil || res.Data[0].Category.ID != food.ID {
			t.Error("expected soft-deleted category to be preloaded")
		}
	})

	filters := []struct {
		name   string
		filter TransactionFilter
		want   int64
	}{
		{"from_date", TransactionFilter{FromDate: datePtr("2025-01-05")}, 2},
		{"to_date", TransactionFilter{ToDate: datePtr("2025-01-05")}, 2},
		{"date_range", TransactionFilter{FromDate: datePtr("2025-01-02"), ToDate: datePtr("2025-01-19")}, 1},
		{"category", TransactionFilter{CategoryID: &rent.ID}, 1},
		{"min_amount", TransactionFilter{MinAmount: amountPtr("25.50")}, 2},
		{"max_amount", TransactionFilter{MaxAmount: amountPtr("25.50")}, 2},
		{"amount_range", TransactionFilter{MinAmount: amountPtr("11"), MaxAmount: amountPtr("100")}, 1},
	}
	for _, tt := range filters {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, tt.filter)
			testutil.AssertNoError(t, err)
			if res.TotalItems != tt.want {
				t.Errorf("expected %d, got %d", tt.want, res.TotalItems)
			}
			if int64(len(res.Data)) != tt.want {
				t.Errorf("expected %d items on page, got %d", tt.want, len(res.Data))
			}
		})
	}
}

func TestGetTransactionByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newTransactionService(db)
	owner := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, owner.ID, nil, "10", "2025-01-01")

	_, err := svc.GetTransactionByID(owner.ID, tx.ID)
	testutil.AssertNoError(t, err)

	_, err = svc.GetTransactionByID(intruder.ID, tx.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	_, err = svc.GetTransactionByID(owner.ID, missingID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, alerter := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tx := testutil.CreateTestTransaction(t, db, user.ID, nil, "10.00", "2025-01-01")

		desc := "dinner"
		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{
			Amount:      amountPtr("42.10"),
			Description: &desc,
			Date:        datePtr("2025-02-02"),
			CategoryID:  &cat.ID,
		})
		testutil.AssertNoError(t, err)

		if updated.Amount.String() != "42.10" || updated.Description != "dinner" || updated.Date.String() != "2025-02-02" {
			t.Errorf("unexpected update result: %+v", updated)
		}
		if updated.CategoryID == nil || *updated.CategoryID != cat.ID {
			t.Error("expected category to be set")
		}
		if len(alerter.checked) != 1 || alerter.checked[0].Amount.String() != "42.10" {
			t.Error("expected budgets to be re-checked with the updated transaction")
		}
	})

	t.Run("clear_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		tx := testutil.CreateTestTransaction(t, db, user.ID, &cat.ID, "10.00", "2025-01-01")

		updated, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{ClearCategory: true})
		testutil.AssertNoError(t, err)
		if updated.CategoryID != nil {
			t.Error("expected category to be cleared")
		}

		_, err = svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{ClearCategory: true, CategoryID: &cat.ID})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("rejects_deleted_category_and_bad_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID)
		testutil.SoftDelete(t, db, cat)
		tx := testutil.CreateTestTransaction(t, db, user.ID, nil, "10.00", "2025-01-01")

		_, err := svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{CategoryID: &cat.ID})
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")

		_, err = svc.UpdateTransaction(user.ID, tx.ID, TransactionUpdate{Amount: amountPtr("0")})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc, _ := newTransactionService(db)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		tx := testutil.CreateTestTransaction(t, db, owner.ID, nil, "10.00", "2025-01-01")

		_, err := svc.UpdateTransaction(intruder.ID, tx.ID, TransactionUpdate{Amount: amountPtr("1")})
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteAndRestoreTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newTransactionService(db)
	user := testutil.CreateTestUser(t, db)
	intruder := testutil.CreateTestUser(t, db)
	tx := testutil.CreateTestTransaction(t, db, user.ID, nil, "10.00", "2025-01-01")

	err := svc.DeleteTransaction(intruder.ID, tx.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, tx.ID))

	_, err = svc.GetTransactionByID(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	_, err = svc.RestoreTransaction(intruder.ID, tx.ID)
	testutil.AssertAppError(t, err, "FORBIDDEN")

	restored, err := svc.RestoreTransaction(user.ID, tx.ID)
	testutil.AssertNoError(t, err)
	if restored.IsDeleted() {
		t.Error("expected restored transaction to be live")
	}

	_, err = svc.RestoreTransaction(user.ID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_DELETED")
}
