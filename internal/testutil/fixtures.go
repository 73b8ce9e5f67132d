package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/models"
	"fintrack/internal/money"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCategory creates a category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Category %d", nextID()))
}

// CreateTestCategoryNamed creates a category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID: userID,
		Name:   name,
		Icon:   "tag",
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction. amount is a decimal string and
// date is YYYY-MM-DD.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, categoryID *string, amount, date string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      money.RequireFromString(amount),
		Description: "Test transaction",
		Date:        calendar.MustParse(date),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget over [start, end].
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, categoryID *string, limit string, period budgeting.Period, start, end string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Limit:      money.RequireFromString(limit),
		Period:     period,
		StartDate:  calendar.MustParse(start),
		EndDate:    calendar.MustParse(end),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// SoftDelete marks record as logically deleted.
func SoftDelete(t *testing.T, db *gorm.DB, record interface{}) {
	t.Helper()
	if err := db.Delete(record).Error; err != nil {
		t.Fatalf("failed to soft delete %T: %v", record, err)
	}
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
