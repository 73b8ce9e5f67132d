package services

import (
	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(name, email, password string, timezone *string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	UpdateProfile(userID string, name, timezone *string) (*models.User, error)
	DeleteUser(userID string) error
	RestoreUser(email string) (*models.User, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest, includeDeleted bool) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, icon *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
	RestoreCategory(userID, categoryID string) (*models.Category, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *calendar.Date
	ToDate     *calendar.Date
	CategoryID *string
	MinAmount  *money.Amount
	MaxAmount  *money.Amount
}

// TransactionUpdate carries the fields of a partial transaction update.
// ClearCategory detaches the transaction from its category.
type TransactionUpdate struct {
	Amount        *money.Amount
	Description   *string
	Date          *calendar.Date
	CategoryID    *string
	ClearCategory bool
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	// CreateTransaction records an expense. A nil date resolves to "today"
	// in the user's zone, then requestTZ, then the server default.
	CreateTransaction(userID string, amount money.Amount, description string, date *calendar.Date, categoryID *string, requestTZ string) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	RestoreTransaction(userID, transactionID string) (*models.Transaction, error)
}

// BudgetWithProgress is a stored budget plus its computed progress.
type BudgetWithProgress struct {
	models.Budget
	Spent           money.Amount `json:"spent"`
	Remaining       money.Amount `json:"remaining"`
	ProgressPercent float64      `json:"progress_percent"`
	IsOverBudget    bool         `json:"is_over_budget"`
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Period     *budgeting.Period
	CategoryID *string
	ActiveOn   *calendar.Date
}

// BudgetUpdate carries the fields of a partial budget update. CategoryID is
// accepted only so a differing value can be rejected.
type BudgetUpdate struct {
	Limit      *money.Amount
	Period     *budgeting.Period
	StartDate  *calendar.Date
	EndDate    *calendar.Date
	CategoryID *string
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, categoryID *string, limit money.Amount, period budgeting.Period, startDate calendar.Date, endDate *calendar.Date) (*BudgetWithProgress, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[BudgetWithProgress], error)
	GetBudgetByID(userID, budgetID string) (*BudgetWithProgress, error)
	UpdateBudget(userID, budgetID string, update BudgetUpdate) (*BudgetWithProgress, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*budgeting.Progress, error)
}

// BudgetAlerter re-evaluates the budgets a transaction falls into.
type BudgetAlerter interface {
	CheckTransaction(tx *models.Transaction)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
