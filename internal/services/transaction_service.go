package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db       *gorm.DB
	resolver *budgeting.DateResolver
	alerter  BudgetAlerter
}

// NewTransactionService creates a new TransactionServicer. alerter may be nil.
func NewTransactionService(db *gorm.DB, resolver *budgeting.DateResolver, alerter BudgetAlerter) TransactionServicer {
	return &transactionService{db: db, resolver: resolver, alerter: alerter}
}

func validateAmount(amount money.Amount) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than 0")
	}
	if !money.HasValidPrecision(amount.Decimal) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must have at most two decimal places")
	}
	return nil
}

// CreateTransaction records a new expense.
func (s *transactionService) CreateTransaction(
	userID string,
	amount money.Amount,
	description string,
	date *calendar.Date,
	categoryID *string,
	requestTZ string,
) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := requireUsableCategory(s.db, userID, categoryID); err != nil {
		return nil, err
	}

	var day calendar.Date
	if date != nil && !date.IsZero() {
		day = *date
	} else {
		var user models.User
		if err := s.db.Select("id", "timezone").First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		day = s.resolver.Today(user.TimezoneName(), requestTZ)
	}

	tx := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		Date:        day,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.checkBudgets(tx)
	return s.GetTransactionByID(userID, tx.ID)
}

func (s *transactionService) checkBudgets(tx *models.Transaction) {
	if s.alerter != nil {
		s.alerter.CheckTransaction(tx)
	}
}

// GetUserTransactions lists live transactions, newest date first.
func (s *transactionService) GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := applyTransactionFilters(s.db.Model(&models.Transaction{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := withDeletedCategory(base.Session(&gorm.Session{})).
		Order("date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a live transaction owned by userID.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := loadOwned(withDeletedCategory(s.db), &tx, transactionID, userID, apperrors.ErrTransactionNotFound); err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction applies a partial update.
func (s *transactionService) UpdateTransaction(userID, transactionID string, update TransactionUpdate) (*models.Transaction, error) {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}

	if update.ClearCategory && update.CategoryID != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category_id and clear_category are mutually exclusive")
	}

	updates := make(map[string]interface{})
	if update.Amount != nil {
		if err := validateAmount(*update.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *update.Amount
	}
	if update.Description != nil {
		updates["description"] = strings.TrimSpace(*update.Description)
	}
	if update.Date != nil {
		if update.Date.IsZero() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date cannot be empty")
		}
		updates["date"] = *update.Date
	}
	switch {
	case update.ClearCategory:
		updates["category_id"] = nil
	case update.CategoryID != nil:
		if err := requireUsableCategory(s.db, userID, update.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *update.CategoryID
	}

	if len(updates) == 0 {
		return tx, nil
	}
	if err := s.db.Model(&models.Transaction{}).Where("id = ?", tx.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updated, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	s.checkBudgets(updated)
	return updated, nil
}

// DeleteTransaction logically deletes a transaction.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Transaction{}, "id = ?", tx.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// RestoreTransaction clears the deletion marker of a transaction.
func (s *transactionService) RestoreTransaction(userID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := loadOwned(s.db.Unscoped(), &tx, transactionID, userID, apperrors.ErrTransactionNotFound); err != nil {
		return nil, err
	}
	if !tx.IsDeleted() {
		return nil, apperrors.ErrTransactionNotDeleted
	}

	if err := s.db.Unscoped().Model(&models.Transaction{}).Where("id = ?", tx.ID).Update("deleted_at", nil).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetTransactionByID(userID, transactionID)
}
