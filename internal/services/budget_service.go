package services

import (
	"gorm.io/gorm"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/money"
	"fintrack/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db       *gorm.DB
	spending spendingSource
}

// NewBudgetService creates a new BudgetServicer. includeDeleted controls
// whether logically-deleted transactions count toward spent.
func NewBudgetService(db *gorm.DB, includeDeleted bool) BudgetServicer {
	return &budgetService{db: db, spending: spendingSource{db: db, includeDeleted: includeDeleted}}
}

// spendingSource loads the transactions a budget is measured against.
type spendingSource struct {
	db             *gorm.DB
	includeDeleted bool
}

func (s spendingSource) progress(b *models.Budget) (budgeting.Progress, error) {
	q := s.db
	if s.includeDeleted {
		q = q.Unscoped()
	}
	q = q.Model(&models.Transaction{}).
		Where("user_id = ? AND date >= ? AND date <= ?", b.UserID, b.StartDate, b.EndDate)
	if b.CategoryID != nil {
		q = q.Where("category_id = ?", *b.CategoryID)
	}

	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return budgeting.Progress{}, err
	}

	spending := make([]budgeting.Transaction, len(txns))
	for i := range txns {
		spending[i] = txns[i].Spending()
	}
	return budgeting.ComputeProgress(b.Scope(), spending), nil
}

func (s spendingSource) withProgress(b *models.Budget) (*BudgetWithProgress, error) {
	p, err := s.progress(b)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &BudgetWithProgress{
		Budget:          *b,
		Spent:           p.Spent,
		Remaining:       p.Remaining,
		ProgressPercent: p.ProgressPercent,
		IsOverBudget:    p.IsOverBudget,
	}, nil
}

func validateLimit(limit money.Amount) error {
	if !limit.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be greater than 0")
	}
	if !money.HasValidPrecision(limit.Decimal) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must have at most two decimal places")
	}
	return nil
}

// CreateBudget creates a budget. A nil endDate is derived from startDate and period.
func (s *budgetService) CreateBudget(
	userID string,
	categoryID *string,
	limit money.Amount,
	period budgeting.Period,
	startDate calendar.Date,
	endDate *calendar.Date,
) (*BudgetWithProgress, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	if !period.Valid() {
		return nil, apperrors.ErrInvalidPeriod
	}
	if startDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date is required")
	}
	if err := requireUsableCategory(s.db, userID, categoryID); err != nil {
		return nil, err
	}

	end, err := resolveEndDate(startDate, period, endDate)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Limit:      limit,
		Period:     period,
		StartDate:  startDate,
		EndDate:    end,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.GetBudgetByID(userID, budget.ID)
}

func resolveEndDate(start calendar.Date, period budgeting.Period, end *calendar.Date) (calendar.Date, error) {
	if end == nil || end.IsZero() {
		computed, err := budgeting.ComputeEndDate(start, period)
		if err != nil {
			return calendar.Date{}, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
		}
		return computed, nil
	}
	if end.Before(start) {
		return calendar.Date{}, apperrors.ErrInvalidDateRange
	}
	return *end, nil
}

// GetUserBudgets retrieves a paginated list of budgets, each with progress.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[BudgetWithProgress], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.Period != nil {
		base = base.Where("period = ?", *filter.Period)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.ActiveOn != nil {
		base = base.Where("start_date <= ? AND end_date >= ?", *filter.ActiveOn, *filter.ActiveOn)
	}

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := withDeletedCategory(base.Session(&gorm.Session{})).
		Order("start_date DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	items := make([]BudgetWithProgress, 0, len(budgets))
	for i := range budgets {
		item, err := s.spending.withProgress(&budgets[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	result := pagination.NewPageResponse(items, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *budgetService) load(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := loadOwned(withDeletedCategory(s.db), &budget, budgetID, userID, apperrors.ErrBudgetNotFound); err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetBudgetByID retrieves a budget and its progress.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*BudgetWithProgress, error) {
	budget, err := s.load(userID, budgetID)
	if err != nil {
		return nil, err
	}
	return s.spending.withProgress(budget)
}

// UpdateBudget applies a partial update. The category can never change, and
// the end date follows a changed start date or period unless given explicitly.
func (s *budgetService) UpdateBudget(userID, budgetID string, update BudgetUpdate) (*BudgetWithProgress, error) {
	budget, err := s.load(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil && (budget.CategoryID == nil || *budget.CategoryID != *update.CategoryID) {
		return nil, apperrors.ErrBudgetCategoryImmutable
	}

	updates := make(map[string]interface{})
	if update.Limit != nil {
		if err := validateLimit(*update.Limit); err != nil {
			return nil, err
		}
		updates["limit_amount"] = *update.Limit
	}

	period := budget.Period
	if update.Period != nil {
		if !update.Period.Valid() {
			return nil, apperrors.ErrInvalidPeriod
		}
		period = *update.Period
		updates["period"] = period
	}

	start := budget.StartDate
	if update.StartDate != nil {
		start = *update.StartDate
		updates["start_date"] = start
	}

	end := budget.EndDate
	switch {
	case update.EndDate != nil:
		end = *update.EndDate
	case update.StartDate != nil || update.Period != nil:
		end, err = budgeting.ComputeEndDate(start, period)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidPeriod, err)
		}
	}
	if end.Before(start) {
		return nil, apperrors.ErrInvalidDateRange
	}
	if end != budget.EndDate {
		updates["end_date"] = end
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget permanently removes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.load(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&models.Budget{}, "id = ?", budget.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetProgress returns only the computed progress of a budget.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*budgeting.Progress, error) {
	budget, err := s.load(userID, budgetID)
	if err != nil {
		return nil, err
	}
	p, err := s.spending.progress(budget)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &p, nil
}
