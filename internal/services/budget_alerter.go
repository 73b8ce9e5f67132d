package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// budgetAlerter publishes budget.exceeded for every budget a transaction
// falls into that is over its limit afterwards.
type budgetAlerter struct {
	db        *gorm.DB
	spending  spendingSource
	publisher events.Publisher
	now       func() time.Time
}

// NewBudgetAlerter creates a BudgetAlerter publishing through publisher.
func NewBudgetAlerter(db *gorm.DB, publisher events.Publisher, includeDeleted bool) BudgetAlerter {
	return &budgetAlerter{
		db:        db,
		spending:  spendingSource{db: db, includeDeleted: includeDeleted},
		publisher: publisher,
		now:       time.Now,
	}
}

// CheckTransaction never fails; lookup and publish errors are logged.
func (a *budgetAlerter) CheckTransaction(tx *models.Transaction) {
	q := a.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", tx.UserID, tx.Date, tx.Date)
	if tx.CategoryID != nil {
		q = q.Where("(category_id IS NULL OR category_id = ?)", *tx.CategoryID)
	} else {
		q = q.Where("category_id IS NULL")
	}

	var budgets []models.Budget
	if err := q.Find(&budgets).Error; err != nil {
		logger.Get().Errorw("failed to load budgets for alerting", "error", err, "transaction_id", tx.ID)
		return
	}

	for i := range budgets {
		b := &budgets[i]
		p, err := a.spending.progress(b)
		if err != nil {
			logger.Get().Errorw("failed to compute budget progress", "error", err, "budget_id", b.ID)
			continue
		}
		if !p.IsOverBudget {
			continue
		}

		event := events.BudgetExceeded{
			BudgetID:      b.ID,
			UserID:        b.UserID,
			CategoryID:    b.CategoryID,
			Limit:         p.Limit,
			Spent:         p.Spent,
			StartDate:     b.StartDate,
			EndDate:       b.EndDate,
			TransactionID: tx.ID,
			OccurredAt:    a.now().UTC(),
		}
		if err := a.publisher.Publish(context.Background(), event); err != nil {
			logger.Get().Warnw("failed to publish budget event", "error", err, "budget_id", b.ID)
			continue
		}
		logger.Get().Infow("budget exceeded", "budget_id", b.ID, "user_id", b.UserID, "spent", p.Spent.String())
	}
}
