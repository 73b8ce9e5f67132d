package models

import (
	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/money"
)

// Transaction is a single expense. Date is the day the expense belongs to,
// not a timestamp.
type Transaction struct {
	Base
	UserID      string        `gorm:"type:uuid;not null;index:idx_transactions_user_date" json:"user_id"`
	CategoryID  *string       `gorm:"type:uuid;index" json:"category_id"`
	Amount      money.Amount  `gorm:"type:numeric(12,2);not null" json:"amount"`
	Description string        `json:"description"`
	Date        calendar.Date `gorm:"not null;index:idx_transactions_user_date" json:"date"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Spending returns the fields budget progress is computed from.
func (t *Transaction) Spending() budgeting.Transaction {
	return budgeting.Transaction{
		CategoryID: t.CategoryID,
		Amount:     t.Amount.Decimal,
		Date:       t.Date,
	}
}
