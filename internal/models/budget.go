package models

import (
	"time"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/money"
	"fintrack/internal/uuid"

	"gorm.io/gorm"
)

// Budget is a spending limit over an inclusive date range, optionally
// restricted to one category. Budgets are hard-deleted, so there is no
// Base embed. CategoryID never changes after creation.
type Budget struct {
	ID         string           `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string           `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID *string          `gorm:"type:uuid;index" json:"category_id"`
	Limit      money.Amount     `gorm:"column:limit_amount;type:numeric(12,2);not null" json:"limit"`
	Period     budgeting.Period `gorm:"size:16;not null" json:"period"`
	StartDate  calendar.Date    `gorm:"not null" json:"start_date"`
	EndDate    calendar.Date    `gorm:"not null" json:"end_date"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// Scope returns the fields budget progress is computed from.
func (b *Budget) Scope() budgeting.Budget {
	return budgeting.Budget{
		Limit:      b.Limit.Decimal,
		CategoryID: b.CategoryID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
	}
}
