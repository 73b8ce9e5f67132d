package models

// Category is a user-scoped spending label. Soft-deleted categories stay
// loadable so historical transactions and budgets can still render them.
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`
}
