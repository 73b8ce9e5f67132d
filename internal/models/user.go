package models

import "time"

// User represents an account holder. Deleting a user is logical: the
// DeletedAt marker hides the user from authentication but owned records stay.
type User struct {
	Base
	Name             string        `gorm:"not null" json:"name"`
	Email            string        `gorm:"uniqueIndex;not null" json:"email"`
	Password         string        `gorm:"not null" json:"-"`
	Timezone         *string       `gorm:"size:64" json:"timezone"`
	RefreshTokenHash string        `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time    `json:"last_login_at,omitempty"`
	Categories       []Category    `gorm:"foreignKey:UserID" json:"-"`
	Transactions     []Transaction `gorm:"foreignKey:UserID" json:"-"`
	Budgets          []Budget      `gorm:"foreignKey:UserID" json:"-"`
}

// TimezoneName returns the stored timezone preference or "".
func (u *User) TimezoneName() string {
	if u == nil || u.Timezone == nil {
		return ""
	}
	return *u.Timezone
}
