// Package events publishes domain events emitted by the API.
package events

import (
	"encoding/json"
	"time"

	"fintrack/internal/calendar"
	"fintrack/internal/money"
)

// TypeBudgetExceeded is emitted when a transaction pushes a budget over its limit.
const TypeBudgetExceeded = "budget.exceeded"

// Event is a routed, JSON-encodable message.
type Event interface {
	Type() string
}

// BudgetExceeded reports that spending inside a budget window passed its limit.
type BudgetExceeded struct {
	BudgetID      string        `json:"budget_id"`
	UserID        string        `json:"user_id"`
	CategoryID    *string       `json:"category_id"`
	Limit         money.Amount  `json:"limit"`
	Spent         money.Amount  `json:"spent"`
	StartDate     calendar.Date `json:"start_date"`
	EndDate       calendar.Date `json:"end_date"`
	TransactionID string        `json:"transaction_id"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

// Type implements Event.
func (BudgetExceeded) Type() string { return TypeBudgetExceeded }

// Encode renders e as the message body.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(e)
}
