package budgeting

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/calendar"
	"fintrack/internal/money"
)

var hundred = decimal.NewFromInt(100)

// Budget is the slice of a budget record the progress calculation needs.
// A nil CategoryID marks an overall budget.
type Budget struct {
	Limit      decimal.Decimal
	CategoryID *string
	StartDate  calendar.Date
	EndDate    calendar.Date
}

// Transaction is the slice of a transaction record the progress calculation needs.
type Transaction struct {
	CategoryID *string
	Amount     decimal.Decimal
	Date       calendar.Date
}

// Progress is the derived spending state of a budget. It is never persisted.
type Progress struct {
	Limit           money.Amount `json:"limit"`
	Spent           money.Amount `json:"spent"`
	Remaining       money.Amount `json:"remaining"`
	ProgressPercent float64      `json:"progress_percent"`
	IsOverBudget    bool         `json:"is_over_budget"`
}

// Covers reports whether d falls inside the budget's inclusive date range.
func (b Budget) Covers(d calendar.Date) bool {
	return d.Between(b.StartDate, b.EndDate)
}

// Matches reports whether a transaction in categoryID counts toward b.
func (b Budget) Matches(categoryID *string) bool {
	if b.CategoryID == nil {
		return true
	}
	return categoryID != nil && *categoryID == *b.CategoryID
}

// ComputeProgress measures txns against b. txns must already be limited to
// the budget owner's transactions; ownership is not checked here.
func ComputeProgress(b Budget, txns []Transaction) Progress {
	spent := decimal.Zero
	for _, t := range txns {
		if !b.Covers(t.Date) || !b.Matches(t.CategoryID) {
			continue
		}
		spent = spent.Add(t.Amount)
	}
	spent = spent.Round(money.Places)

	var percent decimal.Decimal
	if b.Limit.IsPositive() {
		percent = spent.Div(b.Limit).Mul(hundred).Round(money.Places)
	}

	return Progress{
		Limit:           money.New(b.Limit),
		Spent:           money.New(spent),
		Remaining:       money.New(b.Limit.Sub(spent)),
		ProgressPercent: percent.InexactFloat64(),
		IsOverBudget:    spent.GreaterThan(b.Limit),
	}
}
