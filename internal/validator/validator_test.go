package validator

import (
	"testing"

	"fintrack/internal/calendar"
	"fintrack/internal/money"

	"github.com/go-playground/validator/v10"
)

type budgetInput struct {
	Limit     money.Amount   `validate:"required,gt=0,money2"`
	Period    string         `validate:"required,budget_period"`
	StartDate *calendar.Date `validate:"required"`
}

type transactionPatch struct {
	Amount *money.Amount `validate:"omitempty,gt=0,money2"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	RegisterOn(v)
	return v
}

func TestBudgetInput(t *testing.T) {
	v := newValidate()
	start := calendar.MustParse("2025-01-01")

	tests := []struct {
		name    string
		input   budgetInput
		wantErr bool
	}{
		{"valid monthly", budgetInput{money.RequireFromString("500.00"), "monthly", &start}, false},
		{"valid weekly", budgetInput{money.RequireFromString("80"), "weekly", &start}, false},
		{"zero limit", budgetInput{money.Zero, "monthly", &start}, true},
		{"negative limit", budgetInput{money.RequireFromString("-1"), "monthly", &start}, true},
		{"three decimals", budgetInput{money.RequireFromString("10.005"), "monthly", &start}, true},
		{"unknown period", budgetInput{money.RequireFromString("10"), "daily", &start}, true},
		{"missing start", budgetInput{money.RequireFromString("10"), "yearly", nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionalAmount(t *testing.T) {
	v := newValidate()

	if err := v.Struct(transactionPatch{}); err != nil {
		t.Errorf("nil amount should pass: %v", err)
	}
	ok := money.RequireFromString("19.99")
	if err := v.Struct(transactionPatch{Amount: &ok}); err != nil {
		t.Errorf("19.99 should pass: %v", err)
	}
	bad := money.RequireFromString("0")
	if err := v.Struct(transactionPatch{Amount: &bad}); err == nil {
		t.Error("0 should fail gt=0")
	}
}
