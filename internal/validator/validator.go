// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"fintrack/internal/budgeting"
	"fintrack/internal/calendar"
	"fintrack/internal/money"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn installs the custom rules and type adapters on v.
//
// money.Amount validates as a float64 so numeric tags (gt, lte) apply, and
// calendar.Date validates as its YYYY-MM-DD string so "required" rejects the
// zero date.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(amountValue, money.Amount{})
	v.RegisterCustomTypeFunc(dateValue, calendar.Date{})
	_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	_ = v.RegisterValidation("money2", validateMoney2)
}

func amountValue(field reflect.Value) interface{} {
	a, ok := field.Interface().(money.Amount)
	if !ok {
		return nil
	}
	f, _ := a.Float64()
	return f
}

func dateValue(field reflect.Value) interface{} {
	d, ok := field.Interface().(calendar.Date)
	if !ok || d.IsZero() {
		return ""
	}
	return d.String()
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	return budgeting.Period(fl.Field().String()).Valid()
}

// validateMoney2 accepts values with at most two decimal places.
func validateMoney2(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		return money.HasValidPrecision(decimal.NewFromFloat(field.Float()))
	case reflect.String:
		d, err := decimal.NewFromString(field.String())
		return err == nil && money.HasValidPrecision(d)
	}
	return false
}
