// Package budgeting holds the computed semantics of budgets: deriving a
// period's end date, measuring spending against a limit, and resolving the
// local "today" used to date new transactions.
//
// Everything here is pure. Callers load records, check ownership and validate
// input before calling in.
package budgeting

import (
	"fmt"
	"time"

	"fintrack/internal/calendar"
)

// Period is a budget's renewal cadence.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Periods lists every recognized period.
var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodYearly}

// Valid reports whether p is a recognized period.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// ComputeEndDate returns the last day included in the period that starts on
// start.
//
// Monthly and yearly periods use calendar arithmetic: the period ends the day
// before the same day of the following month (or year). When that day does
// not exist in the target month the period ends on the target month's last
// day, so 2025-01-31 monthly ends on 2025-02-28.
func ComputeEndDate(start calendar.Date, period Period) (calendar.Date, error) {
	switch period {
	case PeriodWeekly:
		return start.AddDays(6), nil
	case PeriodMonthly:
		return endAfter(start, 0, 1), nil
	case PeriodYearly:
		return endAfter(start, 1, 0), nil
	}
	return calendar.Date{}, fmt.Errorf("unknown budget period %q", period)
}

func endAfter(start calendar.Date, years, months int) calendar.Date {
	// Normalize through the first of the month so the day never overflows.
	first := time.Date(start.Year+years, start.Month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	year, month := first.Year(), first.Month()

	last := calendar.DaysIn(year, month)
	if start.Day > last {
		return calendar.Date{Year: year, Month: month, Day: last}
	}
	return calendar.Date{Year: year, Month: month, Day: start.Day}.AddDays(-1)
}
