package budgeting

import (
	"strings"
	"time"

	"fintrack/internal/calendar"
)

// FallbackTimezone is used when no candidate timezone can be loaded.
const FallbackTimezone = "UTC"

// LocationLoader resolves an IANA timezone name. time.LoadLocation satisfies it.
type LocationLoader func(name string) (*time.Location, error)

// ResolveLocation returns the first candidate that load accepts. Empty names,
// "Local" and names load rejects are skipped. When nothing is usable the
// result is UTC.
func ResolveLocation(load LocationLoader, candidates ...string) *time.Location {
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" || name == "Local" {
			continue
		}
		loc, err := load(name)
		if err != nil || loc == nil {
			continue
		}
		return loc
	}
	return time.UTC
}

// ResolveEffectiveDate returns the calendar date at now in the first usable
// timezone among the user's preference, the request's timezone and the
// system default, in that order.
func ResolveEffectiveDate(now time.Time, load LocationLoader, userTZ, requestTZ, systemTZ string) calendar.Date {
	return calendar.Today(now, ResolveLocation(load, userTZ, requestTZ, systemTZ))
}

// DateResolver binds the clock, the zone database and the configured system
// default so services can ask for "today" without touching globals.
type DateResolver struct {
	Now             func() time.Time
	Load            LocationLoader
	DefaultTimezone string
}

// NewDateResolver returns a resolver backed by the wall clock and the
// system zone database.
func NewDateResolver(defaultTimezone string) *DateResolver {
	return &DateResolver{
		Now:             time.Now,
		Load:            time.LoadLocation,
		DefaultTimezone: defaultTimezone,
	}
}

// Today resolves the effective date for a user and request timezone.
func (r *DateResolver) Today(userTZ, requestTZ string) calendar.Date {
	return ResolveEffectiveDate(r.Now(), r.Load, userTZ, requestTZ, r.DefaultTimezone)
}
