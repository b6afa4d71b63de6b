// Package recount schedules periodic recount reminders for SKUs.
package recount

import (
	"time"

	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

// NextDue returns the date a SKU should next be counted. A SKU that was never
// counted is due today.
func NextDue(lastCounted *time.Time, intervalDays int, today time.Time) time.Time {
	if lastCounted == nil {
		return expiry.Date(today)
	}
	return expiry.Date(*lastCounted).AddDate(0, 0, intervalDays)
}

// IsDue reports whether the SKU should be counted today.
func IsDue(lastCounted *time.Time, intervalDays int, today time.Time) bool {
	return !expiry.Date(today).Before(NextDue(lastCounted, intervalDays, today))
}
