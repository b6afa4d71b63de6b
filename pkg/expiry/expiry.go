// Package expiry classifies batches by how close their removal date is.
package expiry

import (
	"fmt"
	"time"
)

// Status is the freshness of a batch relative to today.
type Status string

const (
	StatusExpired Status = "expired"
	StatusUrgent  Status = "urgent"
	StatusHealthy Status = "healthy"
)

// UrgentWindowDays is the number of days before the removal date during
// which a batch is reported as urgent.
const UrgentWindowDays = 30

const secondsPerDay = 24 * 60 * 60

// Validate implements the enum validation hook used by pkg/validator.
func (s Status) Validate() error {
	switch s {
	case StatusExpired, StatusUrgent, StatusHealthy:
		return nil
	default:
		return fmt.Errorf("unknown status: %s", string(s))
	}
}

// Result is the classification of one batch.
type Result struct {
	Status      Status    `json:"status"`
	RemovalDate time.Time `json:"-"`
	DaysLeft    int       `json:"days_left"`
}

// RemovalDateString returns the removal date as YYYY-MM-DD.
func (r Result) RemovalDateString() string {
	return r.RemovalDate.Format(time.DateOnly)
}

// Classify computes the status of a batch expiring on expiry. bufferDays is
// only subtracted when needBuffer is set. All values are reduced to calendar
// dates before comparing, so the time of day of today does not matter.
func Classify(expiry time.Time, bufferDays int, needBuffer bool, today time.Time) Result {
	if !needBuffer || bufferDays < 0 {
		bufferDays = 0
	}

	removal := Date(expiry).AddDate(0, 0, -bufferDays)
	daysLeft := DaysBetween(Date(today), removal)

	return Result{
		Status:      statusFor(daysLeft),
		RemovalDate: removal,
		DaysLeft:    daysLeft,
	}
}

func statusFor(daysLeft int) Status {
	switch {
	case daysLeft < 0:
		return StatusExpired
	case daysLeft < UrgentWindowDays:
		return StatusUrgent
	default:
		return StatusHealthy
	}
}

// Date truncates t to midnight UTC of its calendar date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b. Both values
// must already be dates as returned by Date.
func DaysBetween(a, b time.Time) int {
	// Unix seconds keep working past the ~292 year range of time.Duration.
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}
