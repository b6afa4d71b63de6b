package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/pkg/recount"
)

type SkuTodo struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Sku           string     `json:"sku" db:"sku"`
	IntervalDays  int        `json:"interval_days" db:"interval_days"`
	LastCountedOn *time.Time `json:"last_counted_on" db:"last_counted_on"`
	Note          string     `json:"note" db:"note"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

func (t SkuTodo) NextDue(today time.Time) time.Time {
	return recount.NextDue(t.LastCountedOn, t.IntervalDays, today)
}

func (t SkuTodo) IsDue(today time.Time) bool {
	return recount.IsDue(t.LastCountedOn, t.IntervalDays, today)
}
