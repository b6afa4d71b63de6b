package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type Batch struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	ProductID  uuid.UUID  `json:"product_id" db:"product_id"`
	ExpiryDate time.Time  `json:"expiry_date" db:"expiry_date"`
	Quantity   int        `json:"quantity" db:"quantity"`
	SessionID  *uuid.UUID `json:"session_id" db:"session_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// BatchDetail is a batch joined with the product fields needed to classify it.
type BatchDetail struct {
	Batch
	Sku           string       `json:"sku" db:"sku"`
	ProductName   string       `json:"product_name" db:"product_name"`
	RemovalBuffer int          `json:"removal_buffer" db:"removal_buffer"`
	Rule          CategoryRule `json:"rule" db:"rule"`
}

// Classify derives the batch status as of today.
func (b BatchDetail) Classify(today time.Time) expiry.Result {
	return expiry.Classify(b.ExpiryDate, b.RemovalBuffer, b.Rule.NeedBuffer, today)
}
