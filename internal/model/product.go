package model

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Sku           string     `json:"sku" db:"sku"`
	Name          string     `json:"name" db:"name"`
	CategoryID    *uuid.UUID `json:"category_id" db:"category_id"`
	RemovalBuffer int        `json:"removal_buffer" db:"removal_buffer"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductWithRule is a product joined with its category rule.
type ProductWithRule struct {
	Product
	CategoryName *string      `json:"category_name" db:"category_name"`
	Rule         CategoryRule `json:"rule" db:"rule"`
}
