package model

import (
	"time"

	"github.com/google/uuid"
)

type InventorySession struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	SessionKey string    `json:"session_key" db:"session_key"`
	ItemCount  int       `json:"item_count" db:"item_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
