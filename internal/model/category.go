package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	UserID    uuid.UUID    `json:"user_id" db:"user_id"`
	Name      string       `json:"name" db:"name"`
	Rule      CategoryRule `json:"rule" db:"rule"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" db:"updated_at"`
}

// CategoryRule tunes how products of a category are pulled from the shelf.
type CategoryRule struct {
	NeedBuffer     bool `json:"need_buffer"`
	ScrapOnRemoval bool `json:"scrap_on_removal"`
}

// ParseCategoryRule decodes a stored rule blob. Missing or unreadable blobs
// yield the zero rule, which disables buffering.
func ParseCategoryRule(raw []byte) CategoryRule {
	var rule CategoryRule
	if len(raw) == 0 {
		return rule
	}
	if err := json.Unmarshal(raw, &rule); err != nil {
		return CategoryRule{}
	}
	return rule
}

// Scan implements [sql.Scanner] so rules can be read straight from JSONB
// columns, including NULL for products without a category.
func (r *CategoryRule) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = CategoryRule{}
	case []byte:
		*r = ParseCategoryRule(v)
	case string:
		*r = ParseCategoryRule([]byte(v))
	default:
		*r = CategoryRule{}
	}
	return nil
}
