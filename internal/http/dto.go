package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type batchResponse struct {
	ID          uuid.UUID     `json:"id"`
	Sku         string        `json:"sku"`
	ProductName string        `json:"product_name"`
	ExpiryDate  types.Date    `json:"expiry_date"`
	Quantity    int           `json:"quantity"`
	SessionID   *uuid.UUID    `json:"session_id"`
	RemovalDate types.Date    `json:"removal_date"`
	Status      expiry.Status `json:"status"`
	DaysLeft    int           `json:"days_left"`
	CreatedAt   time.Time     `json:"created_at"`
}

func newBatchResponse(b service.ClassifiedBatch) batchResponse {
	return batchResponse{
		ID:          b.ID,
		Sku:         b.Sku,
		ProductName: b.ProductName,
		ExpiryDate:  types.Date{Time: b.ExpiryDate},
		Quantity:    b.Quantity,
		SessionID:   b.SessionID,
		RemovalDate: types.Date{Time: b.Expiry.RemovalDate},
		Status:      b.Expiry.Status,
		DaysLeft:    b.Expiry.DaysLeft,
		CreatedAt:   b.CreatedAt,
	}
}

func newBatchResponses(batches []service.ClassifiedBatch) []batchResponse {
	items := make([]batchResponse, 0, len(batches))
	for _, b := range batches {
		items = append(items, newBatchResponse(b))
	}
	return items
}

type productResponse struct {
	ID            uuid.UUID          `json:"id"`
	Sku           string             `json:"sku"`
	Name          string             `json:"name"`
	CategoryID    *uuid.UUID         `json:"category_id"`
	CategoryName  *string            `json:"category_name"`
	RemovalBuffer int                `json:"removal_buffer"`
	Rule          model.CategoryRule `json:"rule"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Batches       *[]batchResponse   `json:"batches,omitempty"`
}

func newProductResponse(p model.ProductWithRule) productResponse {
	return productResponse{
		ID:            p.ID,
		Sku:           p.Sku,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		CategoryName:  p.CategoryName,
		RemovalBuffer: p.RemovalBuffer,
		Rule:          p.Rule,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type sessionResponse struct {
	ID         uuid.UUID        `json:"id"`
	SessionKey string           `json:"session_key"`
	ItemCount  int              `json:"item_count"`
	CreatedAt  time.Time        `json:"created_at"`
	Batches    *[]batchResponse `json:"batches,omitempty"`
}

func newSessionResponse(s model.InventorySession) sessionResponse {
	return sessionResponse{
		ID:         s.ID,
		SessionKey: s.SessionKey,
		ItemCount:  s.ItemCount,
		CreatedAt:  s.CreatedAt,
	}
}

func newSessionDetailResponse(d service.SessionDetail) sessionResponse {
	res := newSessionResponse(d.InventorySession)
	batches := newBatchResponses(d.Batches)
	res.Batches = &batches
	return res
}

type todoResponse struct {
	ID            uuid.UUID   `json:"id"`
	Sku           string      `json:"sku"`
	IntervalDays  int         `json:"interval_days"`
	LastCountedOn *types.Date `json:"last_counted_on"`
	NextDue       string      `json:"next_due"`
	Due           bool        `json:"due"`
	Note          string      `json:"note"`
	CreatedAt     time.Time   `json:"created_at"`
}

func newTodoResponse(v service.TodoView) todoResponse {
	res := todoResponse{
		ID:           v.ID,
		Sku:          v.Sku,
		IntervalDays: v.IntervalDays,
		NextDue:      v.NextDue,
		Due:          v.Due,
		Note:         v.Note,
		CreatedAt:    v.CreatedAt,
	}
	if v.LastCountedOn != nil {
		res.LastCountedOn = &types.Date{Time: *v.LastCountedOn}
	}
	return res
}

func dateValue(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
