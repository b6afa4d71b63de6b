package http

import (
	"net/http"

	"github.com/oapi-codegen/runtime/types"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type updateBatchRequest struct {
	ExpiryDate *types.Date `json:"expiry_date"`
	Quantity   *int        `json:"quantity" validate:"omitempty,gte=0,lte=1000000"`
}

type batchFilter struct {
	Status *expiry.Status `validate:"omitempty,enum"`
	Sku    *string        `validate:"omitempty,sku"`
}

func (s *Service) handleListBatches(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var filter batchFilter
	if err := queryParam(r, "status", &filter.Status); err != nil {
		s.handleResponseError(w, r, err)
		return
	}
	if err := queryParam(r, "sku", &filter.Sku); err != nil {
		s.handleResponseError(w, r, err)
		return
	}
	if err := s.validator.Validate(filter); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	batches, err := s.svc.Batch.ListBatches(r.Context(), service.ListBatchesParams{
		UserID: userID,
		Sku:    filter.Sku,
		Status: filter.Status,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newBatchResponses(batches))
}

func (s *Service) handleUpdateBatch(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	id, err := uuidPathParam(r, "id")
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req updateBatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	batch, err := s.svc.Batch.UpdateBatch(r.Context(), service.UpdateBatchParams{
		UserID:     userID,
		ID:         id,
		ExpiryDate: dateValue(req.ExpiryDate),
		Quantity:   req.Quantity,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newBatchResponse(batch))
}

func (s *Service) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	id, err := uuidPathParam(r, "id")
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	if err := s.svc.Batch.DeleteBatch(r.Context(), userID, id); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
