package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

type updateProductRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=200"`
	RemovalBuffer *int       `json:"removal_buffer" validate:"omitempty,gte=0,lte=3650"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
}

func (s *Service) handleListProducts(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	products, err := s.svc.Product.ListProducts(r.Context(), userID)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	items := make([]productResponse, 0, len(products))
	for _, p := range products {
		items = append(items, newProductResponse(p))
	}

	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Service) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	sku, err := skuPathParam(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	detail, err := s.svc.Product.GetProduct(r.Context(), userID, sku)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	res := newProductResponse(detail.ProductWithRule)
	batches := newBatchResponses(detail.Batches)
	res.Batches = &batches

	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Service) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	sku, err := skuPathParam(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	product, err := s.svc.Product.UpdateProduct(r.Context(), service.UpdateProductParams{
		UserID:        userID,
		Sku:           sku,
		Name:          req.Name,
		RemovalBuffer: req.RemovalBuffer,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newProductResponse(product))
}

func (s *Service) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	sku, err := skuPathParam(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	if err := s.svc.Product.DeleteProduct(r.Context(), userID, sku); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
