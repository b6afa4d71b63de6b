package http

import (
	"net/http"

	"github.com/oapi-codegen/runtime/types"

	"github.com/tuanvumaihuynh/shelflife/pkg/barcode"
)

type scanRequest struct {
	Code string `json:"code" validate:"required,max=512"`
}

type scanResponse struct {
	Format         barcode.Format   `json:"format"`
	Sku            string           `json:"sku"`
	ExpiryDate     *types.Date      `json:"expiryDate"`
	ProductionDate *types.Date      `json:"production_date"`
	Product        *productResponse `json:"product"`
	Batches        []batchResponse  `json:"batches"`
}

func (s *Service) handleScan(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req scanRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	res, err := s.svc.Scan.Lookup(r.Context(), userID, req.Code)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	body := scanResponse{
		Format:  res.Parsed.Format,
		Sku:     res.Parsed.SKU,
		Batches: newBatchResponses(res.Batches),
	}
	if res.Parsed.ExpiryDate != nil {
		body.ExpiryDate = &types.Date{Time: *res.Parsed.ExpiryDate}
	}
	if res.Parsed.ProductionDate != nil {
		body.ProductionDate = &types.Date{Time: *res.Parsed.ProductionDate}
	}
	if res.Product != nil {
		p := newProductResponse(*res.Product)
		body.Product = &p
	}

	s.writeJSON(w, r, http.StatusOK, body)
}
