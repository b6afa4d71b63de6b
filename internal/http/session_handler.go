package http

import (
	"net/http"

	"github.com/oapi-codegen/runtime/types"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

const defaultPageSize = 20

type sessionItemRequest struct {
	Code       *string     `json:"code" validate:"omitempty,max=512"`
	Sku        *string     `json:"sku" validate:"omitempty,sku"`
	ExpiryDate *types.Date `json:"expiry_date"`
	Quantity   int         `json:"quantity" validate:"gte=0,lte=1000000"`
}

type submitSessionRequest struct {
	SessionKey string               `json:"session_key" validate:"required,max=128"`
	Items      []sessionItemRequest `json:"items" validate:"max=1000,dive"`
}

type pageQuery struct {
	Limit  int32 `validate:"gte=1,lte=100"`
	Offset int32 `validate:"gte=0"`
}

func (s *Service) handleSubmitSession(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req submitSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	items := make([]service.SessionItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.SessionItem{
			Code:       item.Code,
			Sku:        item.Sku,
			ExpiryDate: dateValue(item.ExpiryDate),
			Quantity:   item.Quantity,
		})
	}

	detail, err := s.svc.Inventory.SubmitSession(r.Context(), service.SubmitSessionParams{
		UserID:     userID,
		SessionKey: req.SessionKey,
		Items:      items,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, newSessionDetailResponse(detail))
}

func (s *Service) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	page, err := s.pageQuery(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	sessions, err := s.svc.Inventory.ListSessions(r.Context(), service.ListSessionsParams{
		UserID: userID,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	items := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, newSessionResponse(session))
	}

	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Service) handleGetSession(w http.ResponseWriter, r *http.Request) {
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

	detail, err := s.svc.Inventory.GetSession(r.Context(), userID, id)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newSessionDetailResponse(detail))
}

func (s *Service) pageQuery(r *http.Request) (pageQuery, error) {
	var limit, offset *int32
	if err := queryParam(r, "limit", &limit); err != nil {
		return pageQuery{}, err
	}
	if err := queryParam(r, "offset", &offset); err != nil {
		return pageQuery{}, err
	}

	page := pageQuery{Limit: defaultPageSize}
	if limit != nil {
		page.Limit = *limit
	}
	if offset != nil {
		page.Offset = *offset
	}

	if err := s.validator.Validate(page); err != nil {
		return pageQuery{}, err
	}

	return page, nil
}
