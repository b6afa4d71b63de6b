package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

type createCategoryRequest struct {
	Name string             `json:"name" validate:"required,max=100"`
	Rule model.CategoryRule `json:"rule"`
}

type updateCategoryRequest struct {
	Name *string             `json:"name" validate:"omitempty,min=1,max=100"`
	Rule *model.CategoryRule `json:"rule"`
}

func (s *Service) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	categories, err := s.svc.Category.ListCategories(r.Context(), userID)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}

	s.writeJSON(w, r, http.StatusOK, categories)
}

func (s *Service) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req createCategoryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	category, err := s.svc.Category.CreateCategory(r.Context(), service.CreateCategoryParams{
		UserID: userID,
		Name:   req.Name,
		Rule:   req.Rule,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, category)
}

func (s *Service) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	var req updateCategoryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	category, err := s.svc.Category.UpdateCategory(r.Context(), service.UpdateCategoryParams{
		UserID: userID,
		ID:     id,
		Name:   req.Name,
		Rule:   req.Rule,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Service) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.Category.DeleteCategory(r.Context(), userID, id); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
