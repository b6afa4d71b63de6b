package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/shelflife/internal/service"
)

type createTodoRequest struct {
	Sku          string `json:"sku" validate:"required,sku"`
	IntervalDays int    `json:"interval_days" validate:"required,gte=1,lte=365"`
	Note         string `json:"note" validate:"max=500"`
}

func (s *Service) handleListTodos(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var due *bool
	if err := queryParam(r, "due", &due); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	todos, err := s.svc.Todo.ListTodos(r.Context(), userID, due != nil && *due)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	items := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		items = append(items, newTodoResponse(todo))
	}

	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Service) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	userID, err := authUserID(r)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	var req createTodoRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	todo, err := s.svc.Todo.CreateTodo(r.Context(), service.CreateTodoParams{
		UserID:       userID,
		Sku:          req.Sku,
		IntervalDays: req.IntervalDays,
		Note:         req.Note,
	})
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, newTodoResponse(todo))
}

func (s *Service) handleMarkTodoCounted(w http.ResponseWriter, r *http.Request) {
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

	todo, err := s.svc.Todo.MarkCounted(r.Context(), userID, id)
	if err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, newTodoResponse(todo))
}

func (s *Service) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
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

	if err := s.svc.Todo.DeleteTodo(r.Context(), userID, id); err != nil {
		s.handleResponseError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
