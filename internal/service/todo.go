package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
	"github.com/tuanvumaihuynh/shelflife/pkg/expiry"
)

type CreateTodoParams struct {
	UserID       uuid.UUID
	Sku          string
	IntervalDays int
	Note         string
}

type TodoView struct {
	model.SkuTodo
	NextDue string `json:"next_due"`
	Due     bool   `json:"due"`
}

type TodoService interface {
	CreateTodo(ctx context.Context, params CreateTodoParams) (TodoView, error)
	ListTodos(ctx context.Context, userID uuid.UUID, dueOnly bool) ([]TodoView, error)
	MarkCounted(ctx context.Context, userID, id uuid.UUID) (TodoView, error)
	DeleteTodo(ctx context.Context, userID, id uuid.UUID) error
}

type todoService struct {
	todoRepo repository.SkuTodoRepository
	now      Clock
}

func NewTodoService(todoRepo repository.SkuTodoRepository, now Clock) TodoService {
	return &todoService{
		todoRepo: todoRepo,
		now:      now,
	}
}

func (s *todoService) view(todo model.SkuTodo) TodoView {
	today := s.now()
	return TodoView{
		SkuTodo: todo,
		NextDue: todo.NextDue(today).Format(time.DateOnly),
		Due:     todo.IsDue(today),
	}
}

func (s *todoService) CreateTodo(ctx context.Context, params CreateTodoParams) (TodoView, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return TodoView{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	todo := model.SkuTodo{
		ID:           id,
		UserID:       params.UserID,
		Sku:          params.Sku,
		IntervalDays: params.IntervalDays,
		Note:         params.Note,
		CreatedAt:    s.now(),
	}

	if err := s.todoRepo.CreateTodo(ctx, todo); err != nil {
		if db.IsUniqueViolation(err) {
			return TodoView{}, apperr.TodoExistsErr.WrapParent(err)
		}
		return TodoView{}, fmt.Errorf("sku todo repository create todo: %w", err)
	}

	return s.view(todo), nil
}

func (s *todoService) ListTodos(ctx context.Context, userID uuid.UUID, dueOnly bool) ([]TodoView, error) {
	todos, err := s.todoRepo.ListTodos(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sku todo repository list todos: %w", err)
	}

	views := make([]TodoView, 0, len(todos))
	for _, todo := range todos {
		v := s.view(todo)
		if dueOnly && !v.Due {
			continue
		}
		views = append(views, v)
	}

	return views, nil
}

func (s *todoService) MarkCounted(ctx context.Context, userID, id uuid.UUID) (TodoView, error) {
	if err := s.todoRepo.MarkTodoCounted(ctx, userID, id, expiry.Date(s.now())); err != nil {
		if db.IsNotFound(err) {
			return TodoView{}, apperr.TodoNotFoundErr.WrapParent(err)
		}
		return TodoView{}, fmt.Errorf("sku todo repository mark todo counted: %w", err)
	}

	todo, err := s.todoRepo.GetTodo(ctx, userID, id)
	if err != nil {
		return TodoView{}, fmt.Errorf("sku todo repository get todo: %w", err)
	}

	return s.view(todo), nil
}

func (s *todoService) DeleteTodo(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.todoRepo.DeleteTodo(ctx, userID, id); err != nil {
		if db.IsNotFound(err) {
			return apperr.TodoNotFoundErr.WrapParent(err)
		}
		return fmt.Errorf("sku todo repository delete todo: %w", err)
	}

	return nil
}
