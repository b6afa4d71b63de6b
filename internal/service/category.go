package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/event"
	"github.com/tuanvumaihuynh/shelflife/internal/model"
	"github.com/tuanvumaihuynh/shelflife/internal/repository"
	"github.com/tuanvumaihuynh/shelflife/internal/storage/db"
)

type CreateCategoryParams struct {
	UserID uuid.UUID
	Name   string
	Rule   model.CategoryRule
}

type UpdateCategoryParams struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Name   *string
	Rule   *model.CategoryRule
}

type CategoryService interface {
	CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error)
	ListCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
	UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error)
	DeleteCategory(ctx context.Context, userID, id uuid.UUID) error
}

type categoryService struct {
	db            db.DB
	categoryRepo  repository.CategoryRepository
	outboxMsgRepo repository.OutboxMsgRepository
	now           Clock
}

func NewCategoryService(
	db db.DB,
	categoryRepo repository.CategoryRepository,
	outboxMsgRepo repository.OutboxMsgRepository,
	now Clock,
) CategoryService {
	return &categoryService{
		db:            db,
		categoryRepo:  categoryRepo,
		outboxMsgRepo: outboxMsgRepo,
		now:           now,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, params CreateCategoryParams) (model.Category, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Category{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := s.now()
	category := model.Category{
		ID:        id,
		UserID:    params.UserID,
		Name:      params.Name,
		Rule:      params.Rule,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return model.Category{}, apperr.CategoryNameTakenErr.WrapParent(err)
		}
		return model.Category{}, fmt.Errorf("category repository create category: %w", err)
	}

	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("category repository list categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory renames a category or replaces its rule. A rule change
// reclassifies every batch of the category's products.
func (s *categoryService) UpdateCategory(ctx context.Context, params UpdateCategoryParams) (model.Category, error) {
	if params.Name == nil && params.Rule == nil {
		return model.Category{}, apperr.NothingToUpdateErr
	}

	var updated model.Category
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.categoryRepo.
			WithDB(tx).
			UpdateCategory(ctx, repository.UpdateCategoryParams{
				UserID:    params.UserID,
				ID:        params.ID,
				Name:      params.Name,
				Rule:      params.Rule,
				UpdatedAt: s.now(),
			}); err != nil {
			switch {
			case db.IsNotFound(err):
				return apperr.CategoryNotFoundErr.WrapParent(err)
			case db.IsUniqueViolation(err):
				return apperr.CategoryNameTakenErr.WrapParent(err)
			}
			return fmt.Errorf("category repository update category: %w", err)
		}

		if params.Rule != nil {
			if err := enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
				event.TopicInventoryBatchesChanged, params.UserID, nil); err != nil {
				return err
			}
		}

		var err error
		updated, err = s.categoryRepo.
			WithDB(tx).
			GetCategory(ctx, params.UserID, params.ID)
		if err != nil {
			return fmt.Errorf("category repository get category: %w", err)
		}

		return nil
	}); err != nil {
		return model.Category{}, fmt.Errorf("db with tx: %w", err)
	}

	return updated, nil
}

// DeleteCategory removes the category. Its products keep existing without a
// category and lose the buffer rule.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.db.WithTx(ctx, func(tx db.DB) error {
		if err := s.categoryRepo.
			WithDB(tx).
			DeleteCategory(ctx, userID, id); err != nil {
			if db.IsNotFound(err) {
				return apperr.CategoryNotFoundErr.WrapParent(err)
			}
			return fmt.Errorf("category repository delete category: %w", err)
		}

		return enqueueInventoryChanged(ctx, s.outboxMsgRepo.WithDB(tx),
			event.TopicInventoryBatchesChanged, userID, nil)
	}); err != nil {
		return fmt.Errorf("db with tx: %w", err)
	}

	return nil
}
