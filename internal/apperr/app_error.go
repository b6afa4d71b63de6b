package apperr

import "github.com/tuanvumaihuynh/shelflife/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	UnauthorizedErr       = zerror.NewUnauthorized("UNAUTHORIZED", "missing or invalid credentials")
	InvalidCredentialsErr = zerror.NewUnauthorized("INVALID_CREDENTIALS", "invalid username or password")
	UsernameTakenErr      = zerror.NewConflict("USERNAME_TAKEN", "username is already taken")

	ProductNotFoundErr  = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
	BatchNotFoundErr    = zerror.NewNotFound("BATCH_NOT_FOUND", "batch not found")
	SessionNotFoundErr  = zerror.NewNotFound("SESSION_NOT_FOUND", "inventory session not found")
	CategoryNotFoundErr = zerror.NewNotFound("CATEGORY_NOT_FOUND", "category not found")
	TodoNotFoundErr     = zerror.NewNotFound("TODO_NOT_FOUND", "sku todo not found")

	SessionAlreadySubmittedErr = zerror.NewConflict("SESSION_ALREADY_SUBMITTED", "inventory session key was already submitted")
	CategoryNameTakenErr       = zerror.NewConflict("CATEGORY_NAME_TAKEN", "category name is already used")
	TodoExistsErr              = zerror.NewConflict("TODO_EXISTS", "a todo already exists for this sku")

	EmptySessionErr  = zerror.NewUnprocessableEntity("EMPTY_SESSION", "inventory session has no items")
	MissingSkuErr    = zerror.NewUnprocessableEntity("MISSING_SKU", "item has no sku")
	InvalidSkuErr    = zerror.NewUnprocessableEntity("INVALID_SKU", "item sku must be 1-64 letters, digits, dots, dashes or underscores")
	MissingExpiryErr = zerror.NewUnprocessableEntity("MISSING_EXPIRY_DATE", "item has no expiry date")

	NothingToUpdateErr = zerror.NewBadRequest("NOTHING_TO_UPDATE", "no fields to update")
)
