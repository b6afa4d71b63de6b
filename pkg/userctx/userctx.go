// Package userctx carries the authenticated user id through contexts.
package userctx

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewContext returns a copy of ctx carrying userID.
func NewContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// FromContext returns the user id stored in ctx, if any.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
