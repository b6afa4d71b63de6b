package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/shelflife/pkg/zerror"
)

func TestZErrorIs(t *testing.T) {
	notFound := zerror.NewNotFound("THING_NOT_FOUND", "thing not found")
	cause := errors.New("no rows")

	wrapped := fmt.Errorf("service: %w", notFound.WrapParent(cause))

	assert.ErrorIs(t, wrapped, notFound)
	assert.ErrorIs(t, wrapped, cause)
	assert.NotErrorIs(t, wrapped, zerror.NewNotFound("OTHER", "thing not found"))
	assert.NotErrorIs(t, wrapped, zerror.NewConflict("THING_NOT_FOUND", "thing not found"))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", zerror.StatusNotFound.String())
	assert.Equal(t, "UNKNOWN", zerror.Status(200).String())
}
