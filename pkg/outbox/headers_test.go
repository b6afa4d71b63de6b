package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/shelflife/pkg/correlationid"
	"github.com/tuanvumaihuynh/shelflife/pkg/outbox"
)

func TestHeadersRoundTrip(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "req-42")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "req-42", headers[correlationid.Header])

	out := outbox.ExtractContextFromHeaders(context.Background(), headers)
	id, ok := correlationid.FromContext(out)
	assert.True(t, ok)
	assert.Equal(t, "req-42", id)
}

func TestBuildHeadersWithoutCorrelationID(t *testing.T) {
	headers := outbox.BuildHeaders(context.Background())

	_, ok := headers[correlationid.Header]
	assert.False(t, ok)
}
