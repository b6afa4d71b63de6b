package apicontract_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/shelflife/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	routes := []struct {
		path   string
		method string
	}{
		{"/api/v1/auth/register", http.MethodPost},
		{"/api/v1/auth/login", http.MethodPost},
		{"/api/v1/scan", http.MethodPost},
		{"/api/v1/sessions", http.MethodPost},
		{"/api/v1/sessions", http.MethodGet},
		{"/api/v1/sessions/{id}", http.MethodGet},
		{"/api/v1/batches", http.MethodGet},
		{"/api/v1/batches/{id}", http.MethodPatch},
		{"/api/v1/batches/{id}", http.MethodDelete},
		{"/api/v1/products", http.MethodGet},
		{"/api/v1/products/{sku}", http.MethodGet},
		{"/api/v1/products/{sku}", http.MethodPatch},
		{"/api/v1/products/{sku}", http.MethodDelete},
		{"/api/v1/categories", http.MethodGet},
		{"/api/v1/categories", http.MethodPost},
		{"/api/v1/categories/{id}", http.MethodPatch},
		{"/api/v1/categories/{id}", http.MethodDelete},
		{"/api/v1/todos", http.MethodGet},
		{"/api/v1/todos", http.MethodPost},
		{"/api/v1/todos/{id}/counted", http.MethodPost},
		{"/api/v1/todos/{id}", http.MethodDelete},
		{"/api/v1/summary", http.MethodGet},
		{"/healthz", http.MethodGet},
	}

	for _, rt := range routes {
		item := doc.Paths.Find(rt.path)
		require.NotNil(t, item, rt.path)
		assert.NotNil(t, item.GetOperation(rt.method), "%s %s", rt.method, rt.path)
	}
}
