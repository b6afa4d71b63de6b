package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

const unknownRoute = "<unknown>"

// routePattern returns the chi pattern that matched r, e.g.
// /api/v1/batches/{id}. It is only complete after the router has run.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unknownRoute
}
