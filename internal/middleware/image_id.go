package middleware

import (
	"fmt"
	"net/http"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/handler/api"
	"github.com/fhuszti/images-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

// WithImageID parses the {id} route parameter and stores it in the request
// context, where handlers and the logger pick it up.
func WithImageID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := chi.URLParam(r, "id")
			if raw == "" {
				api.WriteError(w, http.StatusBadRequest, "ID is required", nil)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				api.WriteError(w, http.StatusBadRequest, fmt.Sprintf("ID %q is not a valid UUID", raw), nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(api_context.WithID(r.Context(), id)))
		})
	}
}
