package api_context

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type ctxKey string

const IDKey ctxKey = "id"

// WithID returns a copy of ctx carrying the image id.
func WithID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, IDKey, id)
}

func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(IDKey).(uuid.UUID)
	return id, ok
}
