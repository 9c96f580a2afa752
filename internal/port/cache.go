package port

import (
	"context"
	"time"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// Cache keeps rendered status payloads and their ETag.
type Cache interface {
	// GetImageStatus returns nil data on a miss.
	GetImageStatus(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	SetImageStatus(ctx context.Context, id uuid.UUID, data []byte, etag string, ttl time.Duration)
	DeleteImageStatus(ctx context.Context, id uuid.UUID) error
}
