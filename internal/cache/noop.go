package cache

import (
	"context"
	"time"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type NoopCache struct{}

// compile-time check: *NoopCache must satisfy port.Cache
var _ port.Cache = (*NoopCache)(nil)

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) GetImageStatus(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	return nil, "", nil // always cache miss
}

func (n *NoopCache) SetImageStatus(ctx context.Context, id uuid.UUID, data []byte, etag string, ttl time.Duration) {
}

func (n *NoopCache) DeleteImageStatus(ctx context.Context, id uuid.UUID) error { return nil }
