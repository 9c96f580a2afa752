package mock

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// Cache implements port.Cache for tests.
type Cache struct {
	mu sync.Mutex

	// stored values
	StatusOut []byte
	EtagOut   string

	// captured inputs
	SetData []byte
	SetEtag string
	SetTTL  time.Duration
	Deleted []uuid.UUID

	// errors
	GetErr error
	DelErr error

	// call flags
	GetCalled bool
	SetCalled bool
	DelCalled bool
}

func (c *Cache) GetImageStatus(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GetCalled = true
	if c.GetErr != nil {
		return nil, "", c.GetErr
	}
	return c.StatusOut, c.EtagOut, nil
}

func (c *Cache) SetImageStatus(ctx context.Context, id uuid.UUID, data []byte, etag string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalled = true
	c.SetData = data
	c.SetEtag = etag
	c.SetTTL = ttl
}

func (c *Cache) DeleteImageStatus(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DelCalled = true
	c.Deleted = append(c.Deleted, id)
	return c.DelErr
}
