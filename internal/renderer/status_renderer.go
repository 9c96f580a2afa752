package renderer

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type statusRenderer struct {
	cache port.Cache
	ttl   time.Duration
}

// compile-time check: *statusRenderer must satisfy port.StatusRenderer
var _ port.StatusRenderer = (*statusRenderer)(nil)

// NewStatusRenderer serves status payloads from cache, falling back to the
// getter and caching its output for ttl.
func NewStatusRenderer(cache port.Cache, ttl time.Duration) port.StatusRenderer {
	return &statusRenderer{cache: cache, ttl: ttl}
}

// RenderStatus returns the JSON encoded status and a quoted ETag string.
// Status transitions drop the cached entry, so a hit is never stale.
func (r *statusRenderer) RenderStatus(ctx context.Context, getter port.StatusGetter, id uuid.UUID) ([]byte, string, error) {
	raw, etag, err := r.cache.GetImageStatus(ctx, id)
	if err == nil && raw != nil && etag != "" {
		return raw, etag, nil
	}

	out, err := getter.GetStatus(ctx, id)
	if err != nil {
		return nil, "", err
	}

	raw, err = json.Marshal(out)
	if err != nil {
		return nil, "", fmt.Errorf("json marshal: %w", err)
	}

	etag = fmt.Sprintf("\"%08x\"", crc32.ChecksumIEEE(raw))
	r.cache.SetImageStatus(ctx, id, raw, etag, r.ttl)

	return raw, etag, nil
}
