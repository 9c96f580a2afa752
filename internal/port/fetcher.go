package port

import (
	"context"
	"io"
)

// Fetcher downloads remote images.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error)
}
