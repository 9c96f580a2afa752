package image

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// imageStore writes transcoded output into the images bucket. Each record
// owns the single key "<id>/<filename>".
type imageStore struct {
	strg   port.Storage
	bucket string
}

func storedKey(id uuid.UUID, filename string) string {
	return id.String() + "/" + filename
}

func (s imageStore) save(ctx context.Context, id uuid.UUID, filename string, out *port.TranscodeOutput) (string, model.Metadata, error) {
	key := storedKey(id, filename)
	size := int64(len(out.Data))

	if err := s.strg.SaveFile(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(out.Data),
		size,
		map[string]string{
			"Content-Type": out.ContentType,
		},
	); err != nil {
		return "", model.Metadata{}, fmt.Errorf("%w: saving %q into bucket %q: %w", ErrTransientIO, key, s.bucket, err)
	}

	return key, model.Metadata{
		SourceWidth:  out.SourceWidth,
		SourceHeight: out.SourceHeight,
		Width:        out.Width,
		Height:       out.Height,
		SizeBytes:    size,
		MimeType:     out.ContentType,
	}, nil
}

// discard removes a stored object that could not be attached to its record.
func (s imageStore) discard(ctx context.Context, key string) {
	if err := s.strg.RemoveFile(ctx, s.bucket, key); err != nil {
		logger.Warnf(ctx, "failed removing orphan file %q from bucket %q: %v", key, s.bucket, err)
	}
}
