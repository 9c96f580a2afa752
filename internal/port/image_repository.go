package port

import (
	"context"
	"time"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// ImageRepository defines persistence operations for image records.
// There is no unconditional update: every status change is a
// compare-and-swap on the current status.
type ImageRepository interface {
	Create(ctx context.Context, img *model.Image) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Image, error)
	// ConditionalUpdate persists img only if the stored status still equals
	// expected. It reports whether the row was updated.
	ConditionalUpdate(ctx context.Context, img *model.Image, expected model.ImageStatus) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*model.Image, error)
	ListByStatusBefore(ctx context.Context, status model.ImageStatus, before time.Time) ([]*model.Image, error)
}
