package image

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type statusGetterSrv struct {
	repo port.ImageRepository
}

// compile-time check: *statusGetterSrv must satisfy port.StatusGetter
var _ port.StatusGetter = (*statusGetterSrv)(nil)

func NewStatusGetter(repo port.ImageRepository) port.StatusGetter {
	return &statusGetterSrv{repo}
}

func (s *statusGetterSrv) GetStatus(ctx context.Context, id uuid.UUID) (port.StatusOutput, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return port.StatusOutput{}, ErrNotFound
		}
		return port.StatusOutput{}, err
	}
	return toStatusOutput(img), nil
}

func toStatusOutput(img *model.Image) port.StatusOutput {
	out := port.StatusOutput{
		ID:             img.ID,
		Status:         img.Status,
		OriginalName:   img.OriginalName,
		SourceURL:      img.SourceURL,
		FailureMessage: img.FailureMessage,
		CreatedAt:      img.CreatedAt,
		UpdatedAt:      img.UpdatedAt,
	}
	if img.Status == model.ImageStatusCompleted {
		out.StoredFile = img.StoredFile
		meta := img.Metadata
		out.Metadata = &meta
	}
	return out
}
