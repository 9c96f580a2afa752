package image

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/port"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type imageListerSrv struct {
	repo port.ImageRepository
}

// compile-time check: *imageListerSrv must satisfy port.ImageLister
var _ port.ImageLister = (*imageListerSrv)(nil)

func NewImageLister(repo port.ImageRepository) port.ImageLister {
	return &imageListerSrv{repo}
}

func (s *imageListerSrv) ListImages(ctx context.Context, in port.ListImagesInput) ([]port.StatusOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(in.Offset, 0)

	imgs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]port.StatusOutput, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, toStatusOutput(img))
	}
	return out, nil
}
