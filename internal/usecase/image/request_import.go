package image

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

type importRequesterSrv struct {
	repo       port.ImageRepository
	dispatcher port.TaskDispatcher
	genID      port.UUIDGen
}

// compile-time check: *importRequesterSrv must satisfy port.ImportRequester
var _ port.ImportRequester = (*importRequesterSrv)(nil)

func NewImportRequester(repo port.ImageRepository, d port.TaskDispatcher, genID port.UUIDGen) port.ImportRequester {
	return &importRequesterSrv{repo: repo, dispatcher: d, genID: genID}
}

func (s *importRequesterSrv) RequestImport(ctx context.Context, in port.RequestImportInput) (port.IngestImageOutput, error) {
	u, err := url.Parse(in.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return port.IngestImageOutput{}, &ValidationError{Violations: []string{"Image URL must be an absolute http or https URL."}}
	}

	sourceURL := u.String()
	img := &model.Image{
		ID:           s.genID(),
		Status:       model.ImageStatusPending,
		OriginalName: nameFromURL(sourceURL),
		SourceURL:    &sourceURL,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return port.IngestImageOutput{}, fmt.Errorf("creating record for %q: %w", sourceURL, err)
	}

	out := port.IngestImageOutput{ID: img.ID, Status: img.Status}
	if err := s.dispatcher.EnqueueFetchImage(ctx, img.ID, sourceURL); err != nil {
		logger.Warnf(ctx, "⚠️  import #%s accepted but not queued, left for the backlog: %v", img.ID, err)
		return out, nil
	}

	logger.Infof(ctx, "image #%s queued for import from %q", img.ID, sourceURL)
	return out, nil
}
