package image

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/logger"
	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/port"
)

type urlImporterSrv struct {
	repo    port.ImageRepository
	fetcher port.Fetcher
	tc      port.Transcoder
	store   imageStore
	lc      *lifecycle
}

// compile-time check: *urlImporterSrv must satisfy port.URLImporter
var _ port.URLImporter = (*urlImporterSrv)(nil)

func NewURLImporter(
	repo port.ImageRepository,
	fetcher port.Fetcher,
	tc port.Transcoder,
	strg port.Storage,
	bucket string,
	cache port.Cache,
	events port.EventPublisher,
) port.URLImporter {
	return &urlImporterSrv{
		repo:    repo,
		fetcher: fetcher,
		tc:      tc,
		store:   imageStore{strg: strg, bucket: bucket},
		lc:      newLifecycle(repo, cache, events),
	}
}

// FetchAndStore downloads in.URL, transcodes it and attaches the result to
// the record. The stored file is written in a single put once the output is
// complete, so a failed attempt never leaves a partial file behind.
func (s *urlImporterSrv) FetchAndStore(ctx context.Context, in port.FetchImageInput) port.FetchImageResult {
	ctx = api_context.WithID(ctx, in.ID)
	res := port.FetchImageResult{ID: in.ID}

	img, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			res.Err = ErrNotFound
		} else {
			res.Err = fmt.Errorf("%w: loading image %q: %w", ErrTransientIO, in.ID, err)
		}
		return res
	}
	res.Status = img.Status

	if err := s.lc.claim(ctx, img); err != nil {
		res.Err = err
		return res
	}

	if err := s.fetchTranscodeAndStore(ctx, img, in.URL); err != nil {
		logger.Errorf(ctx, "❌  Importing image #%s from %q failed: %v", img.ID, in.URL, err)
		if fErr := s.lc.fail(ctx, img, err.Error()); fErr != nil {
			logger.Errorf(ctx, "❌  Marking image #%s as failed: %v", img.ID, fErr)
		}
		res.Status = model.ImageStatusFailed
		res.Err = err
		return res
	}

	res.OK = true
	res.Status = img.Status
	return res
}

func (s *urlImporterSrv) fetchTranscodeAndStore(ctx context.Context, img *model.Image, rawURL string) error {
	body, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetching %q: %w", rawURL, err)
	}
	defer func() {
		if err := body.Close(); err != nil {
			logger.Warnf(ctx, "failed to close response body of %q: %v", rawURL, err)
		}
	}()

	out, err := s.tc.Transcode(body)
	if err != nil {
		return fmt.Errorf("transcoding %q: %w", rawURL, err)
	}

	key, meta, err := s.store.save(ctx, img.ID, s.tc.Filename(nameFromURL(rawURL)), out)
	if err != nil {
		return err
	}

	if err := s.lc.complete(ctx, img, key, meta); err != nil {
		s.store.discard(ctx, key)
		return err
	}
	return nil
}
