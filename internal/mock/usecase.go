package mock

import (
	"context"
	"io"
	"sync"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// ImageIngester implements port.ImageIngester for tests.
type ImageIngester struct {
	Out port.IngestImageOutput
	Err error

	Called bool
	In     port.IngestImageInput
	Body   []byte
}

func (m *ImageIngester) IngestImage(ctx context.Context, in port.IngestImageInput) (port.IngestImageOutput, error) {
	m.Called = true
	m.In = in
	if in.Reader != nil {
		m.Body, _ = io.ReadAll(in.Reader)
	}
	return m.Out, m.Err
}

// ImportRequester implements port.ImportRequester for tests.
type ImportRequester struct {
	Out port.IngestImageOutput
	Err error

	Called bool
	In     port.RequestImportInput
}

func (m *ImportRequester) RequestImport(ctx context.Context, in port.RequestImportInput) (port.IngestImageOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// ImageProcessor implements port.ImageProcessor for tests.
type ImageProcessor struct {
	mu sync.Mutex

	Out port.ProcessImageOutput
	Err error

	Called bool
	Ins    []port.ProcessImageInput
}

func (m *ImageProcessor) ProcessImage(ctx context.Context, in port.ProcessImageInput) (port.ProcessImageOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called = true
	m.Ins = append(m.Ins, in)
	return m.Out, m.Err
}

// URLImporter implements port.URLImporter for tests.
type URLImporter struct {
	mu sync.Mutex

	Out port.FetchImageResult

	Called bool
	Ins    []port.FetchImageInput
}

func (m *URLImporter) FetchAndStore(ctx context.Context, in port.FetchImageInput) port.FetchImageResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called = true
	m.Ins = append(m.Ins, in)
	return m.Out
}

// StatusGetter implements port.StatusGetter for tests.
type StatusGetter struct {
	Out port.StatusOutput
	Err error

	Calls int
	GotID uuid.UUID
}

func (m *StatusGetter) GetStatus(ctx context.Context, id uuid.UUID) (port.StatusOutput, error) {
	m.Calls++
	m.GotID = id
	return m.Out, m.Err
}

// ImageLister implements port.ImageLister for tests.
type ImageLister struct {
	Out []port.StatusOutput
	Err error

	Called bool
	In     port.ListImagesInput
}

func (m *ImageLister) ListImages(ctx context.Context, in port.ListImagesInput) ([]port.StatusOutput, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// ImageDownloader implements port.ImageDownloader for tests.
type ImageDownloader struct {
	Out port.DownloadImageOutput
	Err error

	Called bool
	GotID  uuid.UUID
}

func (m *ImageDownloader) DownloadImage(ctx context.Context, id uuid.UUID) (port.DownloadImageOutput, error) {
	m.Called = true
	m.GotID = id
	return m.Out, m.Err
}

// ImageDeleter implements port.ImageDeleter for tests.
type ImageDeleter struct {
	Err error

	Called bool
	GotID  uuid.UUID
}

func (m *ImageDeleter) DeleteImage(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.GotID = id
	return m.Err
}
