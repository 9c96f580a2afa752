package port

import (
	"context"
	"io"
	"time"

	"github.com/fhuszti/images-ms-go/internal/model"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// ImageIngester validates an upload, stages it, records it as pending and
// hands the claim ticket to the job queue.
type ImageIngester interface {
	IngestImage(ctx context.Context, in IngestImageInput) (IngestImageOutput, error)
}
type IngestImageInput struct {
	Reader       io.ReadSeeker
	Size         int64
	OriginalName string
}
type IngestImageOutput struct {
	ID         uuid.UUID         `json:"id"`
	Status     model.ImageStatus `json:"status"`
	StagedPath string            `json:"-"`
}

// ImportRequester records a remote image as pending and schedules its fetch.
type ImportRequester interface {
	RequestImport(ctx context.Context, in RequestImportInput) (IngestImageOutput, error)
}
type RequestImportInput struct {
	URL string
}

// ImageProcessor runs one processing attempt for a staged upload.
type ImageProcessor interface {
	ProcessImage(ctx context.Context, in ProcessImageInput) (ProcessImageOutput, error)
}
type ProcessImageInput struct {
	ID           uuid.UUID
	StagedPath   string
	OriginalName string
}
type ProcessImageOutput struct {
	ID     uuid.UUID         `json:"id"`
	Status model.ImageStatus `json:"status"`
	Error  string            `json:"error,omitempty"`
}

// URLImporter fetches a remote image and stores it as the record's file.
type URLImporter interface {
	FetchAndStore(ctx context.Context, in FetchImageInput) FetchImageResult
}
type FetchImageInput struct {
	ID  uuid.UUID
	URL string
}

// FetchImageResult keeps the coarse success flag; Err tells remote failures
// apart from undecodable payloads.
type FetchImageResult struct {
	ID     uuid.UUID
	OK     bool
	Status model.ImageStatus
	Err    error
}

// StatusGetter returns the current state of a record.
type StatusGetter interface {
	GetStatus(ctx context.Context, id uuid.UUID) (StatusOutput, error)
}
type StatusOutput struct {
	ID             uuid.UUID         `json:"id"`
	Status         model.ImageStatus `json:"status"`
	OriginalName   string            `json:"original_name"`
	SourceURL      *string           `json:"source_url,omitempty"`
	StoredFile     *string           `json:"stored_file,omitempty"`
	FailureMessage *string           `json:"failure_message,omitempty"`
	Metadata       *model.Metadata   `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ImageLister pages through all records, newest first.
type ImageLister interface {
	ListImages(ctx context.Context, in ListImagesInput) ([]StatusOutput, error)
}
type ListImagesInput struct {
	Limit  int
	Offset int
}

// ImageDownloader opens the stored file of a completed record.
type ImageDownloader interface {
	DownloadImage(ctx context.Context, id uuid.UUID) (DownloadImageOutput, error)
}
type DownloadImageOutput struct {
	Status      model.ImageStatus
	File        io.ReadSeekCloser
	Filename    string
	ContentType string
	SizeBytes   int64
	ModTime     time.Time
}

// ImageDeleter removes a record and its stored file.
type ImageDeleter interface {
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// BacklogRequeuer recovers records left behind by lost enqueues or crashed workers.
type BacklogRequeuer interface {
	RequeueBacklog(ctx context.Context, in RequeueBacklogInput) (RequeueBacklogOutput, error)
}
type RequeueBacklogInput struct {
	PendingBefore    time.Time
	ProcessingBefore time.Time
}
type RequeueBacklogOutput struct {
	Requeued int
	Failed   int
}

// StatusRenderer serves status payloads from cache with an ETag.
type StatusRenderer interface {
	RenderStatus(ctx context.Context, getter StatusGetter, id uuid.UUID) ([]byte, string, error)
}
