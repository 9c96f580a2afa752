package model

import (
	"time"

	"github.com/fhuszti/images-ms-go/internal/uuid"
)

type ImageStatus string

const (
	ImageStatusPending    ImageStatus = "pending"
	ImageStatusProcessing ImageStatus = "processing"
	ImageStatusCompleted  ImageStatus = "completed"
	ImageStatusFailed     ImageStatus = "failed"
)

// IsTerminal reports whether no further transition may leave s.
func (s ImageStatus) IsTerminal() bool {
	return s == ImageStatusCompleted || s == ImageStatusFailed
}

// Image is one ingested image and its processing state.
// StoredFile is set if and only if Status is completed.
type Image struct {
	ID             uuid.UUID   `json:"id"`
	Status         ImageStatus `json:"status"`
	OriginalName   string      `json:"original_name"`
	SourceURL      *string     `json:"source_url,omitempty"`
	StagedPath     *string     `json:"-"`
	StoredFile     *string     `json:"stored_file,omitempty"`
	FailureMessage *string     `json:"failure_message,omitempty"`
	Metadata       Metadata    `json:"metadata"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
