package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessImage = "image:process"
	TypeFetchImage   = "image:fetch"
)

// maxRetry bounds redeliveries; the handlers ack duplicates and terminal
// failures, so only transient errors are retried.
const maxRetry = 5

type ProcessImagePayload struct {
	ImageID      string `json:"image_id"`
	StagedPath   string `json:"staged_path"`
	OriginalName string `json:"original_name"`
}

type FetchImagePayload struct {
	ImageID string `json:"image_id"`
	URL     string `json:"url"`
}

// NewProcessImageTask creates an Asynq task carrying the claim ticket of a staged upload.
func NewProcessImageTask(p ProcessImagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal process-image payload: %w", err)
	}
	return asynq.NewTask(TypeProcessImage, data, asynq.MaxRetry(maxRetry)), nil
}

// ParseProcessImagePayload parses the task payload to ProcessImagePayload.
func ParseProcessImagePayload(t *asynq.Task) (ProcessImagePayload, error) {
	var p ProcessImagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return ProcessImagePayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}

// NewFetchImageTask creates an Asynq task for importing a remote image.
func NewFetchImageTask(p FetchImagePayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal fetch-image payload: %w", err)
	}
	return asynq.NewTask(TypeFetchImage, data, asynq.MaxRetry(maxRetry)), nil
}

func ParseFetchImagePayload(t *asynq.Task) (FetchImagePayload, error) {
	var p FetchImagePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return FetchImagePayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
