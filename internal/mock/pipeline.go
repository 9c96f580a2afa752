package mock

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/fhuszti/images-ms-go/internal/port"
)

// Transcoder implements port.Transcoder for tests.
type Transcoder struct {
	mu sync.Mutex

	Out *port.TranscodeOutput
	Err error

	// Block, when set, is received from before returning.
	Block chan struct{}

	Calls int
	Input []byte
}

func (m *Transcoder) Transcode(r io.Reader) (*port.TranscodeOutput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if m.Block != nil {
		<-m.Block
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Input = data
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Out != nil {
		return m.Out, nil
	}
	return &port.TranscodeOutput{
		Data:        []byte("webp"),
		ContentType: "image/webp",
		Extension:   ".webp",
		Width:       10,
		Height:      10,
	}, nil
}

func (m *Transcoder) Filename(original string) string {
	if i := strings.LastIndex(original, "."); i > 0 {
		original = original[:i]
	}
	return original + ".webp"
}

// Validator implements port.ImageValidator for tests.
type Validator struct {
	Violations []string
	Err        error

	Called bool
	Size   int64
}

func (m *Validator) Validate(r io.ReadSeeker, size int64) ([]string, error) {
	m.Called = true
	m.Size = size
	return m.Violations, m.Err
}

// Fetcher implements port.Fetcher for tests.
type Fetcher struct {
	Body []byte
	Err  error

	Called bool
	URL    string
}

func (m *Fetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	m.Called = true
	m.URL = rawURL
	if m.Err != nil {
		return nil, m.Err
	}
	return io.NopCloser(bytes.NewReader(m.Body)), nil
}

// EventPublisher records published events.
type EventPublisher struct {
	mu sync.Mutex

	Events []port.ImageProcessedEvent
	Err    error
	Closed bool
}

func (m *EventPublisher) PublishImageProcessed(ctx context.Context, e port.ImageProcessedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, e)
	return m.Err
}

func (m *EventPublisher) Close() error {
	m.Closed = true
	return nil
}
