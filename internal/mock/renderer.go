package mock

import (
	"context"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// StatusRenderer implements port.StatusRenderer for tests.
type StatusRenderer struct {
	// stored values
	StatusOut []byte
	EtagOut   string

	// captured inputs
	GotID     uuid.UUID
	GotGetter port.StatusGetter

	// errors
	Err error

	// call flags
	Called bool
}

func (m *StatusRenderer) RenderStatus(ctx context.Context, getter port.StatusGetter, id uuid.UUID) ([]byte, string, error) {
	m.Called = true
	m.GotID = id
	m.GotGetter = getter
	return m.StatusOut, m.EtagOut, m.Err
}
