package mock

import (
	"context"
	"sync"

	"github.com/fhuszti/images-ms-go/internal/port"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

// Dispatcher implements port.TaskDispatcher for tests.
type Dispatcher struct {
	mu sync.Mutex

	ProcessCalled  bool
	ProcessTickets []port.ProcessTicket
	ProcessErr     error

	FetchCalled bool
	FetchIDs    []uuid.UUID
	FetchURLs   []string
	FetchErr    error
}

func (m *Dispatcher) EnqueueProcessImage(ctx context.Context, t port.ProcessTicket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProcessCalled = true
	m.ProcessTickets = append(m.ProcessTickets, t)
	return m.ProcessErr
}

func (m *Dispatcher) EnqueueFetchImage(ctx context.Context, id uuid.UUID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalled = true
	m.FetchIDs = append(m.FetchIDs, id)
	m.FetchURLs = append(m.FetchURLs, url)
	return m.FetchErr
}
