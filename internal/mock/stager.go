package mock

import (
	"bytes"
	"io"
	"io/fs"
	"sync"
)

// Stager keeps staged uploads in memory.
type Stager struct {
	mu    sync.Mutex
	files map[string][]byte

	// StagePath is returned by Stage when set.
	StagePath string

	StageErr  error
	OpenErr   error
	ExistsErr error
	RemoveErr error

	Removed []string
}

// Put seeds a staged file.
func (m *Stager) Put(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = data
}

func (m *Stager) Stage(r io.Reader, originalName string) (string, error) {
	if m.StageErr != nil {
		return "", m.StageErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := m.StagePath
	if path == "" {
		path = "/staging/" + originalName
	}
	m.Put(path, data)
	return path, nil
}

func (m *Stager) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *Stager) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	_, ok := m.files[path]
	return ok, nil
}

func (m *Stager) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Removed = append(m.Removed, path)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.files, path)
	return nil
}
