package port

import "io"

// Stager persists raw uploads until the worker picks them up.
type Stager interface {
	Stage(r io.Reader, originalName string) (string, error)
	Open(path string) (io.ReadCloser, error)
	Exists(path string) (bool, error)
	Remove(path string) error
}
