package port

import "io"

// ImageValidator checks an upload against the configured image rules.
// It returns human-readable violations; an undecodable stream is an error.
type ImageValidator interface {
	Validate(r io.ReadSeeker, size int64) ([]string, error)
}
