package image

import (
	"errors"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("storage: object not found")
	ErrBucketNotFound = errors.New("storage: bucket not found")
	ErrUnauthorized   = errors.New("storage: unauthorized")
	ErrInternal       = errors.New("storage: internal error")
)

var (
	ErrValidation     = errors.New("image: validation failed")
	ErrNotFound       = errors.New("image: record not found")
	ErrDecode         = errors.New("image: not a decodable image")
	ErrTransientIO    = errors.New("image: transient i/o failure")
	ErrRemoteStatus   = errors.New("image: remote responded with a non-success status")
	ErrCleanup        = errors.New("image: staging cleanup failed")
	ErrAlreadyClaimed = errors.New("image: record already claimed")
	ErrNotCompleted   = errors.New("image: processing not completed")
	ErrInProgress     = errors.New("image: processing still in progress")
)

// ValidationError lists every rule an upload broke.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "image: validation failed: " + strings.Join(e.Violations, " ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
