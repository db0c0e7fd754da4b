package pipeline

import "errors"

var (
	// ErrConfiguration is returned when a namespace cannot be built from the given parameters.
	ErrConfiguration = errors.New("pipeline: configuration error")
	// ErrStorageUnavailable wraps backend failures of fail-fast operations (find, has, delete, clear).
	ErrStorageUnavailable = errors.New("pipeline: storage unavailable")
	// ErrUnsupported is returned by operations the backend contract cannot serve.
	ErrUnsupported = errors.New("pipeline: unsupported operation")
	// ErrUnknownField is returned when a field filter names a group the pattern does not declare.
	ErrUnknownField = errors.New("pipeline: unknown capture group")
	// ErrInvalidPattern is returned when a pattern or a field filter does not compile.
	ErrInvalidPattern = errors.New("pipeline: invalid pattern")
	// ErrObjectNotFound is returned by backends when an object does not exist.
	ErrObjectNotFound = errors.New("pipeline: object not found")
	// ErrContainerNotEmpty is returned when a non-forced container deletion finds objects.
	ErrContainerNotEmpty = errors.New("pipeline: container not empty")
)
