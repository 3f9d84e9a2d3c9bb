package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrUpstream indicates an external service (weather, completion,
	// embedding) was unreachable or returned a malformed response
	ErrUpstream = errors.New("upstream service error")
	// ErrStorage indicates the vector store was unreachable or a write failed
	ErrStorage = errors.New("storage error")
	// ErrConfigConflict indicates an existing collection has an incompatible
	// configuration (e.g. vector dimension mismatch)
	ErrConfigConflict = errors.New("collection configuration conflict")
	// ErrIngestion indicates a document could not be read or parsed
	ErrIngestion = errors.New("ingestion error")
	// ErrInvalidArgument indicates a caller error
	ErrInvalidArgument = errors.New("invalid argument")
)
