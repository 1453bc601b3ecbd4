package core

import "errors"

// Error values returned by the factory and the storage backends. All of
// them are wrapped with call-site context, so match with errors.Is.
var (
	// ErrNoStorage is returned by the factory when no registered backend
	// accepts the descriptor.
	ErrNoStorage = errors.New("metastore: no storage backend accepts descriptor")

	// ErrConnection is returned by Open when the underlying connection
	// cannot be established (unreachable host, bad credentials, bad DSN).
	ErrConnection = errors.New("metastore: cannot connect")

	// ErrNotOpen is returned when an operation is attempted on a backend
	// that has not been opened, or has been closed.
	ErrNotOpen = errors.New("metastore: storage not open")

	// ErrJobExists is returned by Create when a job with the same name is
	// already stored.
	ErrJobExists = errors.New("metastore: job already exists")

	// ErrJobNotFound is returned by Read, Update, Delete and Describe when
	// no job with the given name is stored.
	ErrJobNotFound = errors.New("metastore: job not found")

	// ErrCorruptRecord is returned when stored rows cannot be decoded back
	// into a job record.
	ErrCorruptRecord = errors.New("metastore: corrupt job record")

	// ErrIncompatibleSchema is returned by Open when the metastore tables
	// exist but were written by a newer, unknown layout version.
	ErrIncompatibleSchema = errors.New("metastore: incompatible metastore schema")

	// ErrInvalidName is returned when a job name is empty.
	ErrInvalidName = errors.New("metastore: job name must not be empty")
)
