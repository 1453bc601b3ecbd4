package core

import (
	"context"
	"time"
)

// JobMeta is the registry-level metadata for a stored job.
type JobMeta struct {
	// Name is the caller-chosen job name, unique across the metastore.
	Name string
	// ID is a metastore-generated UUID, stable for the lifetime of the
	// job even when names are reused after delete/create.
	ID string
	// Tool is the tool selector of the stored record.
	Tool string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Storage is the contract every metastore backend implements.
//
// A backend instance owns exactly one live connection between Open and
// Close and is not safe for concurrent use without external
// synchronization; use one instance per worker. Close then Open on the
// same instance starts a fresh session against a fresh connection.
type Storage interface {
	// CanAccept reports whether this backend can handle the descriptor.
	// It inspects key presence only and never opens a connection.
	CanAccept(desc Descriptor) bool

	// Open parses the descriptor, establishes the connection and ensures
	// the metastore schema exists. Connectivity and auth failures are
	// reported as ErrConnection.
	Open(ctx context.Context, desc Descriptor) error

	// Create stores a new job. Fails with ErrJobExists when the name is
	// taken. The whole record is inserted in one transaction.
	Create(ctx context.Context, name string, rec *JobRecord) error

	// Read returns the full stored record, including list options in
	// their original order. Fails with ErrJobNotFound when absent.
	Read(ctx context.Context, name string) (*JobRecord, error)

	// Update atomically replaces the stored record. Fails with
	// ErrJobNotFound when absent. No fields of the prior record survive.
	Update(ctx context.Context, name string, rec *JobRecord) error

	// Delete removes the job. Fails with ErrJobNotFound when absent.
	Delete(ctx context.Context, name string) error

	// List returns all stored job names in creation order.
	List(ctx context.Context) ([]string, error)

	// Describe returns registry metadata for one job without decoding the
	// option bag. Fails with ErrJobNotFound when absent.
	Describe(ctx context.Context, name string) (*JobMeta, error)

	// Close releases the connection. Subsequent operations fail with
	// ErrNotOpen until the backend is reopened.
	Close() error
}
