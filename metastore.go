// Package metastore durably stores named, reusable job definitions — a
// tool selector plus a full option set — so a batch tool can be invoked
// repeatedly by name, possibly from another process or host, against a
// shared relational backend.
//
// This is the main package users should import. It re-exports the public
// types from the pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	desc := metastore.Descriptor{
//	    metastore.ConnectKey: "mem:metastore",
//	}
//	st, _ := metastore.GetStorage(desc)
//	_ = st.Open(ctx, desc)
//	defer st.Close()
//
//	rec := metastore.NewJobRecord("import")
//	rec.SetString("table", "orders")
//	rec.SetStrings("extra-args", []string{"--schema", "sales"})
//	_ = st.Create(ctx, "nightly-orders", rec)
package metastore

import (
	"github.com/jobmeta/metastore/pkg/core"
	"github.com/jobmeta/metastore/pkg/storage"
)

// Type aliases re-exporting the core types.
type (
	// Descriptor is the string-keyed parameter map selecting and
	// authenticating a storage backend.
	Descriptor = core.Descriptor

	// JobRecord is a named, persisted (tool, option bag) pair.
	JobRecord = core.JobRecord

	// Field is one tagged option value.
	Field = core.Field

	// FieldKind identifies an option field's type.
	FieldKind = core.FieldKind

	// JobMeta is the registry-level metadata of a stored job.
	JobMeta = core.JobMeta

	// Storage is the contract every metastore backend implements.
	Storage = core.Storage

	// SQLiteStorage is the embedded default backend.
	SQLiteStorage = storage.SQLiteStorage

	// PostgresStorage is the shared-database backend.
	PostgresStorage = storage.PostgresStorage
)

// Descriptor keys.
const (
	ConnectKey  = core.ConnectKey
	UsernameKey = core.UsernameKey
	PasswordKey = core.PasswordKey
	DriverKey   = core.DriverKey
)

// Field kinds.
const (
	KindString     = core.KindString
	KindInt        = core.KindInt
	KindBool       = core.KindBool
	KindStringList = core.KindStringList
)

// ScheduleOption is the reserved option name carrying a cron annotation.
const ScheduleOption = core.ScheduleOption

// Error values.
var (
	ErrNoStorage          = core.ErrNoStorage
	ErrConnection         = core.ErrConnection
	ErrNotOpen            = core.ErrNotOpen
	ErrJobExists          = core.ErrJobExists
	ErrJobNotFound        = core.ErrJobNotFound
	ErrCorruptRecord      = core.ErrCorruptRecord
	ErrIncompatibleSchema = core.ErrIncompatibleSchema
	ErrInvalidName        = core.ErrInvalidName
)

// NewJobRecord creates an empty record for the given tool.
func NewJobRecord(tool string) *JobRecord {
	return core.NewJobRecord(tool)
}

// GetStorage selects the backend accepting the descriptor and returns it
// unopened. Fails with ErrNoStorage when no backend accepts.
func GetStorage(desc Descriptor) (Storage, error) {
	return storage.GetStorage(desc)
}

// NewSQLiteStorage returns an unopened SQLite backend.
func NewSQLiteStorage() *SQLiteStorage {
	return storage.NewSQLiteStorage()
}

// NewPostgresStorage returns an unopened PostgreSQL backend.
func NewPostgresStorage() *PostgresStorage {
	return storage.NewPostgresStorage()
}
