// Package storage provides the relational metastore backends.
//
// This package includes:
//   - SQLiteStorage: the default/auto-connect backend (file or in-memory)
//   - PostgresStorage: a backend for shared multi-host metastores
//   - GetStorage: the ordered-registry factory selecting a backend from a
//     descriptor
//
// Both backends share one GORM-based store; they differ only in how they
// recognize descriptors and build their dialector. The Storage interface
// is defined in pkg/core and can be implemented by custom backends.
//
// Most users should import the root package github.com/jobmeta/metastore
// which re-exports the factory.
package storage
