// Package core provides the fundamental types and interfaces for the metastore.
//
// This package contains:
//   - Descriptor, the string-keyed parameter map selecting a storage backend
//   - JobRecord, the named (tool, option bag) pair persisted by the metastore
//   - Storage interface defining the backend contract
//   - Error values shared by all backends
//
// Most users should import the root package github.com/jobmeta/metastore
// instead of this package directly.
package core
