package storage

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"

	"github.com/jobmeta/metastore/pkg/core"
)

// SQLiteStorage is the default metastore backend: an embedded SQLite
// database, file-backed or in-memory. It is the catch-all in the factory
// registry and accepts any descriptor carrying the connect key.
type SQLiteStorage struct {
	gormStore
}

// NewSQLiteStorage returns an unopened SQLite backend.
func NewSQLiteStorage() *SQLiteStorage {
	return &SQLiteStorage{}
}

// CanAccept accepts any descriptor with the connect key present. The
// connect string's value is only validated on Open.
func (s *SQLiteStorage) CanAccept(desc core.Descriptor) bool {
	return desc.Has(core.ConnectKey)
}

// Open connects to the SQLite database named by the connect string and
// ensures the metastore schema exists.
func (s *SQLiteStorage) Open(ctx context.Context, desc core.Descriptor) error {
	desc = desc.Clone()
	return s.open(ctx, sqlite.Open(sqliteDSN(desc.Get(core.ConnectKey))), desc)
}

// sqliteDSN maps metastore connect strings to SQLite DSNs:
//
//	mem:<name>      shared in-memory database, alive while any handle is open
//	sqlite:<path>   explicit file path
//	anything else   passed through as-is (path or file: URI)
func sqliteDSN(connect string) string {
	switch {
	case strings.HasPrefix(connect, "mem:"):
		name := strings.TrimPrefix(connect, "mem:")
		if name == "" {
			name = "metastore"
		}
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	case strings.HasPrefix(connect, "sqlite:"):
		return strings.TrimPrefix(connect, "sqlite:")
	default:
		return connect
	}
}
