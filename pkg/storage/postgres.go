package storage

import (
	"context"
	"net/url"
	"strings"

	"gorm.io/driver/postgres"

	"github.com/jobmeta/metastore/pkg/core"
)

// PostgresStorage backs the metastore with PostgreSQL, for metastores
// shared between hosts. Registered ahead of the SQLite catch-all.
type PostgresStorage struct {
	gormStore
}

// NewPostgresStorage returns an unopened PostgreSQL backend.
func NewPostgresStorage() *PostgresStorage {
	return &PostgresStorage{}
}

// CanAccept accepts descriptors whose connect string carries a postgres
// URL scheme, or whose driver key names a postgres driver. Value validity
// beyond the scheme is only checked on Open.
func (s *PostgresStorage) CanAccept(desc core.Descriptor) bool {
	if !desc.Has(core.ConnectKey) {
		return false
	}
	connect := desc.Get(core.ConnectKey)
	if strings.HasPrefix(connect, "postgres://") || strings.HasPrefix(connect, "postgresql://") {
		return true
	}
	switch desc.Get(core.DriverKey) {
	case "postgres", "postgresql", "pgx":
		return true
	}
	return false
}

// Open connects to PostgreSQL and ensures the metastore schema exists.
func (s *PostgresStorage) Open(ctx context.Context, desc core.Descriptor) error {
	desc = desc.Clone()
	return s.open(ctx, postgres.Open(postgresDSN(desc)), desc)
}

// postgresDSN injects the descriptor's credentials into URL-style connect
// strings that don't already carry userinfo. Non-URL DSNs pass through.
func postgresDSN(desc core.Descriptor) string {
	connect := desc.Get(core.ConnectKey)
	u, err := url.Parse(connect)
	if err != nil || u.Scheme == "" || u.User != nil || !desc.Has(core.UsernameKey) {
		return connect
	}
	if desc.Has(core.PasswordKey) {
		u.User = url.UserPassword(desc.Get(core.UsernameKey), desc.Get(core.PasswordKey))
	} else {
		u.User = url.User(desc.Get(core.UsernameKey))
	}
	return u.String()
}
