package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jobmeta/metastore/pkg/core"
)

// Descriptor extension keys tuning the single-connection pool. Optional;
// values are Go duration strings.
const (
	ConnMaxLifetimeKey = "metastore.conn.max-lifetime"
	ConnMaxIdleTimeKey = "metastore.conn.max-idle-time"
)

// applyConnLimits pins the pool to the one connection a backend instance
// owns and applies optional lifetime tuning from descriptor extension
// keys.
func applyConnLimits(sqlDB *sql.DB, desc core.Descriptor) error {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, key := range []string{ConnMaxLifetimeKey, ConnMaxIdleTimeKey} {
		v := desc.Get(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("descriptor key %s: %w", key, err)
		}
		switch key {
		case ConnMaxLifetimeKey:
			sqlDB.SetConnMaxLifetime(d)
		case ConnMaxIdleTimeKey:
			sqlDB.SetConnMaxIdleTime(d)
		}
	}
	return nil
}
