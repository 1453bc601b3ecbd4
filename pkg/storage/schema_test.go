package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jobmeta/metastore/pkg/core"
)

func openRawDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "schema.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func readRootProp(t *testing.T, db *gorm.DB, name string) string {
	t.Helper()
	var prop rootProperty
	require.NoError(t, db.First(&prop, "propname = ?", name).Error)
	return prop.PropVal
}

func TestEnsureSchema_CreatesTables(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ensureSchema(ctx, db))

	present, err := tablesPresent(db.Migrator())
	require.NoError(t, err)
	assert.True(t, present)

	assert.Equal(t, "1", readRootProp(t, db, versionProp))
	assert.NotEmpty(t, readRootProp(t, db, instanceProp))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ensureSchema(ctx, db))
	instance := readRootProp(t, db, instanceProp)

	require.NoError(t, ensureSchema(ctx, db))
	assert.Equal(t, instance, readRootProp(t, db, instanceProp), "instance id survives repeated ensures")
}

func TestEnsureSchema_NewerLayoutRejected(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	require.NoError(t, ensureSchema(ctx, db))

	require.NoError(t, db.Model(&rootProperty{}).Where("propname = ?", versionProp).Update("propval", "99").Error)

	err := ensureSchema(ctx, db)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrIncompatibleSchema))
}

func TestEnsureSchema_MangledVersionRejected(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	require.NoError(t, ensureSchema(ctx, db))

	require.NoError(t, db.Model(&rootProperty{}).Where("propname = ?", versionProp).Update("propval", "abc").Error)

	err := ensureSchema(ctx, db)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrIncompatibleSchema))
}

func TestDropSchema_DropsOnlyKnownTables(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	require.NoError(t, ensureSchema(ctx, db))

	// An unrelated table must survive the reset.
	require.NoError(t, db.Exec("CREATE TABLE unrelated (id INTEGER PRIMARY KEY)").Error)

	require.NoError(t, dropSchema(ctx, db))

	present, err := tablesPresent(db.Migrator())
	require.NoError(t, err)
	assert.False(t, present)
	assert.True(t, db.Migrator().HasTable("unrelated"))

	// Dropping an already-dropped schema is a no-op.
	require.NoError(t, dropSchema(ctx, db))
}

func TestEnsureSchema_RecreatesAfterDrop(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	require.NoError(t, ensureSchema(ctx, db))
	first := readRootProp(t, db, instanceProp)

	require.NoError(t, dropSchema(ctx, db))
	require.NoError(t, ensureSchema(ctx, db))

	second := readRootProp(t, db, instanceProp)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second, "a reset metastore is a new instance")
}
