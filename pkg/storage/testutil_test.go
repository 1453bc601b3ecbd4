package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobmeta/metastore/pkg/core"
)

// testDescriptor returns a descriptor for tests. When TEST_DATABASE_URL
// is set it points at PostgreSQL; otherwise at a file-backed SQLite
// database in a per-test temp dir.
func testDescriptor(t *testing.T) core.Descriptor {
	t.Helper()
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		return core.Descriptor{core.ConnectKey: dsn}
	}
	return core.Descriptor{core.ConnectKey: "sqlite:" + filepath.Join(t.TempDir(), "metastore.db")}
}

// openTestStorage selects and opens a backend for the test descriptor.
// Closed on test cleanup.
func openTestStorage(t *testing.T) core.Storage {
	t.Helper()
	return openWithDescriptor(t, testDescriptor(t))
}

func openWithDescriptor(t *testing.T, desc core.Descriptor) core.Storage {
	t.Helper()
	st, err := GetStorage(desc)
	require.NoError(t, err, "select backend")
	require.NoError(t, st.Open(context.Background(), desc), "open backend")

	// A shared PostgreSQL database carries state between runs; start each
	// test from a dropped schema. SQLite tests get a fresh temp file.
	if os.Getenv("TEST_DATABASE_URL") != "" {
		dropper, ok := st.(interface{ DropSchema(context.Context) error })
		require.True(t, ok, "backend supports schema drop")
		require.NoError(t, dropper.DropSchema(context.Background()))
		require.NoError(t, st.Close())
		require.NoError(t, st.Open(context.Background(), desc), "reopen after reset")
	}

	t.Cleanup(func() { _ = st.Close() })
	return st
}

// testRecord builds a representative record exercising every field kind.
func testRecord(table string) *core.JobRecord {
	rec := core.NewJobRecord("import")
	rec.SetString("table", table)
	rec.SetInt("num-mappers", 4)
	rec.SetBool("append", true)
	rec.SetStrings("extra-args", []string{"--schema", "sales", "--verbose"})
	return rec
}
