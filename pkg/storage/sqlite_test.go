package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmeta/metastore/pkg/core"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		connect string
		want    string
	}{
		{"mem:test", "file:test?mode=memory&cache=shared"},
		{"mem:", "file:metastore?mode=memory&cache=shared"},
		{"sqlite:/var/lib/meta.db", "/var/lib/meta.db"},
		{"/var/lib/meta.db", "/var/lib/meta.db"},
		{"file:meta.db?mode=ro", "file:meta.db?mode=ro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.connect), "connect %q", tt.connect)
	}
}

func TestSQLite_UnreachableTarget(t *testing.T) {
	// A database file inside a directory that doesn't exist can't be
	// created, so Open must fail with the connection error.
	desc := core.Descriptor{
		core.ConnectKey: "sqlite:" + filepath.Join(t.TempDir(), "no-such-dir", "meta.db"),
	}
	st := NewSQLiteStorage()
	err := st.Open(context.Background(), desc)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConnection)
}

func TestSQLite_InMemoryScenario(t *testing.T) {
	// The auto-connect scenario: odd driver value, mem connect string.
	desc := core.Descriptor{
		core.ConnectKey:  "mem:scenario",
		core.UsernameKey: "SA",
		core.PasswordKey: "",
		core.DriverKey:   "x",
	}
	st, err := GetStorage(desc)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStorage{}, st)

	ctx := context.Background()
	require.NoError(t, st.Open(ctx, desc))
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Create(ctx, "job1", core.NewJobRecord("version")))

	names, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job1"}, names)

	err = st.Create(ctx, "job1", core.NewJobRecord("version"))
	assert.ErrorIs(t, err, core.ErrJobExists)

	require.NoError(t, st.Delete(ctx, "job1"))
	names, err = st.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
