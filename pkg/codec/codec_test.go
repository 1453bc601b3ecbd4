package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobmeta/metastore/pkg/core"
)

func intPtr(n int) *int { return &n }

func TestEncode_ScalarsAndLists(t *testing.T) {
	rec := core.NewJobRecord("import")
	rec.SetString("table", "orders")
	rec.SetInt("num-mappers", 4)
	rec.SetBool("append", false)
	rec.SetStrings("extra-args", []string{"--schema", "sales"})

	rows := Encode(rec)
	require.Len(t, rows, 5)

	assert.Equal(t, Row{Name: "table", Kind: "string", Value: "orders"}, rows[0])
	assert.Equal(t, Row{Name: "num-mappers", Kind: "int", Value: "4"}, rows[1])
	assert.Equal(t, Row{Name: "append", Kind: "bool", Value: "false"}, rows[2])

	require.NotNil(t, rows[3].Pos)
	require.NotNil(t, rows[4].Pos)
	assert.Equal(t, 0, *rows[3].Pos)
	assert.Equal(t, "--schema", rows[3].Value)
	assert.Equal(t, 1, *rows[4].Pos)
	assert.Equal(t, "sales", rows[4].Value)
}

func TestEncode_EmptyBag(t *testing.T) {
	rows := Encode(core.NewJobRecord("version"))
	assert.Empty(t, rows)
}

func TestDecode_RoundTrip(t *testing.T) {
	rec := core.NewJobRecord("import")
	rec.SetString("table", "orders")
	rec.SetInt("num-mappers", 4)
	rec.SetBool("append", true)
	rec.SetStrings("extra-args", []string{"--schema", "sales", "--verbose"})

	got, err := Decode("import", Encode(rec))
	require.NoError(t, err)
	assert.True(t, rec.Equal(got))
}

func TestDecode_ListOrderedByPosition(t *testing.T) {
	// Rows arrive out of order, as relational reads may deliver them.
	rows := []Row{
		{Name: "args", Kind: "list", Value: "third", Pos: intPtr(2)},
		{Name: "args", Kind: "list", Value: "first", Pos: intPtr(0)},
		{Name: "args", Kind: "list", Value: "second", Pos: intPtr(1)},
	}

	rec, err := Decode("import", rows)
	require.NoError(t, err)
	got, ok := rec.Strings("args")
	require.True(t, ok)
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestDecode_UnknownKindIgnored(t *testing.T) {
	rows := []Row{
		{Name: "table", Kind: "string", Value: "orders"},
		{Name: "future-option", Kind: "decimal", Value: "1.5"},
	}

	rec, err := Decode("import", rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Len())
	_, ok := rec.Field("future-option")
	assert.False(t, ok)
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
	}{
		{"non-integer int value", []Row{{Name: "n", Kind: "int", Value: "abc"}}},
		{"non-boolean bool value", []Row{{Name: "b", Kind: "bool", Value: "maybe"}}},
		{"scalar with position", []Row{{Name: "s", Kind: "string", Value: "x", Pos: intPtr(0)}}},
		{"list element without position", []Row{{Name: "l", Kind: "list", Value: "x"}}},
		{"duplicate scalar", []Row{
			{Name: "s", Kind: "string", Value: "x"},
			{Name: "s", Kind: "string", Value: "y"},
		}},
		{"scalar and list under one name", []Row{
			{Name: "s", Kind: "string", Value: "x"},
			{Name: "s", Kind: "list", Value: "y", Pos: intPtr(0)},
		}},
		{"list and scalar under one name", []Row{
			{Name: "s", Kind: "list", Value: "y", Pos: intPtr(0)},
			{Name: "s", Kind: "string", Value: "x"},
		}},
		{"duplicate list position", []Row{
			{Name: "l", Kind: "list", Value: "x", Pos: intPtr(0)},
			{Name: "l", Kind: "list", Value: "y", Pos: intPtr(0)},
		}},
		{"list position gap", []Row{
			{Name: "l", Kind: "list", Value: "x", Pos: intPtr(0)},
			{Name: "l", Kind: "list", Value: "y", Pos: intPtr(2)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("import", tt.rows)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrCorruptRecord), "want ErrCorruptRecord, got %v", err)
		})
	}
}

func TestDecode_NoRows(t *testing.T) {
	rec, err := Decode("version", nil)
	require.NoError(t, err)
	assert.Equal(t, "version", rec.Tool())
	assert.Equal(t, 0, rec.Len())
}
