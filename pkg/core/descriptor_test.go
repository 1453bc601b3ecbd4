package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptor_HasAndGet(t *testing.T) {
	desc := Descriptor{
		ConnectKey: "mem:test",
		"custom":   "",
	}

	assert.True(t, desc.Has(ConnectKey))
	assert.True(t, desc.Has("custom"), "empty value still counts as present")
	assert.False(t, desc.Has(DriverKey))
	assert.Equal(t, "mem:test", desc.Get(ConnectKey))
	assert.Equal(t, "", desc.Get(DriverKey))
}

func TestDescriptor_Clone(t *testing.T) {
	desc := Descriptor{ConnectKey: "mem:test"}
	clone := desc.Clone()

	desc[ConnectKey] = "changed"
	assert.Equal(t, "mem:test", clone.Get(ConnectKey))
}

func TestDescriptor_KeysOmitValues(t *testing.T) {
	desc := Descriptor{PasswordKey: "secret", ConnectKey: "mem:test"}
	keys := desc.Keys()

	assert.Len(t, keys, 2)
	assert.Contains(t, keys, PasswordKey)
	assert.NotContains(t, keys, "secret")
}
