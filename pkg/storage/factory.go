package storage

import (
	"fmt"

	"github.com/jobmeta/metastore/pkg/core"
)

// registry lists the backend constructors in selection order. Specific
// backends come first; SQLite is last because it accepts any descriptor
// with a connect key.
var registry = []func() core.Storage{
	func() core.Storage { return NewPostgresStorage() },
	func() core.Storage { return NewSQLiteStorage() },
}

// GetStorage returns the first registered backend that accepts the
// descriptor, not yet opened. Selection is deterministic: same descriptor,
// same backend. Fails with core.ErrNoStorage when nothing accepts.
func GetStorage(desc core.Descriptor) (core.Storage, error) {
	for _, newBackend := range registry {
		s := newBackend()
		if s.CanAccept(desc) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: descriptor keys %v", core.ErrNoStorage, desc.Keys())
}
