package core

// Descriptor keys understood by the bundled relational backends. Extra keys
// are backend-specific extensions and are passed through untouched.
const (
	ConnectKey  = "metastore.connect.string"
	UsernameKey = "metastore.username"
	PasswordKey = "metastore.password"
	DriverKey   = "metastore.driver"
)

// Descriptor is the string-keyed parameter map that selects and
// authenticates a storage backend. Keys are case-sensitive. The caller
// builds it once and hands it to the factory; backends treat it as
// read-only.
type Descriptor map[string]string

// Has reports whether the descriptor carries the given key, regardless of
// the value being syntactically valid. Backend selection is done purely on
// key presence; values are only checked on Open.
func (d Descriptor) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Get returns the value for key, or the empty string if absent.
func (d Descriptor) Get(key string) string {
	return d[key]
}

// Clone returns a copy of the descriptor. Backends clone on Open so a
// caller mutating the original map afterwards cannot affect an open
// session.
func (d Descriptor) Clone() Descriptor {
	out := make(Descriptor, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the descriptor's keys. Values are deliberately not exposed
// here so callers can report selection failures without leaking credentials.
func (d Descriptor) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}
