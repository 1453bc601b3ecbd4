package core

import "slices"

// FieldKind identifies the type of a single option field.
type FieldKind string

const (
	KindString     FieldKind = "string"
	KindInt        FieldKind = "int"
	KindBool       FieldKind = "bool"
	KindStringList FieldKind = "list"
)

// ScheduleOption is the reserved option name carrying an optional cron
// schedule annotation. Backends validate its value on Create and Update.
const ScheduleOption = "schedule"

// Field is one value in a job's option bag: a tagged union over the
// supported kinds. Only the member matching Kind is meaningful.
type Field struct {
	Kind FieldKind
	Str  string
	Int  int64
	Bool bool
	List []string
}

// Equal reports whether two fields hold the same kind and value,
// including list element order.
func (f Field) Equal(other Field) bool {
	if f.Kind != other.Kind {
		return false
	}
	switch f.Kind {
	case KindString:
		return f.Str == other.Str
	case KindInt:
		return f.Int == other.Int
	case KindBool:
		return f.Bool == other.Bool
	case KindStringList:
		return slices.Equal(f.List, other.List)
	}
	return false
}

// JobRecord is a named, reusable invocation: a tool selector plus an
// option bag. Option order is the order options were set, and survives a
// round trip through storage. A record is a full snapshot; Update replaces
// it wholesale.
type JobRecord struct {
	tool  string
	names []string
	bag   map[string]Field
}

// NewJobRecord creates an empty record for the given tool.
func NewJobRecord(tool string) *JobRecord {
	return &JobRecord{tool: tool, bag: make(map[string]Field)}
}

// Tool returns the tool selector.
func (r *JobRecord) Tool() string { return r.tool }

func (r *JobRecord) set(name string, f Field) {
	if _, ok := r.bag[name]; !ok {
		r.names = append(r.names, name)
	}
	r.bag[name] = f
}

// SetString sets a string option.
func (r *JobRecord) SetString(name, v string) {
	r.set(name, Field{Kind: KindString, Str: v})
}

// SetInt sets an integer option.
func (r *JobRecord) SetInt(name string, v int64) {
	r.set(name, Field{Kind: KindInt, Int: v})
}

// SetBool sets a boolean option.
func (r *JobRecord) SetBool(name string, v bool) {
	r.set(name, Field{Kind: KindBool, Bool: v})
}

// SetStrings sets a string-list option. The slice is copied; element order
// is preserved through storage.
func (r *JobRecord) SetStrings(name string, v []string) {
	r.set(name, Field{Kind: KindStringList, List: slices.Clone(v)})
}

// Field returns the raw field for name.
func (r *JobRecord) Field(name string) (Field, bool) {
	f, ok := r.bag[name]
	return f, ok
}

// String returns a string option. ok is false when the option is absent or
// of another kind.
func (r *JobRecord) String(name string) (string, bool) {
	f, ok := r.bag[name]
	if !ok || f.Kind != KindString {
		return "", false
	}
	return f.Str, true
}

// Int returns an integer option.
func (r *JobRecord) Int(name string) (int64, bool) {
	f, ok := r.bag[name]
	if !ok || f.Kind != KindInt {
		return 0, false
	}
	return f.Int, true
}

// Bool returns a boolean option.
func (r *JobRecord) Bool(name string) (bool, bool) {
	f, ok := r.bag[name]
	if !ok || f.Kind != KindBool {
		return false, false
	}
	return f.Bool, true
}

// Strings returns a string-list option.
func (r *JobRecord) Strings(name string) ([]string, bool) {
	f, ok := r.bag[name]
	if !ok || f.Kind != KindStringList {
		return nil, false
	}
	return slices.Clone(f.List), true
}

// Names returns the option names in the order they were set.
func (r *JobRecord) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of options.
func (r *JobRecord) Len() int { return len(r.bag) }

// Equal reports whether two records hold the same tool and the same option
// bag. Option insertion order is not significant for equality, but list
// element order is.
func (r *JobRecord) Equal(other *JobRecord) bool {
	if other == nil || r.tool != other.tool || len(r.bag) != len(other.bag) {
		return false
	}
	for name, f := range r.bag {
		of, ok := other.bag[name]
		if !ok || !f.Equal(of) {
			return false
		}
	}
	return true
}
