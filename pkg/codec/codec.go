package codec

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jobmeta/metastore/pkg/core"
)

// Row is one property row of a stored job record, independent of any
// particular backend's column types.
type Row struct {
	// Name is the option name.
	Name string
	// Kind tags the option kind; values match core.FieldKind. Unknown
	// tags are ignored on decode.
	Kind string
	// Value is the stringified option value, or one list element.
	Value string
	// Pos is the element position for list rows, nil for scalars.
	Pos *int
}

// Encode flattens a record's option bag into property rows, in option
// insertion order. List options produce one row per element.
func Encode(rec *core.JobRecord) []Row {
	rows := make([]Row, 0, rec.Len())
	for _, name := range rec.Names() {
		f, _ := rec.Field(name)
		switch f.Kind {
		case core.KindString:
			rows = append(rows, Row{Name: name, Kind: string(f.Kind), Value: f.Str})
		case core.KindInt:
			rows = append(rows, Row{Name: name, Kind: string(f.Kind), Value: strconv.FormatInt(f.Int, 10)})
		case core.KindBool:
			rows = append(rows, Row{Name: name, Kind: string(f.Kind), Value: strconv.FormatBool(f.Bool)})
		case core.KindStringList:
			for i, elem := range f.List {
				pos := i
				rows = append(rows, Row{Name: name, Kind: string(f.Kind), Value: elem, Pos: &pos})
			}
		}
	}
	return rows
}

// Decode rebuilds a record from its property rows. Row order determines
// option order except for list elements, which are ordered by position.
// Malformed rows fail with core.ErrCorruptRecord; rows with an unknown
// kind tag are skipped.
func Decode(tool string, rows []Row) (*core.JobRecord, error) {
	rec := core.NewJobRecord(tool)
	lists := map[string][]Row{}
	listOrder := []string{}

	for _, row := range rows {
		switch core.FieldKind(row.Kind) {
		case core.KindString, core.KindInt, core.KindBool:
			if row.Pos != nil {
				return nil, fmt.Errorf("%w: scalar option %q has a list position", core.ErrCorruptRecord, row.Name)
			}
			if _, ok := rec.Field(row.Name); ok {
				return nil, fmt.Errorf("%w: duplicate scalar option %q", core.ErrCorruptRecord, row.Name)
			}
			// Lists are assembled after the loop, so a preceding list row
			// lives in lists, not in the record yet.
			if _, ok := lists[row.Name]; ok {
				return nil, fmt.Errorf("%w: option %q stored as both scalar and list", core.ErrCorruptRecord, row.Name)
			}
			if err := setScalar(rec, row); err != nil {
				return nil, err
			}
		case core.KindStringList:
			if row.Pos == nil {
				return nil, fmt.Errorf("%w: list option %q element has no position", core.ErrCorruptRecord, row.Name)
			}
			if _, ok := rec.Field(row.Name); ok {
				return nil, fmt.Errorf("%w: option %q stored as both scalar and list", core.ErrCorruptRecord, row.Name)
			}
			if _, seen := lists[row.Name]; !seen {
				listOrder = append(listOrder, row.Name)
			}
			lists[row.Name] = append(lists[row.Name], row)
		default:
			// Unknown kind tag, written by a newer layout. Skip it.
		}
	}

	for _, name := range listOrder {
		elems, err := assembleList(name, lists[name])
		if err != nil {
			return nil, err
		}
		rec.SetStrings(name, elems)
	}
	return rec, nil
}

func setScalar(rec *core.JobRecord, row Row) error {
	switch core.FieldKind(row.Kind) {
	case core.KindString:
		rec.SetString(row.Name, row.Value)
	case core.KindInt:
		v, err := strconv.ParseInt(row.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: option %q holds non-integer value %q", core.ErrCorruptRecord, row.Name, row.Value)
		}
		rec.SetInt(row.Name, v)
	case core.KindBool:
		v, err := strconv.ParseBool(row.Value)
		if err != nil {
			return fmt.Errorf("%w: option %q holds non-boolean value %q", core.ErrCorruptRecord, row.Name, row.Value)
		}
		rec.SetBool(row.Name, v)
	}
	return nil
}

// assembleList orders list rows by position and checks the positions form
// a contiguous 0..n-1 run.
func assembleList(name string, rows []Row) ([]string, error) {
	sort.SliceStable(rows, func(i, j int) bool { return *rows[i].Pos < *rows[j].Pos })
	elems := make([]string, 0, len(rows))
	for i, row := range rows {
		if *row.Pos != i {
			return nil, fmt.Errorf("%w: list option %q has gap or duplicate at position %d", core.ErrCorruptRecord, name, *row.Pos)
		}
		elems = append(elems, row.Value)
	}
	return elems, nil
}
