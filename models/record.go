package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Record is one row of a table: a flat mapping of field names to scalar
// values. Values decoded from the backend are float64, string, bool or nil.
type Record map[string]any

// Snapshot is the entire table at one point in time, in display order.
type Snapshot []Record

// Clone returns a copy of the record. Values are scalars, so a shallow copy
// of the map is a deep copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}

	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// ID returns the record's identifier, or 0 when it is absent or not a
// positive integer. 0 is never assigned by the server.
func (r Record) ID() int64 {
	if r == nil {
		return 0
	}

	return ToID(r[FieldID])
}

// ToID converts a loosely typed identifier value to an int64. Anything that
// is not a positive whole number yields 0.
func ToID(v any) int64 {
	var id int64

	switch t := v.(type) {
	case nil:
		return 0
	case int:
		id = int64(t)
	case int64:
		id = t
	case float64:
		if t != float64(int64(t)) {
			return 0
		}

		id = int64(t)
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0
		}

		id = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}

		id = i
	default:
		return 0
	}

	if id < 0 {
		return 0
	}

	return id
}

// Clone deep-copies the snapshot so that later mutation of the live table
// cannot alias the copy.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}

	out := make(Snapshot, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}

	return out
}

// Equal reports field-for-field equality between two snapshots.
func (s Snapshot) Equal(o Snapshot) bool {
	if len(s) != len(o) {
		return false
	}

	for i := range s {
		if len(s[i]) != len(o[i]) {
			return false
		}

		for k, v := range s[i] {
			ov, ok := o[i][k]
			if !ok || !reflect.DeepEqual(v, ov) {
				return false
			}
		}
	}

	return true
}

// Positional converts the snapshot into rows of cell values ordered by the
// kind's columns.
func (s Snapshot) Positional(kind Kind) [][]any {
	out := make([][]any, len(s))

	for i, r := range s {
		row := make([]any, len(kind.Columns))
		for j, col := range kind.Columns {
			row[j] = r[col.Field]
		}

		out[i] = row
	}

	return out
}

// FromPositional maps rows of cell values back onto the kind's field names.
// Cells past the last configured column are ignored; fields past the end of a
// short row are left unset.
func FromPositional(kind Kind, rows [][]any) Snapshot {
	out := make(Snapshot, len(rows))

	for i, row := range rows {
		r := make(Record, len(kind.Columns))

		for j, col := range kind.Columns {
			if j >= len(row) {
				break
			}

			r[col.Field] = row[j]
		}

		out[i] = r
	}

	return out
}

// String returns a cell value as display text. Whole numbers are printed
// without a fractional part.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}

		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
