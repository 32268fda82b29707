package remote

import "git.cmcode.dev/cmcode/gamble-tracker-tui/models"

// RowsForm tells which shape a Rows value holds.
type RowsForm int

const (
	FormNamed RowsForm = iota
	FormPositional
)

// Rows is the input to PersistAll: either field-named records or positional
// cell arrays ordered by the table's columns. Build it with NamedRows or
// PositionalRows.
type Rows struct {
	form       RowsForm
	named      models.Snapshot
	positional [][]any
}

func NamedRows(s models.Snapshot) Rows {
	return Rows{form: FormNamed, named: s}
}

func PositionalRows(rows [][]any) Rows {
	return Rows{form: FormPositional, positional: rows}
}

func (r Rows) Form() RowsForm { return r.form }

func (r Rows) Len() int {
	if r.form == FormPositional {
		return len(r.positional)
	}

	return len(r.named)
}

// Normalize converts rows into field-named records for kind. The result is
// never nil, so an empty table is sent as [] rather than null.
func Normalize(kind models.Kind, rows Rows) models.Snapshot {
	var out models.Snapshot

	switch rows.form {
	case FormPositional:
		out = models.FromPositional(kind, rows.positional)
	default:
		out = rows.named
	}

	if out == nil {
		out = models.Snapshot{}
	}

	return out
}
