// Package store defines the narrow contract to the external tabular store
// backing the bot (a spreadsheet-like service accessed read/write by range),
// plus the production Google Sheets adapter.
//
// The core logic only ever sees this interface; tests substitute an in-memory
// fake. Persistence engine design is explicitly out of scope: tables, ranges
// and formula evaluation all belong to the external service.
package store

import "context"

// RangeOrigin parses the top-left cell of an A1-style range spec into its
// 1-based row and column, e.g. "U2:AB" yields (2, 21). A spec without a
// leading cell reference yields (1, 1).
func RangeOrigin(rangeSpec string) (row, col int) {
	row, col = 1, 1
	i := 0
	c := 0
	for i < len(rangeSpec) && rangeSpec[i] >= 'A' && rangeSpec[i] <= 'Z' {
		c = c*26 + int(rangeSpec[i]-'A') + 1
		i++
	}
	if c > 0 {
		col = c
	}
	r := 0
	for i < len(rangeSpec) && rangeSpec[i] >= '0' && rangeSpec[i] <= '9' {
		r = r*10 + int(rangeSpec[i]-'0')
		i++
	}
	if r > 0 {
		row = r
	}
	return row, col
}

// CellUpdate addresses a single cell write. Row and Col are 1-based, matching
// spreadsheet conventions. Value may be a formula string; the store evaluates
// it (the adapter submits values as user-entered input).
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// Store is the tabular collaborator contract. A table id is the worksheet
// name; a range spec is an A1-style range within it.
type Store interface {
	// GetRange returns the ordered rows of ordered cells within the range.
	// Trailing empty cells may be absent, as spreadsheet APIs trim them.
	GetRange(ctx context.Context, table, rangeSpec string) ([][]string, error)

	// InsertRow inserts values as a new row at the given 1-based position,
	// shifting existing rows down.
	InsertRow(ctx context.Context, table string, values []string, index int) error

	// AppendRow appends values after the last non-empty row of the table.
	AppendRow(ctx context.Context, table string, values []string) error

	// UpdateCells applies the cell writes in one batch. Formula strings are
	// evaluated by the store.
	UpdateCells(ctx context.Context, table string, updates []CellUpdate) error

	// FindRowsByColumnValue returns the 1-based positions of rows whose cell
	// in the given 1-based column equals value exactly.
	FindRowsByColumnValue(ctx context.Context, table, value string, column int) ([]int, error)

	// RowCount returns the total number of rows the table currently holds.
	RowCount(ctx context.Context, table string) (int, error)
}
