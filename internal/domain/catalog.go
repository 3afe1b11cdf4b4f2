// Package domain defines the core data types of the report bot: the typed
// rows of the external spreadsheet tables, the persisted report record, the
// per-user session, and the local journal models.
//
// The external store hands back untyped rows of cells. Each table gets a
// named-field record type with a constructor that validates the column count
// at load time, so shape errors surface at the fetch boundary instead of as
// index panics deep inside menu rendering.
package domain

import "strings"

// SentinelModelRow marks the metadata row of the models column. It is never a
// selectable value.
const SentinelModelRow = "@last_update"

// GroupSeparator joins hierarchical group path segments inside a single cell.
const GroupSeparator = ";"

// ModelRow is one row of the models column: a single display name.
type ModelRow struct {
	Name string
}

// NewModelRow builds a ModelRow from raw cells. Empty rows yield a row with
// an empty name, which callers skip.
func NewModelRow(cells []string) ModelRow {
	if len(cells) == 0 {
		return ModelRow{}
	}
	return ModelRow{Name: cells[0]}
}

// Sentinel reports whether the row is the metadata marker.
func (m ModelRow) Sentinel() bool { return m.Name == SentinelModelRow }

// QuestionRow is one row of the questions table: a model name plus the group
// path split into its segments. The raw second cell is semicolon-delimited;
// splitting happens once here, at load time, never on read.
type QuestionRow struct {
	Model  string
	Groups []string
}

// NewQuestionRow builds a QuestionRow from raw cells, splitting the group
// path cell on the separator. Rows narrower than two cells produce no groups.
func NewQuestionRow(cells []string) QuestionRow {
	r := QuestionRow{}
	if len(cells) > 0 {
		r.Model = cells[0]
	}
	if len(cells) > 1 {
		r.Groups = strings.Split(cells[1], GroupSeparator)
	}
	return r
}

// GroupPrefix returns the first n group segments joined back with the
// separator, or "" if the row is shallower than n.
func (q QuestionRow) GroupPrefix(n int) string {
	if n <= 0 || len(q.Groups) < n {
		return ""
	}
	return strings.Join(q.Groups[:n], GroupSeparator)
}

// QuestionDetailRow is one row of the question-details table: the leaf
// operations selectable under a (model, group) pair. Hidden rows carry a
// non-empty flag in the eighth column and are excluded from menus.
type QuestionDetailRow struct {
	Model     string
	Group     string
	Operation string
	Hidden    bool
}

// NewQuestionDetailRow builds a QuestionDetailRow from raw cells. Rows with
// fewer than three cells are malformed and reported via ok=false.
func NewQuestionDetailRow(cells []string) (QuestionDetailRow, bool) {
	if len(cells) < 3 {
		return QuestionDetailRow{}, false
	}
	r := QuestionDetailRow{Model: cells[0], Group: cells[1], Operation: cells[2]}
	if len(cells) > 7 && strings.TrimSpace(cells[7]) != "" {
		r.Hidden = true
	}
	return r, true
}

// SettingRow is one row of the settings table: a key followed by its values.
type SettingRow struct {
	Key    string
	Values []string
}

// NewSettingRow builds a SettingRow from raw cells.
func NewSettingRow(cells []string) SettingRow {
	r := SettingRow{}
	if len(cells) > 0 {
		r.Key = cells[0]
	}
	if len(cells) > 1 {
		r.Values = cells[1:]
	}
	return r
}

// Value returns the i-th value of the row, or "" when absent.
func (s SettingRow) Value(i int) string {
	if i < 0 || i >= len(s.Values) {
		return ""
	}
	return s.Values[i]
}

// GoalRow is one row of the goals table: a chat id (or "*" for the shared
// default) and the goal value.
type GoalRow struct {
	Key   string
	Value string
}

// NewGoalRow builds a GoalRow from raw cells.
func NewGoalRow(cells []string) GoalRow {
	r := GoalRow{}
	if len(cells) > 0 {
		r.Key = cells[0]
	}
	if len(cells) > 1 {
		r.Value = cells[1]
	}
	return r
}

// ResultRow is one precomputed aggregate row of the results table. The store
// computes the quantity × unit-time products and grouping; this process only
// filters and formats these rows.
type ResultRow struct {
	Header string // section header, filled on the first row of a section
	Owner  string // chat id, or "Всего (<id>)" for per-user totals
	Date   string // dd.mm.yyyy
	Amount string // earned amount, store-formatted
	Extra  string // unused positional column, kept for shape fidelity
	Hours  string // activity hours, store-formatted
}

// NewResultRow builds a ResultRow, padding short rows so positional access is
// always safe.
func NewResultRow(cells []string) ResultRow {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}
	return ResultRow{
		Header: get(0),
		Owner:  get(1),
		Date:   get(2),
		Amount: get(3),
		Extra:  get(4),
		Hours:  get(5),
	}
}

// CatalogSnapshot is the immutable-until-replaced bundle of the cached
// external tables driving menu content. Resolver functions take a snapshot by
// value and never mutate it.
type CatalogSnapshot struct {
	Models   []ModelRow
	Quest    []QuestionRow
	Details  []QuestionDetailRow
	Settings []SettingRow
	Goals    []GoalRow
}
