package model

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Column names every canonical row carries or may carry.
const (
	ColSource       = "Source"
	ColDate         = "Date"
	ColWeek         = "Week"
	ColParent       = "Parent"
	ColCategory     = "Category"
	ColCategory2    = "Category2"
	ColLastCategory = "Last Category"
	ColAmount       = "Amount"
	ColTotal        = "Total"
)

// DateFormat is the layout used when a date cell is rendered as text.
const DateFormat = "2006-01-02"

// Row maps a column name to a cell value. Cell values are string,
// decimal.Decimal, int, time.Time or nil. A nil or absent value is missing.
type Row map[string]any

// Table is an ordered set of columns plus rows keyed by column name.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// AddColumn appends name to the column list if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Set assigns v to column name on every row, adding the column if needed.
func (t *Table) Set(name string, v any) {
	t.AddColumn(name)
	for _, r := range t.Rows {
		r[name] = v
	}
}

// Apply replaces every value of column name with fn(row).
func (t *Table) Apply(name string, fn func(Row) any) {
	t.AddColumn(name)
	for _, r := range t.Rows {
		r[name] = fn(r)
	}
}

// DropColumns removes the named columns from the header and every row.
// Unknown names are ignored.
func (t *Table) DropColumns(names ...string) {
	t.Columns = slices.DeleteFunc(t.Columns, func(c string) bool {
		return slices.Contains(names, c)
	})
	for _, r := range t.Rows {
		for _, n := range names {
			delete(r, n)
		}
	}
}

// RenameColumn renames a column in place, keeping its position.
func (t *Table) RenameColumn(from, to string) {
	i := slices.Index(t.Columns, from)
	if i < 0 || from == to {
		return
	}
	t.DropColumns(to)
	i = slices.Index(t.Columns, from)
	t.Columns[i] = to
	for _, r := range t.Rows {
		if v, ok := r[from]; ok {
			r[to] = v
			delete(r, from)
		}
	}
}

// Select keeps only the named columns, in the given order.
func (t *Table) Select(names ...string) {
	var drop []string
	for _, c := range t.Columns {
		if !slices.Contains(names, c) {
			drop = append(drop, c)
		}
	}
	t.DropColumns(drop...)
	t.Columns = slices.Clone(names)
}

// Filter keeps the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) {
	t.Rows = slices.DeleteFunc(t.Rows, func(r Row) bool { return !keep(r) })
}

// FillForward propagates the last non-missing value of each named column
// down through subsequent rows that lack one. Leading missing values stay
// missing.
func (t *Table) FillForward(names ...string) {
	for _, name := range names {
		var last any
		for _, r := range t.Rows {
			if v := r[name]; !IsMissing(v) {
				last = v
				continue
			}
			if last != nil {
				r[name] = last
			}
		}
	}
}

// Values returns the column's values in row order.
func (t *Table) Values(name string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[name]
	}
	return out
}

// Concat stacks tables row-wise in argument order. The resulting columns are
// the union of all input columns in first-seen order; a row missing a column
// simply has no value for it. Nil tables are skipped.
func Concat(tables ...*Table) *Table {
	out := NewTable()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			out.AddColumn(c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

// IsMissing reports whether v counts as an empty cell.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case time.Time:
		return x.IsZero()
	}
	return false
}

// Text renders a cell value as a string. Missing values render as "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case decimal.Decimal:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(DateFormat)
	}
	return ""
}

// ToDecimal coerces a cell value to a decimal. Values that are missing or do
// not parse as a number report false.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}
