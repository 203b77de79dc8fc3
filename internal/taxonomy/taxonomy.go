// Package taxonomy holds the ordered set of P&L parent groups and the rules
// deciding which of them are leaf groups and which are computed rollups.
package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Parent is a top-level P&L group.
type Parent int

const (
	Unknown Parent = iota
	Income
	COGS
	GrossProfit
	Expenses
	NetOrdinaryIncome
	OtherIncome
	OtherExpenses
	NetIncome
)

type entry struct {
	parent Parent
	raw    string // title-cased sheet label
	label  string // ordered output label
	rollup bool
}

// The numeric prefix fixes sort order downstream; 4 is intentionally unused.
var chart = []entry{
	{Income, "Income", "1 Income", false},
	{COGS, "Cogs", "2 COGS", false},
	{GrossProfit, "Gross Profit", "3 Gross Profit", true},
	{Expenses, "Expenses", "5 Expenses", false},
	{NetOrdinaryIncome, "Net Ordinary Income", "6 Net Ordinary Income", true},
	{OtherIncome, "Other Income", "7 Other Income", false},
	{OtherExpenses, "Other Expenses", "8 Other Expenses", false},
	{NetIncome, "Net Income", "9 Net Income", true},
}

var titler = cases.Title(language.English)

// All returns the known parents in taxonomy order.
func All() []Parent {
	out := make([]Parent, len(chart))
	for i, e := range chart {
		out[i] = e.parent
	}
	return out
}

// Label returns the ordered output label, e.g. "1 Income".
func (p Parent) Label() string {
	for _, e := range chart {
		if e.parent == p {
			return e.label
		}
	}
	return ""
}

// IsRollup reports whether the group is a computed total rather than leaf data.
func (p Parent) IsRollup() bool {
	for _, e := range chart {
		if e.parent == p {
			return e.rollup
		}
	}
	return false
}

// Lookup matches a sheet label after trimming and title-casing it.
func Lookup(s string) Parent {
	t := TitleCase(s)
	for _, e := range chart {
		if e.raw == t {
			return e.parent
		}
	}
	return Unknown
}

// TitleCase trims s and capitalizes the first letter of each word while
// lowering the rest, so "COGS" becomes "Cogs".
func TitleCase(s string) string {
	return titler.String(strings.TrimSpace(s))
}

// Remap converts a raw parent label to its ordered label. Unrecognized
// labels come back title-cased and trimmed.
func Remap(s string) string {
	t := TitleCase(s)
	if p := Lookup(t); p != Unknown {
		return p.Label()
	}
	return t
}

// RollupLabels returns the ordered labels of the computed total groups.
func RollupLabels() []string {
	var out []string
	for _, e := range chart {
		if e.rollup {
			out = append(out, e.label)
		}
	}
	return out
}

// IsRollupLabel reports whether s is the ordered label of a rollup group.
func IsRollupLabel(s string) bool {
	for _, l := range RollupLabels() {
		if s == l {
			return true
		}
	}
	return false
}

// subtotalGroups lists the labels under which a "Total ..." category is a
// group subtotal. Both ordered and raw spellings are accepted.
var subtotalGroups = map[string]bool{
	"1 Income":         true,
	"2 COGS":           true,
	"5 Expenses":       true,
	"7 Other Income":   true,
	"8 Other Expenses": true,
	"Income":           true,
	"COGS":             true,
	"Expenses":         true,
	"Other Income":     true,
	"Other Expenses":   true,
}

// IsSubtotalGroup reports whether a parent label names one of the leaf
// income/expense groups whose "Total" rows are subtotals.
func IsSubtotalGroup(s string) bool {
	return subtotalGroups[s]
}
