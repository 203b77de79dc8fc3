package model

// Kind identifies one of the three sheet families combined per month.
type Kind string

const (
	KindPL Kind = "pl"
	KindBS Kind = "bs"
	KindDB Kind = "db"
)

// Kinds returns the sheet kinds in processing order.
func Kinds() []Kind {
	return []Kind{KindPL, KindBS, KindDB}
}

// CombinedSheet returns the name of the output sheet holding this kind.
func (k Kind) CombinedSheet() string {
	switch k {
	case KindPL:
		return "P&L Combined"
	case KindBS:
		return "BS Condensed Combined"
	case KindDB:
		return "DataBase Combined"
	}
	return ""
}

// Label is a short human name used in diagnostics.
func (k Kind) Label() string {
	switch k {
	case KindPL:
		return "P&L"
	case KindBS:
		return "BS"
	case KindDB:
		return "DataBase"
	}
	return string(k)
}
