package normalize

import (
	"regexp"
	"slices"
	"time"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
)

// BS normalizes a condensed balance sheet with one column per month.
type BS struct {
	Sheet string
}

var monthColumnPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// categoryColumns are kept, in this order, when present.
var categoryColumns = []string{model.ColCategory, model.ColCategory2, model.ColLastCategory}

// Kind returns model.KindBS.
func (b *BS) Kind() model.Kind { return model.KindBS }

// Sheets returns the single configured sheet name.
func (b *BS) Sheets() []string { return []string{b.Sheet} }

// Normalize keeps the category columns plus the latest yyyy-mm column as
// Amount, fills categories down and drops total rows.
func (b *BS) Normalize(tbl *model.Table, key sourcekey.Key) (*model.Table, error) {
	var monthCols []string
	for _, c := range tbl.Columns {
		if monthColumnPattern.MatchString(c) {
			monthCols = append(monthCols, c)
		}
	}
	if len(monthCols) == 0 {
		return nil, schemaErr(model.KindBS, tbl, "no yyyy-mm columns")
	}

	// yyyy-mm sorts chronologically as text.
	latest := slices.Max(monthCols)
	date, err := time.Parse("2006-01", latest)
	if err != nil {
		return nil, schemaErr(model.KindBS, tbl, "column %q is not a valid month", latest)
	}

	var present []string
	for _, c := range categoryColumns {
		if tbl.HasColumn(c) {
			present = append(present, c)
		}
	}

	tbl.Select(append(slices.Clone(present), latest)...)
	tbl.RenameColumn(latest, model.ColAmount)
	tbl.Set(model.ColSource, key.String())
	tbl.Set(model.ColDate, date)
	tbl.FillForward(present...)

	tbl.Filter(func(r model.Row) bool {
		for _, c := range present {
			if containsFold(model.Text(r[c]), "total") {
				return false
			}
		}
		return true
	})

	return tbl, nil
}
