package normalize

import (
	"log/slog"
	"strings"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
	"github.com/cleared-dev/finroll/internal/taxonomy"
)

// PL normalizes a Profit & Loss sheet.
type PL struct {
	Candidates []string
	Logger     *slog.Logger
}

// Kind returns model.KindPL.
func (p *PL) Kind() model.Kind { return model.KindPL }

// Sheets returns the candidate sheet names in priority order.
func (p *PL) Sheets() []string { return p.Candidates }

// columns that can never hold the month's values
var nonValueColumns = map[string]bool{"parent": true, "category": true, "total": true}

// Normalize resolves the Amount column, tags hierarchy rows, fills group
// labels down, remaps parents to the ordered taxonomy and drops rollup and
// subtotal rows.
func (p *PL) Normalize(tbl *model.Table, key sourcekey.Key) (*model.Table, error) {
	if !tbl.HasColumn(model.ColAmount) {
		picked, err := monthColumn(tbl, key.MonthName())
		if err != nil {
			return nil, err
		}
		tbl.Apply(model.ColAmount, func(r model.Row) any {
			if d, ok := model.ToDecimal(r[picked]); ok {
				return d
			}
			return nil
		})
		tbl.DropColumns(picked, model.ColTotal)
		p.logger().Info("inferred P&L amount column", "column", picked, "source", key.String())
	}

	for _, col := range []string{model.ColParent, model.ColCategory} {
		if !tbl.HasColumn(col) {
			return nil, schemaErr(model.KindPL, tbl, "missing column %q", col)
		}
	}

	date := key.Date()
	_, week := date.ISOWeek()
	tbl.Set(model.ColSource, key.String())
	tbl.Set(model.ColDate, date)
	tbl.Set(model.ColWeek, week)

	// A labelled Parent marks the group's total row; prefix its category so
	// it is not mistaken for the same-named detail row.
	for _, r := range tbl.Rows {
		if model.IsMissing(r[model.ColParent]) {
			continue
		}
		r[model.ColCategory] = strings.TrimSpace("Total " + model.Text(r[model.ColCategory]))
	}

	var fill []string
	for _, c := range tbl.Columns {
		switch c {
		case model.ColAmount, model.ColDate, model.ColSource:
		default:
			fill = append(fill, c)
		}
	}
	tbl.FillForward(fill...)

	for _, r := range tbl.Rows {
		if v := r[model.ColParent]; !model.IsMissing(v) {
			r[model.ColParent] = taxonomy.Remap(model.Text(v))
		}
	}

	tbl.Filter(func(r model.Row) bool {
		parent := model.Text(r[model.ColParent])
		if taxonomy.IsRollupLabel(parent) {
			return false
		}
		return !(containsFold(model.Text(r[model.ColCategory]), "total") && taxonomy.IsSubtotalGroup(parent))
	})

	return tbl, nil
}

// monthColumn picks the column holding the month's values: the one named
// after the month, or the only remaining candidate.
func monthColumn(tbl *model.Table, month string) (string, error) {
	var candidates []string
	for _, c := range tbl.Columns {
		if !nonValueColumns[strings.ToLower(strings.TrimSpace(c))] {
			candidates = append(candidates, c)
		}
	}

	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c), month) {
			return c, nil
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", schemaErr(model.KindPL, tbl, "no %q column and no single month column to use as %q", month, model.ColAmount)
}

func (p *PL) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
