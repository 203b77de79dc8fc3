package normalize

import (
	"fmt"
	"time"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
	"github.com/cleared-dev/finroll/internal/taxonomy"
	"github.com/cleared-dev/finroll/internal/workbook"
)

// DB passes a database-result sheet through with Source, Date and Week tags.
type DB struct {
	Sheet string
}

// Kind returns model.KindDB.
func (d *DB) Kind() model.Kind { return model.KindDB }

// Sheets returns the single configured sheet name.
func (d *DB) Sheets() []string { return []string{d.Sheet} }

// Normalize tags the rows and removes rollup parents.
func (d *DB) Normalize(tbl *model.Table, key sourcekey.Key) (*model.Table, error) {
	tbl.Set(model.ColSource, key.String())

	if tbl.HasColumn(model.ColDate) {
		tbl.Apply(model.ColDate, func(r model.Row) any {
			if t, ok := workbook.CellDate(r[model.ColDate]); ok {
				return t
			}
			return nil
		})
		tbl.Apply(model.ColWeek, func(r model.Row) any {
			t, ok := r[model.ColDate].(time.Time)
			if !ok {
				return nil
			}
			_, week := t.ISOWeek()
			return fmt.Sprintf("%02d", week)
		})
	} else {
		tbl.Set(model.ColDate, nil)
		tbl.Set(model.ColWeek, nil)
	}

	if tbl.HasColumn(model.ColParent) {
		tbl.Filter(func(r model.Row) bool {
			return !taxonomy.IsRollupLabel(model.Text(r[model.ColParent]))
		})
	}

	return tbl, nil
}
