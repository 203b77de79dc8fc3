package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
	"github.com/cleared-dev/finroll/internal/workbook"
)

// ExistingOutputError reports a combined output that exists but could not be
// used to build the skip set.
type ExistingOutputError struct {
	Path string
	Err  error
}

func (e *ExistingOutputError) Error() string {
	return fmt.Sprintf("existing output %s: %v", e.Path, e.Err)
}

func (e *ExistingOutputError) Unwrap() error { return e.Err }

// Existing is what a previous run left in the combined output.
type Existing struct {
	// Sources holds normalized source keys already present in the P&L sheet.
	Sources map[string]bool
	// Tables holds the previously combined rows per kind.
	Tables map[model.Kind]*model.Table
}

// Has reports whether source was combined by a previous run.
func (x *Existing) Has(source string) bool {
	return x.Sources[sourcekey.Normalize(source)]
}

// LoadExisting reads the combined output, if any. An unusable output yields
// an empty skip set; every month is then reprocessed and the file rewritten.
func (e *Engine) LoadExisting() *Existing {
	x, err := e.readExisting()
	if err != nil {
		e.logger.Warn("cannot use existing output, reprocessing all months", "error", err)
		return &Existing{Sources: map[string]bool{}, Tables: map[model.Kind]*model.Table{}}
	}
	if len(x.Sources) > 0 {
		e.logger.Info("loaded combined sources", "output", e.OutputPath(), "sources", len(x.Sources))
	}
	return x
}

func (e *Engine) readExisting() (*Existing, error) {
	path := e.OutputPath()
	x := &Existing{Sources: map[string]bool{}, Tables: map[model.Kind]*model.Table{}}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return x, nil
	}

	pl, err := workbook.ReadSheet(path, model.KindPL.CombinedSheet())
	if err != nil {
		return nil, &ExistingOutputError{Path: path, Err: err}
	}
	if !pl.HasColumn(model.ColSource) {
		return nil, &ExistingOutputError{Path: path, Err: errors.New("no Source column in " + model.KindPL.CombinedSheet())}
	}
	for _, v := range pl.Values(model.ColSource) {
		if s := model.Text(v); s != "" {
			x.Sources[sourcekey.Normalize(s)] = true
		}
	}

	if !e.opts.CarryForward {
		return x, nil
	}

	x.Tables[model.KindPL] = pl
	for _, kind := range []model.Kind{model.KindBS, model.KindDB} {
		tbl, err := workbook.ReadSheet(path, kind.CombinedSheet())
		if errors.Is(err, workbook.ErrSheetNotFound) {
			continue
		}
		if err != nil {
			return nil, &ExistingOutputError{Path: path, Err: err}
		}
		x.Tables[kind] = tbl
	}
	for _, tbl := range x.Tables {
		restoreDates(tbl)
	}
	return x, nil
}

// restoreDates turns Date cells read back from a previous output into
// time values so they are written with the date format again.
func restoreDates(tbl *model.Table) {
	if !tbl.HasColumn(model.ColDate) {
		return
	}
	tbl.Apply(model.ColDate, func(r model.Row) any {
		v := r[model.ColDate]
		if t, ok := workbook.CellDate(v); ok {
			return t
		}
		return v
	})
}
