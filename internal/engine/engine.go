// Package engine discovers monthly workbooks under a books directory,
// normalizes the months not yet combined and writes the combined workbook.
package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/normalize"
	"github.com/cleared-dev/finroll/internal/sourcekey"
	"github.com/cleared-dev/finroll/internal/workbook"
)

// Status is the result of processing one sheet kind for one month.
type Status string

const (
	StatusLoaded  Status = "loaded"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one sheet kind of one month.
type Outcome struct {
	Source string
	File   string
	Kind   model.Kind
	Status Status
	Sheet  string
	Rows   int
	Err    error
}

// Month is a discovered month folder.
type Month struct {
	Key  sourcekey.Key
	Dir  string
	File string
}

// Summary describes a completed run.
type Summary struct {
	Discovered int
	Skipped    int
	Processed  int
	NewRows    map[model.Kind]int
	Outcomes   []Outcome
	Written    bool
	OutputPath string
}

// LoadedMonths counts the processed months that contributed at least one sheet.
func (s *Summary) LoadedMonths() int {
	seen := make(map[string]bool)
	for _, o := range s.Outcomes {
		if o.Status == StatusLoaded {
			seen[o.Source] = true
		}
	}
	return len(seen)
}

// Failed reports whether any sheet failed to process.
func (s *Summary) Failed() bool {
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Options configures an Engine.
type Options struct {
	BaseDir      string
	Output       string
	Monthly      string
	CarryForward bool
	// DryRun processes months but leaves the output untouched.
	DryRun       bool
	Registry     *normalize.Registry
	Logger       *slog.Logger
	// OnMonth, if set, is called after each discovered month is handled.
	OnMonth func(Month)
}

// Engine runs one combine pass over a books directory.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New creates an Engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{opts: opts, logger: logger}
}

// OutputPath is where the combined workbook is read from and written to.
func (e *Engine) OutputPath() string {
	return filepath.Join(e.opts.BaseDir, e.opts.Output)
}

// Discover lists month folders as <base>/<digits>/<m>.<y>, sorted by year
// folder, then year, then month.
func (e *Engine) Discover() ([]Month, error) {
	years, err := os.ReadDir(e.opts.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("reading base dir: %w", err)
	}

	var months []Month
	for _, y := range years {
		if !y.IsDir() {
			continue
		}
		yearPath := filepath.Join(e.opts.BaseDir, y.Name())
		entries, err := os.ReadDir(yearPath)
		if err != nil {
			e.logger.Warn("cannot read year folder", "dir", yearPath, "error", err)
			continue
		}
		for _, m := range entries {
			if !m.IsDir() {
				continue
			}
			key, err := sourcekey.Parse(y.Name(), m.Name())
			if errors.Is(err, sourcekey.ErrNotMonthFolder) {
				continue
			}
			dir := filepath.Join(yearPath, m.Name())
			if err != nil {
				e.logger.Warn("skipping folder", "dir", dir, "error", err)
				continue
			}
			months = append(months, Month{
				Key:  key,
				Dir:  dir,
				File: filepath.Join(dir, e.opts.Monthly),
			})
		}
	}

	sort.SliceStable(months, func(i, j int) bool {
		a, b := months[i], months[j]
		if a.Key.YearFolder != b.Key.YearFolder {
			return a.Key.YearFolder < b.Key.YearFolder
		}
		if a.Key.Year != b.Key.Year {
			return a.Key.Year < b.Key.Year
		}
		return a.Key.Month < b.Key.Month
	})
	return months, nil
}

// Run processes every discovered month not already in the combined output
// and rewrites the output when anything new was found. Only a failure to
// list the base directory or to write the output is returned as an error.
func (e *Engine) Run() (*Summary, error) {
	existing := e.LoadExisting()

	months, err := e.Discover()
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Discovered: len(months),
		NewRows:    make(map[model.Kind]int),
		OutputPath: e.OutputPath(),
	}
	acc := make(map[model.Kind][]*model.Table)

	for _, m := range months {
		if existing.Has(m.Key.String()) {
			sum.Skipped++
		} else {
			sum.Processed++
			for _, o := range e.processMonth(m, acc) {
				sum.Outcomes = append(sum.Outcomes, o)
				sum.NewRows[o.Kind] += o.Rows
			}
		}
		if e.opts.OnMonth != nil {
			e.opts.OnMonth(m)
		}
	}

	if len(acc) == 0 {
		e.logger.Info("no new data to add", "output", sum.OutputPath)
		return sum, nil
	}

	var sheets []workbook.Sheet
	for _, kind := range model.Kinds() {
		carried := existing.Tables[kind]
		if len(acc[kind]) == 0 && carried.Len() == 0 {
			continue
		}
		combined := model.Concat(append([]*model.Table{carried}, acc[kind]...)...)
		sheets = append(sheets, workbook.Sheet{Name: kind.CombinedSheet(), Table: combined})
		e.logger.Info("combined sheet ready", "sheet", kind.CombinedSheet(), "rows", combined.Len(), "new_rows", sum.NewRows[kind])
	}

	if e.opts.DryRun {
		e.logger.Info("dry run, output not written", "output", sum.OutputPath)
		return sum, nil
	}
	if err := workbook.Write(sum.OutputPath, sheets); err != nil {
		return sum, fmt.Errorf("writing combined output: %w", err)
	}
	sum.Written = true
	return sum, nil
}

// processMonth runs every registered normalizer on one month. A failure in
// one sheet kind never stops the others.
func (e *Engine) processMonth(m Month, acc map[model.Kind][]*model.Table) []Outcome {
	source := m.Key.String()
	log := e.logger.With("source", source, "file", m.File)

	if _, err := os.Stat(m.File); errors.Is(err, fs.ErrNotExist) {
		log.Warn("monthly workbook not found")
		return e.skipAll(m, StatusSkipped, err)
	}
	if _, err := workbook.SheetNames(m.File); err != nil {
		log.Error("cannot read monthly workbook", "error", err)
		return e.skipAll(m, StatusFailed, err)
	}

	var outcomes []Outcome
	for _, kind := range model.Kinds() {
		n := e.opts.Registry.Get(kind)
		if n == nil {
			continue
		}
		o := Outcome{Source: source, File: m.File, Kind: kind}

		tbl, err := e.normalizeSheet(n, m, &o, log)
		if err != nil {
			o.Err = err
			var nf *workbook.SheetNotFoundError
			if errors.As(err, &nf) {
				o.Status = StatusSkipped
				log.Warn("sheet not found", "kind", kind.Label(), "tried", nf.Tried, "available", nf.AvailableText())
			} else {
				o.Status = StatusFailed
				log.Error("cannot process sheet", "kind", kind.Label(), "error", err)
			}
			outcomes = append(outcomes, o)
			continue
		}

		for _, v := range ValidateRows(kind, m.Key, tbl) {
			log.Warn("combined row check failed", "kind", kind.Label(), "detail", v.Error())
		}

		o.Status = StatusLoaded
		o.Rows = tbl.Len()
		acc[kind] = append(acc[kind], tbl)
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func (e *Engine) normalizeSheet(n normalize.Normalizer, m Month, o *Outcome, log *slog.Logger) (*model.Table, error) {
	candidates := n.Sheets()
	raw, used, err := workbook.Locate(m.File, candidates...)
	if err != nil {
		return nil, err
	}
	o.Sheet = used
	if len(candidates) > 1 && used != candidates[0] {
		log.Info("loaded sheet using fallback name", "kind", n.Kind().Label(), "sheet", used)
	}
	return n.Normalize(raw, m.Key)
}

func (e *Engine) skipAll(m Month, status Status, err error) []Outcome {
	var out []Outcome
	for _, kind := range model.Kinds() {
		out = append(out, Outcome{Source: m.Key.String(), File: m.File, Kind: kind, Status: status, Err: err})
	}
	return out
}
