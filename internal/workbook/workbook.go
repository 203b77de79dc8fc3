// Package workbook reads sheets of an xlsx file into tables and writes
// tables back out as sheets.
package workbook

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finroll/internal/model"
)

// ErrSheetNotFound matches any *SheetNotFoundError via errors.Is.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetNotFoundError reports that none of the tried sheet names exist.
// Available lists the sheets the workbook does have.
type SheetNotFoundError struct {
	Path      string
	Tried     []string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet not found: tried %q, available: %s", e.Tried, e.AvailableText())
}

// Is makes errors.Is(err, ErrSheetNotFound) true.
func (e *SheetNotFoundError) Is(target error) bool {
	return target == ErrSheetNotFound
}

// AvailableText renders the available sheet names for diagnostics.
func (e *SheetNotFoundError) AvailableText() string {
	if len(e.Available) == 0 {
		return "(could not read)"
	}
	return fmt.Sprintf("%q", e.Available)
}

// OpenError reports that a workbook file could not be opened at all.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("opening workbook %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func open(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return f, nil
}

// SheetNames lists the sheets of the workbook at path.
func SheetNames(path string) ([]string, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Locate reads the first of the candidate sheets that exists and returns it
// with the name that matched. When none exist it returns a
// *SheetNotFoundError; any other failure is returned as is.
func Locate(path string, candidates ...string) (*model.Table, string, error) {
	f, err := open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	for _, name := range candidates {
		if !slices.Contains(sheets, name) {
			continue
		}
		tbl, err := readTable(f, name)
		if err != nil {
			return nil, "", fmt.Errorf("reading sheet %q of %s: %w", name, path, err)
		}
		return tbl, name, nil
	}

	return nil, "", &SheetNotFoundError{Path: path, Tried: candidates, Available: sheets}
}

// ReadSheet reads a single named sheet.
func ReadSheet(path, name string) (*model.Table, error) {
	tbl, _, err := Locate(path, name)
	return tbl, err
}

func readTable(f *excelize.File, sheet string) (*model.Table, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return model.NewTable(), nil
	}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	tbl := model.NewTable(headerNames(rows[0], width)...)

	for i, rec := range rows[1:] {
		row := make(model.Row, len(rec))
		for j, raw := range rec {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			v, err := cellValue(f, sheet, j+1, i+2, raw)
			if err != nil {
				return nil, err
			}
			row[tbl.Columns[j]] = v
		}
		if len(row) == 0 {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// headerNames names columns from the first row. Blank headers become
// "Unnamed: <i>" and repeats get a ".<n>" suffix.
func headerNames(first []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for j := 0; j < width; j++ {
		name := ""
		if j < len(first) {
			name = strings.TrimSpace(first[j])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(j)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		names[j] = name
	}
	return names
}

// cellValue types a raw cell: text cells stay strings, anything else that
// parses as a number becomes a decimal.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) (any, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return raw, nil
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return d, nil
	}
	return raw, nil
}

var dateLayouts = []string{
	model.DateFormat,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2006-01",
}

// CellDate interprets a cell as a date. Numbers are Excel date serials.
func CellDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case decimal.Decimal:
		t, err := excelize.ExcelDateToTime(x.InexactFloat64(), false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
