package workbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finroll/internal/model"
)

// Sheet is a named table to be written.
type Sheet struct {
	Name  string
	Table *model.Table
}

const dateNumFmt = "yyyy-mm-dd"

// Write creates a new workbook at path holding the given sheets in order,
// replacing any existing file.
func Write(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	dateFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", s.Name, err)
		}
		if err := writeTable(f, s.Name, s.Table, dateStyle); err != nil {
			return fmt.Errorf("writing sheet %q: %w", s.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, tbl *model.Table, dateStyle int) error {
	header := make([]any, len(tbl.Columns))
	for j, c := range tbl.Columns {
		header[j] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range tbl.Rows {
		rowNum := i + 2
		for j, c := range tbl.Columns {
			v, ok := r[c]
			if !ok || v == nil {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return err
			}
			switch x := v.(type) {
			case decimal.Decimal:
				err = f.SetCellFloat(sheet, axis, x.InexactFloat64(), -1, 64)
			case time.Time:
				if x.IsZero() {
					continue
				}
				if err = f.SetCellValue(sheet, axis, x); err == nil {
					err = f.SetCellStyle(sheet, axis, axis, dateStyle)
				}
			default:
				err = f.SetCellValue(sheet, axis, x)
			}
			if err != nil {
				return fmt.Errorf("row %d: %w", rowNum, err)
			}
		}
	}
	return nil
}
