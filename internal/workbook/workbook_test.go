package workbook

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/finroll/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func plTable() *model.Table {
	tbl := model.NewTable("Parent", "Category", "March", "Total")
	tbl.Rows = []model.Row{
		{"Parent": "Income", "Category": "Sales", "March": dec("100"), "Total": dec("100")},
		{"Category": "Consulting", "March": dec("12.5")},
	}
	return tbl
}

func writeFixture(t *testing.T, sheets ...Sheet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monthly.xlsx")
	require.NoError(t, Write(path, sheets))
	return path
}

func TestWriteThenLocate(t *testing.T) {
	path := writeFixture(t,
		Sheet{Name: "Summary", Table: model.NewTable("x")},
		Sheet{Name: "P&L by Month", Table: plTable()},
	)

	tbl, used, err := Locate(path, "P&L", "P&L by Month")
	require.NoError(t, err)
	assert.Equal(t, "P&L by Month", used)
	assert.Equal(t, []string{"Parent", "Category", "March", "Total"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())

	assert.Equal(t, "Income", tbl.Rows[0]["Parent"])
	assert.Equal(t, "Sales", tbl.Rows[0]["Category"])
	amt, ok := tbl.Rows[0]["March"].(decimal.Decimal)
	require.True(t, ok, "numeric cells read back as decimals")
	assert.True(t, amt.Equal(dec("100")))

	_, hasParent := tbl.Rows[1]["Parent"]
	assert.False(t, hasParent, "empty cells are missing")
}

func TestLocate_FirstCandidateWins(t *testing.T) {
	path := writeFixture(t,
		Sheet{Name: "P&L by Month", Table: plTable()},
		Sheet{Name: "P&L", Table: model.NewTable("Parent", "Category", "Amount")},
	)

	_, used, err := Locate(path, "P&L", "P&L by Month")
	require.NoError(t, err)
	assert.Equal(t, "P&L", used)
}

func TestLocate_NotFound(t *testing.T) {
	path := writeFixture(t,
		Sheet{Name: "Cover", Table: model.NewTable("x")},
		Sheet{Name: "Notes", Table: model.NewTable("y")},
	)

	_, _, err := Locate(path, "P&L", "P&L by Month")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSheetNotFound)

	var nf *SheetNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"P&L", "P&L by Month"}, nf.Tried)
	assert.Equal(t, []string{"Cover", "Notes"}, nf.Available)
	assert.Contains(t, nf.Error(), "Cover")
}

func TestLocate_UnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, _, err := Locate(path, "P&L")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSheetNotFound, "open failures are not missing sheets")

	var oe *OpenError
	assert.True(t, errors.As(err, &oe))

	_, err = SheetNames(path)
	assert.Error(t, err)
}

func TestReadSheet_HeaderNaming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Category", "", "Category", "2024-01"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Cash", "x", "y", 5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"Bank", nil, nil, 7, "extra"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tbl, err := ReadSheet(path, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Unnamed: 1", "Category.1", "2024-01", "Unnamed: 4"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len(), "blank rows are dropped")
	assert.Equal(t, "Bank", tbl.Rows[1]["Category"])
	assert.Equal(t, "extra", tbl.Rows[1]["Unnamed: 4"])
	assert.True(t, tbl.Rows[1]["2024-01"].(decimal.Decimal).Equal(dec("7")))
}

func TestWrite_DatesRoundTrip(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tbl := model.NewTable("Source", "Date", "Amount")
	tbl.Rows = []model.Row{{"Source": "2024/03.2024", "Date": day, "Amount": dec("1.5")}}
	path := writeFixture(t, Sheet{Name: "P&L Combined", Table: tbl})

	got, err := ReadSheet(path, "P&L Combined")
	require.NoError(t, err)
	require.Equal(t, 1, got.Len())
	assert.Equal(t, "2024/03.2024", got.Rows[0]["Source"])

	d, ok := CellDate(got.Rows[0]["Date"])
	require.True(t, ok)
	assert.Equal(t, day, d.UTC())
}

func TestWrite_NoSheets(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "x.xlsx"), nil)
	assert.Error(t, err)
}

func TestCellDate(t *testing.T) {
	tests := []struct {
		in   any
		want time.Time
		ok   bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{dec("45366"), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"soon", time.Time{}, false},
		{nil, time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := CellDate(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got.UTC(), "%v", tt.in)
		}
	}
}
