package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
)

func testKey(t *testing.T) sourcekey.Key {
	t.Helper()
	k, err := sourcekey.Parse("2024", "03.2024")
	require.NoError(t, err)
	return k
}

func plRow(mutate func(model.Row)) *model.Table {
	r := model.Row{
		model.ColSource:   "2024/03.2024",
		model.ColDate:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		model.ColParent:   "1 Income",
		model.ColCategory: "Sales",
		model.ColAmount:   d("100"),
	}
	if mutate != nil {
		mutate(r)
	}
	tbl := model.NewTable(model.ColSource, model.ColDate, model.ColParent, model.ColCategory, model.ColAmount)
	tbl.Rows = []model.Row{r}
	return tbl
}

func TestValidateRows_ValidPL(t *testing.T) {
	assert.Empty(t, ValidateRows(model.KindPL, testKey(t), plRow(nil)))
}

func TestValidateRows_PL(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(model.Row)
		want   string
	}{
		{"wrong source", func(r model.Row) { r[model.ColSource] = "2024/04.2024" }, "does not match"},
		{"missing date", func(r model.Row) { delete(r, model.ColDate) }, "missing date"},
		{"wrong day", func(r model.Row) { r[model.ColDate] = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC) }, "not the first of 2024-03"},
		{"rollup parent", func(r model.Row) { r[model.ColParent] = "9 Net Income" }, "rollup parent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateRows(model.KindPL, testKey(t), plRow(tt.mutate))
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tt.want)
			assert.Contains(t, errs[0].Error(), "P&L row 1")
		})
	}
}

func TestValidateRows_BSTotal(t *testing.T) {
	tbl := model.NewTable(model.ColSource, model.ColDate, model.ColCategory, model.ColLastCategory)
	tbl.Rows = []model.Row{
		{model.ColSource: "2024/03.2024", model.ColDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), model.ColCategory: "Assets", model.ColLastCategory: "Cash"},
		{model.ColSource: "2024/03.2024", model.ColCategory: "Assets", model.ColLastCategory: "Total Cash"},
	}

	errs := ValidateRows(model.KindBS, testKey(t), tbl)
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Row)
	assert.Contains(t, errs[0].Description, "missing date")
	assert.Contains(t, errs[1].Description, "total line")
}

func TestValidateRows_DBOnlyChecksSource(t *testing.T) {
	tbl := model.NewTable(model.ColSource, model.ColDate)
	tbl.Rows = []model.Row{{model.ColSource: "2024/03.2024"}}
	assert.Empty(t, ValidateRows(model.KindDB, testKey(t), tbl))
}
