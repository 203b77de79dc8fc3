package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
	"github.com/cleared-dev/finroll/internal/taxonomy"
)

// ValidationError describes one normalized row that breaks a combined-table rule.
type ValidationError struct {
	Kind        model.Kind
	Row         int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Kind.Label(), e.Row, e.Description)
}

// ValidateRows checks normalized rows of one month before they are combined.
func ValidateRows(kind model.Kind, key sourcekey.Key, tbl *model.Table) []ValidationError {
	var errs []ValidationError
	add := func(i int, format string, args ...any) {
		errs = append(errs, ValidationError{Kind: kind, Row: i + 1, Description: fmt.Sprintf(format, args...)})
	}

	source := key.String()
	month := key.Date()
	for i, r := range tbl.Rows {
		if got := model.Text(r[model.ColSource]); got != source {
			add(i, "source %q does not match %q", got, source)
		}

		switch kind {
		case model.KindPL:
			d, ok := r[model.ColDate].(time.Time)
			if !ok || d.IsZero() {
				add(i, "missing date")
			} else if !d.Equal(month) {
				add(i, "date %s is not the first of %s", d.Format(model.DateFormat), month.Format("2006-01"))
			}
			if p := model.Text(r[model.ColParent]); taxonomy.IsRollupLabel(p) {
				add(i, "rollup parent %q", p)
			}
		case model.KindBS:
			if model.IsMissing(r[model.ColDate]) {
				add(i, "missing date")
			}
			for _, c := range []string{model.ColCategory, model.ColCategory2, model.ColLastCategory} {
				if strings.Contains(strings.ToLower(model.Text(r[c])), "total") {
					add(i, "%s %q is a total line", c, model.Text(r[c]))
				}
			}
		}
	}
	return errs
}
