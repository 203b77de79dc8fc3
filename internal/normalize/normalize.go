// Package normalize reshapes the raw monthly P&L, balance sheet and
// database-result sheets into their canonical combined row shapes.
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/sourcekey"
)

// Normalizer converts one raw sheet of a month into canonical rows.
type Normalizer interface {
	Kind() model.Kind
	// Sheets lists candidate sheet names; the first one present is used.
	Sheets() []string
	Normalize(tbl *model.Table, key sourcekey.Key) (*model.Table, error)
}

// SchemaError reports a sheet whose columns do not fit the expected shape.
type SchemaError struct {
	Kind    model.Kind
	Reason  string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s (columns: %q)", e.Kind.Label(), e.Reason, e.Columns)
}

func schemaErr(kind model.Kind, tbl *model.Table, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: kind, Reason: fmt.Sprintf(format, args...), Columns: tbl.Columns}
}

// SheetNames holds the configured sheet names per kind.
type SheetNames struct {
	PL []string
	BS string
	DB string
}

// Registry holds one normalizer per sheet kind.
type Registry struct {
	normalizers map[model.Kind]Normalizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{normalizers: make(map[model.Kind]Normalizer)}
}

// Register adds a normalizer. Panics on a duplicate kind.
func (r *Registry) Register(n Normalizer) {
	if _, ok := r.normalizers[n.Kind()]; ok {
		panic("duplicate normalizer kind: " + string(n.Kind()))
	}
	r.normalizers[n.Kind()] = n
}

// Get returns the normalizer for kind, or nil.
func (r *Registry) Get(kind model.Kind) Normalizer {
	return r.normalizers[kind]
}

// DefaultRegistry wires the P&L, balance sheet and database normalizers.
func DefaultRegistry(names SheetNames, logger *slog.Logger) *Registry {
	r := NewRegistry()
	r.Register(&PL{Candidates: names.PL, Logger: logger})
	r.Register(&BS{Sheet: names.BS})
	r.Register(&DB{Sheet: names.DB})
	return r
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
