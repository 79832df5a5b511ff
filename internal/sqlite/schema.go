// Package sqlite implements the finkeep storage driver: declarative table
// schemas and a generic, schema-driven session API over a SQLite database.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/pkg/types"
)

// NormalizeFunc coerces a value to its canonical stored form.
type NormalizeFunc func(any) (any, error)

// ColumnDef declares one SQL column: name, type, constraint clause, and an
// optional value normalizer applied before the value reaches a statement.
type ColumnDef struct {
	Name       string
	Type       string // TEXT, REAL or INTEGER
	Constraint string // e.g. "NOT NULL", "PRIMARY KEY"
	Normalize  NormalizeFunc
}

// DefString renders the column for a CREATE TABLE statement.
func (c ColumnDef) DefString() string {
	if c.Constraint == "" {
		return fmt.Sprintf("%s %s", c.Name, c.Type)
	}
	return fmt.Sprintf("%s %s %s", c.Name, c.Type, c.Constraint)
}

// NormalizeValue applies the column normalizer, if any.
func (c ColumnDef) NormalizeValue(v any) (any, error) {
	if c.Normalize == nil {
		return v, nil
	}
	return c.Normalize(v)
}

// TableDef declares a table as an ordered column list. Immutable after
// construction; holds no connection state.
type TableDef struct {
	Name string
	Cols []ColumnDef
}

// CreateDDL generates the CREATE TABLE statement for the table.
func (t TableDef) CreateDDL() string {
	defs := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		defs[i] = c.DefString()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", t.Name, strings.Join(defs, ", "))
}

// ColumnNames returns the canonical column name list in declaration order.
func (t TableDef) ColumnNames() []string {
	names := make([]string, len(t.Cols))
	for i, c := range t.Cols {
		names[i] = c.Name
	}
	return names
}

// Column looks up a declared column by name.
func (t TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// NormalizeValue normalizes a value for the named column.
// Returns ErrColumnUnknown for columns not declared on the table.
func (t TableDef) NormalizeValue(col string, v any) (any, error) {
	c, ok := t.Column(col)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrColumnUnknown, t.Name, col)
	}
	return c.NormalizeValue(v)
}

// NormDate coerces any accepted date form to canonical "YYYY-MM".
func NormDate(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDate, v)
	}
	return dates.Norm(s)
}

// NormNumber coerces a numeric value to 2-decimal precision.
func NormNumber(v any) (any, error) {
	switch n := v.(type) {
	case float64:
		return money.Round(n), nil
	case float32:
		return money.Round(float64(n)), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := money.Parse(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, n)
		}
		return money.Round(f), nil
	default:
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidNumber, v)
	}
}

// NormID coerces a transaction ID to int64.
func NormID(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		var id int64
		if _, err := fmt.Sscanf(n, "%d", &id); err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, n)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidNumber, v)
	}
}

// AssetTable is the snapshot table: one row per account/sub-account/month.
var AssetTable = TableDef{
	Name: types.AssetTableName,
	Cols: []ColumnDef{
		{Name: types.ColDate, Type: "TEXT", Constraint: "NOT NULL", Normalize: NormDate},
		{Name: types.ColAccount, Type: "TEXT", Constraint: "NOT NULL"},
		{Name: types.ColSubaccount, Type: "TEXT", Constraint: "NOT NULL"},
		{Name: types.ColNetWorth, Type: "REAL", Constraint: "NOT NULL", Normalize: NormNumber},
		{Name: types.ColInflow, Type: "REAL", Constraint: "NOT NULL", Normalize: NormNumber},
		{Name: types.ColProfit, Type: "REAL", Constraint: "NOT NULL", Normalize: NormNumber},
	},
}

// TranTable is the discrete income/outlay transaction table.
var TranTable = TableDef{
	Name: types.TranTableName,
	Cols: []ColumnDef{
		{Name: types.ColTranID, Type: "INTEGER", Constraint: "PRIMARY KEY", Normalize: NormID},
		{Name: types.ColDate, Type: "TEXT", Constraint: "NOT NULL", Normalize: NormDate},
		{Name: types.ColTranType, Type: "TEXT", Constraint: "NOT NULL"},
		{Name: types.ColTranValue, Type: "REAL", Constraint: "NOT NULL", Normalize: NormNumber},
		{Name: types.ColTranCat, Type: "TEXT", Constraint: "NOT NULL"},
		{Name: types.ColTranNote, Type: "TEXT", Constraint: "NOT NULL"},
	},
}
