package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finkeep/finkeep/pkg/types"
)

// Row is a raw result row in table column order.
type Row []any

// ColumnInfo is one PRAGMA table_info entry, used for diagnostic display.
type ColumnInfo struct {
	CID        int
	Name       string
	Type       string
	NotNull    bool
	Default    any
	PrimaryKey bool
}

// Session is a scoped connection handed out by Store.Acquire. All mutation
// paths require an explicit Commit before the scope exits; uncommitted work
// is discarded on release.
type Session struct {
	tx        *sql.Tx
	log       *slog.Logger
	committed bool
}

// Commit makes all writes in this session durable.
func (s *Session) Commit() error {
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	s.committed = true
	return nil
}

// exec runs a statement with debug logging.
func (s *Session) exec(query string, args ...any) (sql.Result, error) {
	s.log.Debug("exec", "sql", query, "args", args)
	return s.tx.Exec(query, args...)
}

// query runs a query with debug logging.
func (s *Session) query(query string, args ...any) (*sql.Rows, error) {
	s.log.Debug("query", "sql", query, "args", args)
	return s.tx.Query(query, args...)
}

// ListTables returns the names of all tables present in storage.
func (s *Session) ListTables() ([]string, error) {
	rows, err := s.query("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CreateTable creates the table described by td.
func (s *Session) CreateTable(td TableDef) error {
	if _, err := s.exec(td.CreateDDL()); err != nil {
		return fmt.Errorf("creating table %s: %w", td.Name, err)
	}
	return nil
}

// DropTable drops the table if it exists.
func (s *Session) DropTable(td TableDef) error {
	if _, err := s.exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", td.Name)); err != nil {
		return fmt.Errorf("dropping table %s: %w", td.Name, err)
	}
	return nil
}

// IsEmpty reports whether the table holds zero rows.
func (s *Session) IsEmpty(td TableDef) (bool, error) {
	var count int
	row := s.tx.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", td.Name))
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("counting rows in %s: %w", td.Name, err)
	}
	return count == 0, nil
}

// QueryAll returns every row of the table as raw tuples in column order.
func (s *Session) QueryAll(td TableDef) ([]Row, error) {
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(td.ColumnNames(), ", "), td.Name)
	rows, err := s.query(q)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", td.Name, err)
	}
	defer rows.Close()
	return scanRows(rows, len(td.Cols))
}

// InsertRow inserts data as a new row. Every declared column must be present
// in data; a missing column fails the whole insert with ErrColumnMissing.
// Values pass through the column normalizers before insertion.
func (s *Session) InsertRow(data map[string]any, td TableDef) error {
	cols := make([]string, 0, len(td.Cols))
	marks := make([]string, 0, len(td.Cols))
	args := make([]any, 0, len(td.Cols))
	for _, c := range td.Cols {
		v, ok := data[c.Name]
		if !ok {
			return fmt.Errorf("%w: %s.%s", types.ErrColumnMissing, td.Name, c.Name)
		}
		nv, err := c.NormalizeValue(v)
		if err != nil {
			return fmt.Errorf("normalizing %s.%s: %w", td.Name, c.Name, err)
		}
		cols = append(cols, c.Name)
		marks = append(marks, "?")
		args = append(args, nv)
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		td.Name, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if _, err := s.exec(q, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", td.Name, err)
	}
	return nil
}

// UpdateRows applies data as a SET clause to every row matching the
// conjunctive equality filter. Matching zero rows is not an error.
func (s *Session) UpdateRows(filter, data map[string]any, td TableDef) error {
	setClause, setArgs, err := equalityClause(data, td, ", ")
	if err != nil {
		return err
	}
	whereClause, whereArgs, err := equalityClause(filter, td, " AND ")
	if err != nil {
		return err
	}

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s", td.Name, setClause, whereClause)
	if _, err := s.exec(q, append(setArgs, whereArgs...)...); err != nil {
		return fmt.Errorf("updating %s: %w", td.Name, err)
	}
	return nil
}

// UpsertRow updates the row matching filter if one exists, otherwise inserts
// filter ∪ data as a new row. This is the reconciliation primitive that keeps
// re-entered monthly snapshots idempotent.
func (s *Session) UpsertRow(filter, data map[string]any, td TableDef) error {
	exists, err := s.Exists(filter, td)
	if err != nil {
		return err
	}
	if exists {
		return s.UpdateRows(filter, data, td)
	}

	merged := make(map[string]any, len(filter)+len(data))
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	return s.InsertRow(merged, td)
}

// DeleteRows removes every row matching the conjunctive equality filter.
func (s *Session) DeleteRows(filter map[string]any, td TableDef) error {
	whereClause, args, err := equalityClause(filter, td, " AND ")
	if err != nil {
		return err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", td.Name, whereClause)
	if _, err := s.exec(q, args...); err != nil {
		return fmt.Errorf("deleting from %s: %w", td.Name, err)
	}
	return nil
}

// QueryRows returns rows matching the conjunctive equality filter.
func (s *Session) QueryRows(filter map[string]any, td TableDef) ([]Row, error) {
	if len(filter) == 0 {
		return s.QueryAll(td)
	}
	whereClause, args, err := equalityClause(filter, td, " AND ")
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(td.ColumnNames(), ", "), td.Name, whereClause)
	rows, err := s.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", td.Name, err)
	}
	defer rows.Close()
	return scanRows(rows, len(td.Cols))
}

// Exists reports whether any row matches the filter.
func (s *Session) Exists(filter map[string]any, td TableDef) (bool, error) {
	rows, err := s.QueryRows(filter, td)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Period is an inclusive [Start, End] range for a BETWEEN clause.
type Period struct {
	Start any
	End   any
}

// QueryPeriod returns rows matching the conjunction of inclusive BETWEEN
// clauses (periodFilter) and equality clauses (filter).
func (s *Session) QueryPeriod(periodFilter map[string]Period, filter map[string]any, td TableDef) ([]Row, error) {
	var clauses []string
	var args []any
	for _, c := range td.Cols {
		p, ok := periodFilter[c.Name]
		if !ok {
			continue
		}
		start, err := c.NormalizeValue(p.Start)
		if err != nil {
			return nil, fmt.Errorf("normalizing %s.%s: %w", td.Name, c.Name, err)
		}
		end, err := c.NormalizeValue(p.End)
		if err != nil {
			return nil, fmt.Errorf("normalizing %s.%s: %w", td.Name, c.Name, err)
		}
		clauses = append(clauses, fmt.Sprintf("%s BETWEEN ? AND ?", c.Name))
		args = append(args, start, end)
	}
	if len(clauses) != len(periodFilter) {
		return nil, fmt.Errorf("%w: period filter on %s", types.ErrColumnUnknown, td.Name)
	}

	if len(filter) > 0 {
		whereClause, whereArgs, err := equalityClause(filter, td, " AND ")
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, whereClause)
		args = append(args, whereArgs...)
	}

	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(td.ColumnNames(), ", "), td.Name, strings.Join(clauses, " AND "))
	rows, err := s.query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s period: %w", td.Name, err)
	}
	defer rows.Close()
	return scanRows(rows, len(td.Cols))
}

// TableInfo returns PRAGMA table_info metadata for diagnostic display.
func (s *Session) TableInfo(td TableDef) ([]ColumnInfo, error) {
	rows, err := s.query(fmt.Sprintf("PRAGMA table_info(%s)", td.Name))
	if err != nil {
		return nil, fmt.Errorf("table info for %s: %w", td.Name, err)
	}
	defer rows.Close()

	var infos []ColumnInfo
	for rows.Next() {
		var ci ColumnInfo
		var notNull, pk int
		if err := rows.Scan(&ci.CID, &ci.Name, &ci.Type, &notNull, &ci.Default, &pk); err != nil {
			return nil, fmt.Errorf("scanning table info: %w", err)
		}
		ci.NotNull = notNull != 0
		ci.PrimaryKey = pk != 0
		infos = append(infos, ci)
	}
	return infos, rows.Err()
}

// MaxValue returns MAX(col) for the table, or nil when the table is empty.
func (s *Session) MaxValue(col string, td TableDef) (any, error) {
	if _, ok := td.Column(col); !ok {
		return nil, fmt.Errorf("%w: %s.%s", types.ErrColumnUnknown, td.Name, col)
	}
	var v any
	row := s.tx.QueryRow(fmt.Sprintf("SELECT MAX(%s) FROM %s", col, td.Name))
	if err := row.Scan(&v); err != nil {
		return nil, fmt.Errorf("max %s.%s: %w", td.Name, col, err)
	}
	return v, nil
}

// equalityClause builds "col = ? AND col = ?" (or comma-joined SET pairs)
// from the mapping, in table column order so statements are deterministic.
// Every key must be a declared column; values pass through the normalizers.
func equalityClause(m map[string]any, td TableDef, sep string) (string, []any, error) {
	var parts []string
	var args []any
	for _, c := range td.Cols {
		v, ok := m[c.Name]
		if !ok {
			continue
		}
		nv, err := c.NormalizeValue(v)
		if err != nil {
			return "", nil, fmt.Errorf("normalizing %s.%s: %w", td.Name, c.Name, err)
		}
		parts = append(parts, fmt.Sprintf("%s = ?", c.Name))
		args = append(args, nv)
	}
	if len(parts) != len(m) {
		return "", nil, fmt.Errorf("%w: filter on %s", types.ErrColumnUnknown, td.Name)
	}
	return strings.Join(parts, sep), args, nil
}

// scanRows drains a result set into raw rows.
func scanRows(rows *sql.Rows, width int) ([]Row, error) {
	var out []Row
	for rows.Next() {
		row := make(Row, width)
		ptrs := make([]any, width)
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
