package findata

import (
	"fmt"
	"log/slog"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

// seqModulus bounds the per-month sequence part of a transaction ID.
// The scheme wraps past this many entries in one month; behavior beyond the
// wrap is deliberately left as-is rather than silently extended.
const seqModulus = 10000

// TranData is the typed accessor for the income/outlay transaction table.
// Same caching and caller contract as AssetData.
type TranData struct {
	store  *sqlite.Store
	log    *slog.Logger
	table  sqlite.TableDef
	rows   []types.Transaction
	loaded bool
}

// NewTranData creates the accessor. No storage is touched until Validate.
func NewTranData(store *sqlite.Store, log *slog.Logger) *TranData {
	if log == nil {
		log = slog.Default()
	}
	return &TranData{store: store, log: log, table: sqlite.TranTable}
}

// Validate reports whether the transaction table exists in storage, and
// triggers the initial full load on first success.
func (t *TranData) Validate() (bool, error) {
	if t.loaded {
		return true, nil
	}
	var found bool
	err := t.store.Acquire(func(s *sqlite.Session) error {
		tables, err := s.ListTables()
		if err != nil {
			return err
		}
		for _, name := range tables {
			if name == t.table.Name {
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil || !found {
		return false, err
	}
	if err := t.LoadFromDB(); err != nil {
		return false, err
	}
	return true, nil
}

// LoadFromDB replaces the in-memory cache with a fresh full table scan.
func (t *TranData) LoadFromDB() error {
	var raw []sqlite.Row
	err := t.store.Acquire(func(s *sqlite.Session) error {
		var err error
		raw, err = s.QueryAll(t.table)
		return err
	})
	if err != nil {
		return fmt.Errorf("loading transaction data: %w", err)
	}
	rows := make([]types.Transaction, len(raw))
	for i, r := range raw {
		rows[i] = tranFromRow(r)
	}
	t.rows = rows
	t.loaded = true
	return nil
}

// Reset drops and recreates the transaction table, discarding all rows.
func (t *TranData) Reset() error {
	err := t.store.Acquire(func(s *sqlite.Session) error {
		if err := s.DropTable(t.table); err != nil {
			return err
		}
		if err := s.CreateTable(t.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("resetting transaction table: %w", err)
	}
	t.rows = nil
	t.loaded = true
	return nil
}

// UniqueID derives the next transaction ID for a month:
// digitDate*10000 + (max existing sequence for that month + 1) % 10000,
// starting at sequence 0 when the month has no transactions.
func (t *TranData) UniqueID(date string) (int64, error) {
	date, err := dates.Norm(date)
	if err != nil {
		return 0, err
	}
	digit, err := dates.Digit(date)
	if err != nil {
		return 0, err
	}

	var maxID int64 = -1
	for _, r := range t.rows {
		if r.Date == date && r.ID > maxID {
			maxID = r.ID
		}
	}
	var seq int64
	if maxID >= 0 {
		seq = (maxID%seqModulus + 1) % seqModulus
	}
	return digit*seqModulus + seq, nil
}

func tranRow(tr types.Transaction) map[string]any {
	return map[string]any{
		types.ColTranID:    tr.ID,
		types.ColDate:      tr.Date,
		types.ColTranType:  tr.Type,
		types.ColTranValue: tr.Value,
		types.ColTranCat:   tr.Category,
		types.ColTranNote:  tr.Note,
	}
}

// Insert records a transaction, auto-assigning its ID from UniqueID.
// Returns the assigned ID.
func (t *TranData) Insert(date, typ string, value float64, category, note string) (int64, error) {
	if !types.ValidTranType(typ) {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidTranType, typ)
	}
	date, err := dates.Norm(date)
	if err != nil {
		return 0, err
	}
	id, err := t.UniqueID(date)
	if err != nil {
		return 0, err
	}

	tr := types.Transaction{ID: id, Date: date, Type: typ, Value: value, Category: category, Note: note}
	err = t.store.Acquire(func(s *sqlite.Session) error {
		if err := s.InsertRow(tranRow(tr), t.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return id, t.LoadFromDB()
}

// DeleteByID removes one transaction.
func (t *TranData) DeleteByID(id int64) error {
	err := t.store.Acquire(func(s *sqlite.Session) error {
		if err := s.DeleteRows(map[string]any{types.ColTranID: id}, t.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	return t.LoadFromDB()
}

// Query filters the cache on any subset of (date, type, category); empty
// arguments are ignored. Filters are conjunctive.
func (t *TranData) Query(date, typ, category string) []types.Transaction {
	if date != "" {
		if n, err := dates.Norm(date); err == nil {
			date = n
		}
	}
	var out []types.Transaction
	for _, r := range t.rows {
		if date != "" && r.Date != date {
			continue
		}
		if typ != "" && r.Type != typ {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// QueryByID returns the transaction with the given ID.
func (t *TranData) QueryByID(id int64) (types.Transaction, bool) {
	for _, r := range t.rows {
		if r.ID == id {
			return r, true
		}
	}
	return types.Transaction{}, false
}

// Reindex recomputes every transaction ID sequentially per month, preserving
// row order. Repair operation for ID collisions after bulk import.
func (t *TranData) Reindex() error {
	rows := make([]types.Transaction, len(t.rows))
	copy(rows, t.rows)
	if err := assignSequentialIDs(rows); err != nil {
		return err
	}
	return t.replaceAll(rows)
}

// ImportRows replaces the table contents with rows, assigning fresh
// sequential IDs per month. Incoming IDs are ignored.
func (t *TranData) ImportRows(rows []types.Transaction) error {
	imported := make([]types.Transaction, len(rows))
	copy(imported, rows)
	if err := assignSequentialIDs(imported); err != nil {
		return err
	}
	return t.replaceAll(imported)
}

// assignSequentialIDs rewrites IDs as digitDate*10000 + running sequence per
// month, in slice order.
func assignSequentialIDs(rows []types.Transaction) error {
	seq := make(map[int64]int64)
	for i := range rows {
		date, err := dates.Norm(rows[i].Date)
		if err != nil {
			return err
		}
		digit, err := dates.Digit(date)
		if err != nil {
			return err
		}
		rows[i].Date = date
		rows[i].ID = digit*seqModulus + seq[digit]%seqModulus
		seq[digit]++
	}
	return nil
}

// replaceAll resets the table and writes rows in a single session.
func (t *TranData) replaceAll(rows []types.Transaction) error {
	err := t.store.Acquire(func(s *sqlite.Session) error {
		if err := s.DropTable(t.table); err != nil {
			return err
		}
		if err := s.CreateTable(t.table); err != nil {
			return err
		}
		for _, tr := range rows {
			if err := s.InsertRow(tranRow(tr), t.table); err != nil {
				return err
			}
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("rewriting transaction table: %w", err)
	}
	return t.LoadFromDB()
}

// Rows returns a copy of the cached table contents.
func (t *TranData) Rows() []types.Transaction {
	out := make([]types.Transaction, len(t.rows))
	copy(out, t.rows)
	return out
}
