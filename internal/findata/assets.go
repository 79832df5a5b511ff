package findata

import (
	"fmt"
	"log/slog"

	"github.com/finkeep/finkeep/internal/dates"
	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

// AssetData is the typed accessor for the asset snapshot table. Operations
// assume the table exists once Validate has passed; calling them earlier is a
// caller contract violation, not a runtime-checked precondition.
type AssetData struct {
	store  *sqlite.Store
	log    *slog.Logger
	table  sqlite.TableDef
	rows   []types.AssetSnapshot
	loaded bool
}

// NewAssetData creates the accessor. No storage is touched until Validate.
func NewAssetData(store *sqlite.Store, log *slog.Logger) *AssetData {
	if log == nil {
		log = slog.Default()
	}
	return &AssetData{store: store, log: log, table: sqlite.AssetTable}
}

// Store exposes the underlying storage driver for facade-level operations
// that span both tables.
func (a *AssetData) Store() *sqlite.Store {
	return a.store
}

// Validate reports whether the asset table exists in storage, and triggers
// the initial full load on first success.
func (a *AssetData) Validate() (bool, error) {
	if a.loaded {
		return true, nil
	}
	var found bool
	err := a.store.Acquire(func(s *sqlite.Session) error {
		tables, err := s.ListTables()
		if err != nil {
			return err
		}
		for _, t := range tables {
			if t == a.table.Name {
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil || !found {
		return false, err
	}
	if err := a.LoadFromDB(); err != nil {
		return false, err
	}
	return true, nil
}

// LoadFromDB replaces the in-memory cache with a fresh full table scan.
func (a *AssetData) LoadFromDB() error {
	var raw []sqlite.Row
	err := a.store.Acquire(func(s *sqlite.Session) error {
		var err error
		raw, err = s.QueryAll(a.table)
		return err
	})
	if err != nil {
		return fmt.Errorf("loading asset data: %w", err)
	}
	rows := make([]types.AssetSnapshot, len(raw))
	for i, r := range raw {
		rows[i] = assetFromRow(r)
	}
	a.rows = rows
	a.loaded = true
	return nil
}

// Reset drops and recreates the asset table, discarding all rows.
func (a *AssetData) Reset() error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		if err := s.DropTable(a.table); err != nil {
			return err
		}
		if err := s.CreateTable(a.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("resetting asset table: %w", err)
	}
	a.rows = nil
	a.loaded = true
	return nil
}

func assetKey(date, account, subaccount string) map[string]any {
	return map[string]any{
		types.ColDate:       date,
		types.ColAccount:    account,
		types.ColSubaccount: subaccount,
	}
}

func assetValues(net, inflow, profit float64) map[string]any {
	return map[string]any{
		types.ColNetWorth: net,
		types.ColInflow:   inflow,
		types.ColProfit:   profit,
	}
}

// Insert adds a new snapshot row and reloads the cache.
func (a *AssetData) Insert(snap types.AssetSnapshot) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		data := assetKey(snap.Date, snap.Account, snap.Subaccount)
		for k, v := range assetValues(snap.NetWorth, snap.Inflow, snap.Profit) {
			data[k] = v
		}
		if err := s.InsertRow(data, a.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("inserting asset row: %w", err)
	}
	return a.LoadFromDB()
}

// Update rewrites the numeric columns of the row keyed on (date, account,
// subaccount) and reloads the cache.
func (a *AssetData) Update(snap types.AssetSnapshot) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		err := s.UpdateRows(
			assetKey(snap.Date, snap.Account, snap.Subaccount),
			assetValues(snap.NetWorth, snap.Inflow, snap.Profit),
			a.table)
		if err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("updating asset row: %w", err)
	}
	return a.LoadFromDB()
}

// Upsert reconciles a snapshot into the table keyed on (date, account,
// subaccount): re-entering the same month for the same sub-account leaves
// exactly one row carrying the latest payload.
func (a *AssetData) Upsert(snap types.AssetSnapshot) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		err := s.UpsertRow(
			assetKey(snap.Date, snap.Account, snap.Subaccount),
			assetValues(snap.NetWorth, snap.Inflow, snap.Profit),
			a.table)
		if err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("upserting asset row: %w", err)
	}
	return a.LoadFromDB()
}

// BatchUpsert reconciles many snapshots in a single session, then reloads.
func (a *AssetData) BatchUpsert(snaps []types.AssetSnapshot) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		for _, snap := range snaps {
			err := s.UpsertRow(
				assetKey(snap.Date, snap.Account, snap.Subaccount),
				assetValues(snap.NetWorth, snap.Inflow, snap.Profit),
				a.table)
			if err != nil {
				return err
			}
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("batch upserting asset rows: %w", err)
	}
	return a.LoadFromDB()
}

// Delete removes the row for one (date, account, subaccount) key.
func (a *AssetData) Delete(date, account, subaccount string) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		if err := s.DeleteRows(assetKey(date, account, subaccount), a.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("deleting asset row: %w", err)
	}
	return a.LoadFromDB()
}

// DeleteSubaccount removes the entire history of a sub-account. Used when a
// sub-account is deleted outright; config deletion alone never calls this.
func (a *AssetData) DeleteSubaccount(account, subaccount string) error {
	err := a.store.Acquire(func(s *sqlite.Session) error {
		filter := map[string]any{
			types.ColAccount:    account,
			types.ColSubaccount: subaccount,
		}
		if err := s.DeleteRows(filter, a.table); err != nil {
			return err
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("deleting sub-account history: %w", err)
	}
	return a.LoadFromDB()
}

// Query filters the cache on any subset of (date, account, subaccount);
// empty arguments are ignored. Filters are conjunctive.
func (a *AssetData) Query(date, account, subaccount string) []types.AssetSnapshot {
	if date != "" {
		if n, err := dates.Norm(date); err == nil {
			date = n
		}
	}
	var out []types.AssetSnapshot
	for _, r := range a.rows {
		if date != "" && r.Date != date {
			continue
		}
		if account != "" && r.Account != account {
			continue
		}
		if subaccount != "" && r.Subaccount != subaccount {
			continue
		}
		out = append(out, r)
	}
	return out
}

// QueryLastBefore returns the most recent row strictly before date for the
// sub-account, or ok=false if no earlier row exists. Used to pre-fill the
// previous balance during data entry and for carry-forward valuation.
func (a *AssetData) QueryLastBefore(date, account, subaccount string) (types.AssetSnapshot, bool) {
	if n, err := dates.Norm(date); err == nil {
		date = n
	}
	var best types.AssetSnapshot
	found := false
	for _, r := range a.Query("", account, subaccount) {
		if r.Date >= date {
			continue
		}
		if !found || r.Date > best.Date {
			best = r
			found = true
		}
	}
	return best, found
}

// QueryPeriod returns all rows with date in [start, end] inclusive, across
// every account.
func (a *AssetData) QueryPeriod(start, end string) ([]types.AssetSnapshot, error) {
	start, err := dates.Norm(start)
	if err != nil {
		return nil, err
	}
	end, err = dates.Norm(end)
	if err != nil {
		return nil, err
	}
	var out []types.AssetSnapshot
	for _, r := range a.rows {
		if r.Date >= start && r.Date <= end {
			out = append(out, r)
		}
	}
	return out, nil
}

// DateRange returns the global min and max date across all asset data.
// ok is false when the table is empty.
func (a *AssetData) DateRange() (earliest, latest string, ok bool) {
	for _, r := range a.rows {
		if !ok {
			earliest, latest, ok = r.Date, r.Date, true
			continue
		}
		earliest = dates.Min(earliest, r.Date)
		latest = dates.Max(latest, r.Date)
	}
	return earliest, latest, ok
}

// Rows returns a copy of the cached table contents.
func (a *AssetData) Rows() []types.AssetSnapshot {
	out := make([]types.AssetSnapshot, len(a.rows))
	copy(out, a.rows)
	return out
}
