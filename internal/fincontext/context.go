// Package fincontext composes the configuration store and the typed data
// accessors into the single facade the presentation layer talks to. A
// Context is constructed explicitly and injected into whoever needs it;
// there are no ambient globals.
package fincontext

import (
	"fmt"
	"log/slog"

	"github.com/finkeep/finkeep/internal/config"
	"github.com/finkeep/finkeep/internal/findata"
	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

// Context is the facade over configuration and financial data.
type Context struct {
	cfg    *config.Store
	assets *findata.AssetData
	trans  *findata.TranData
	log    *slog.Logger
}

// New wires an already-constructed config store and accessors together.
func New(cfg *config.Store, assets *findata.AssetData, trans *findata.TranData, log *slog.Logger) *Context {
	if log == nil {
		log = slog.Default()
	}
	return &Context{cfg: cfg, assets: assets, trans: trans, log: log}
}

// Open builds a Context from file paths: the JSON config at configPath and
// the SQLite database at dbPath. Config referential issues are returned for
// display; they never abort the open.
func Open(configPath, dbPath string, log *slog.Logger) (*Context, []config.Issue, error) {
	if log == nil {
		log = slog.Default()
	}
	cfg, issues, err := config.New(configPath, log)
	if err != nil {
		return nil, nil, err
	}

	store := sqlite.New(dbPath, log)
	ctx := &Context{
		cfg:    cfg,
		assets: findata.NewAssetData(store, log),
		trans:  findata.NewTranData(store, log),
		log:    log,
	}
	if _, err := ctx.Validate(); err != nil {
		return nil, nil, err
	}
	return ctx, issues, nil
}

// Config returns the configuration store.
func (c *Context) Config() *config.Store {
	return c.cfg
}

// Assets returns the asset snapshot accessor.
func (c *Context) Assets() *findata.AssetData {
	return c.assets
}

// Trans returns the transaction accessor.
func (c *Context) Trans() *findata.TranData {
	return c.trans
}

// Validate reports whether both tables exist in storage, loading the caches
// on first success.
func (c *Context) Validate() (bool, error) {
	aok, err := c.assets.Validate()
	if err != nil {
		return false, err
	}
	tok, err := c.trans.Validate()
	if err != nil {
		return false, err
	}
	return aok && tok, nil
}

// InitDB creates any missing tables. Already-initialized storage is a no-op;
// unknown tables are logged but left alone.
func (c *Context) InitDB() error {
	known := map[string]bool{
		types.AssetTableName: false,
		types.TranTableName:  false,
	}
	store := c.assets.Store()
	err := store.Acquire(func(s *sqlite.Session) error {
		tables, err := s.ListTables()
		if err != nil {
			return err
		}
		for _, t := range tables {
			if _, ok := known[t]; ok {
				known[t] = true
			} else {
				c.log.Warn("storage contains unknown table", "table", t)
			}
		}
		if !known[types.AssetTableName] {
			if err := s.CreateTable(sqlite.AssetTable); err != nil {
				return err
			}
		}
		if !known[types.TranTableName] {
			if err := s.CreateTable(sqlite.TranTable); err != nil {
				return err
			}
		}
		return s.Commit()
	})
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	if err := c.assets.LoadFromDB(); err != nil {
		return err
	}
	return c.trans.LoadFromDB()
}

// ResetAssetTable drops and recreates the asset table.
func (c *Context) ResetAssetTable() error {
	return c.assets.Reset()
}

// ResetTranTable drops and recreates the transaction table.
func (c *Context) ResetTranTable() error {
	return c.trans.Reset()
}

// TableInfo returns column metadata for both tables, for diagnostic display.
func (c *Context) TableInfo() (asset, tran []sqlite.ColumnInfo, err error) {
	store := c.assets.Store()
	err = store.Acquire(func(s *sqlite.Session) error {
		var err error
		if asset, err = s.TableInfo(sqlite.AssetTable); err != nil {
			return err
		}
		tran, err = s.TableInfo(sqlite.TranTable)
		return err
	})
	return asset, tran, err
}

// DeleteSubaccount removes the sub-account from configuration. Its SQL
// history stays queryable unless purgeData is set.
func (c *Context) DeleteSubaccount(account, subaccount string, purgeData bool) error {
	if err := c.cfg.DeleteAsset(account, subaccount); err != nil {
		return err
	}
	if !purgeData {
		return nil
	}
	return c.assets.DeleteSubaccount(account, subaccount)
}
