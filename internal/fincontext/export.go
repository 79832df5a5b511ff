package fincontext

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/internal/sqlite"
)

// Archive member names for the full-backup bundle.
const (
	MemberAsset  = "asset.csv"
	MemberFlow   = "flow.csv"
	MemberConfig = "config.json"
)

// legacy member names accepted on import; older exports used .txt.
const (
	legacyMemberAsset = "asset.txt"
	legacyMemberFlow  = "flow.txt"
)

// AssetCSV serializes the asset table: header in schema column order, one
// row per snapshot, amounts at storage precision.
func (c *Context) AssetCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(sqlite.AssetTable.ColumnNames()); err != nil {
		return nil, fmt.Errorf("writing asset header: %w", err)
	}
	for _, r := range c.assets.Rows() {
		rec := []string{
			r.Date, r.Account, r.Subaccount,
			money.Format(r.NetWorth), money.Format(r.Inflow), money.Format(r.Profit),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("writing asset row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TranCSV serializes the transaction table in schema column order.
func (c *Context) TranCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(sqlite.TranTable.ColumnNames()); err != nil {
		return nil, fmt.Errorf("writing transaction header: %w", err)
	}
	for _, t := range c.trans.Rows() {
		rec := []string{
			strconv.FormatInt(t.ID, 10), t.Date, t.Type,
			money.Format(t.Value), t.Category, t.Note,
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("writing transaction row: %w", err)
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportZip writes the full backup bundle: both CSV tables plus the JSON
// configuration.
func (c *Context) ExportZip(w io.Writer) error {
	assetCSV, err := c.AssetCSV()
	if err != nil {
		return err
	}
	tranCSV, err := c.TranCSV()
	if err != nil {
		return err
	}
	configJSON, err := c.cfg.JSON()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	members := []struct {
		name string
		data []byte
	}{
		{MemberAsset, assetCSV},
		{MemberFlow, tranCSV},
		{MemberConfig, configJSON},
	}
	for _, m := range members {
		f, err := zw.Create(m.name)
		if err != nil {
			return fmt.Errorf("creating archive member %s: %w", m.name, err)
		}
		if _, err := f.Write(m.data); err != nil {
			return fmt.Errorf("writing archive member %s: %w", m.name, err)
		}
	}
	return zw.Close()
}
