package fincontext

import (
	"archive/zip"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/finkeep/finkeep/internal/money"
	"github.com/finkeep/finkeep/internal/sqlite"
	"github.com/finkeep/finkeep/pkg/types"
)

// ImportZipFile restores a full backup bundle from a zip file on disk.
func (c *Context) ImportZipFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat archive: %w", err)
	}
	zr, err := zip.NewReader(f, st.Size())
	if err != nil {
		return fmt.Errorf("reading archive: %w", err)
	}
	return c.ImportZip(zr)
}

// ImportZip restores configuration and data from a backup bundle. All three
// members must be present and both CSVs must parse with the expected column
// sets before any state is touched; only then are configuration, asset rows
// (upserted), and transactions (replaced, fresh IDs) applied.
func (c *Context) ImportZip(zr *zip.Reader) error {
	members := map[string]*zip.File{}
	for _, f := range zr.File {
		members[f.Name] = f
	}
	assetFile, err := requireMember(members, MemberAsset, legacyMemberAsset)
	if err != nil {
		return err
	}
	flowFile, err := requireMember(members, MemberFlow, legacyMemberFlow)
	if err != nil {
		return err
	}
	configFile, err := requireMember(members, MemberConfig)
	if err != nil {
		return err
	}

	var doc types.ConfigDocument
	if err := readMember(configFile, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&doc)
	}); err != nil {
		return fmt.Errorf("parsing %s: %w", configFile.Name, err)
	}

	var snaps []types.AssetSnapshot
	if err := readMember(assetFile, func(r io.Reader) error {
		var err error
		snaps, err = parseAssetCSV(r)
		return err
	}); err != nil {
		return fmt.Errorf("parsing %s: %w", assetFile.Name, err)
	}

	var trans []types.Transaction
	if err := readMember(flowFile, func(r io.Reader) error {
		var err error
		trans, err = parseTranCSV(r)
		return err
	}); err != nil {
		return fmt.Errorf("parsing %s: %w", flowFile.Name, err)
	}

	// Everything parsed; start mutating.
	batch := uuid.Must(uuid.NewV7()).String()
	c.log.Info("importing backup bundle", "batch", batch,
		"asset_rows", len(snaps), "transactions", len(trans))

	issues := c.cfg.LoadDocument(doc)
	for _, issue := range issues {
		c.log.Error("imported config issue", "batch", batch, "issue", issue.String())
	}
	if err := c.cfg.Write(); err != nil {
		return err
	}

	if err := c.InitDB(); err != nil {
		return err
	}
	if err := c.assets.BatchUpsert(snaps); err != nil {
		return err
	}
	if err := c.trans.ImportRows(trans); err != nil {
		return err
	}
	c.log.Info("import complete", "batch", batch)
	return nil
}

// requireMember returns the first present member among names, or a
// fail-fast error naming the canonical member.
func requireMember(members map[string]*zip.File, names ...string) (*zip.File, error) {
	for _, n := range names {
		if f, ok := members[n]; ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", types.ErrImportMember, names[0])
}

func readMember(f *zip.File, fn func(io.Reader) error) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return fn(r)
}

// checkColumns verifies an imported CSV header against the table schema.
func checkColumns(header []string, td sqlite.TableDef) error {
	want := td.ColumnNames()
	if len(header) != len(want) {
		return fmt.Errorf("%w: want [%s], got [%s]", types.ErrImportColumns,
			strings.Join(want, ", "), strings.Join(header, ", "))
	}
	for i, col := range want {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("%w: want [%s], got [%s]", types.ErrImportColumns,
				strings.Join(want, ", "), strings.Join(header, ", "))
		}
	}
	return nil
}

func parseAssetCSV(r io.Reader) ([]types.AssetSnapshot, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", types.ErrImportColumns)
	}
	if err := checkColumns(records[0], sqlite.AssetTable); err != nil {
		return nil, err
	}

	snaps := make([]types.AssetSnapshot, 0, len(records)-1)
	for _, rec := range records[1:] {
		net, err := money.Parse(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, rec[3])
		}
		inflow, err := money.Parse(rec[4])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, rec[4])
		}
		profit, err := money.Parse(rec[5])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, rec[5])
		}
		snaps = append(snaps, types.AssetSnapshot{
			Date:       rec[0],
			Account:    rec[1],
			Subaccount: rec[2],
			NetWorth:   net,
			Inflow:     inflow,
			Profit:     profit,
		})
	}
	return snaps, nil
}

func parseTranCSV(r io.Reader) ([]types.Transaction, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", types.ErrImportColumns)
	}
	if err := checkColumns(records[0], sqlite.TranTable); err != nil {
		return nil, err
	}

	trans := make([]types.Transaction, 0, len(records)-1)
	for _, rec := range records[1:] {
		if !types.ValidTranType(rec[2]) {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidTranType, rec[2])
		}
		value, err := money.Parse(rec[3])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidNumber, rec[3])
		}
		// IDs are reassigned on import; the CSV ID column is ignored.
		trans = append(trans, types.Transaction{
			Date:     rec[1],
			Type:     rec[2],
			Value:    value,
			Category: rec[4],
			Note:     rec[5],
		})
	}
	return trans, nil
}
