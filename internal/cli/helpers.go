// Shared helpers for finkeep CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/finkeep/finkeep/internal/fincontext"
	"github.com/finkeep/finkeep/internal/paths"
)

// openContext resolves directories, loads config.yaml, and builds the
// application context. Referential config issues are printed to stderr but do
// not abort the command.
func openContext() (*fincontext.Context, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, systemErr(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, systemErr(err)
	}
	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, systemErr(fmt.Errorf("resolve data dir: %w", err))
	}

	configPath := filepath.Join(configDir, v.GetString(cfgKeyConfigFile))
	dbPath := filepath.Join(dataDir, v.GetString(cfgKeyDBFile))

	ctx, issues, err := fincontext.Open(configPath, dbPath, logger())
	if err != nil {
		return nil, systemErr(err)
	}
	for _, issue := range issues {
		fmt.Fprintln(os.Stderr, "config:", issue.String())
	}
	return ctx, nil
}

// openInitializedContext opens the context and verifies storage has been
// initialized, directing the user to init otherwise.
func openInitializedContext() (*fincontext.Context, error) {
	ctx, err := openContext()
	if err != nil {
		return nil, err
	}
	ok, err := ctx.Validate()
	if err != nil {
		return nil, systemErr(err)
	}
	if !ok {
		return nil, fmt.Errorf("storage not initialized; run 'finkeep init' first")
	}
	return ctx, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// newTable returns a tab-aligned writer for columnar output. Callers must
// Flush it.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
