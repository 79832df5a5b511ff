// Package cli implements the finkeep command-line interface.
package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is the finkeep release version.
const Version = "0.2.0"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// sysError marks an error as a system failure (storage, filesystem) rather
// than bad input, so Execute can pick the right exit code.
type sysError struct{ err error }

func (e sysError) Error() string { return e.err.Error() }
func (e sysError) Unwrap() error { return e.err }

func systemErr(err error) error {
	if err == nil {
		return nil
	}
	return sysError{err: err}
}

// NewRootCmd creates the top-level "finkeep" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finkeep",
		Short: "A monthly personal-finance record keeper",
		Long: "Finkeep tracks monthly asset snapshots and income transactions per\n" +
			"account and sub-account, backed by a local SQLite database.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .finkeep-data)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newSampleCmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(newCategoryCmd())
	root.AddCommand(newRecordCmd())
	root.AddCommand(newTranCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newReindexCmd())
	root.AddCommand(newInfoCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		var sys sysError
		if errors.As(err, &sys) {
			os.Exit(exitSysError)
		}
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// setupLogging routes structured logs to stderr so stdout stays parseable.
func setupLogging() {
	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func logger() *slog.Logger {
	return slog.Default()
}
