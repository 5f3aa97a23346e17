// Command weft inspects and edits .xlsx workbooks from the terminal: list
// sheets, dump records as JSON, manage sheet metadata, copy sheets, and apply
// upsert or delete batches. Data goes to stdout and logs go to stderr, so
// output can be piped.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose, logJSON bool

	cmd := &cobra.Command{
		Use:           "weft",
		Short:         "Inspect and edit spreadsheet workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts := &slog.HandlerOptions{Level: slog.LevelInfo}
			if verbose {
				opts.Level = slog.LevelDebug
			}
			var handler slog.Handler
			if logJSON {
				handler = slog.NewJSONHandler(os.Stderr, opts)
			} else {
				handler = slog.NewTextHandler(os.Stderr, opts)
			}
			slog.SetDefault(slog.New(handler))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON instead of text")

	cmd.AddCommand(
		newSheetsCmd(),
		newDumpCmd(),
		newMetaCmd(),
		newCopyCmd(),
		newUpsertCmd(),
		newDeleteCmd(),
	)
	return cmd
}
