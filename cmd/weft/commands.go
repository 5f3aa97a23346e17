package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jacentio/weft/sheet"
	"github.com/jacentio/weft/xlsx"
)

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <workbook.xlsx>",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			names, err := wb.SheetNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	var typed, pretty bool

	cmd := &cobra.Command{
		Use:   "dump <workbook.xlsx> <sheet>",
		Short: "Print a sheet's records as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			sh, err := wb.Sheet(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			dec := sheet.RawDecoder
			if typed {
				dec = sheet.TypedDecoder
			}
			records, err := sheet.DecodeSheet(cmd.Context(), sh, dec)
			if err != nil {
				return err
			}
			if records == nil {
				records = []sheet.Record{}
			}
			slog.Debug("decoded sheet", "sheet", args[1], "records", len(records))
			return printJSON(cmd.OutOrStdout(), records, pretty)
		},
	}

	cmd.Flags().BoolVar(&typed, "typed", false, "parse numeric and boolean cells into typed values")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	return cmd
}

func newMetaCmd() *cobra.Command {
	var sets []string
	var pretty bool

	cmd := &cobra.Command{
		Use:   "meta <workbook.xlsx> <sheet>",
		Short: "Show or set sheet metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			sh, err := wb.Sheet(ctx, args[1])
			if err != nil {
				return err
			}

			for _, kv := range sets {
				key, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q: want key=value", kv)
				}
				if err := sh.SetMetadata(ctx, key, value); err != nil {
					return err
				}
				slog.Info("metadata set", "sheet", args[1], "key", key)
			}
			if len(sets) > 0 {
				return nil
			}

			meta, err := sheet.SheetMetadata(ctx, sh)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), meta, pretty)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "write a key=value entry instead of printing")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty-print JSON output")
	return cmd
}

func newCopyCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "copy <workbook.xlsx> <sheet> [new-name]",
		Short: "Copy a sheet, within its workbook or into another file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			newName := args[1] + "-" + uuid.New().String()[:8]
			if len(args) == 3 {
				newName = args[2]
			}

			var dst sheet.Workbook = src
			if to != "" {
				d, err := openOrCreate(to)
				if err != nil {
					return err
				}
				defer d.Close()
				dst = d
			}

			if _, err := sheet.CopySheet(ctx, src, args[1], dst, newName); err != nil {
				return err
			}
			slog.Info("copied sheet", "from", args[1], "to", newName, "workbook", dst.ID())
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "destination workbook file (default: same workbook)")
	return cmd
}

func newUpsertCmd() *cobra.Command {
	var keyCol string
	var columns []string
	var duplicate bool

	cmd := &cobra.Command{
		Use:   "upsert <workbook.xlsx> <sheet> [records.json]",
		Short: "Apply a JSON batch, updating matching rows and appending the rest",
		Long: `Upsert reads a JSON array of records from a file or stdin and applies it
to the sheet. A record whose --key column matches an existing row updates
that row in place, merging fields; records that match nothing are appended.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records, err := readRecords(args)
			if err != nil {
				return err
			}

			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			sh, err := wb.Sheet(ctx, args[1])
			if err != nil {
				return err
			}
			cols, err := headerColumns(ctx, sh, columns)
			if err != nil {
				return err
			}
			key := func(r sheet.Record) string { return r.String(keyCol) }

			if err := sheet.UpdateOrInsertBy(ctx, sh, cols, records, key, duplicate); err != nil {
				return err
			}
			slog.Info("batch applied", "sheet", args[1], "records", len(records), "duplicate", duplicate)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyCol, "key", "", "column that identifies a record (required)")
	cmd.Flags().StringSliceVar(&columns, "keys", nil, "persisted columns, in order (default: the sheet's header row)")
	cmd.Flags().BoolVar(&duplicate, "duplicate", false, "update every matching row, not only the first")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var wheres []string

	cmd := &cobra.Command{
		Use:   "delete <workbook.xlsx> <sheet>",
		Short: "Delete rows matching every --where clause",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			match, err := parseWheres(wheres)
			if err != nil {
				return err
			}

			wb, err := openWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			sh, err := wb.Sheet(ctx, args[1])
			if err != nil {
				return err
			}
			cols, err := sheet.ReadHeader(ctx, sh)
			if err != nil {
				return err
			}
			if len(cols) == 0 {
				return fmt.Errorf("sheet %s has no header row", args[1])
			}

			m, err := sheet.NewWithWorkbook(ctx, wb, sheet.Config[string]{
				Sheet: args[1],
				Keys:  cols,
				Key:   func(r sheet.Record) string { return r.String(cols[0]) },
			})
			if err != nil {
				return err
			}
			removed, err := m.DeleteBy(ctx, match)
			if err != nil {
				return err
			}
			slog.Info("rows deleted", "sheet", args[1], "removed", removed)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&wheres, "where", nil, "column=value clause rows must match (repeatable, required)")
	_ = cmd.MarkFlagRequired("where")
	return cmd
}

// --- Helpers ---

func openWorkbook(path string) (*xlsx.Workbook, error) {
	wb, err := xlsx.Open(path)
	if err != nil {
		return nil, err
	}
	slog.Debug("opened workbook", "path", path)
	return wb, nil
}

// openOrCreate opens an existing workbook file or creates a fresh one.
func openOrCreate(path string) (*xlsx.Workbook, error) {
	wb, err := xlsx.Open(path)
	if errors.Is(err, sheet.ErrWorkbookNotFound) {
		slog.Info("creating workbook", "path", path)
		return xlsx.Create(path)
	}
	return wb, err
}

func printJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// readRecords decodes the upsert batch from the file argument, or from stdin
// when the argument is absent or "-".
func readRecords(args []string) ([]sheet.Record, error) {
	var r io.Reader = os.Stdin
	if len(args) == 3 && args[2] != "-" {
		f, err := os.Open(args[2])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records []sheet.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return records, nil
}

// headerColumns resolves the column set for a batch: the --keys flag when
// given, otherwise the sheet's header row. A sheet with no header yet gets
// the explicit set written as row 1.
func headerColumns(ctx context.Context, sh sheet.Sheet, explicit []string) ([]string, error) {
	existing, err := sheet.ReadHeader(ctx, sh)
	if err != nil {
		return nil, err
	}
	if len(explicit) == 0 {
		if len(existing) == 0 {
			return nil, errors.New("sheet has no header row; pass --keys to create one")
		}
		return existing, nil
	}
	if len(existing) == 0 {
		if err := sheet.Overwrite(ctx, sh, explicit, nil); err != nil {
			return nil, err
		}
		slog.Info("wrote header row", "columns", len(explicit))
		return explicit, nil
	}
	if !slices.Equal(existing, explicit) {
		return nil, fmt.Errorf("--keys %v does not match the sheet header %v", explicit, existing)
	}
	return explicit, nil
}

// parseWheres compiles column=value clauses into one predicate; a row must
// match all of them.
func parseWheres(clauses []string) (sheet.Predicate, error) {
	if len(clauses) == 0 {
		return nil, errors.New("at least one --where clause is required")
	}
	type clause struct{ col, val string }
	parsed := make([]clause, 0, len(clauses))
	for _, c := range clauses {
		col, val, ok := strings.Cut(c, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --where %q: want column=value", c)
		}
		parsed = append(parsed, clause{col, val})
	}
	return func(r sheet.Record) bool {
		for _, c := range parsed {
			if r.String(c.col) != c.val {
				return false
			}
		}
		return true
	}, nil
}
