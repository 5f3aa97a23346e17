// Package sheet provides a record mapping layer over spreadsheet-backed tables.
//
// Weft is designed for applications that use a worksheet as a small database:
// row 1 holds the column header, every following row holds one record. Records
// are open key/value mappings decoded positionally against the header, so a
// sheet edited by hand and a sheet written by this package stay
// interchangeable.
//
// # Key Features
//
//   - Header-driven row codec with pluggable decoders
//   - Batch upsert with identifier matching and field-union merge
//   - Overwrite that never leaves a sheet transiently empty
//   - Whole-sheet copy with a native fast path and a portable fallback
//   - Developer metadata attached to sheets
//   - Backend-agnostic: any [Workbook]/[Sheet] implementation plugs in
//
// # Service Boundary
//
// All spreadsheet access goes through three interfaces:
//
//	type Opener interface {
//	    Open(ctx context.Context, id string) (Workbook, error)
//	}
//
//	type Workbook interface {
//	    ID() string
//	    SheetNames(ctx context.Context) ([]string, error)
//	    Sheet(ctx context.Context, name string) (Sheet, error)
//	    AddSheet(ctx context.Context, name string) (Sheet, error)
//	    Close() error
//	}
//
// [Sheet] exposes the primitive operations (range reads and writes, row
// insertion and deletion, metadata). Workbooks with a native sheet copy
// additionally implement [Copier].
//
// The xlsx subpackage backs these interfaces with .xlsx files on disk; the
// memsheet subpackage provides an in-memory implementation for tests and
// ephemeral data.
//
// # Mapper
//
// [Mapper] binds a workbook id, a sheet name, a persisted column list and an
// identifier function into a small repository:
//
//	m, err := sheet.New(ctx, xlsx.Dir("data"), sheet.Config[string]{
//	    Workbook: "inventory.xlsx",
//	    Sheet:    "parts",
//	    Keys:     []string{"sku", "name", "qty"},
//	    Key:      func(r sheet.Record) string { return r.String("sku") },
//	})
//
// Every Mapper operation reads the sheet fresh; the sheet itself is the
// single source of truth and no rows are cached between calls.
//
// # Errors
//
// The package defines domain-specific errors:
//
//   - [ErrWorkbookNotFound] - opener cannot resolve the workbook id
//   - [ErrSheetNotFound] - workbook has no sheet with that name
//   - [ErrNotFound] - no record matches the requested identifier
//   - [ErrDimensionMismatch] - grid does not match the target range
//   - [ErrSheetExists] - sheet name already taken
//   - [ErrInvalidRange] - range origin outside the sheet
//   - [ErrInvalidConfig] - mapper config missing required fields
package sheet
