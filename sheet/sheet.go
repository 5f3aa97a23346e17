// Package sheet provides a record mapping layer over spreadsheet-backed tables.
package sheet

import "context"

// Range addresses a rectangular cell region. Row and Col are 1-based; a
// range with Row or Col below 1 is rejected with ErrInvalidRange. NumRows
// or NumCols of zero denote an empty region, which reads and writes treat
// as a no-op.
type Range struct {
	// Row is the 1-based row of the top-left cell.
	Row int

	// Col is the 1-based column of the top-left cell.
	Col int

	// NumRows is the height of the region.
	NumRows int

	// NumCols is the width of the region.
	NumCols int
}

// Empty reports whether the range covers no cells.
func (r Range) Empty() bool {
	return r.NumRows <= 0 || r.NumCols <= 0
}

// MetadataEntry is one developer-attached key/value pair on a sheet.
type MetadataEntry struct {
	// Key is the metadata key. Keys may repeat; folding is last-write-wins.
	Key string

	// Value is the metadata value.
	Value string
}

// Opener resolves workbook identifiers to open workbooks.
// What an identifier means is backend-defined (a file path, a map key).
type Opener interface {
	// Open resolves id, returning ErrWorkbookNotFound if it cannot.
	Open(ctx context.Context, id string) (Workbook, error)
}

// Workbook is a handle to one spreadsheet document.
type Workbook interface {
	// ID returns the identifier the workbook was opened under.
	ID() string

	// SheetNames lists the workbook's sheets in document order.
	SheetNames(ctx context.Context) ([]string, error)

	// Sheet resolves a sheet by name, returning ErrSheetNotFound if absent.
	Sheet(ctx context.Context, name string) (Sheet, error)

	// AddSheet creates an empty sheet, returning ErrSheetExists if the
	// name is already taken.
	AddSheet(ctx context.Context, name string) (Sheet, error)

	// Close releases the workbook handle.
	Close() error
}

// Sheet is a handle to one worksheet within a workbook. Implementations
// persist every mutation before returning; there is no separate save step.
type Sheet interface {
	// Name returns the sheet name.
	Name() string

	// Dims returns the used range: the last row and column holding
	// content. An empty sheet reports 0, 0.
	Dims(ctx context.Context) (rows, cols int, err error)

	// ReadRange returns the cell values of r as a row-major grid. Cells
	// beyond the sheet's content are returned as empty strings, so the
	// grid always has exactly r.NumRows rows of r.NumCols cells.
	ReadRange(ctx context.Context, r Range) ([][]Value, error)

	// WriteRange writes a row-major grid into r. The grid must match r
	// exactly: len(values) == r.NumRows and every row r.NumCols wide,
	// otherwise ErrDimensionMismatch.
	WriteRange(ctx context.Context, r Range, values [][]Value) error

	// InsertRowsAfter inserts n blank rows below the given 1-based row.
	// n below 1 is a no-op.
	InsertRowsAfter(ctx context.Context, row, n int) error

	// DeleteRows removes n rows starting at the 1-based row start,
	// shifting later rows up. n below 1 is a no-op.
	DeleteRows(ctx context.Context, start, n int) error

	// ClearRange blanks cell contents in r. Formatting is untouched.
	ClearRange(ctx context.Context, r Range) error

	// Metadata lists the sheet's developer metadata entries in write order.
	Metadata(ctx context.Context) ([]MetadataEntry, error)

	// SetMetadata appends a developer metadata entry. Existing entries
	// with the same key are kept; readers fold them last-write-wins.
	SetMetadata(ctx context.Context, key, value string) error
}

// Copier is implemented by workbooks with a native sheet copy that
// preserves formatting. CopySheet consults it before falling back to the
// portable grid-plus-metadata copy.
type Copier interface {
	// CopySheet duplicates the named sheet into dst under newName.
	// Implementations that cannot service the given destination return
	// ErrCopyNotSupported to hand the copy back to the portable path.
	CopySheet(ctx context.Context, name string, dst Workbook, newName string) (Sheet, error)
}

// CheckRange validates a range origin for Sheet implementations: a Row or
// Col below 1 is ErrInvalidRange.
func CheckRange(r Range) error {
	if r.Row < 1 || r.Col < 1 {
		return ErrInvalidRange
	}
	return nil
}

// CheckGrid validates a WriteRange request: the origin must be a valid
// cell and values must be exactly r.NumRows rows of r.NumCols cells.
func CheckGrid(r Range, values [][]Value) error {
	if err := CheckRange(r); err != nil {
		return err
	}
	if len(values) != r.NumRows {
		return ErrDimensionMismatch
	}
	for _, row := range values {
		if len(row) != r.NumCols {
			return ErrDimensionMismatch
		}
	}
	return nil
}
