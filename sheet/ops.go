package sheet

import (
	"context"
	"errors"
)

// Append writes data below the current used range of s, one row per record
// with one column per key. An empty batch performs no service calls. On an
// empty sheet the first appended row lands in row 1.
func Append(ctx context.Context, s Sheet, keys []string, data []Record) error {
	if len(data) == 0 {
		return nil
	}
	last, _, err := s.Dims(ctx)
	if err != nil {
		return err
	}
	r := Range{Row: last + 1, Col: 1, NumRows: len(data), NumCols: len(keys)}
	return s.WriteRange(ctx, r, EncodeRows(keys, data))
}

// Overwrite replaces the entire used region of s with a header row followed
// by one row per record.
func Overwrite(ctx context.Context, s Sheet, header []string, data []Record) error {
	last, _, err := s.Dims(ctx)
	if err != nil {
		return err
	}

	// 1. Displace existing content: insert blank rows below it, then delete
	//    the original rows. The sheet must never transiently lose all rows,
	//    since that can invalidate references held against it.
	if last > 0 {
		if err := s.InsertRowsAfter(ctx, last, len(data)+1); err != nil {
			return err
		}
		if err := s.DeleteRows(ctx, 1, last); err != nil {
			return err
		}
	}

	// 2. Write the header and data rows in one grid.
	grid := make([][]Value, 0, len(data)+1)
	hrow := make([]Value, len(header))
	for i, k := range header {
		hrow[i] = k
	}
	grid = append(grid, hrow)
	grid = append(grid, EncodeRows(header, data)...)

	r := Range{Row: 1, Col: 1, NumRows: len(grid), NumCols: len(header)}
	return s.WriteRange(ctx, r, grid)
}

// ClearContents blanks cell contents from startRow through the last used
// row, across the first numCols columns. Formatting is untouched. A request
// that resolves to no rows, or a numCols below 1, is a no-op.
func ClearContents(ctx context.Context, s Sheet, startRow, numCols int) error {
	if numCols < 1 {
		return nil
	}
	last, _, err := s.Dims(ctx)
	if err != nil {
		return err
	}
	numRows := last - startRow + 1
	if numRows <= 0 {
		return nil
	}
	return s.ClearRange(ctx, Range{Row: startRow, Col: 1, NumRows: numRows, NumCols: numCols})
}

// CopySheet duplicates the named sheet of src into dst under newName and
// returns the new sheet. Workbooks implementing Copier get first refusal;
// otherwise the full grid and the metadata entries are copied portably,
// which carries cell contents but not formatting.
func CopySheet(ctx context.Context, src Workbook, name string, dst Workbook, newName string) (Sheet, error) {
	if c, ok := src.(Copier); ok {
		sh, err := c.CopySheet(ctx, name, dst, newName)
		if err == nil || !errors.Is(err, ErrCopyNotSupported) {
			return sh, err
		}
	}

	from, err := src.Sheet(ctx, name)
	if err != nil {
		return nil, err
	}
	to, err := dst.AddSheet(ctx, newName)
	if err != nil {
		return nil, err
	}

	rows, cols, err := from.Dims(ctx)
	if err != nil {
		return nil, err
	}
	if rows > 0 && cols > 0 {
		r := Range{Row: 1, Col: 1, NumRows: rows, NumCols: cols}
		grid, err := from.ReadRange(ctx, r)
		if err != nil {
			return nil, err
		}
		if err := to.WriteRange(ctx, r, grid); err != nil {
			return nil, err
		}
	}

	entries, err := from.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := to.SetMetadata(ctx, e.Key, e.Value); err != nil {
			return nil, err
		}
	}

	return to, nil
}
