package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jacentio/weft/internal/grid"
	"github.com/jacentio/weft/sheet"
)

// Sheet is one worksheet of an on-disk workbook. All values read from the
// file are the formatted cell texts excelize reports, so callers that want
// typed scalars decode with sheet.TypedDecoder.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// Dims returns the used range of the sheet.
func (s *Sheet) Dims(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return 0, 0, sheet.ErrClosed
	}

	cells, err := s.snapshot()
	if err != nil {
		return 0, 0, err
	}
	rows, cols := grid.Dims(cells)
	return rows, cols, nil
}

// ReadRange returns the cells of r, padding beyond the sheet's content
// with "".
func (s *Sheet) ReadRange(ctx context.Context, r sheet.Range) ([][]sheet.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := sheet.CheckRange(r); err != nil {
		return nil, err
	}
	if r.Empty() {
		return nil, nil
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return nil, sheet.ErrClosed
	}

	cells, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([][]sheet.Value, r.NumRows)
	for i := range out {
		var row []any
		if j := r.Row - 1 + i; j < len(cells) {
			row = cells[j]
		}
		out[i] = grid.Window(row, r.Col-1, r.NumCols)
	}
	return out, nil
}

// WriteRange writes a grid into r cell by cell and saves the file.
func (s *Sheet) WriteRange(ctx context.Context, r sheet.Range, values [][]sheet.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sheet.CheckGrid(r, values); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return sheet.ErrClosed
	}

	for i, src := range values {
		for j, v := range src {
			cell, err := excelize.CoordinatesToCellName(r.Col+j, r.Row+i)
			if err != nil {
				return err
			}
			if v == nil {
				v = ""
			}
			if err := s.wb.f.SetCellValue(s.name, cell, v); err != nil {
				return fmt.Errorf("write %s!%s: %w", s.name, cell, err)
			}
		}
	}
	return s.wb.save()
}

// InsertRowsAfter inserts n blank rows below the given row and saves.
func (s *Sheet) InsertRowsAfter(ctx context.Context, row, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if row < 1 {
		return sheet.ErrInvalidRange
	}
	if n < 1 {
		return nil
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return sheet.ErrClosed
	}

	// excelize inserts before the given row; after row means before row+1.
	if err := s.wb.f.InsertRows(s.name, row+1, n); err != nil {
		return fmt.Errorf("insert %d rows after %d: %w", n, row, err)
	}
	return s.wb.save()
}

// DeleteRows removes n rows starting at start and saves.
func (s *Sheet) DeleteRows(ctx context.Context, start, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if start < 1 {
		return sheet.ErrInvalidRange
	}
	if n < 1 {
		return nil
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return sheet.ErrClosed
	}

	// Each removal shifts later rows up, so removing at start n times
	// removes n consecutive rows.
	for i := 0; i < n; i++ {
		if err := s.wb.f.RemoveRow(s.name, start); err != nil {
			return fmt.Errorf("remove row %d: %w", start, err)
		}
	}
	return s.wb.save()
}

// ClearRange blanks cell contents within r, leaving styles in place, and
// saves. Cells beyond the sheet's current extent are left untouched.
func (s *Sheet) ClearRange(ctx context.Context, r sheet.Range) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sheet.CheckRange(r); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return sheet.ErrClosed
	}

	cells, err := s.snapshot()
	if err != nil {
		return err
	}
	for i := 0; i < r.NumRows; i++ {
		rowIdx := r.Row + i
		if rowIdx > len(cells) {
			break
		}
		for j := 0; j < r.NumCols; j++ {
			colIdx := r.Col + j
			if colIdx > len(cells[rowIdx-1]) {
				break
			}
			cell, err := excelize.CoordinatesToCellName(colIdx, rowIdx)
			if err != nil {
				return err
			}
			if err := s.wb.f.SetCellValue(s.name, cell, nil); err != nil {
				return fmt.Errorf("clear %s!%s: %w", s.name, cell, err)
			}
		}
	}
	return s.wb.save()
}

// Metadata returns the sheet's developer metadata entries in write order.
func (s *Sheet) Metadata(ctx context.Context) ([]sheet.MetadataEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return nil, sheet.ErrClosed
	}

	return s.wb.metadataOf(s.name)
}

// SetMetadata appends a developer metadata entry and saves.
func (s *Sheet) SetMetadata(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	if s.wb.closed {
		return sheet.ErrClosed
	}

	if err := s.wb.appendMetadata(s.name, key, value); err != nil {
		return err
	}
	return s.wb.save()
}

// snapshot reads the sheet's rows as a cell grid. The grid holds the
// formatted string values excelize reports, with trailing blanks trimmed.
// Callers must hold wb.mu.
func (s *Sheet) snapshot() ([][]any, error) {
	rows, err := s.wb.f.GetRows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}
	cells := make([][]any, len(rows))
	for i, r := range rows {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		cells[i] = row
	}
	return cells, nil
}
