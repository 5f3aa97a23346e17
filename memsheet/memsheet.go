// Package memsheet provides an in-memory sheet.Workbook implementation.
//
// Nothing is persisted: workbooks live for the lifetime of the process. The
// package backs the weft test suites and suits ephemeral tables. All
// operations are safe for concurrent use; each workbook is guarded by a
// single lock, so operations on its sheets serialize.
package memsheet

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jacentio/weft/internal/grid"
	"github.com/jacentio/weft/sheet"
)

// Workbook is an in-memory spreadsheet document.
type Workbook struct {
	id string

	mu     sync.RWMutex
	order  []string
	sheets map[string]*Sheet
}

// NewWorkbook creates an empty workbook with no sheets.
func NewWorkbook(id string) *Workbook {
	return &Workbook{
		id:     id,
		sheets: make(map[string]*Sheet),
	}
}

// ID returns the identifier the workbook was created under.
func (w *Workbook) ID() string {
	return w.id
}

// SheetNames lists the workbook's sheets in creation order.
func (w *Workbook) SheetNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, len(w.order))
	copy(names, w.order)
	return names, nil
}

// Sheet resolves a sheet by name.
func (w *Workbook) Sheet(ctx context.Context, name string) (sheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()

	sh, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}
	return sh, nil
}

// AddSheet creates an empty sheet under name.
func (w *Workbook) AddSheet(ctx context.Context, name string) (sheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.sheets[name]; ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetExists, name)
	}
	sh := &Sheet{wb: w, name: name}
	w.sheets[name] = sh
	w.order = append(w.order, name)
	return sh, nil
}

// Close is a no-op; in-memory workbooks hold no external resources.
func (w *Workbook) Close() error {
	return nil
}

// Sheet is one worksheet of an in-memory workbook.
type Sheet struct {
	wb   *Workbook
	name string

	// cells holds ragged rows; nil and "" both mean a blank cell.
	cells [][]any
	meta  []sheet.MetadataEntry
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
	s.wb.mu.RLock()
	defer s.wb.mu.RUnlock()

	rows, cols := grid.Dims(s.cells)
	return rows, cols, nil
}

// ReadRange returns the cells of r, padding beyond the grid with "".
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
	s.wb.mu.RLock()
	defer s.wb.mu.RUnlock()

	out := make([][]sheet.Value, r.NumRows)
	for i := range out {
		var row []any
		if j := r.Row - 1 + i; j < len(s.cells) {
			row = s.cells[j]
		}
		out[i] = grid.Window(row, r.Col-1, r.NumCols)
	}
	return out, nil
}

// WriteRange writes a grid into r, growing the sheet as needed.
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

	s.cells = grid.Grow(s.cells, r.Row-1+r.NumRows)
	for i, src := range values {
		idx := r.Row - 1 + i
		row := grid.GrowRow(s.cells[idx], r.Col-1+r.NumCols)
		for j, v := range src {
			if v == nil {
				v = ""
			}
			row[r.Col-1+j] = v
		}
		s.cells[idx] = row
	}
	return nil
}

// InsertRowsAfter inserts n blank rows below the given row.
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

	s.cells = grid.Grow(s.cells, row)
	blank := make([][]any, n)
	s.cells = slices.Insert(s.cells, row, blank...)
	return nil
}

// DeleteRows removes n rows starting at start, shifting later rows up.
// Rows beyond the grid are ignored.
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

	from := start - 1
	if from >= len(s.cells) {
		return nil
	}
	to := from + n
	if to > len(s.cells) {
		to = len(s.cells)
	}
	s.cells = slices.Delete(s.cells, from, to)
	return nil
}

// ClearRange blanks the cells of r that fall within the grid.
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

	for i := 0; i < r.NumRows; i++ {
		idx := r.Row - 1 + i
		if idx >= len(s.cells) {
			break
		}
		row := s.cells[idx]
		for j := 0; j < r.NumCols; j++ {
			if c := r.Col - 1 + j; c < len(row) {
				row[c] = ""
			}
		}
	}
	return nil
}

// Metadata returns the sheet's metadata entries in write order.
func (s *Sheet) Metadata(ctx context.Context) ([]sheet.MetadataEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.wb.mu.RLock()
	defer s.wb.mu.RUnlock()

	out := make([]sheet.MetadataEntry, len(s.meta))
	copy(out, s.meta)
	return out, nil
}

// SetMetadata appends a metadata entry.
func (s *Sheet) SetMetadata(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	s.meta = append(s.meta, sheet.MetadataEntry{Key: key, Value: value})
	return nil
}
