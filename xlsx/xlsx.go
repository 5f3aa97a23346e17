// Package xlsx provides a sheet.Workbook implementation over Office Open XML
// workbooks on disk, backed by excelize.
//
// A workbook id is a file path; [Dir] resolves ids relative to a root
// directory. Every mutating call saves the file before returning, mirroring
// the per-call persistence of a hosted spreadsheet service: there is no
// separate save step, and a failure between the calls of a multi-step
// operation leaves whatever the last completed call wrote.
//
// Sheet metadata is stored in a very-hidden bookkeeping sheet inside the
// workbook, one (sheet, key, value) row per entry. The bookkeeping sheet is
// not listed by SheetNames and cannot be opened by name.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/jacentio/weft/sheet"
)

// metaSheet is the bookkeeping sheet holding developer metadata rows.
const metaSheet = "_weft_meta"

// Workbook is an .xlsx document on disk.
type Workbook struct {
	mu     sync.Mutex
	f      *excelize.File
	path   string
	closed bool
}

// Open opens an existing workbook file. A missing file is reported as
// ErrWorkbookNotFound.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", sheet.ErrWorkbookNotFound, path)
		}
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Create creates a new workbook file holding a single empty "Sheet1".
// It fails if the file cannot be written.
func Create(path string) (*Workbook, error) {
	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		f.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Dir resolves workbook ids as file paths relative to a root directory.
// Dir(".") opens ids as plain paths.
type Dir string

// Open implements sheet.Opener.
func (d Dir) Open(ctx context.Context, id string) (sheet.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(filepath.Join(string(d), id))
}

// ID returns the workbook's file path.
func (w *Workbook) ID() string {
	return w.path
}

// SheetNames lists the workbook's sheets in document order, excluding the
// metadata bookkeeping sheet.
func (w *Workbook) SheetNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, sheet.ErrClosed
	}

	var names []string
	for _, name := range w.f.GetSheetList() {
		if name == metaSheet {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Sheet resolves a sheet by name.
func (w *Workbook) Sheet(ctx context.Context, name string) (sheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, sheet.ErrClosed
	}

	if name == metaSheet || !w.hasSheet(name) {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name}, nil
}

// AddSheet creates an empty sheet under name and saves the file.
func (w *Workbook) AddSheet(ctx context.Context, name string) (sheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, sheet.ErrClosed
	}

	if name == metaSheet || w.hasSheet(name) {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetExists, name)
	}
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("add sheet %s: %w", name, err)
	}
	if err := w.save(); err != nil {
		return nil, err
	}
	return &Sheet{wb: w, name: name}, nil
}

// CopySheet duplicates the named sheet natively when dst is this same
// workbook, preserving styles and merged cells. Copies into any other
// workbook return ErrCopyNotSupported so [sheet.CopySheet] can fall back to
// the portable path.
func (w *Workbook) CopySheet(ctx context.Context, name string, dst sheet.Workbook, newName string) (sheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := dst.(*Workbook)
	if !ok || d != w {
		return nil, sheet.ErrCopyNotSupported
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, sheet.ErrClosed
	}

	if name == metaSheet || !w.hasSheet(name) {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetNotFound, name)
	}
	if newName == metaSheet || w.hasSheet(newName) {
		return nil, fmt.Errorf("%w: %s", sheet.ErrSheetExists, newName)
	}

	srcIdx, err := w.f.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	dstIdx, err := w.f.NewSheet(newName)
	if err != nil {
		return nil, fmt.Errorf("add sheet %s: %w", newName, err)
	}
	if err := w.f.CopySheet(srcIdx, dstIdx); err != nil {
		return nil, fmt.Errorf("copy sheet %s: %w", name, err)
	}

	// The bookkeeping rows are keyed by sheet name, so the native copy does
	// not carry them; duplicate them under the new name.
	entries, err := w.metadataOf(name)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.appendMetadata(newName, e.Key, e.Value); err != nil {
			return nil, err
		}
	}

	if err := w.save(); err != nil {
		return nil, err
	}
	return &Sheet{wb: w, name: newName}, nil
}

// Close releases the file handle. Mutations are saved as they happen, so
// there is nothing to flush. The workbook is unusable afterwards.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.f.Close()
}

// hasSheet reports whether the underlying file has a sheet named name.
// Callers must hold w.mu.
func (w *Workbook) hasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx != -1
}

// save persists the file to its path. Callers must hold w.mu.
func (w *Workbook) save() error {
	if err := w.f.Save(); err != nil {
		return fmt.Errorf("save %s: %w", w.path, err)
	}
	return nil
}

// metadataOf returns the bookkeeping entries for the named sheet in write
// order. Callers must hold w.mu.
func (w *Workbook) metadataOf(name string) ([]sheet.MetadataEntry, error) {
	if !w.hasSheet(metaSheet) {
		return nil, nil
	}
	rows, err := w.f.GetRows(metaSheet)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var entries []sheet.MetadataEntry
	for _, row := range rows {
		if len(row) < 2 || row[0] != name {
			continue
		}
		e := sheet.MetadataEntry{Key: row[1]}
		if len(row) > 2 {
			e.Value = row[2]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// appendMetadata adds one bookkeeping row for the named sheet, creating the
// very-hidden bookkeeping sheet on first use. Callers must hold w.mu.
func (w *Workbook) appendMetadata(name, key, value string) error {
	if !w.hasSheet(metaSheet) {
		if _, err := w.f.NewSheet(metaSheet); err != nil {
			return fmt.Errorf("create metadata sheet: %w", err)
		}
		if err := w.f.SetSheetVisible(metaSheet, false, true); err != nil {
			return fmt.Errorf("hide metadata sheet: %w", err)
		}
	}

	rows, err := w.f.GetRows(metaSheet)
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}
	next := len(rows) + 1
	for col, v := range []string{name, key, value} {
		cell, err := excelize.CoordinatesToCellName(col+1, next)
		if err != nil {
			return err
		}
		if err := w.f.SetCellValue(metaSheet, cell, v); err != nil {
			return fmt.Errorf("write metadata: %w", err)
		}
	}
	return nil
}
