package sheet

import (
	"context"
	"fmt"
)

// RawDecoder zips the header with a row into a Record. Cells beyond the
// header are dropped; header keys beyond the end of the row are left absent
// rather than set to empty values. It never fails.
func RawDecoder(keys []string, row []Value) (Record, error) {
	rec := make(Record, len(keys))
	for i, k := range keys {
		if i >= len(row) {
			break
		}
		rec[k] = row[i]
	}
	return rec, nil
}

// TypedDecoder is RawDecoder with ParseScalar applied to every cell, for
// backends that surface all values as text.
func TypedDecoder(keys []string, row []Value) (Record, error) {
	rec, _ := RawDecoder(keys, row)
	for k, v := range rec {
		rec[k] = ParseScalar(v)
	}
	return rec, nil
}

// DecodeGrid decodes a header-led grid: row 0 supplies the keys and every
// later row becomes one decoded value, in row order. A grid with no data
// rows decodes to an empty slice.
func DecodeGrid[T any](grid [][]Value, dec DecoderFunc[T]) ([]T, error) {
	if len(grid) < 2 {
		return nil, nil
	}
	keys := headerKeys(grid[0])
	out := make([]T, 0, len(grid)-1)
	for i, row := range grid[1:] {
		v, err := dec(keys, row)
		if err != nil {
			// Sheet row number: header is row 1, first data row is row 2.
			return nil, fmt.Errorf("decode row %d: %w", i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeRange reads r from s and decodes it as a header-led grid.
func DecodeRange[T any](ctx context.Context, s Sheet, r Range, dec DecoderFunc[T]) ([]T, error) {
	grid, err := s.ReadRange(ctx, r)
	if err != nil {
		return nil, err
	}
	return DecodeGrid(grid, dec)
}

// DecodeSheet decodes the full used range of s. An empty sheet, or one
// holding only a header row, decodes to an empty slice.
func DecodeSheet[T any](ctx context.Context, s Sheet, dec DecoderFunc[T]) ([]T, error) {
	rows, cols, err := s.Dims(ctx)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	return DecodeRange(ctx, s, Range{Row: 1, Col: 1, NumRows: rows, NumCols: cols}, dec)
}

// ReadHeader returns the header row of s as strings, or nil for a sheet
// with no content.
func ReadHeader(ctx context.Context, s Sheet) ([]string, error) {
	rows, cols, err := s.Dims(ctx)
	if err != nil {
		return nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, nil
	}
	grid, err := s.ReadRange(ctx, Range{Row: 1, Col: 1, NumRows: 1, NumCols: cols})
	if err != nil {
		return nil, err
	}
	return headerKeys(grid[0]), nil
}

// EncodeRows encodes records as a row-major grid with one column per header
// key, in header order. Fields absent from a record (or nil) encode as empty
// cells; fields outside the header are not persisted.
func EncodeRows(header []string, data []Record) [][]Value {
	grid := make([][]Value, len(data))
	for i, rec := range data {
		row := make([]Value, len(header))
		for j, k := range header {
			v, ok := rec[k]
			if !ok || v == nil {
				row[j] = ""
				continue
			}
			row[j] = v
		}
		grid[i] = row
	}
	return grid
}

// headerKeys renders a header row as column names.
func headerKeys(row []Value) []string {
	keys := make([]string, len(row))
	for i, v := range row {
		keys[i] = FormatScalar(v)
	}
	return keys
}
