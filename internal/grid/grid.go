// Package grid provides used-range arithmetic for rectangular cell grids.
package grid

// Empty reports whether a cell holds no content.
// Spreadsheet backends surface blank cells as nil or "".
func Empty(v any) bool {
	return v == nil || v == ""
}

// Dims computes the used range of a grid: the number of rows up to the last
// row holding any content, and the widest content extent across those rows.
// A grid with no content reports 0, 0.
func Dims(cells [][]any) (rows, cols int) {
	for i, row := range cells {
		w := 0
		for j, v := range row {
			if !Empty(v) {
				w = j + 1
			}
		}
		if w > 0 {
			rows = i + 1
			if w > cols {
				cols = w
			}
		}
	}
	return rows, cols
}

// Window extracts n cells from row starting at the 0-based offset start.
// Cells beyond the end of the row are filled with "". The result is always
// a fresh slice of length n.
func Window(row []any, start, n int) []any {
	out := make([]any, n)
	for i := range out {
		if j := start + i; j < len(row) && row[j] != nil {
			out[i] = row[j]
		} else {
			out[i] = ""
		}
	}
	return out
}

// Grow appends empty rows to cells until it holds at least rows rows.
func Grow(cells [][]any, rows int) [][]any {
	for len(cells) < rows {
		cells = append(cells, nil)
	}
	return cells
}

// GrowRow extends row with "" cells until it holds at least width cells.
func GrowRow(row []any, width int) []any {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}
