package sheet

import "errors"

var (
	// ErrWorkbookNotFound is returned when an opener cannot resolve a workbook id.
	ErrWorkbookNotFound = errors.New("weft: workbook not found")

	// ErrSheetNotFound is returned when a workbook has no sheet with the requested name.
	ErrSheetNotFound = errors.New("weft: sheet not found")

	// ErrNotFound is returned when no record matches the requested identifier.
	ErrNotFound = errors.New("weft: record not found")

	// ErrSheetExists is returned when creating a sheet under a name that is already taken.
	ErrSheetExists = errors.New("weft: sheet already exists")

	// ErrDimensionMismatch is returned when a grid does not match the range it is written into.
	ErrDimensionMismatch = errors.New("weft: grid does not match range dimensions")

	// ErrInvalidRange is returned when a range origin lies outside the sheet (row or column below 1).
	ErrInvalidRange = errors.New("weft: invalid range")

	// ErrInvalidConfig is returned when a mapper config is missing required fields.
	ErrInvalidConfig = errors.New("weft: invalid config")

	// ErrCopyNotSupported is returned by Copier implementations that cannot service
	// a copy natively; CopySheet then falls back to the portable copy.
	ErrCopyNotSupported = errors.New("weft: native sheet copy not supported")

	// ErrClosed is returned for operations on a closed workbook.
	ErrClosed = errors.New("weft: workbook is closed")
)
