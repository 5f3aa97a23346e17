package sheet

import "fmt"

// Config binds a Mapper to one worksheet.
type Config[K comparable] struct {
	// Workbook is the workbook identifier resolved through the Opener
	// passed to New. Ignored by NewWithWorkbook.
	Workbook string

	// Sheet is the worksheet name.
	// Default: "Sheet1"
	Sheet string

	// Keys are the persisted column names, in column order. Fields outside
	// Keys are never written. Required.
	Keys []string

	// Key derives the matching identifier from a record. Required.
	Key KeyFunc[K]
}

// validate applies defaults and reports missing required fields.
func (c *Config[K]) validate() error {
	if c.Sheet == "" {
		c.Sheet = "Sheet1"
	}
	if len(c.Keys) == 0 {
		return fmt.Errorf("%w: Keys must name at least one column", ErrInvalidConfig)
	}
	if c.Key == nil {
		return fmt.Errorf("%w: Key function is required", ErrInvalidConfig)
	}
	return nil
}
