package sheet

import (
	"context"
	"fmt"
)

// Mapper is a small repository over one worksheet. Every operation reads the
// sheet fresh; nothing is cached between calls, so concurrent writers through
// other handles are picked up on the next read.
type Mapper[K comparable] struct {
	wb     Workbook
	sh     Sheet
	config Config[K]
	owned  bool
}

// New opens cfg.Workbook through op and binds cfg.Sheet within it, failing
// immediately if either lookup fails. The mapper owns the workbook handle
// and Close releases it.
func New[K comparable](ctx context.Context, op Opener, cfg Config[K]) (*Mapper[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	wb, err := op.Open(ctx, cfg.Workbook)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", cfg.Workbook, err)
	}
	sh, err := wb.Sheet(ctx, cfg.Sheet)
	if err != nil {
		wb.Close()
		return nil, fmt.Errorf("open sheet %q: %w", cfg.Sheet, err)
	}
	return &Mapper[K]{wb: wb, sh: sh, config: cfg, owned: true}, nil
}

// NewWithWorkbook binds a mapper to an already-open workbook. The caller
// keeps ownership of the handle; Close leaves it open.
func NewWithWorkbook[K comparable](ctx context.Context, wb Workbook, cfg Config[K]) (*Mapper[K], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	sh, err := wb.Sheet(ctx, cfg.Sheet)
	if err != nil {
		return nil, fmt.Errorf("open sheet %q: %w", cfg.Sheet, err)
	}
	return &Mapper[K]{wb: wb, sh: sh, config: cfg}, nil
}

// Workbook returns the bound workbook handle.
func (m *Mapper[K]) Workbook() Workbook {
	return m.wb
}

// Sheet returns the bound worksheet handle, for operations the mapper does
// not wrap (ClearContents, CopySheet, metadata).
func (m *Mapper[K]) Sheet() Sheet {
	return m.sh
}

// Close releases the workbook if the mapper owns it.
func (m *Mapper[K]) Close() error {
	if !m.owned {
		return nil
	}
	return m.wb.Close()
}

// ReadAll decodes every record on the sheet, in row order.
func (m *Mapper[K]) ReadAll(ctx context.Context) ([]Record, error) {
	return DecodeSheet(ctx, m.sh, RawDecoder)
}

// Find returns the first record whose identifier equals id, or ErrNotFound.
func (m *Mapper[K]) Find(ctx context.Context, id K) (Record, error) {
	records, err := m.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if m.config.Key(rec) == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// FindBy returns the first record matching pred, or ErrNotFound.
func (m *Mapper[K]) FindBy(ctx context.Context, pred Predicate) (Record, error) {
	records, err := m.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if pred(rec) {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert applies the batch with UpdateOrInsertBy: a record whose identifier
// matches an existing row updates the first such row in place, merging
// fields; the rest are appended. The sheet is expected to already hold its
// header row; seed a fresh sheet with Overwrite first.
func (m *Mapper[K]) Upsert(ctx context.Context, data []Record) error {
	return UpdateOrInsertBy(ctx, m.sh, m.config.Keys, data, m.config.Key, false)
}

// DeleteBy removes every record matching pred and returns how many were
// removed. The sheet is fully rewritten with the remaining records under the
// bound header, so a DeleteBy also normalizes column order to cfg.Keys.
func (m *Mapper[K]) DeleteBy(ctx context.Context, pred Predicate) (int, error) {
	records, err := m.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if pred(rec) {
			continue
		}
		kept = append(kept, rec)
	}

	if err := Overwrite(ctx, m.sh, m.config.Keys, kept); err != nil {
		return 0, err
	}
	return len(records) - len(kept), nil
}
