package memsheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacentio/weft/sheet"
)

// Registry resolves workbook ids to registered in-memory workbooks.
// It implements sheet.Opener, so mappers and tests can open workbooks by id
// exactly as they would against a real backend.
type Registry struct {
	mu        sync.RWMutex
	workbooks map[string]*Workbook
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		workbooks: make(map[string]*Workbook),
	}
}

// Add registers wb under its id, replacing any previous registration.
func (r *Registry) Add(wb *Workbook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workbooks[wb.ID()] = wb
}

// New creates an empty workbook under id and registers it.
func (r *Registry) New(id string) *Workbook {
	wb := NewWorkbook(id)
	r.Add(wb)
	return wb
}

// Open resolves id to a registered workbook.
func (r *Registry) Open(ctx context.Context, id string) (sheet.Workbook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	wb, ok := r.workbooks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sheet.ErrWorkbookNotFound, id)
	}
	return wb, nil
}
