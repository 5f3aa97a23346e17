package memsheet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jacentio/weft/memsheet"
	"github.com/jacentio/weft/sheet"
)

func TestRegistryOpen(t *testing.T) {
	ctx := context.Background()
	reg := memsheet.NewRegistry()
	wb := reg.New("inventory")

	got, err := reg.Open(ctx, "inventory")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.(*memsheet.Workbook) != wb {
		t.Error("expected Open to return the registered workbook")
	}
}

func TestRegistryOpen_NotFound(t *testing.T) {
	reg := memsheet.NewRegistry()

	_, err := reg.Open(context.Background(), "ghost")
	if !errors.Is(err, sheet.ErrWorkbookNotFound) {
		t.Errorf("expected ErrWorkbookNotFound, got %v", err)
	}
}

func TestRegistryAdd_Replaces(t *testing.T) {
	ctx := context.Background()
	reg := memsheet.NewRegistry()
	reg.New("inventory")

	second := memsheet.NewWorkbook("inventory")
	reg.Add(second)

	got, err := reg.Open(ctx, "inventory")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.(*memsheet.Workbook) != second {
		t.Error("expected Add to replace the earlier registration")
	}
}

func TestRegistryOpen_CanceledContext(t *testing.T) {
	reg := memsheet.NewRegistry()
	reg.New("inventory")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := reg.Open(ctx, "inventory"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
