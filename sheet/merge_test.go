package sheet_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jacentio/weft/memsheet"
	"github.com/jacentio/weft/sheet"
)

// byID is the identifier function used throughout the merge tests.
func byID(r sheet.Record) string {
	return r.String("id")
}

// partsSheet seeds a three-column parts table.
func partsSheet(t *testing.T) sheet.Sheet {
	t.Helper()
	return seedSheet(t, [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "10"},
		{"b2", "nut", "5"},
	})
}

var partsHeader = []string{"id", "name", "qty"}

// --- Update Path ---

func TestUpdateOrInsertBy_UpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{{"id": "a1", "qty": "12"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	want := [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "12"},
		{"b2", "nut", "5"},
	}
	if got := gridOf(t, sh); !sameGrid(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateOrInsertBy_MergePreservesUnsentFields(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	// The batch record carries no "name"; the existing name must survive.
	batch := []sheet.Record{{"id": "b2", "qty": "6"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	recs, err := sheet.DecodeSheet(ctx, sh, sheet.RawDecoder)
	if err != nil {
		t.Fatalf("DecodeSheet: %v", err)
	}
	if recs[1]["name"] != "nut" || recs[1]["qty"] != "6" {
		t.Errorf("expected merged record to keep name and update qty, got %v", recs[1])
	}
}

func TestUpdateOrInsertBy_DoesNotGrowOnUpdate(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{
		{"id": "a1", "qty": "11"},
		{"id": "b2", "qty": "7"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	rows, _, err := sh.Dims(ctx)
	if err != nil {
		t.Fatalf("Dims: %v", err)
	}
	if rows != 3 {
		t.Errorf("expected 3 rows after update-only batch, got %d", rows)
	}
}

// --- Insert Path ---

func TestUpdateOrInsertBy_AppendsNewRecords(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{{"id": "c3", "name": "washer", "qty": "7"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	want := [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "10"},
		{"b2", "nut", "5"},
		{"c3", "washer", "7"},
	}
	if got := gridOf(t, sh); !sameGrid(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateOrInsertBy_MixedBatchKeepsOrder(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{
		{"id": "z9", "name": "rivet", "qty": "1"},
		{"id": "a1", "qty": "12"},
		{"id": "y8", "name": "pin", "qty": "2"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	// a1 is updated in place; z9 and y8 are appended in batch order.
	want := [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "12"},
		{"b2", "nut", "5"},
		{"z9", "rivet", "1"},
		{"y8", "pin", "2"},
	}
	if got := gridOf(t, sh); !sameGrid(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateOrInsertBy_AppendsInOneBatch(t *testing.T) {
	ctx := context.Background()
	l := logged(partsSheet(t))

	batch := []sheet.Record{
		{"id": "c3", "name": "washer", "qty": "7"},
		{"id": "d4", "name": "screw", "qty": "3"},
		{"id": "e5", "name": "clip", "qty": "9"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, l, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	if got := l.count("write"); got != 1 {
		t.Errorf("expected one batched append write, got %d (%v)", got, *l.calls)
	}
}

// --- Batch De-duplication ---

func TestUpdateOrInsertBy_FirstDuplicateWins(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{
		{"id": "a1", "qty": "first"},
		{"id": "a1", "qty": "second"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	recs, _ := sheet.DecodeSheet(ctx, sh, sheet.RawDecoder)
	if recs[0]["qty"] != "first" {
		t.Errorf("expected first batch occurrence to win, got %v", recs[0])
	}
}

func TestUpdateOrInsertBy_DedupAppliesToInsertsToo(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{
		{"id": "c3", "name": "washer", "qty": "7"},
		{"id": "c3", "name": "shadow", "qty": "0"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	rows, _, _ := sh.Dims(ctx)
	if rows != 4 {
		t.Errorf("expected a single appended row, got %d total rows", rows)
	}
	recs, _ := sheet.DecodeSheet(ctx, sh, sheet.RawDecoder)
	if recs[2]["name"] != "washer" {
		t.Errorf("expected first occurrence inserted, got %v", recs[2])
	}
}

// --- Duplicate Flag ---

// dupSheet seeds a table where a1 appears on two rows.
func dupSheet(t *testing.T) sheet.Sheet {
	t.Helper()
	return seedSheet(t, [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "10"},
		{"a1", "BOLT", "11"},
		{"b2", "nut", "5"},
	})
}

func TestUpdateOrInsertBy_DuplicateFalseUpdatesFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	sh := dupSheet(t)

	batch := []sheet.Record{{"id": "a1", "qty": "99"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	want := [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "99"},
		{"a1", "BOLT", "11"},
		{"b2", "nut", "5"},
	}
	if got := gridOf(t, sh); !sameGrid(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateOrInsertBy_DuplicateTrueUpdatesAllMatches(t *testing.T) {
	ctx := context.Background()
	sh := dupSheet(t)

	batch := []sheet.Record{{"id": "a1", "qty": "99"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, true); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	// Every match receives the values merged against the first match, so
	// the second row's name is replaced by the first row's.
	want := [][]sheet.Value{
		{"id", "name", "qty"},
		{"a1", "bolt", "99"},
		{"a1", "bolt", "99"},
		{"b2", "nut", "5"},
	}
	if got := gridOf(t, sh); !sameGrid(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// --- Edge Cases ---

func TestUpdateOrInsertBy_EmptyBatchMakesNoCalls(t *testing.T) {
	ctx := context.Background()
	l := logged(partsSheet(t))

	if err := sheet.UpdateOrInsertBy(ctx, l, partsHeader, nil, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}
	if len(*l.calls) != 0 {
		t.Errorf("expected zero service calls, got %v", *l.calls)
	}
}

func TestUpdateOrInsertBy_FieldsOutsideHeaderNotPersisted(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{{"id": "a1", "qty": "12", "color": "red"}}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	recs, _ := sheet.DecodeSheet(ctx, sh, sheet.RawDecoder)
	if recs[0].Has("color") {
		t.Errorf("field outside the header was persisted: %v", recs[0])
	}
}

func TestUpdateOrInsertBy_Idempotent(t *testing.T) {
	ctx := context.Background()
	sh := partsSheet(t)

	batch := []sheet.Record{
		{"id": "a1", "qty": "12"},
		{"id": "c3", "name": "washer", "qty": "7"},
	}
	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := gridOf(t, sh)

	if err := sheet.UpdateOrInsertBy(ctx, sh, partsHeader, batch, byID, false); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	second := gridOf(t, sh)

	if !sameGrid(first, second) {
		t.Errorf("expected reapplying the batch to change nothing: %v vs %v", first, second)
	}
}

func TestUpdateOrInsertBy_IntKeys(t *testing.T) {
	ctx := context.Background()
	sh := seedSheet(t, [][]sheet.Value{
		{"num", "name"},
		{int64(1), "one"},
		{int64(2), "two"},
	})

	byNum := func(r sheet.Record) int64 {
		n, _ := r["num"].(int64)
		return n
	}

	batch := []sheet.Record{{"num": int64(2), "name": "TWO"}}
	err := sheet.UpdateOrInsertBy(ctx, sh, []string{"num", "name"}, batch, byNum, false)
	if err != nil {
		t.Fatalf("UpdateOrInsertBy: %v", err)
	}

	recs, _ := sheet.DecodeSheet(ctx, sh, sheet.RawDecoder)
	if recs[1]["name"] != "TWO" {
		t.Errorf("expected update keyed by int64, got %v", recs[1])
	}
}

// --- Benchmarks ---

func BenchmarkUpdateOrInsertBy(b *testing.B) {
	ctx := context.Background()
	header := []string{"id", "name", "qty"}

	seed := make([]sheet.Record, 100)
	for i := range seed {
		seed[i] = sheet.Record{
			"id":   fmt.Sprintf("id-%03d", i),
			"name": "part",
			"qty":  "1",
		}
	}
	batch := []sheet.Record{
		{"id": "id-050", "qty": "2"},
		{"id": "id-075", "qty": "3"},
		{"id": "new-1", "name": "extra", "qty": "4"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		wb := memsheet.NewWorkbook("bench")
		sh, err := wb.AddSheet(ctx, "parts")
		if err != nil {
			b.Fatal(err)
		}
		if err := sheet.Overwrite(ctx, sh, header, seed); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		if err := sheet.UpdateOrInsertBy(ctx, sh, header, batch, byID, false); err != nil {
			b.Fatal(err)
		}
	}
}
