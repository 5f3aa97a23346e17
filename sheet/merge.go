package sheet

import "context"

// UpdateOrInsertBy applies an upsert batch to s, matching each incoming
// record against existing rows by the identifier toKey derives.
//
// The batch is de-duplicated by identifier first: the first occurrence wins
// and relative order is preserved. Each surviving record is then matched
// against the existing rows in row order. A match merges the existing fields
// with the incoming ones (incoming fields override, fields present only in
// the existing row are preserved) and rewrites the matched row in place.
// With duplicate false only the first matching row is rewritten; with
// duplicate true every matching row receives the same merged values, the
// ones computed against the first match. Records that match nothing are
// appended below the used range in a single batch, in batch order.
//
// Only fields named in header are persisted. An empty batch performs no
// service calls.
func UpdateOrInsertBy[K comparable](ctx context.Context, s Sheet, header []string, data []Record, toKey KeyFunc[K], duplicate bool) error {
	if len(data) == 0 {
		return nil
	}

	// 1. De-duplicate the batch by identifier, keeping first occurrences.
	batch := dedupeByKey(data, toKey)

	// 2. Load the existing records once.
	existing, err := DecodeSheet(ctx, s, RawDecoder)
	if err != nil {
		return err
	}

	// 3. Match each incoming record against the existing rows.
	var inserts []Record
	for _, incoming := range batch {
		key := toKey(incoming)
		matched := false
		var merged Record

		for i, current := range existing {
			if toKey(current) != key {
				continue
			}
			if !matched {
				merged = Merge(current, incoming)
				matched = true
			}

			// Header is row 1, so existing index i lives in row i+2.
			row := Range{Row: i + 2, Col: 1, NumRows: 1, NumCols: len(header)}
			if err := s.WriteRange(ctx, row, EncodeRows(header, []Record{merged})); err != nil {
				return err
			}
			if !duplicate {
				break
			}
		}

		if !matched {
			inserts = append(inserts, incoming)
		}
	}

	// 4. Append the unmatched records in one batch.
	return Append(ctx, s, header, inserts)
}

// dedupeByKey drops batch entries whose identifier was already seen,
// keeping the first occurrence and the original relative order.
func dedupeByKey[K comparable](data []Record, toKey KeyFunc[K]) []Record {
	seen := make(map[K]struct{}, len(data))
	out := make([]Record, 0, len(data))
	for _, rec := range data {
		k := toKey(rec)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}
