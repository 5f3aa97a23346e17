package sheet

import "context"

// SheetMetadata folds the sheet's developer metadata into a flat map.
// Entries are applied in write order, so later writes win on key collision.
func SheetMetadata(ctx context.Context, s Sheet) (map[string]string, error) {
	entries, err := s.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	meta := make(map[string]string, len(entries))
	for _, e := range entries {
		meta[e.Key] = e.Value
	}
	return meta, nil
}
