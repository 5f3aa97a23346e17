package sheet

// Value is a scalar cell value: string, bool, int64, float64 or a
// backend-native date type. Backends that read formatted text surface every
// cell as a string; ParseScalar upgrades strings to typed scalars.
type Value = any

// Record is one logical row: an open mapping from column name to cell value.
type Record map[string]Value

// String returns the string form of the named field, or "" when the field
// is absent. Non-string values are formatted with FormatScalar.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok {
		return ""
	}
	return FormatScalar(v)
}

// Has reports whether the field is present, even if empty.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns the field union of base and overlay: every field of base,
// overridden by every field of overlay. Neither input is modified.
func Merge(base, overlay Record) Record {
	out := make(Record, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// KeyFunc derives the matching identifier from a record.
type KeyFunc[K comparable] func(Record) K

// DecoderFunc converts one raw row into a caller-defined type.
// keys is the header row; row holds the cell values in header order.
type DecoderFunc[T any] func(keys []string, row []Value) (T, error)

// Predicate reports whether a record matches.
type Predicate func(Record) bool
