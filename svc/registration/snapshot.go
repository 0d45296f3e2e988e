package registration

import (
	"maps"
	"net/url"
	"slices"
)

// Snapshot is an immutable view of the form values at evaluation time.
// A field may carry several values (checkbox groups). Missing fields read
// as empty.
type Snapshot struct {
	values url.Values
}

// NewSnapshot copies values into a Snapshot.
func NewSnapshot(values url.Values) Snapshot {
	cp := make(url.Values, len(values))
	for k, v := range values {
		cp[k] = slices.Clone(v)
	}
	return Snapshot{values: cp}
}

// SnapshotFromMap builds a Snapshot with one value per field.
func SnapshotFromMap(m map[string]string) Snapshot {
	values := make(url.Values, len(m))
	for k, v := range m {
		values[k] = []string{v}
	}
	return Snapshot{values: values}
}

// Get returns the first value of field, or "" when the field is missing.
func (s Snapshot) Get(field string) string {
	if v := s.values[field]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Values returns a copy of every value of field.
func (s Snapshot) Values(field string) []string {
	return slices.Clone(s.values[field])
}

func (s Snapshot) Has(field string) bool {
	_, ok := s.values[field]
	return ok
}

// Fields returns the field names in sorted order.
func (s Snapshot) Fields() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// With returns a new Snapshot where field holds values.
func (s Snapshot) With(field string, values ...string) Snapshot {
	next := NewSnapshot(s.values)
	next.values[field] = slices.Clone(values)
	return next
}

// Map returns a new Snapshot with fn applied to every value.
func (s Snapshot) Map(fn func(string) string) Snapshot {
	next := NewSnapshot(s.values)
	for _, vs := range next.values {
		for i, v := range vs {
			vs[i] = fn(v)
		}
	}
	return next
}

// Encode returns a copy of the values ready for form encoding.
func (s Snapshot) Encode() url.Values {
	return NewSnapshot(s.values).values
}

// Toggles holds gate state by name. Missing toggles are off.
type Toggles map[string]bool
