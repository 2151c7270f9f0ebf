package anomalies

import (
	"slices"
)

// FieldsFilter restricts which new fields may be materialized. A nil
// *FieldsFilter allows every field.
type FieldsFilter struct {
	paths map[string]Path
}

// NewFieldsFilter builds a filter containing paths.
func NewFieldsFilter(paths ...Path) *FieldsFilter {
	f := &FieldsFilter{paths: make(map[string]Path, len(paths))}
	for _, p := range paths {
		f.paths[p.Serialize()] = p
	}
	return f
}

// Allows reports whether a new field at p may be created.
func (f *FieldsFilter) Allows(p Path) bool {
	if f == nil {
		return true
	}
	return f.Contains(p)
}

// Contains reports exact membership. A nil filter contains nothing.
func (f *FieldsFilter) Contains(p Path) bool {
	if f == nil {
		return false
	}
	_, ok := f.paths[p.Serialize()]
	return ok
}

// Len returns the number of requested paths.
func (f *FieldsFilter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.paths)
}

// Paths returns the requested paths in order.
func (f *FieldsFilter) Paths() []Path {
	if f == nil {
		return nil
	}
	out := make([]Path, 0, len(f.paths))
	for _, p := range f.paths {
		out = append(out, p)
	}
	slices.SortFunc(out, Path.Compare)
	return out
}
