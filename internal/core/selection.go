package core

import (
	"slices"

	"github.com/samber/lo"
)

// Selection is the ordered list of fields included in the output.
// It is always a subset of the store's fields, without duplicates.
type Selection struct {
	fields []string
}

// Reset selects every field, in the given order.
func (s *Selection) Reset(fields []string) {
	s.fields = slices.Clone(fields)
}

// Fields returns a copy of the selected fields in output order.
func (s *Selection) Fields() []string {
	return slices.Clone(s.fields)
}

// IsSelected reports whether field is selected.
func (s *Selection) IsSelected(field string) bool {
	return slices.Contains(s.fields, field)
}

// Reorder re-derives the selection from a new master order, keeping the
// same members.
func (s *Selection) Reorder(order []string) {
	current := s.fields
	s.fields = lo.Filter(order, func(f string, _ int) bool {
		return lo.Contains(current, f)
	})
}

// Set selects or deselects field. The result follows the master order in
// fields. Fields not in the master list are ignored.
func (s *Selection) Set(fields []string, field string, on bool) {
	if !slices.Contains(fields, field) {
		return
	}

	current := s.fields
	s.fields = lo.Filter(fields, func(f string, _ int) bool {
		if f == field {
			return on
		}
		return lo.Contains(current, f)
	})
}

// Rename renames a selected field in place.
func (s *Selection) Rename(oldName, newName string) {
	if i := slices.Index(s.fields, oldName); i >= 0 {
		s.fields[i] = newName
	}
}

// Append selects a new field at the end.
func (s *Selection) Append(field string) {
	if !s.IsSelected(field) {
		s.fields = append(s.fields, field)
	}
}

// Remove deselects field.
func (s *Selection) Remove(field string) {
	s.fields = lo.Without(s.fields, field)
}
