package core

import (
	"slices"
	"strings"

	"github.com/samber/lo"
)

// ColorCount is the number of cosmetic color tags cycled through by fields.
const ColorCount = 8

// Store holds the decoded records and the master field list.
//
// Invariant: fields holds every key of every record exactly once, in
// first-seen order unless reordered since.
type Store struct {
	policy  ShapePolicy
	records []*Record
	fields  []string
	colors  map[string]int
}

// NewStore returns an empty store using the given shape policy for Load.
func NewStore(policy ShapePolicy) *Store {
	return &Store{
		policy: policy,
		colors: make(map[string]int),
	}
}

// Load replaces all records with the ones decoded from text and recomputes
// the field list. On error the store is left untouched. Blank text empties
// the store.
func (s *Store) Load(text string) error {
	records, err := DecodeRecords(text, s.policy)
	if err != nil {
		return err
	}
	s.replace(records)
	return nil
}

func (s *Store) replace(records []*Record) {
	s.records = records
	s.fields = DiscoverFields(records)
	s.colors = make(map[string]int, len(s.fields))
	for i, f := range s.fields {
		s.colors[f] = i % ColorCount
	}
}

// DiscoverFields returns the union of record keys in first-seen order,
// scanning records top to bottom and keys left to right.
func DiscoverFields(records []*Record) []string {
	seen := make(map[string]bool)
	fields := []string{}
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				fields = append(fields, key)
			}
		}
	}
	return fields
}

// Policy returns the shape policy used by Load.
func (s *Store) Policy() ShapePolicy { return s.policy }

// Fields returns a copy of the master field list.
func (s *Store) Fields() []string { return slices.Clone(s.fields) }

// HasField reports whether name is in the field list.
func (s *Store) HasField(name string) bool { return slices.Contains(s.fields, name) }

// Color returns the color tag of a field.
func (s *Store) Color(name string) (int, bool) {
	c, ok := s.colors[name]
	return c, ok
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns the records in row order. Callers must not modify them.
func (s *Store) Records() []*Record { return s.records }

// Row returns the record at index i.
func (s *Store) Row(i int) (*Record, error) {
	if err := checkIndex("row", i, len(s.records)); err != nil {
		return nil, err
	}
	return s.records[i], nil
}

// RenameField renames a field in every record and in the field list,
// keeping its position and color. Returns false without error when newName
// is blank or unchanged.
func (s *Store) RenameField(oldName, newName string) (bool, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return false, nil
	}

	pos := slices.Index(s.fields, oldName)
	if pos < 0 {
		return false, validationf("unknown field %q", oldName)
	}
	if s.HasField(newName) {
		return false, &DuplicateFieldError{Name: newName}
	}

	for _, rec := range s.records {
		rec.Rename(oldName, newName)
	}
	s.fields[pos] = newName
	s.colors[newName] = s.colors[oldName]
	delete(s.colors, oldName)

	return true, nil
}

// AddField appends a field holding "" in every record.
func (s *Store) AddField(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationf("field name is required")
	}
	if s.HasField(name) {
		return &DuplicateFieldError{Name: name}
	}

	for _, rec := range s.records {
		rec.Set(name, "")
	}
	s.fields = append(s.fields, name)
	s.colors[name] = (len(s.fields) - 1) % ColorCount

	return nil
}

// DeleteField removes a field from every record and the field list.
// Reports whether the field existed.
func (s *Store) DeleteField(name string) bool {
	if !s.HasField(name) {
		return false
	}

	for _, rec := range s.records {
		rec.Delete(name)
	}
	s.fields = lo.Without(s.fields, name)
	delete(s.colors, name)

	return true
}

// AddRow appends a record mapping every current field to "".
func (s *Store) AddRow() {
	rec := NewRecord()
	for _, f := range s.fields {
		rec.Set(f, "")
	}
	s.records = append(s.records, rec)
}

// DeleteRow removes the record at index i.
func (s *Store) DeleteRow(i int) error {
	if err := checkIndex("row", i, len(s.records)); err != nil {
		return err
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// SetCellValue stores the coerced form of raw text in one cell.
func (s *Store) SetCellValue(row int, field, raw string) error {
	rec, err := s.Row(row)
	if err != nil {
		return err
	}
	if !s.HasField(field) {
		return validationf("unknown field %q", field)
	}

	rec.Set(field, CoerceCell(raw))
	return nil
}

// ReorderFields replaces the field order. order must be a permutation of
// the current fields.
func (s *Store) ReorderFields(order []string) error {
	if !isPermutation(order, s.fields) {
		return validationf("field order must be a permutation of the current fields")
	}
	s.fields = slices.Clone(order)
	return nil
}

func isPermutation(order, fields []string) bool {
	if len(order) != len(fields) {
		return false
	}
	if len(lo.Uniq(order)) != len(order) {
		return false
	}
	return lo.Every(fields, order)
}

func (s *Store) clone() *Store {
	c := &Store{
		policy:  s.policy,
		records: make([]*Record, len(s.records)),
		fields:  slices.Clone(s.fields),
		colors:  make(map[string]int, len(s.colors)),
	}
	for i, rec := range s.records {
		c.records[i] = rec.Clone()
	}
	for k, v := range s.colors {
		c.colors[k] = v
	}
	return c
}
