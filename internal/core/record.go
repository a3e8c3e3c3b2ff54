package core

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is one JSON object from the input, with its keys kept in the order
// they appeared. The zero value is not usable; call NewRecord.
type Record struct {
	values *orderedmap.OrderedMap[string, any]
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: orderedmap.New[string, any]()}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	return r.values.Get(key)
}

// Set stores v under key. A new key goes to the end; an existing key keeps
// its position.
func (r *Record) Set(key string, v any) {
	r.values.Set(key, v)
}

// Delete removes key and reports whether it was present.
func (r *Record) Delete(key string) bool {
	_, ok := r.values.Delete(key)
	return ok
}

// Rename moves the value under old to key new, at old's position.
// Reports false when old is absent.
func (r *Record) Rename(old, new string) bool {
	v, ok := r.values.Get(old)
	if !ok {
		return false
	}
	r.values.Set(new, v)
	// Both keys exist at this point, so MoveAfter cannot fail.
	_ = r.values.MoveAfter(new, old)
	r.values.Delete(old)
	return true
}

// Keys returns the record's keys in order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.values.Len())
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	return r.values.Len()
}

// Clone returns a shallow copy. Values are immutable scalars or raw JSON,
// so a shallow copy is independent of the original.
func (r *Record) Clone() *Record {
	c := NewRecord()
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		c.values.Set(pair.Key, pair.Value)
	}
	return c
}

// MarshalJSON encodes the record as an object with keys in order. Text is
// written as-is, without HTML escaping of <, > and &.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for pair := r.values.Oldest(); pair != nil; pair = pair.Next() {
		if pair != r.values.Oldest() {
			buf.WriteByte(',')
		}
		if err := enc.Encode(pair.Key); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
		buf.WriteByte(':')
		if err := enc.Encode(pair.Value); err != nil {
			return nil, err
		}
		buf.Truncate(buf.Len() - 1)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
