package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoadedStore(t *testing.T, text string) *Store {
	t.Helper()
	s := NewStore(ShapePermissive)
	require.NoError(t, s.Load(text))
	return s
}

func TestStore_LoadFailureKeepsState(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1}]`)

	require.Error(t, s.Load(`[{"a":`))
	require.Error(t, s.Load(`[]`))

	assert.Equal(t, []string{"a"}, s.Fields())
	assert.Equal(t, 1, s.Len())
}

func TestStore_LoadBlankResets(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1}]`)
	require.NoError(t, s.Load("  "))

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Fields())
}

func TestStore_Colors(t *testing.T) {
	s := newLoadedStore(t, `[{"f0":0,"f1":1,"f2":2,"f3":3,"f4":4,"f5":5,"f6":6,"f7":7,"f8":8}]`)

	c, ok := s.Color("f8")
	require.True(t, ok)
	assert.Equal(t, 0, c)

	c, _ = s.Color("f3")
	assert.Equal(t, 3, c)

	require.NoError(t, s.AddField("f9"))
	c, _ = s.Color("f9")
	assert.Equal(t, 1, c)

	_, err := s.RenameField("f3", "three")
	require.NoError(t, err)
	c, ok = s.Color("three")
	require.True(t, ok)
	assert.Equal(t, 3, c)
	_, ok = s.Color("f3")
	assert.False(t, ok)
}

func TestStore_RenameField(t *testing.T) {
	s := newLoadedStore(t, `[{"x":1,"y":2},{"y":3}]`)

	changed, err := s.RenameField("x", "  z ")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"z", "y"}, s.Fields())

	rec, err := s.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "y"}, rec.Keys())
	v, _ := rec.Get("z")
	assert.Equal(t, json.Number("1"), v)

	rec, _ = s.Row(1)
	assert.Equal(t, []string{"y"}, rec.Keys())
}

func TestStore_RenameFieldNoOps(t *testing.T) {
	s := newLoadedStore(t, `[{"x":1}]`)

	for _, name := range []string{"", "   ", "x"} {
		changed, err := s.RenameField("x", name)
		assert.NoError(t, err)
		assert.False(t, changed)
	}
	assert.Equal(t, []string{"x"}, s.Fields())
}

func TestStore_RenameFieldErrors(t *testing.T) {
	s := newLoadedStore(t, `[{"x":1,"y":2}]`)

	_, err := s.RenameField("x", "y")
	var dup *DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "y", dup.Name)

	_, err = s.RenameField("missing", "q")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, []string{"x", "y"}, s.Fields())
}

func TestStore_AddField(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1},{"a":2}]`)

	require.NoError(t, s.AddField("b"))
	assert.Equal(t, []string{"a", "b"}, s.Fields())
	for i := range s.Len() {
		rec, _ := s.Row(i)
		v, ok := rec.Get("b")
		assert.True(t, ok)
		assert.Equal(t, "", v)
	}

	assert.ErrorIs(t, s.AddField("a"), ErrDuplicateField)
	assert.ErrorIs(t, s.AddField(" "), ErrValidation)
}

func TestStore_DeleteField(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1,"b":2},{"b":3}]`)

	assert.True(t, s.DeleteField("b"))
	assert.False(t, s.DeleteField("b"))
	assert.Equal(t, []string{"a"}, s.Fields())

	rec, _ := s.Row(1)
	assert.Equal(t, 0, rec.Len())
}

func TestStore_Rows(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1,"b":2}]`)

	s.AddRow()
	require.Equal(t, 2, s.Len())
	rec, _ := s.Row(1)
	assert.Equal(t, []string{"a", "b"}, rec.Keys())

	var ierr *IndexError
	require.ErrorAs(t, s.DeleteRow(2), &ierr)
	assert.Equal(t, "row", ierr.Kind)
	assert.ErrorIs(t, s.DeleteRow(-1), ErrIndex)

	require.NoError(t, s.DeleteRow(0))
	require.Equal(t, 1, s.Len())
	rec, _ = s.Row(0)
	v, _ := rec.Get("a")
	assert.Equal(t, "", v)
}

func TestStore_SetCellValue(t *testing.T) {
	s := newLoadedStore(t, `[{"a":"x","b":1}]`)

	require.NoError(t, s.SetCellValue(0, "a", "12"))
	require.NoError(t, s.SetCellValue(0, "b", "hello"))

	rec, _ := s.Row(0)
	a, _ := rec.Get("a")
	b, _ := rec.Get("b")
	assert.Equal(t, json.Number("12"), a)
	assert.Equal(t, "hello", b)

	assert.ErrorIs(t, s.SetCellValue(1, "a", "x"), ErrIndex)
	assert.ErrorIs(t, s.SetCellValue(0, "zzz", "x"), ErrValidation)
	assert.Equal(t, []string{"a", "b"}, s.Fields())
}

func TestStore_ReorderFields(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1,"b":2,"c":3}]`)

	require.NoError(t, s.ReorderFields([]string{"c", "a", "b"}))
	assert.Equal(t, []string{"c", "a", "b"}, s.Fields())

	bad := [][]string{
		{"a", "b"},
		{"a", "b", "b"},
		{"a", "b", "d"},
		{"a", "b", "c", "d"},
		nil,
	}
	for _, order := range bad {
		assert.ErrorIs(t, s.ReorderFields(order), ErrValidation, "%v", order)
	}
	assert.Equal(t, []string{"c", "a", "b"}, s.Fields())
}

func TestStore_FieldsIsCopy(t *testing.T) {
	s := newLoadedStore(t, `[{"a":1}]`)
	f := s.Fields()
	f[0] = "changed"
	assert.Equal(t, []string{"a"}, s.Fields())
}

func TestRecord_RenameKeepsPosition(t *testing.T) {
	rec := NewRecord()
	rec.Set("a", 1)
	rec.Set("b", 2)
	rec.Set("c", 3)

	assert.True(t, rec.Rename("b", "B"))
	assert.Equal(t, []string{"a", "B", "c"}, rec.Keys())
	assert.False(t, rec.Rename("missing", "x"))

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1,"B":2,"c":3}`, string(data))
	assert.Equal(t, `{"a":1,"B":2,"c":3}`, string(data))
}
