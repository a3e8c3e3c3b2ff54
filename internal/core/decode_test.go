package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords_KeyOrder(t *testing.T) {
	records, err := DecodeRecords(`[{"b":1,"a":2},{"c":3,"a":9}]`, ShapePermissive)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"b", "a"}, records[0].Keys())
	assert.Equal(t, []string{"c", "a"}, records[1].Keys())
	assert.Equal(t, []string{"b", "a", "c"}, DiscoverFields(records))
}

func TestDecodeRecords_ValueTypes(t *testing.T) {
	records, err := DecodeRecords(`[{"s":"xé","n":1.50,"t":true,"z":null,"o":{"k":[1]},"l":[1,2]}]`, ShapeStrict)
	require.NoError(t, err)
	rec := records[0]

	get := func(k string) any {
		v, ok := rec.Get(k)
		require.True(t, ok, k)
		return v
	}

	assert.Equal(t, "xé", get("s"))
	assert.Equal(t, json.Number("1.50"), get("n"))
	assert.Equal(t, true, get("t"))
	assert.Nil(t, get("z"))
	assert.Equal(t, json.RawMessage(`{"k":[1]}`), get("o"))
	assert.Equal(t, json.RawMessage(`[1,2]`), get("l"))
}

func TestDecodeRecords_EscapedKeys(t *testing.T) {
	records, err := DecodeRecords(`[{"a\"b":1,"A":2}]`, ShapePermissive)
	require.NoError(t, err)
	assert.Equal(t, []string{`a"b`, "A"}, records[0].Keys())
}

func TestDecodeRecords_Blank(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		records, err := DecodeRecords(text, ShapeStrict)
		assert.NoError(t, err)
		assert.Empty(t, records)
	}
}

func TestDecodeRecords_Errors(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		policy ShapePolicy
		target error
	}{
		{name: "syntax", text: `[{"a":1,}]`, target: ErrParse},
		{name: "truncated", text: `[{"a":1}`, target: ErrParse},
		{name: "trailing data", text: `[{"a":1}] x`, target: ErrParse},
		{name: "empty array", text: `[]`, target: ErrShape},
		{name: "array of scalars", text: `[1,2]`, target: ErrShape},
		{name: "mixed array", text: `[{"a":1},"x"]`, target: ErrShape},
		{name: "nested array element", text: `[[{"a":1}]]`, target: ErrShape},
		{name: "string", text: `"hello"`, target: ErrShape},
		{name: "number", text: `42`, target: ErrShape},
		{name: "null", text: `null`, target: ErrShape},
		{name: "strict object", text: `{"a":1}`, policy: ShapeStrict, target: ErrShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecords(tt.text, tt.policy)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDecodeRecords_ParseOffset(t *testing.T) {
	_, err := DecodeRecords(`{"a": x}`, ShapePermissive)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Positive(t, perr.Offset)
}

func TestDecodeRecords_PermissiveWrapsObject(t *testing.T) {
	records, err := DecodeRecords(`{"a":1,"b":2}`, ShapePermissive)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"a", "b"}, records[0].Keys())
}

func TestDecodeRecords_EmptyObjects(t *testing.T) {
	records, err := DecodeRecords(`[{},{}]`, ShapeStrict)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Empty(t, DiscoverFields(records))
}

func TestParseShapePolicy(t *testing.T) {
	p, err := ParseShapePolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, ShapeStrict, p)

	p, err = ParseShapePolicy("")
	require.NoError(t, err)
	assert.Equal(t, ShapePermissive, p)
	assert.Equal(t, "permissive", p.String())

	_, err = ParseShapePolicy("lenient")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, NormalizeInput([]byte("\xEF\xBB\xBF[{\"a\":1}]")))
	assert.Equal(t, "a\uFFFDb", NormalizeInput([]byte("a\xffb")))
}

func TestReadInput_Limit(t *testing.T) {
	text, err := ReadInput(stringsReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", text)

	_, err = ReadInput(stringsReader("123456"), 5)
	assert.ErrorIs(t, err, ErrInputTooLarge)

	text, err = ReadInput(stringsReader("123456"), 0)
	require.NoError(t, err)
	assert.Equal(t, "123456", text)
}
