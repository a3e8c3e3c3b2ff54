package core

import (
	"encoding/json"
	"testing"
)

// ----------------------------------------------------------------------------
// CoerceCell Tests
// ----------------------------------------------------------------------------

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		// Numbers
		{name: "integer", input: "123", want: json.Number("123")},
		{name: "negative decimal", input: "-4.50", want: json.Number("-4.5")},
		{name: "leading dot", input: ".5", want: json.Number("0.5")},
		{name: "exponent", input: "1e3", want: json.Number("1000")},
		{name: "leading zeros are lost", input: "007", want: json.Number("7")},
		{name: "surrounding spaces", input: " 42 ", want: json.Number("42")},
		{name: "tiny exponent", input: "1e-7", want: json.Number("1e-7")},
		{name: "huge exponent", input: "1e21", want: json.Number("1e+21")},

		// Literals
		{name: "true", input: "true", want: true},
		{name: "false", input: "false", want: false},
		{name: "null", input: "null", want: nil},

		// Strings stay as typed
		{name: "plain text", input: "hello", want: "hello"},
		{name: "capitalized literal is text", input: "True", want: "True"},
		{name: "hex is text", input: "0x1F", want: "0x1F"},
		{name: "empty", input: "", want: ""},
		{name: "spaces kept on text", input: " a b ", want: " a b "},
		{name: "overflow is text", input: "1e999", want: "1e999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceCell(tt.input)
			if got != tt.want {
				t.Errorf("CoerceCell(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Stringify Tests
// ----------------------------------------------------------------------------

func TestStringify(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: "null"},
		{name: "string", input: "abc", want: "abc"},
		{name: "number", input: json.Number("1.50"), want: "1.50"},
		{name: "bool", input: true, want: "true"},
		{name: "nested object is compacted", input: json.RawMessage(`{ "a" : [1, 2] }`), want: `{"a":[1,2]}`},
		{name: "nested array", input: json.RawMessage(`[ ]`), want: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.input); got != tt.want {
				t.Errorf("Stringify(%#v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchKey_Trims(t *testing.T) {
	if got := matchKey("  1 "); got != "1" {
		t.Errorf("matchKey = %q, want %q", got, "1")
	}
	if got := matchKey(json.Number("1")); got != "1" {
		t.Errorf("matchKey(number) = %q, want %q", got, "1")
	}
}

func TestMatchKey_CanonicalNumbers(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{json.Number("1.0"), "1"},
		{json.Number("1e2"), "100"},
		{json.Number("-0"), "0"},
		{CoerceCell("1.0"), "1"},
		{"1.0", "1.0"},
	}

	for _, tt := range tests {
		if got := matchKey(tt.input); got != tt.want {
			t.Errorf("matchKey(%#v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// formatNumber Tests
// ----------------------------------------------------------------------------

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{-2.25, "-2.25"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{1.5e-10, "1.5e-10"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.input); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
