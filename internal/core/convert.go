package core

// convert.go provides the value conversions shared by the store and the
// output formatter.
//
// Values held in a Record are always one of:
//   - string
//   - json.Number (kept as the literal text so numbers round-trip exactly)
//   - bool
//   - nil (JSON null)
//   - json.RawMessage (nested arrays and objects, treated opaquely)
//
// CoerceCell turns user-typed cell text into one of those. The coercion is
// best-effort and lossy: text such as "007" or "1e3" the user meant as a
// string comes back as a number. Editors that need exact strings should
// quote them in the source JSON instead.

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// numericRegex matches the numeric literals accepted when editing a cell:
// integers, decimals and scientific notation with an optional sign.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CoerceCell converts raw cell text by precedence: numeric literal, then
// "true"/"false", then "null", otherwise the text unchanged.
func CoerceCell(raw string) any {
	s := strings.TrimSpace(raw)

	if n, ok := canonicalNumber(s); ok {
		return json.Number(n)
	}

	switch s {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	return raw
}

// Stringify renders a record value as text. Nulls become "null" and nested
// values become compact JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.RawMessage:
		var buf bytes.Buffer
		if err := json.Compact(&buf, val); err != nil {
			return string(val)
		}
		return buf.String()
	}
	return cast.ToString(v)
}

// matchKey is the form a value takes when compared against a rule's From.
// Numbers use their canonical text, so 1.0 read from input and 1.0 typed
// into a cell compare the same.
func matchKey(v any) string {
	if n, ok := v.(json.Number); ok {
		if c, ok := canonicalNumber(string(n)); ok {
			return c
		}
	}
	return strings.TrimSpace(Stringify(v))
}

// canonicalNumber reformats a numeric literal with formatNumber. It reports
// false for text that is not a finite number.
func canonicalNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return "", false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return "", false
	}
	return formatNumber(f), true
}

// formatNumber prints f the way a JSON number is conventionally written:
// plain decimal in the common range, exponent form for very large or very
// small magnitudes.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs < 1e21 && abs >= 1e-6 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)

	// Go pads exponents to two digits ("1e-07"); drop the padding.
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
