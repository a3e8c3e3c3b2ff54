package core

// decode.go turns input text into Records without losing key order.
//
// encoding/json decodes objects into Go maps, which forget the order keys
// were written in, and field discovery depends on that order. Syntax is
// checked with encoding/json first (it reports the failing offset); the
// validated bytes are then walked with jsonparser, which visits object keys
// in document order.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/buger/jsonparser"
)

// ShapePolicy selects how a top-level value that is not an array is handled.
type ShapePolicy int

const (
	// ShapePermissive wraps a single bare object into a one-element array.
	ShapePermissive ShapePolicy = iota

	// ShapeStrict requires a top-level array.
	ShapeStrict
)

// ParseShapePolicy converts "permissive" or "strict" to a ShapePolicy.
func ParseShapePolicy(s string) (ShapePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "permissive":
		return ShapePermissive, nil
	case "strict":
		return ShapeStrict, nil
	default:
		return ShapePermissive, validationf("unknown shape policy %q", s)
	}
}

func (p ShapePolicy) String() string {
	if p == ShapeStrict {
		return "strict"
	}
	return "permissive"
}

// DecodeRecords parses text into records.
// Blank text yields no records and no error.
func DecodeRecords(text string, policy ShapePolicy) ([]*Record, error) {
	data := bytes.TrimSpace([]byte(text))
	if len(data) == 0 {
		return nil, nil
	}

	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &ParseError{Offset: syntaxErr.Offset, Err: err}
		}
		return nil, &ParseError{Err: err}
	}

	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	switch dataType {
	case jsonparser.Array:
		return decodeArray(value)
	case jsonparser.Object:
		if policy == ShapeStrict {
			return nil, &ShapeError{Reason: "expected an array of objects, got a single object"}
		}
		rec, err := decodeObject(value)
		if err != nil {
			return nil, err
		}
		return []*Record{rec}, nil
	default:
		return nil, &ShapeError{Reason: fmt.Sprintf("expected an array of objects, got %s", dataType)}
	}
}

func decodeArray(data []byte) ([]*Record, error) {
	var (
		records []*Record
		failure error
		index   int
	)

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		defer func() { index++ }()
		if failure != nil {
			return
		}
		if err != nil {
			failure = &ParseError{Err: err}
			return
		}
		if dataType != jsonparser.Object {
			failure = &ShapeError{Reason: fmt.Sprintf("element %d is %s, not an object", index, dataType)}
			return
		}
		rec, err := decodeObject(value)
		if err != nil {
			failure = err
			return
		}
		records = append(records, rec)
	})
	if failure != nil {
		return nil, failure
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	if len(records) == 0 {
		return nil, &ShapeError{Reason: "array is empty"}
	}

	return records, nil
}

func decodeObject(data []byte) (*Record, error) {
	rec := NewRecord()

	err := jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		name, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		v, err := decodeValue(value, dataType)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		rec.Set(name, v)
		return nil
	})
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return rec, nil
}

func decodeValue(value []byte, dataType jsonparser.ValueType) (any, error) {
	switch dataType {
	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return json.Number(string(value)), nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Object, jsonparser.Array:
		return json.RawMessage(bytes.Clone(value)), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", dataType)
	}
}
