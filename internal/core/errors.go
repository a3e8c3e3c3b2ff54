package core

// errors.go defines the structured errors returned by workspace operations.
//
// Each typed error matches one sentinel through errors.Is, so callers can
// branch on the category without caring about the details:
//
//	if errors.Is(err, core.ErrDuplicateField) {
//	    // revert the edit in the UI
//	}
//
// The Error() text of every type starts with the sentinel text. MapError
// relies on that to pick a user-facing message.

import (
	"errors"
	"fmt"
)

var (
	// ErrParse means the input text is not syntactically valid JSON.
	ErrParse = errors.New("invalid json")

	// ErrShape means the input parsed but is not an array of objects.
	ErrShape = errors.New("invalid shape")

	// ErrDuplicateField means a rename or add collided with an existing field.
	ErrDuplicateField = errors.New("field already exists")

	// ErrDuplicateRule means a rule with the same field and value already exists.
	ErrDuplicateRule = errors.New("rule already exists")

	// ErrIndex means a row or rule index is outside the current bounds.
	ErrIndex = errors.New("index out of range")

	// ErrValidation means malformed input to an operation.
	ErrValidation = errors.New("validation failed")
)

// ParseError reports input that is not valid JSON.
type ParseError struct {
	Offset int64 // Byte offset of the syntax error, 0 if unknown
	Err    error // Underlying decoder error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s at offset %d: %v", ErrParse, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ShapeError reports valid JSON of the wrong structure.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string { return fmt.Sprintf("%s: %s", ErrShape, e.Reason) }

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// DuplicateFieldError reports a field name collision.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateField, e.Name)
}

func (e *DuplicateFieldError) Is(target error) bool { return target == ErrDuplicateField }

// DuplicateRuleError reports a second rule for the same (field, from) pair.
type DuplicateRuleError struct {
	Field string
	From  string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("%s: field %q value %q", ErrDuplicateRule, e.Field, e.From)
}

func (e *DuplicateRuleError) Is(target error) bool { return target == ErrDuplicateRule }

// IndexError reports an out-of-bounds row or rule index.
type IndexError struct {
	Kind  string // "row" or "rule"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %s: %d (have %d)", e.Kind, ErrIndex, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// ValidationError reports malformed operation input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", ErrValidation, e.Reason) }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func checkIndex(kind string, i, n int) error {
	if i < 0 || i >= n {
		return &IndexError{Kind: kind, Index: i, Len: n}
	}
	return nil
}
