// Package core provides the data reshaping logic.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code when reporting
// a problem.
//
// Error codes are grouped by category:
//
// # Input Errors (JSON001-JSON099)
//
//	JSON001 - Invalid JSON: The input is not valid JSON
//	          Action: Check for missing commas, quotes or brackets
//	          Patterns: "invalid json"
//
//	JSON002 - Empty array: The input array has no objects
//	          Action: Provide at least one object
//	          Patterns: "array is empty"
//
//	JSON003 - Wrong shape: The input is not an array of objects
//	          Action: Provide an array of objects, or a single object
//	          Patterns: "invalid shape"
//
// # Field Errors (FLD001-FLD099)
//
//	FLD001 - Field exists: A field with this name already exists
//	         Patterns: "field already exists"
//
//	FLD002 - Unknown field: The field does not exist
//	         Patterns: "unknown field"
//
//	FLD003 - Field name required: The field name is empty
//	         Patterns: "field name is required"
//
// # Rule Errors (RULE001-RULE099)
//
//	RULE001 - Rule exists: A rule for this field and value already exists
//	          Patterns: "rule already exists"
//
//	RULE002 - Incomplete rule: Field and value are required
//	          Patterns: "rule field is required", "rule value is required"
//
//	RULE003 - Unknown rule kind
//	          Patterns: "unknown rule kind"
//
//	RULE004 - Rule not found: The rule index is out of range
//	          Patterns: "rule index out of range"
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row not found: The row index is out of range
//	         Patterns: "row index out of range"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid field order: Order must list every field exactly once
//	         Patterns: "field order must be a permutation"
//
//	VAL002 - Invalid indent: Start indent must not be negative
//	         Patterns: "start indent must be non-negative"
//
//	VAL003 - Unknown format: Use txt, json or csv
//	         Patterns: "unknown format"
//
//	VAL004 - Invalid request body (checked before every other pattern)
//	         Patterns: "invalid request body"
//
//	VAL005 - Invalid input: Any other validation failure
//	         Patterns: "validation failed"
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: The session expired or never existed
//	         Patterns: "session not found"
//
//	SES002 - System busy: Too many open sessions
//	         Patterns: "too many sessions"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	          Patterns: "file too large"
//
//	FILE002 - Not JSON: The dropped file is not a JSON file
//	          Patterns: "not a json file"
//
//	FILE003 - No file: No file was selected
//	          Patterns: "no file provided"
//
// # Profile Errors (PRF001-PRF099)
//
//	PRF001 - Invalid profile: The profile YAML could not be read
//	         Patterns: "invalid profile"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones. Profile errors come first because they wrap the
// validation errors of their contents.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// Request bodies wrap decoder text that may mention fields or JSON.
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Please try again",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// Profile Errors (PRF001)
	// =========================================================================
	{
		pattern: "invalid profile",
		msg: UserMessage{
			Message: "The profile could not be read",
			Action:  "Check the YAML syntax and the field names used",
			Code:    "PRF001",
		},
	},

	// =========================================================================
	// Input Errors (JSON001-JSON003)
	// =========================================================================
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The input is not valid JSON",
			Action:  "Check for missing commas, quotes or brackets",
			Code:    "JSON001",
		},
	},
	{
		pattern: "array is empty",
		msg: UserMessage{
			Message: "The input array has no objects",
			Action:  "Provide at least one object",
			Code:    "JSON002",
		},
	},
	{
		pattern: "invalid shape",
		msg: UserMessage{
			Message: "The input is not an array of objects",
			Action:  "Provide an array of objects, or a single object",
			Code:    "JSON003",
		},
	},

	// =========================================================================
	// Field Errors (FLD001-FLD003)
	// =========================================================================
	{
		pattern: "field already exists",
		msg: UserMessage{
			Message: "A field with this name already exists",
			Action:  "Choose a different name",
			Code:    "FLD001",
		},
	},
	{
		pattern: "unknown field",
		msg: UserMessage{
			Message: "The field does not exist",
			Action:  "Reload the page to see the current fields",
			Code:    "FLD002",
		},
	},
	{
		pattern: "field name is required",
		msg: UserMessage{
			Message: "The field name is empty",
			Action:  "Enter a name for the field",
			Code:    "FLD003",
		},
	},

	// =========================================================================
	// Rule Errors (RULE001-RULE004)
	// =========================================================================
	{
		pattern: "rule already exists",
		msg: UserMessage{
			Message: "A rule for this field and value already exists",
			Action:  "Remove the existing rule first",
			Code:    "RULE001",
		},
	},
	{
		pattern: "rule field is required",
		msg: UserMessage{
			Message: "The rule needs a field",
			Action:  "Pick the field the rule applies to",
			Code:    "RULE002",
		},
	},
	{
		pattern: "rule value is required",
		msg: UserMessage{
			Message: "The rule needs a value to match",
			Action:  "Enter the value to replace or remove",
			Code:    "RULE002",
		},
	},
	{
		pattern: "unknown rule kind",
		msg: UserMessage{
			Message: "Unknown rule kind",
			Action:  "Use replace or remove",
			Code:    "RULE003",
		},
	},
	{
		pattern: "rule index out of range",
		msg: UserMessage{
			Message: "The rule does not exist",
			Action:  "Reload the page to see the current rules",
			Code:    "RULE004",
		},
	},

	// =========================================================================
	// Row Errors (ROW001)
	// =========================================================================
	{
		pattern: "row index out of range",
		msg: UserMessage{
			Message: "The row does not exist",
			Action:  "Reload the page to see the current rows",
			Code:    "ROW001",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL005)
	// =========================================================================
	{
		pattern: "field order must be a permutation",
		msg: UserMessage{
			Message: "The field order must list every field exactly once",
			Action:  "Reload the page and try again",
			Code:    "VAL001",
		},
	},
	{
		pattern: "start indent must be non-negative",
		msg: UserMessage{
			Message: "The start indent cannot be negative",
			Action:  "Enter 0 or a positive number",
			Code:    "VAL002",
		},
	},
	{
		pattern: "unknown format",
		msg: UserMessage{
			Message: "Unknown output format",
			Action:  "Use txt, json or csv",
			Code:    "VAL003",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "The input is not valid",
			Action:  "Check the values entered",
			Code:    "VAL005",
		},
	},

	// =========================================================================
	// Session Errors (SES001-SES002)
	// =========================================================================
	{
		pattern: "session not found",
		msg: UserMessage{
			Message: "Your session has expired",
			Action:  "Reload the page to start a new session",
			Code:    "SES001",
		},
	},
	{
		pattern: "too many sessions",
		msg: UserMessage{
			Message: "The system is busy",
			Action:  "Please wait a moment and try again",
			Code:    "SES002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE003)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Trim the file or paste a smaller sample",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a json file",
		msg: UserMessage{
			Message: "Only JSON files can be loaded",
			Action:  "Drop a .json file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a JSON file",
			Code:    "FILE003",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := &DuplicateFieldError{Name: "id"}
//	msg := MapError(err)
//	// msg.Code == "FLD001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
