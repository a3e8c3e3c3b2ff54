package core

// input.go prepares raw input text before it reaches the JSON decoder.
//
// Pasted text and dropped files both go through NormalizeInput:
//   - a leading UTF-8 BOM (0xEF 0xBB 0xBF), common in files saved on Windows, is dropped
//   - invalid UTF-8 sequences are replaced with U+FFFD so string values stay text
//
// ReadInput additionally caps how much is read, since the whole document is
// held in memory.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInputTooLarge is returned by ReadInput when the input exceeds the limit.
var ErrInputTooLarge = errors.New("file too large")

// NormalizeInput strips a UTF-8 BOM and repairs invalid UTF-8.
func NormalizeInput(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// ReadInput reads at most limit bytes from r and normalizes them.
// A limit <= 0 means no limit.
func ReadInput(r io.Reader, limit int64) (string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrInputTooLarge, limit)
	}

	return NormalizeInput(data), nil
}
