package core

// render.go produces the TXT, JSON and CSV serializations.
//
// All three formats share one projection pass: for each record and each
// selected field in output order, fetch the value ("" when the key is
// missing) and run it through the rule set. A matching remove rule marks
// the cell omitted:
//
//	JSON  the key is absent from that row's object
//	CSV   the column is written as an empty string
//	TXT   the value is skipped, as are empty strings
//
// Rendering is a pure function of its arguments.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format names an output serialization.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatTXT, FormatJSON, FormatCSV}

// ParseFormat converts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatTXT, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", validationf("unknown format %q", s)
	}
}

// TextOptions controls TXT rendering. JSON and CSV ignore it.
type TextOptions struct {
	UseTab      bool `json:"useTab" yaml:"useTab" schema:"useTab"`
	SingleLine  bool `json:"singleLine" yaml:"singleLine" schema:"singleLine"`
	StartIndent int  `json:"startIndent" yaml:"startIndent" schema:"startIndent"`
}

// Validate rejects a negative indent.
func (o TextOptions) Validate() error {
	if o.StartIndent < 0 {
		return validationf("start indent must be non-negative, got %d", o.StartIndent)
	}
	return nil
}

func (o TextOptions) separator() string {
	if o.UseTab {
		return "\t"
	}
	return " "
}

// Cell is one projected value.
type Cell struct {
	Field   string
	Value   any
	Omitted bool
}

// ProjectedRow is a record after selection, ordering and rule application.
// It has one Cell per selected field.
type ProjectedRow []Cell

// Project applies field selection, order and rules to every record.
func Project(records []*Record, fields []string, rules *RuleSet) []ProjectedRow {
	rows := make([]ProjectedRow, len(records))
	for i, rec := range records {
		row := make(ProjectedRow, len(fields))
		for j, f := range fields {
			v, ok := rec.Get(f)
			if !ok {
				v = ""
			}
			mapped, keep := rules.Apply(f, v)
			row[j] = Cell{Field: f, Value: mapped, Omitted: !keep}
		}
		rows[i] = row
	}
	return rows
}

// Render serializes records in the given format. It only fails for an
// unknown format or invalid options.
func Render(format Format, records []*Record, fields []string, rules *RuleSet, opts TextOptions) (string, error) {
	rows := Project(records, fields, rules)

	switch format {
	case FormatJSON:
		return renderJSON(rows)
	case FormatCSV:
		return renderCSV(fields, rows), nil
	case FormatTXT:
		if err := opts.Validate(); err != nil {
			return "", err
		}
		return renderTXT(rows, opts), nil
	default:
		return "", validationf("unknown format %q", format)
	}
}

func renderJSON(rows []ProjectedRow) (string, error) {
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec := NewRecord()
		for _, c := range row {
			if !c.Omitted {
				rec.Set(c.Field, c.Value)
			}
		}
		out = append(out, rec)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func renderCSV(fields []string, rows []ProjectedRow) string {
	lines := make([]string, 0, len(rows)+1)

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = csvEscape(f)
	}
	lines = append(lines, strings.Join(header, ","))

	for _, row := range rows {
		cols := make([]string, len(row))
		for i, c := range row {
			if !c.Omitted {
				cols[i] = csvEscape(Stringify(c.Value))
			}
		}
		lines = append(lines, strings.Join(cols, ","))
	}

	return strings.Join(lines, "\n")
}

// csvEscape quotes s when it contains a comma, a double quote or a line
// break, doubling embedded quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func renderTXT(rows []ProjectedRow, opts TextOptions) string {
	if len(rows) == 0 {
		return ""
	}

	sep := opts.separator()
	indent := strings.Repeat(" ", opts.StartIndent)

	if opts.SingleLine {
		var all []string
		for _, row := range rows {
			all = append(all, txtValues(row)...)
		}
		return indent + strings.Join(all, sep)
	}

	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = indent + strings.Join(txtValues(row), sep)
	}
	return strings.Join(lines, "\n")
}

// txtValues returns the printable values of a row, skipping omitted cells
// and empty strings.
func txtValues(row ProjectedRow) []string {
	vals := make([]string, 0, len(row))
	for _, c := range row {
		if c.Omitted {
			continue
		}
		s := Stringify(c.Value)
		if s == "" {
			continue
		}
		vals = append(vals, s)
	}
	return vals
}
