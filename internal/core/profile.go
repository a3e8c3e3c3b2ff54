package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrProfile means a profile document could not be decoded.
var ErrProfile = errors.New("invalid profile")

// Rename is one field rename in a profile.
type Rename struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Profile is a reusable reshaping setup that does not depend on the data
// it was built from.
type Profile struct {
	Renames []Rename     `yaml:"renames,omitempty" json:"renames,omitempty"`
	Fields  []string     `yaml:"fields,omitempty" json:"fields,omitempty"`
	Rules   []Rule       `yaml:"rules,omitempty" json:"rules,omitempty"`
	Options *TextOptions `yaml:"options,omitempty" json:"options,omitempty"`
}

// ParseProfile decodes a YAML profile. Unknown keys are rejected. An empty
// document yields an empty profile.
func ParseProfile(data []byte) (*Profile, error) {
	var p Profile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}

	if p.Options != nil {
		if err := p.Options.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProfile, err)
		}
	}
	return &p, nil
}

// Marshal encodes the profile as YAML.
func (p *Profile) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return buf.Bytes(), nil
}

// Profile captures the current selection, rules and options. Renames are
// not recorded because the workspace does not remember original names.
func (w *Workspace) Profile() *Profile {
	opts := w.options
	return &Profile{
		Fields:  w.selection.Fields(),
		Rules:   w.rules.Rules(),
		Options: &opts,
	}
}

// ApplyProfile applies p in order: renames, field order, selection, rules,
// options. Renames whose source field is absent are skipped, as are rules
// for absent fields; the names of those fields are returned.
// The workspace is changed only if every step succeeds.
func (w *Workspace) ApplyProfile(p *Profile) ([]string, error) {
	next := w.clone()
	var skipped []string

	for _, r := range p.Renames {
		if !next.store.HasField(r.From) {
			skipped = append(skipped, r.From)
			continue
		}
		if err := next.RenameField(r.From, r.To); err != nil {
			return nil, err
		}
	}

	if len(p.Fields) > 0 {
		listed := make([]string, 0, len(p.Fields))
		for _, f := range p.Fields {
			if next.store.HasField(f) && !slices.Contains(listed, f) {
				listed = append(listed, f)
			}
		}
		order := append(slices.Clone(listed), withoutAll(next.store.fields, listed)...)
		if err := next.SetFieldOrder(order); err != nil {
			return nil, err
		}
		next.selection.Reset(listed)
	}

	for _, r := range p.Rules {
		to := ""
		if r.To != nil {
			to = *r.To
		}
		if r.Field != "" && !next.store.HasField(r.Field) {
			if !slices.Contains(skipped, r.Field) {
				skipped = append(skipped, r.Field)
			}
			continue
		}
		if err := next.AddRule(r.Field, r.From, to, r.Kind); err != nil {
			return nil, err
		}
	}

	if p.Options != nil {
		if err := next.SetOptions(*p.Options); err != nil {
			return nil, err
		}
	}

	w.replaceWith(next)
	return skipped, nil
}

func withoutAll(fields, drop []string) []string {
	return slices.DeleteFunc(slices.Clone(fields), func(f string) bool {
		return slices.Contains(drop, f)
	})
}
