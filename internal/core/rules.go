package core

import (
	"encoding/json"
	"slices"
	"strings"
)

// RuleKind says what a matching rule does to a value.
type RuleKind string

const (
	RuleReplace RuleKind = "replace"
	RuleRemove  RuleKind = "remove"
)

// ParseRuleKind accepts "replace", "remove" or "" (replace).
func ParseRuleKind(s string) (RuleKind, error) {
	switch RuleKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", RuleReplace:
		return RuleReplace, nil
	case RuleRemove:
		return RuleRemove, nil
	default:
		return "", validationf("unknown rule kind %q", s)
	}
}

// Rule substitutes or removes one source value of one field.
// To is nil for remove rules.
type Rule struct {
	Field string   `json:"field" yaml:"field"`
	From  string   `json:"from" yaml:"from"`
	To    *string  `json:"to" yaml:"to,omitempty"`
	Kind  RuleKind `json:"kind" yaml:"kind"`
}

func (r Rule) matches(field, key string) bool {
	return r.Field == field && r.From == key
}

// RuleSet holds mapping rules in insertion order. No two rules share the
// same (Field, From) pair. A nil *RuleSet applies no rules.
type RuleSet struct {
	rules []Rule
}

// Add appends a rule. from is trimmed; field and from must not be blank.
// A remove rule ignores to.
func (rs *RuleSet) Add(field, from, to string, kind RuleKind) error {
	kind, err := ParseRuleKind(string(kind))
	if err != nil {
		return err
	}
	if strings.TrimSpace(field) == "" {
		return validationf("rule field is required")
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return validationf("rule value is required")
	}

	if rs.find(field, from) >= 0 {
		return &DuplicateRuleError{Field: field, From: from}
	}

	rule := Rule{Field: field, From: from, Kind: kind}
	if kind == RuleReplace {
		rule.To = &to
	}
	rs.rules = append(rs.rules, rule)

	return nil
}

// Remove deletes the rule at index i.
func (rs *RuleSet) Remove(i int) error {
	if err := checkIndex("rule", i, len(rs.rules)); err != nil {
		return err
	}
	rs.rules = slices.Delete(rs.rules, i, i+1)
	return nil
}

// Apply runs v through the rules for field. The second result is false when
// a remove rule matched and the field must be left out of the output.
// Replace rules yield their To string; without a match v is returned as is.
func (rs *RuleSet) Apply(field string, v any) (any, bool) {
	if rs == nil || len(rs.rules) == 0 {
		return v, true
	}

	key := matchKey(v)
	i := rs.find(field, key)
	if _, isNumber := v.(json.Number); i < 0 && isNumber {
		// A From such as "1.0" still matches the number 1.
		i = slices.IndexFunc(rs.rules, func(r Rule) bool {
			c, ok := canonicalNumber(r.From)
			return ok && r.Field == field && c == key
		})
	}
	if i < 0 {
		return v, true
	}

	rule := rs.rules[i]
	if rule.Kind == RuleRemove {
		return nil, false
	}
	if rule.To == nil {
		return "", true
	}
	return *rule.To, true
}

func (rs *RuleSet) find(field, key string) int {
	return slices.IndexFunc(rs.rules, func(r Rule) bool {
		return r.matches(field, key)
	})
}

// RenameField points every rule for oldName at newName. A rule already on
// newName with the same From as a renamed rule is dropped, so the renamed
// rule wins. Returns the number of rules rewritten.
func (rs *RuleSet) RenameField(oldName, newName string) int {
	var moved []string
	for _, r := range rs.rules {
		if r.Field == oldName {
			moved = append(moved, r.From)
		}
	}
	if len(moved) == 0 {
		return 0
	}

	rs.rules = slices.DeleteFunc(rs.rules, func(r Rule) bool {
		return r.Field == newName && slices.Contains(moved, r.From)
	})
	for i := range rs.rules {
		if rs.rules[i].Field == oldName {
			rs.rules[i].Field = newName
		}
	}
	return len(moved)
}

// Retain drops every rule whose field is not in fields and returns how many
// were dropped.
func (rs *RuleSet) Retain(fields []string) int {
	before := len(rs.rules)
	rs.rules = slices.DeleteFunc(rs.rules, func(r Rule) bool {
		return !slices.Contains(fields, r.Field)
	})
	return before - len(rs.rules)
}

// PruneField drops every rule for field and returns how many were dropped.
func (rs *RuleSet) PruneField(field string) int {
	before := len(rs.rules)
	rs.rules = slices.DeleteFunc(rs.rules, func(r Rule) bool {
		return r.Field == field
	})
	return before - len(rs.rules)
}

// Rules returns a copy of the rules in insertion order.
func (rs *RuleSet) Rules() []Rule {
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		if r.To != nil {
			to := *r.To
			r.To = &to
		}
		out[i] = r
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}
