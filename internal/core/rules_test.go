package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSet_Add(t *testing.T) {
	var rs RuleSet

	require.NoError(t, rs.Add("status", " 1 ", "active", RuleReplace))
	require.NoError(t, rs.Add("status", "0", "ignored", RuleRemove))
	require.NoError(t, rs.Add("kind", "a", "", ""))

	rules := rs.Rules()
	require.Len(t, rules, 3)

	assert.Equal(t, "1", rules[0].From)
	require.NotNil(t, rules[0].To)
	assert.Equal(t, "active", *rules[0].To)

	assert.Equal(t, RuleRemove, rules[1].Kind)
	assert.Nil(t, rules[1].To)

	assert.Equal(t, RuleReplace, rules[2].Kind)
}

func TestRuleSet_AddErrors(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("status", "1", "a", RuleReplace))

	tests := []struct {
		name   string
		field  string
		from   string
		kind   RuleKind
		target error
	}{
		{name: "blank field", field: " ", from: "x", kind: RuleReplace, target: ErrValidation},
		{name: "blank value", field: "status", from: "  ", kind: RuleReplace, target: ErrValidation},
		{name: "unknown kind", field: "status", from: "2", kind: "swap", target: ErrValidation},
		{name: "duplicate", field: "status", from: "1", kind: RuleReplace, target: ErrDuplicateRule},
		{name: "duplicate after trim", field: "status", from: " 1", kind: RuleRemove, target: ErrDuplicateRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rs.Add(tt.field, tt.from, "b", tt.kind)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, 1, rs.Len())
		})
	}
}

func TestRuleSet_Apply(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("status", "1", "active", RuleReplace))
	require.NoError(t, rs.Add("status", "null", "none", RuleReplace))
	require.NoError(t, rs.Add("status", "x", "", RuleRemove))

	tests := []struct {
		name     string
		value    any
		want     any
		wantKeep bool
	}{
		{name: "number matches", value: json.Number("1"), want: "active", wantKeep: true},
		{name: "string matches", value: "1", want: "active", wantKeep: true},
		{name: "padded string matches", value: " 1 ", want: "active", wantKeep: true},
		{name: "null matches", value: nil, want: "none", wantKeep: true},
		{name: "remove", value: "x", want: nil, wantKeep: false},
		{name: "no match keeps type", value: json.Number("2"), want: json.Number("2"), wantKeep: true},
		{name: "no match bool", value: true, want: true, wantKeep: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := rs.Apply("status", tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKeep, keep)
		})
	}

	got, keep := rs.Apply("other", "1")
	assert.Equal(t, "1", got)
	assert.True(t, keep)
}

func TestRuleSet_NilApplies(t *testing.T) {
	var rs *RuleSet
	got, keep := rs.Apply("f", 3)
	assert.Equal(t, 3, got)
	assert.True(t, keep)
	assert.Equal(t, 0, rs.Len())
}

func TestRuleSet_Remove(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("a", "1", "x", RuleReplace))
	require.NoError(t, rs.Add("a", "2", "y", RuleReplace))

	assert.ErrorIs(t, rs.Remove(2), ErrIndex)
	assert.ErrorIs(t, rs.Remove(-1), ErrIndex)

	require.NoError(t, rs.Remove(0))
	rules := rs.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "2", rules[0].From)
}

func TestRuleSet_RenameField(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("y", "1", "first", RuleReplace))
	require.NoError(t, rs.Add("x", "1", "second", RuleReplace))
	require.NoError(t, rs.Add("x", "2", "third", RuleReplace))

	assert.Equal(t, 2, rs.RenameField("x", "y"))

	// The renamed rule replaces the one already on y.
	rules := rs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "y", rules[0].Field)
	assert.Equal(t, "second", *rules[0].To)
	assert.Equal(t, "y", rules[1].Field)
	assert.Equal(t, "2", rules[1].From)

	assert.Equal(t, 0, rs.RenameField("nosuch", "y"))
}

func TestRuleSet_Retain(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("a", "1", "x", RuleReplace))
	require.NoError(t, rs.Add("gone", "1", "x", RuleReplace))
	require.NoError(t, rs.Add("b", "2", "x", RuleRemove))

	assert.Equal(t, 1, rs.Retain([]string{"a", "b"}))
	rules := rs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Field)
	assert.Equal(t, "b", rules[1].Field)
}

func TestRuleSet_ApplyCanonicalNumbers(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("status", "1", "active", RuleReplace))
	require.NoError(t, rs.Add("rate", "2.50", "high", RuleReplace))

	tests := []struct {
		field string
		value any
		want  any
	}{
		{"status", json.Number("1.0"), "active"},
		{"status", json.Number("1e0"), "active"},
		{"status", CoerceCell("1.0"), "active"},
		{"rate", json.Number("2.5"), "high"},
		{"rate", "2.5", "2.5"},
		{"status", "1.0", "1.0"},
	}

	for _, tt := range tests {
		got, keep := rs.Apply(tt.field, tt.value)
		assert.True(t, keep)
		assert.Equal(t, tt.want, got, "%s=%#v", tt.field, tt.value)
	}
}

func TestRuleSet_PruneField(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("a", "1", "x", RuleReplace))
	require.NoError(t, rs.Add("b", "1", "x", RuleReplace))
	require.NoError(t, rs.Add("a", "2", "x", RuleRemove))

	assert.Equal(t, 2, rs.PruneField("a"))
	assert.Equal(t, 1, rs.Len())
}

func TestRuleSet_RulesIsCopy(t *testing.T) {
	var rs RuleSet
	require.NoError(t, rs.Add("a", "1", "x", RuleReplace))

	rules := rs.Rules()
	*rules[0].To = "changed"

	got, _ := rs.Apply("a", "1")
	assert.Equal(t, "x", got)
}
