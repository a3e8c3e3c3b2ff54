package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProfile = `
renames:
  - {from: id, to: ID}
  - {from: ghost, to: phantom}
fields: [status, ID, missing]
rules:
  - {field: status, from: "1", to: active, kind: replace}
  - {field: status, from: "0", kind: remove}
options:
  useTab: true
  startIndent: 2
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, []Rename{{From: "id", To: "ID"}, {From: "ghost", To: "phantom"}}, p.Renames)
	assert.Equal(t, []string{"status", "ID", "missing"}, p.Fields)
	require.Len(t, p.Rules, 2)
	assert.Equal(t, RuleRemove, p.Rules[1].Kind)
	require.NotNil(t, p.Options)
	assert.Equal(t, TextOptions{UseTab: true, StartIndent: 2}, *p.Options)
}

func TestParseProfile_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown key", yaml: "colums: [a]"},
		{name: "bad syntax", yaml: "fields: [a"},
		{name: "negative indent", yaml: "options: {startIndent: -1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrProfile)
		})
	}
}

func TestParseProfile_Empty(t *testing.T) {
	p, err := ParseProfile(nil)
	require.NoError(t, err)
	assert.Equal(t, &Profile{}, p)
}

func TestApplyProfile(t *testing.T) {
	ws := loadedWorkspace(t, `[{"id":1,"name":"a","status":1},{"id":2,"name":"b","status":0}]`)

	p, err := ParseProfile([]byte(sampleProfile))
	require.NoError(t, err)

	skipped, err := ws.ApplyProfile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost"}, skipped)

	assert.Equal(t, []string{"status", "ID", "name"}, ws.Fields())
	assert.Equal(t, []string{"status", "ID"}, ws.OutputFields())
	assert.Len(t, ws.Rules(), 2)
	assert.Equal(t, "  active\t1\n  2", render(t, ws, FormatTXT))
}

func TestApplyProfile_IsAtomic(t *testing.T) {
	ws := loadedWorkspace(t, `[{"status":1,"name":"a"}]`)
	require.NoError(t, ws.AddRule("status", "1", "x", RuleReplace))
	before := ws.View(-1)

	p := &Profile{
		Renames: []Rename{{From: "name", To: "label"}},
		Rules:   []Rule{{Field: "status", From: "1", Kind: RuleRemove}},
	}
	_, err := ws.ApplyProfile(p)
	require.ErrorIs(t, err, ErrDuplicateRule)

	assert.Equal(t, before, ws.View(-1))
	assert.Equal(t, []string{"status", "name"}, ws.Fields())
}

func TestApplyProfile_SkipsRulesForAbsentFields(t *testing.T) {
	ws := loadedWorkspace(t, `[{"status":1}]`)
	p := &Profile{
		Renames: []Rename{{From: "ghost", To: "spirit"}},
		Rules: []Rule{
			{Field: "gone", From: "1", Kind: RuleRemove},
			{Field: "status", From: "1", Kind: RuleRemove},
			{Field: "gone", From: "2", Kind: RuleRemove},
		},
	}

	skipped, err := ws.ApplyProfile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"ghost", "gone"}, skipped)
	rules := ws.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "status", rules[0].Field)
}

func TestProfile_RoundTrip(t *testing.T) {
	ws := loadedWorkspace(t, `[{"a":1,"b":2,"c":3}]`)
	ws.SetSelected("b", false)
	require.NoError(t, ws.AddRule("a", "1", "one", RuleReplace))
	require.NoError(t, ws.AddRule("c", "3", "", RuleRemove))
	require.NoError(t, ws.SetOptions(TextOptions{SingleLine: true}))

	data, err := ws.Profile().Marshal()
	require.NoError(t, err)

	p, err := ParseProfile(data)
	require.NoError(t, err)
	assert.Equal(t, ws.Profile(), p)

	fresh := loadedWorkspace(t, `[{"c":3,"b":2,"a":1}]`)
	_, err = fresh.ApplyProfile(p)
	require.NoError(t, err)
	assert.Equal(t, render(t, ws, FormatTXT), render(t, fresh, FormatTXT))
}
