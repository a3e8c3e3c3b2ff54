// Package core provides the data reshaping logic.
//
// This package holds all transformation semantics independent of any UI or
// transport layer. It is used by the web handlers, the reshape CLI and
// tests without modification, and it never logs: every failure is returned
// as a structured error for the caller to render.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Record Store: the decoded records and the master field list, built by
//     first-seen key order. See [Store].
//   - Selection: the ordered subset of fields included in the output.
//   - Rule Set: per-field value substitutions and removals. See [RuleSet].
//   - Output Formatter: TXT, JSON and CSV serialization. See [Render].
//   - Workspace: the explicit state object tying the above together and
//     keeping them consistent across edits. See [Workspace].
//   - Service: the session registry owning one Workspace per session.
//
// # Data Flow
//
//  1. Input text goes through [NormalizeInput] (BOM, invalid UTF-8)
//  2. [Workspace.Load] decodes it, rediscovers fields and resets the selection
//  3. Edits mutate the workspace and drop its render cache
//  4. [Workspace.Render] projects every record through selection and rules,
//     then serializes
//
// # Profiles
//
// A [Profile] is a YAML document holding renames, field selection, rules and
// TXT options, so the same reshaping can be applied to fresh data:
//
//	renames: [{from: id, to: ID}]
//	fields: [ID, status]
//	rules:
//	  - {field: status, from: "1", to: active, kind: replace}
//	options: {useTab: true}
//
// # Error Handling
//
// Typed errors ([ParseError], [ShapeError], [DuplicateFieldError],
// [DuplicateRuleError], [IndexError], [ValidationError]) each match a
// sentinel through errors.Is. [MapError] turns any error into a coded,
// user-facing message:
//
//   - JSON001-JSON003: Input errors (syntax, shape)
//   - FLD001-FLD003: Field errors
//   - RULE001-RULE004: Rule errors
//   - ROW001: Row errors
//   - VAL001-VAL005: Validation errors
//   - SES001-SES002: Session errors
//   - FILE001-FILE003: File errors
package core
