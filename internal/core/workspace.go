package core

// workspace.go ties the record store, selection, rule set and text options
// into the single state object a presentation layer talks to.
//
// Every mutation goes through a Workspace method, which keeps the derived
// state consistent:
//
//	Load          selection reset to all fields, rules for absent fields pruned
//	RenameField   selection and rules renamed in place
//	AddField      appended to the selection
//	DeleteField   removed from the selection, its rules pruned
//	SetFieldOrder selection re-derived in the new order
//
// Rendered output is cached per format and dropped on every mutation.
// A Workspace is not safe for concurrent use; Service serializes access.

import "strings"

// Workspace is one user's reshaping session.
type Workspace struct {
	store     *Store
	selection Selection
	rules     RuleSet
	options   TextOptions

	version uint64
	cache   map[Format]string
}

// NewWorkspace returns an empty workspace.
func NewWorkspace(policy ShapePolicy) *Workspace {
	return &Workspace{
		store: NewStore(policy),
		cache: make(map[Format]string),
	}
}

func (w *Workspace) touch() {
	w.version++
	clear(w.cache)
}

// Version increases with every successful mutation.
func (w *Workspace) Version() uint64 { return w.version }

// Load replaces the data with the records decoded from text. On error
// nothing changes.
func (w *Workspace) Load(text string) error {
	if err := w.store.Load(text); err != nil {
		return err
	}
	w.selection.Reset(w.store.Fields())
	w.rules.Retain(w.store.fields)
	w.touch()
	return nil
}

// Fields returns the master field list.
func (w *Workspace) Fields() []string { return w.store.Fields() }

// Records returns the records in row order. Callers must not modify them.
func (w *Workspace) Records() []*Record { return w.store.Records() }

// RowCount returns the number of records.
func (w *Workspace) RowCount() int { return w.store.Len() }

// Color returns the cosmetic color tag of a field.
func (w *Workspace) Color(field string) (int, bool) { return w.store.Color(field) }

// RenameField renames a field everywhere it is referenced.
func (w *Workspace) RenameField(oldName, newName string) error {
	changed, err := w.store.RenameField(oldName, newName)
	if err != nil || !changed {
		return err
	}
	newName = strings.TrimSpace(newName)
	w.selection.Rename(oldName, newName)
	w.rules.RenameField(oldName, newName)
	w.touch()
	return nil
}

// AddField adds an empty field to every record and selects it.
func (w *Workspace) AddField(name string) error {
	if err := w.store.AddField(name); err != nil {
		return err
	}
	fields := w.store.fields
	w.selection.Append(fields[len(fields)-1])
	w.touch()
	return nil
}

// DeleteField removes a field, deselects it and prunes its rules.
func (w *Workspace) DeleteField(name string) {
	if !w.store.DeleteField(name) {
		return
	}
	w.selection.Remove(name)
	w.rules.PruneField(name)
	w.touch()
}

// AddRow appends an empty record.
func (w *Workspace) AddRow() {
	w.store.AddRow()
	w.touch()
}

// DeleteRow removes the record at index i.
func (w *Workspace) DeleteRow(i int) error {
	if err := w.store.DeleteRow(i); err != nil {
		return err
	}
	w.touch()
	return nil
}

// SetCellValue stores coerced raw text in one cell.
func (w *Workspace) SetCellValue(row int, field, raw string) error {
	if err := w.store.SetCellValue(row, field, raw); err != nil {
		return err
	}
	w.touch()
	return nil
}

// SetFieldOrder reorders the master field list and re-derives the selection
// from it without changing which fields are selected.
func (w *Workspace) SetFieldOrder(order []string) error {
	if err := w.store.ReorderFields(order); err != nil {
		return err
	}
	w.selection.Reorder(w.store.fields)
	w.touch()
	return nil
}

// SetSelected selects or deselects a field. Unknown fields are ignored.
func (w *Workspace) SetSelected(field string, on bool) {
	if !w.store.HasField(field) || w.selection.IsSelected(field) == on {
		return
	}
	w.selection.Set(w.store.fields, field, on)
	w.touch()
}

// OutputFields returns the selected fields in output order.
func (w *Workspace) OutputFields() []string { return w.selection.Fields() }

// AddRule adds a mapping rule. The field must exist.
func (w *Workspace) AddRule(field, from, to string, kind RuleKind) error {
	if strings.TrimSpace(field) != "" && !w.store.HasField(field) {
		return validationf("unknown field %q", field)
	}
	if err := w.rules.Add(field, from, to, kind); err != nil {
		return err
	}
	w.touch()
	return nil
}

// RemoveRule deletes the rule at index i.
func (w *Workspace) RemoveRule(i int) error {
	if err := w.rules.Remove(i); err != nil {
		return err
	}
	w.touch()
	return nil
}

// Rules returns the mapping rules in insertion order.
func (w *Workspace) Rules() []Rule { return w.rules.Rules() }

// Options returns the current TXT options.
func (w *Workspace) Options() TextOptions { return w.options }

// SetOptions replaces the TXT options.
func (w *Workspace) SetOptions(opts TextOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if opts == w.options {
		return nil
	}
	w.options = opts
	w.touch()
	return nil
}

// Render returns the current state serialized in format. Results are
// cached until the next mutation.
func (w *Workspace) Render(format Format) (string, error) {
	if out, ok := w.cache[format]; ok {
		return out, nil
	}
	out, err := w.RenderWith(format, w.options)
	if err != nil {
		return "", err
	}
	w.cache[format] = out
	return out, nil
}

// RenderWith renders with explicit TXT options, bypassing the cache.
func (w *Workspace) RenderWith(format Format, opts TextOptions) (string, error) {
	return Render(format, w.store.records, w.selection.fields, &w.rules, opts)
}

// FieldView describes one field for display.
type FieldView struct {
	Name     string `json:"name"`
	Color    int    `json:"color"`
	Selected bool   `json:"selected"`
}

// View is a read-only snapshot of a workspace.
type View struct {
	Version  uint64      `json:"version"`
	Fields   []FieldView `json:"fields"`
	Selected []string    `json:"selected"`
	Rules    []Rule      `json:"rules"`
	Options  TextOptions `json:"options"`
	RowCount int         `json:"rowCount"`
	Rows     []*Record   `json:"rows"`
}

// View returns a snapshot including at most limit rows. A negative limit
// includes every row.
func (w *Workspace) View(limit int) View {
	fields := w.store.fields
	v := View{
		Version:  w.version,
		Fields:   make([]FieldView, len(fields)),
		Selected: w.selection.Fields(),
		Rules:    w.rules.Rules(),
		Options:  w.options,
		RowCount: w.store.Len(),
	}

	for i, f := range fields {
		color, _ := w.store.Color(f)
		v.Fields[i] = FieldView{Name: f, Color: color, Selected: w.selection.IsSelected(f)}
	}

	n := w.store.Len()
	if limit >= 0 && limit < n {
		n = limit
	}
	v.Rows = make([]*Record, n)
	for i := range n {
		v.Rows[i] = w.store.records[i].Clone()
	}

	return v
}

// clone returns an independent deep copy, used to apply multi-step changes
// atomically.
func (w *Workspace) clone() *Workspace {
	c := &Workspace{
		store:   w.store.clone(),
		options: w.options,
		version: w.version,
		cache:   make(map[Format]string),
	}
	c.selection.Reset(w.selection.fields)
	c.rules.rules = w.rules.Rules()
	return c
}

// replaceWith adopts the state of other.
func (w *Workspace) replaceWith(other *Workspace) {
	w.store = other.store
	w.selection = other.selection
	w.rules = other.rules
	w.options = other.options
	w.touch()
}
