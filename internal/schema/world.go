// Package schema loads and validates world declarations: the namespace,
// tables and systems a package registers with the on-chain world.
//
// Declarations are pure data. Nothing here deploys or stores anything.
package schema

import (
	"github.com/frontierlabs/worldctl/internal/materialize"
)

// World is the declaration for one package.
type World struct {
	Package string `json:"package"`
	// Namespace is a literal namespace. When empty the namespace comes from
	// NamespaceEnv, then the shared fallback variable.
	Namespace    string   `json:"namespace,omitempty"`
	NamespaceEnv string   `json:"namespace_env"`
	Tables       []Table  `json:"tables"`
	Systems      []System `json:"systems"`
	// Path is the file the declaration was loaded from, if any.
	Path string `json:"path,omitempty"`
}

// Table is a record layout with ordered fields and key columns.
type Table struct {
	Name   string   `json:"name"`
	Fields []Field  `json:"fields"`
	Key    []string `json:"key"`
}

// Field is a named column.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// System is a registered system contract.
type System struct {
	Name                   string `json:"name"`
	RegisterWorldFunctions bool   `json:"register_world_functions"`
}

// Table returns the named table, or nil.
func (w *World) Table(name string) *Table {
	for i := range w.Tables {
		if w.Tables[i].Name == name {
			return &w.Tables[i]
		}
	}
	return nil
}

// Field returns the named field, or nil.
func (t *Table) Field(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}

// IsKey reports whether name is one of the table's key columns.
func (t *Table) IsKey(name string) bool {
	for _, k := range t.Key {
		if k == name {
			return true
		}
	}
	return false
}

// ValueFields returns the fields that are not part of the key, in order.
func (t *Table) ValueFields() []Field {
	out := make([]Field, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !t.IsKey(f.Name) {
			out = append(out, f)
		}
	}
	return out
}

// ResolveNamespace returns the effective namespace. A literal namespace wins;
// otherwise lookup is consulted for NamespaceEnv and then fallbackEnv.
func (w *World) ResolveNamespace(lookup func(string) string, fallbackEnv string) (string, error) {
	if w.Namespace != "" {
		return w.Namespace, materialize.Validate(w.Namespace)
	}

	primary := materialize.Input{Name: w.NamespaceEnv}
	fallback := materialize.Input{Name: fallbackEnv}
	if lookup != nil {
		if primary.Name != "" {
			primary.Value = lookup(primary.Name)
		}
		if fallback.Name != "" {
			fallback.Value = lookup(fallback.Name)
		}
	}

	id, _, err := materialize.ResolveInputs(primary, fallback)
	if err != nil {
		return "", err
	}
	if err := materialize.Validate(id); err != nil {
		return "", err
	}
	return id, nil
}
