package schema

import (
	"fmt"
	"strings"

	"github.com/frontierlabs/worldctl/internal/materialize"
)

// ValidationError collects every problem found in a world declaration.
type ValidationError struct {
	Package  string
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("world %s: %s", e.Package, e.Problems[0])
	}
	return fmt.Sprintf("world %s: %d problems: %s", e.Package, len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks names, types and keys. It reports all problems at once.
func (w *World) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if w.Namespace != "" {
		if err := materialize.Validate(w.Namespace); err != nil {
			add("%v", err)
		}
	} else if w.NamespaceEnv == "" {
		add("namespace or namespace_env is required")
	}

	tables := make(map[string]bool, len(w.Tables))
	for _, t := range w.Tables {
		if t.Name == "" {
			add("table with empty name")
			continue
		}
		if tables[t.Name] {
			add("duplicate table %s", t.Name)
		}
		tables[t.Name] = true

		if len(t.Fields) == 0 {
			add("table %s has no fields", t.Name)
		}

		fields := make(map[string]Type, len(t.Fields))
		for _, f := range t.Fields {
			if f.Name == "" {
				add("table %s: field with empty name", t.Name)
				continue
			}
			if _, dup := fields[f.Name]; dup {
				add("table %s: duplicate field %s", t.Name, f.Name)
				continue
			}
			typ, err := ParseType(f.Type)
			if err != nil {
				add("table %s: field %s: %v", t.Name, f.Name, err)
			}
			fields[f.Name] = typ
		}

		seen := make(map[string]bool, len(t.Key))
		for _, k := range t.Key {
			if seen[k] {
				add("table %s: duplicate key column %s", t.Name, k)
				continue
			}
			seen[k] = true

			typ, ok := fields[k]
			switch {
			case !ok:
				add("table %s: key column %s is not in the schema", t.Name, k)
			case typ.Kind != KindInvalid && !typ.Static():
				add("table %s: key column %s has dynamic type %s", t.Name, k, typ)
			}
		}
	}

	systems := make(map[string]bool, len(w.Systems))
	for _, s := range w.Systems {
		if s.Name == "" {
			add("system with empty name")
			continue
		}
		if systems[s.Name] {
			add("duplicate system %s", s.Name)
		}
		systems[s.Name] = true
	}

	if len(problems) > 0 {
		return &ValidationError{Package: w.Package, Problems: problems}
	}
	return nil
}
