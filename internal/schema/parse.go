package schema

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/frontierlabs/worldctl/internal/config"
)

// ordered decodes a YAML mapping while keeping its key order.
type ordered[T any] []entry[T]

type entry[T any] struct {
	Key   string
	Value T
	Line  int
}

func (o *ordered[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		var val T
		if err := v.Decode(&val); err != nil {
			return fmt.Errorf("line %d: %s: %w", v.Line, k.Value, err)
		}
		*o = append(*o, entry[T]{Key: k.Value, Value: val, Line: k.Line})
	}
	return nil
}

type rawWorld struct {
	Namespace    string             `yaml:"namespace"`
	NamespaceEnv string             `yaml:"namespace_env"`
	Tables       ordered[rawTable]  `yaml:"tables"`
	Systems      ordered[rawSystem] `yaml:"systems"`
}

type rawTable struct {
	Schema ordered[string] `yaml:"schema"`
	Key    []string        `yaml:"key"`
}

type rawSystem struct {
	RegisterWorldFunctions bool `yaml:"register_world_functions"`
}

// Parse decodes a world declaration for pkg. Parse does not validate; call
// World.Validate for that.
func Parse(pkg string, data []byte) (*World, error) {
	var raw rawWorld
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse world %s: %w", pkg, err)
	}

	w := &World{
		Package:      pkg,
		Namespace:    raw.Namespace,
		NamespaceEnv: raw.NamespaceEnv,
		Tables:       make([]Table, 0, len(raw.Tables)),
		Systems:      make([]System, 0, len(raw.Systems)),
	}
	if w.NamespaceEnv == "" {
		w.NamespaceEnv = config.NamespaceEnvFor(pkg)
	}

	for _, t := range raw.Tables {
		table := Table{
			Name:   t.Key,
			Fields: make([]Field, 0, len(t.Value.Schema)),
			Key:    t.Value.Key,
		}
		if table.Key == nil {
			table.Key = []string{}
		}
		for _, f := range t.Value.Schema {
			table.Fields = append(table.Fields, Field{Name: f.Key, Type: f.Value})
		}
		w.Tables = append(w.Tables, table)
	}

	for _, s := range raw.Systems {
		w.Systems = append(w.Systems, System{
			Name:                   s.Key,
			RegisterWorldFunctions: s.Value.RegisterWorldFunctions,
		})
	}

	return w, nil
}

// LoadFile reads a world declaration. The package name is the name of the
// directory holding the file.
func LoadFile(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	w, err := Parse(filepath.Base(filepath.Dir(path)), data)
	if err != nil {
		return nil, err
	}
	w.Path = path
	return w, nil
}

// LoadDir loads <dir>/<package>/world.yaml for every package directory,
// sorted by package name. Directories without a world file are skipped.
func LoadDir(ctx context.Context, dir string) ([]*World, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read packages directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), config.WorldFileName)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		paths = append(paths, path)
	}

	worlds := make([]*World, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := LoadFile(path)
			if err != nil {
				return err
			}
			worlds[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(worlds, func(i, j int) bool { return worlds[i].Package < worlds[j].Package })
	return worlds, nil
}

// LoadPackage loads the world declaration of a single package under dir.
func LoadPackage(dir, pkg string) (*World, error) {
	return LoadFile(filepath.Join(dir, pkg, config.WorldFileName))
}
