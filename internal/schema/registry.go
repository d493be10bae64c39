package schema

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/archivekit/packforge/internal/perr"
)

// CurrentVersion is the newest on-disk schema format this registry writes.
// Loading always tries this version first (see Load).
const CurrentVersion = 5

// Registry holds the per-game schema in memory. It is read-mostly: many
// Pack instances may share one Registry under RWMutex, per spec §5.
type Registry struct {
	mu    sync.RWMutex
	Name  string
	Tables map[string][]*Definition // table name -> definitions, any order
}

// NewRegistry returns an empty registry for the named game.
func NewRegistry(name string) *Registry {
	return &Registry{Name: name, Tables: make(map[string][]*Definition)}
}

// Definitions returns every definition known for table, sorted by
// descending version, as required by C2's public contract.
func (r *Registry) Definitions(table string) []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := append([]*Definition(nil), r.Tables[table]...)
	slices.SortFunc(defs, func(a, b *Definition) int { return int(b.Version) - int(a.Version) })
	return defs
}

// DefinitionByVersion picks the definition matching the on-wire version read
// from a payload, returning MissingDefinition if none matches.
func (r *Registry) DefinitionByVersion(table string, version int32) (*Definition, error) {
	defs := r.Definitions(table)
	if i := slices.IndexFunc(defs, func(d *Definition) bool { return d.Version == version }); i >= 0 {
		return defs[i], nil
	}
	return nil, perr.MissingDefinition(table, version)
}

// AddDefinition replaces any existing definition of the same version.
func (r *Registry) AddDefinition(table string, def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.Tables[table]
	for i, d := range list {
		if d.Version == def.Version {
			list[i] = def
			r.Tables[table] = list
			return
		}
	}
	r.Tables[table] = append(list, def)
}

// Patches returns the column->key->value patch overlay for table's highest
// (current) definition version, or nil if there is none.
func (r *Registry) Patches(table string) map[string]map[string]string {
	defs := r.Definitions(table)
	if len(defs) == 0 {
		return nil
	}
	return defs[0].Patches
}

// onDiskV5 is the deterministic, versioned on-disk layout. Tables are
// written in sorted-key order and each table's definitions in descending
// version order so repeated saves diff cleanly.
type onDiskV5 struct {
	FormatVersion int                          `yaml:"format_version"`
	Name          string                       `yaml:"name"`
	Tables        map[string][]*Definition     `yaml:"tables"`
}

// Save writes the registry in the current (v5) deterministic layout.
func (r *Registry) Save(path string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := onDiskV5{FormatVersion: CurrentVersion, Name: r.Name, Tables: make(map[string][]*Definition, len(r.Tables))}
	for table, defs := range r.Tables {
		sorted := append([]*Definition(nil), defs...)
		slices.SortFunc(sorted, func(a, b *Definition) int { return int(b.Version) - int(a.Version) })
		out.Tables[table] = sorted
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write schema %s: %w", path, err)
	}
	return nil
}

// Load reads a schema file, trying the newest format first. On a structural
// mismatch it falls back to each legacy version in turn and upgrades the
// result in place, rewriting the file at the newest layout on success — the
// legacy loaders (v1..v4) are never invoked again once an upgrade succeeds.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	if reg, err := loadV5(data); err == nil {
		return reg, nil
	}

	for _, loader := range []func([]byte) (*Registry, error){loadV4, loadV3, loadV2, loadV1} {
		reg, err := loader(data)
		if err != nil {
			continue
		}
		if err := reg.Save(path); err != nil {
			return nil, fmt.Errorf("upgrade schema %s to v%d: %w", path, CurrentVersion, err)
		}
		return reg, nil
	}

	return nil, fmt.Errorf("schema %s does not match any known format (v1-v%d)", path, CurrentVersion)
}

func loadV5(data []byte) (*Registry, error) {
	var doc onDiskV5
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.FormatVersion != 5 {
		return nil, fmt.Errorf("not a v5 schema (got format_version=%d)", doc.FormatVersion)
	}
	reg := NewRegistry(doc.Name)
	for t, defs := range doc.Tables {
		reg.Tables[t] = defs
	}
	return reg, nil
}
