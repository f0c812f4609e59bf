package schema

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds field descriptors keyed by lowercase field name.
// Lookups for unknown names fall back to permissive defaults: unknown fields
// are writeable and displayable, but neither standard nor numeric.
type Registry struct {
	mu     sync.RWMutex
	fields map[string]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fields: make(map[string]*Descriptor),
	}
}

// Register adds or replaces a descriptor.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := d.clone()
	c.Name = strings.ToLower(c.Name)
	r.fields[c.Name] = c
}

// Get returns a copy of the descriptor for name.
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.fields[strings.ToLower(name)]
	if !ok {
		return Descriptor{}, false
	}
	return *d, true
}

// Extras returns the extras tag of a field, or "" when unknown.
func (r *Registry) Extras(name string) string {
	d, _ := r.Get(name)
	return d.Extras
}

// DisplayName returns the alternative display name of a field, or "".
func (r *Registry) DisplayName(name string) string {
	d, _ := r.Get(name)
	return d.DisplayName
}

// IsWriteable reports whether a field is saved to disk. Unknown fields are.
func (r *Registry) IsWriteable(name string) bool {
	d, ok := r.Get(name)
	if !ok {
		return true
	}
	return d.IsWriteable()
}

// IsDisplayable reports whether a field is shown. Unknown fields are.
func (r *Registry) IsDisplayable(name string) bool {
	d, ok := r.Get(name)
	if !ok {
		return true
	}
	return d.IsDisplayable()
}

// IsStandard reports whether a field is a standard BibTeX field.
func (r *Registry) IsStandard(name string) bool {
	d, ok := r.Get(name)
	return ok && d.IsStandard()
}

// IsNumeric reports whether a field sorts numerically.
func (r *Registry) IsNumeric(name string) bool {
	d, ok := r.Get(name)
	return ok && d.Numeric
}

// PublicFields returns the sorted names of all non-private fields.
func (r *Registry) PublicFields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fields))
	for name, d := range r.fields {
		if d.IsPublic() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Names returns every registered field name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fields)
}

// SetNumericFields switches on numeric sorting for every listed field.
// Names not yet registered get a new non-standard numeric descriptor.
// Fields already numeric stay numeric even if they are not listed.
func (r *Registry) SetNumericFields(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if d, ok := r.fields[name]; ok {
			d.Numeric = true
			continue
		}
		slog.Debug("registering non-standard numeric field", "field", name)
		r.fields[name] = NewDescriptor(name, false).WithNumeric(true)
	}
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := NewRegistry()
	for name, d := range r.fields {
		c.fields[name] = d.clone()
	}
	return c
}

// Merge copies every descriptor of other into r, replacing duplicates.
func (r *Registry) Merge(other *Registry) {
	other.mu.RLock()
	defer other.mu.RUnlock()

	for _, d := range other.fields {
		r.Register(d)
	}
}

// =============================================================================
// YAML LOADING
// =============================================================================

// FieldConfig is the top-level YAML format for additional descriptors.
type FieldConfig struct {
	Version string             `yaml:"version,omitempty"`
	Fields  []descriptorConfig `yaml:"fields"`
}

// LoadFromYAML registers descriptors from YAML bytes.
func (r *Registry) LoadFromYAML(data []byte) error {
	var config FieldConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	for i, fc := range config.Fields {
		if strings.TrimSpace(fc.Name) == "" {
			return fmt.Errorf("field %d has no name", i)
		}
		r.Register(fc.descriptor())
	}
	return nil
}

// LoadFromPath registers descriptors from a YAML file or a directory of them.
func (r *Registry) LoadFromPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isYAMLFile(p) {
				return nil
			}
			return r.loadFile(p)
		})
	}

	return r.loadFile(path)
}

// MarshalYAML renders the registry in the same shape LoadFromYAML reads.
func (r *Registry) MarshalYAML() (any, error) {
	config := FieldConfig{Version: "1"}
	for _, name := range r.Names() {
		d, _ := r.Get(name)
		config.Fields = append(config.Fields, configFor(&d))
	}
	return config, nil
}

func (r *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := r.LoadFromYAML(data); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func isYAMLFile(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
