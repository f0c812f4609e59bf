package schema

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed types/*.yaml
var embeddedTypes embed.FS

// EntryType describes a BibTeX entry type and the fields it expects.
type EntryType struct {
	// Name is the lowercase type name (e.g., "article")
	Name string `yaml:"name" json:"name"`

	// Required lists required fields. "author/editor" means either will do.
	Required []string `yaml:"required,omitempty" json:"required,omitempty"`

	// Optional lists optional fields.
	Optional []string `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Other is the default type for entries created without one.
var Other = &EntryType{Name: "other"}

// Typeless is assigned when an entry's type name no longer resolves.
var Typeless = &EntryType{Name: "typeless"}

// MissingRequired returns the required fields for which present reports
// false. Alternatives ("author/editor") count as satisfied if any is present.
func (t *EntryType) MissingRequired(present func(string) bool) []string {
	var missing []string
	for _, req := range t.Required {
		ok := false
		for _, alt := range strings.Split(req, "/") {
			if present(strings.TrimSpace(alt)) {
				ok = true
				break
			}
		}
		if !ok {
			missing = append(missing, req)
		}
	}
	return missing
}

// HasAllRequiredFields reports whether every required field is present.
func (t *EntryType) HasAllRequiredFields(present func(string) bool) bool {
	return len(t.MissingRequired(present)) == 0
}

// DescribeRequiredFields returns the required fields as a readable list.
func (t *EntryType) DescribeRequiredFields() string {
	return strings.Join(t.Required, ", ")
}

// TypeRegistry holds entry types keyed by lowercase name.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]*EntryType
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*EntryType)}
}

// Register adds or replaces a type.
func (r *TypeRegistry) Register(t *EntryType) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.Name = strings.ToLower(t.Name)
	r.types[t.Name] = t
}

// Get looks up a type by name, case-insensitively.
func (r *TypeRegistry) Get(name string) (*EntryType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[strings.ToLower(name)]
	return t, ok
}

// Names returns all registered type names, sorted.
func (r *TypeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeConfig is the YAML shape of an entry type file.
type TypeConfig struct {
	Version string      `yaml:"version,omitempty"`
	Types   []EntryType `yaml:"types"`
}

// LoadFromYAML registers entry types from YAML bytes.
func (r *TypeRegistry) LoadFromYAML(data []byte) error {
	var config TypeConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	for i := range config.Types {
		if config.Types[i].Name == "" {
			return fmt.Errorf("type %d has no name", i)
		}
		r.Register(&config.Types[i])
	}
	return nil
}

// LoadEmbedded registers entry types from an embedded filesystem.
func (r *TypeRegistry) LoadEmbedded(fsys embed.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isYAMLFile(path) {
			return nil
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := r.LoadFromYAML(data); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		return nil
	})
}

var (
	typesOnce     sync.Once
	standardTypes *TypeRegistry
)

// StandardTypes returns the shared registry of built-in BibTeX entry types.
func StandardTypes() *TypeRegistry {
	typesOnce.Do(func() {
		standardTypes = NewTypeRegistry()
		if err := standardTypes.LoadEmbedded(embeddedTypes, "types"); err != nil {
			// The embedded table is part of the binary; failing here is a build defect.
			panic(fmt.Sprintf("schema: embedded entry types: %v", err))
		}
		standardTypes.Register(Other)
	})
	return standardTypes
}
