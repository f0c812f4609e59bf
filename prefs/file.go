package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/bibfield/key"
	"github.com/lehigh-university-libraries/bibfield/value"
)

// FileFormat selects the preference file syntax.
type FileFormat string

const (
	FormatYAML FileFormat = "yaml"
	FormatTOML FileFormat = "toml"
)

// fileConfig is the on-disk shape. Preference values may be scalars or
// lists; lists are stored in the ';' list format.
type fileConfig struct {
	Preferences  map[string]any    `yaml:"preferences" toml:"preferences"`
	Replacements []key.Replacement `yaml:"replacements,omitempty" toml:"replacements,omitempty"`
}

// FormatForPath picks the file format from a file extension.
func FormatForPath(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported preference file extension: %s", path)
	}
}

// Load reads preferences from a YAML or TOML file chosen by extension.
func Load(path string) (*Preferences, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}

	p := New()
	if err := p.Decode(data, format); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// Decode merges preference values from data into p.
func (p *Preferences) Decode(data []byte, format FileFormat) error {
	var cfg fileConfig
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		return fmt.Errorf("unknown preference format: %q", format)
	}

	for k, raw := range cfg.Preferences {
		v, err := stringify(raw)
		if err != nil {
			return fmt.Errorf("preference %s: %w", k, err)
		}
		p.Put(k, v)
	}
	if len(cfg.Replacements) > 0 {
		p.SetReplacements(cfg.Replacements)
	}
	return nil
}

// Encode writes the stored (non-default) values of p in format.
func (p *Preferences) Encode(w io.Writer, format FileFormat) error {
	p.mu.RLock()
	cfg := fileConfig{
		Preferences:  make(map[string]any, len(p.values)),
		Replacements: append([]key.Replacement(nil), p.replacements...),
	}
	for k, v := range p.values {
		cfg.Preferences[k] = v
	}
	p.mu.RUnlock()

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("encoding YAML: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("encoding TOML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown preference format: %q", format)
	}
}

func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, err := stringify(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return value.EncodeList(items), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
