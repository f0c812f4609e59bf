// Package schema describes the fields and entry types known to the BibTeX
// codec. The tables here are advisory: entries accept any field name, and
// the registry is consulted only for display, write filtering, numeric
// sorting, and completeness checks.
package schema

import "strings"

// Flag is a bit set describing how a field is treated.
type Flag uint8

const (
	// Standard marks a field defined by BibTeX itself.
	Standard Flag = 1 << iota
	// Private marks an internal field (owner, timestamp, ...).
	Private
	// Displayable fields are shown in editors.
	Displayable
	// Writeable fields are saved to the .bib file.
	Writeable
)

// defaultFlags applies to every descriptor unless explicitly cleared.
const defaultFlags = Displayable | Writeable

// Common extras tags. Extras are opaque to the codec; they hint which
// affordance a UI should attach to a field.
const (
	ExtrasJournalNames = "journalNames"
	ExtrasExternal     = "external"
	ExtrasBrowseDoc    = "browseDoc"
	ExtrasBrowseDocZip = "browseDocZip"
	ExtrasSetOwner     = "setOwner"
	ExtrasDatePicker   = "datepicker"
)

// Descriptor describes a single field.
type Descriptor struct {
	// Name is the lowercase field name (e.g., "author")
	Name string `yaml:"name" json:"name"`

	// Flags holds Standard/Private/Displayable/Writeable
	Flags Flag `yaml:"-" json:"-"`

	// DisplayName is an alternative label, e.g. "Popularity" for a count field
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`

	// Extras is an editor hint such as "external" or "datepicker"
	Extras string `yaml:"extras,omitempty" json:"extras,omitempty"`

	// Numeric fields sort by number instead of by text
	Numeric bool `yaml:"numeric,omitempty" json:"numeric,omitempty"`
}

// NewDescriptor returns a displayable, writeable descriptor.
func NewDescriptor(name string, standard bool) *Descriptor {
	d := &Descriptor{Name: strings.ToLower(name), Flags: defaultFlags}
	d.SetFlag(Standard, standard)
	return d
}

// SetFlag turns a flag on or off.
func (d *Descriptor) SetFlag(f Flag, on bool) *Descriptor {
	if on {
		d.Flags |= f
	} else {
		d.Flags &^= f
	}
	return d
}

// Has reports whether every bit of f is set.
func (d *Descriptor) Has(f Flag) bool {
	return d.Flags&f == f
}

// IsStandard reports whether the field is a standard BibTeX field.
func (d *Descriptor) IsStandard() bool { return d.Has(Standard) }

// IsPublic reports whether the field is not private.
func (d *Descriptor) IsPublic() bool { return !d.Has(Private) }

// IsDisplayable reports whether editors should show the field.
func (d *Descriptor) IsDisplayable() bool { return d.Has(Displayable) }

// IsWriteable reports whether the field is saved to disk.
func (d *Descriptor) IsWriteable() bool { return d.Has(Writeable) }

// WithExtras sets the extras tag.
func (d *Descriptor) WithExtras(extras string) *Descriptor {
	d.Extras = extras
	return d
}

// WithNumeric sets the numeric flag.
func (d *Descriptor) WithNumeric(numeric bool) *Descriptor {
	d.Numeric = numeric
	return d
}

// MarkPrivate sets the Private flag.
func (d *Descriptor) MarkPrivate() *Descriptor {
	return d.SetFlag(Private, true)
}

// clone returns a copy so registries never share mutable descriptors.
func (d *Descriptor) clone() *Descriptor {
	c := *d
	return &c
}

// descriptorConfig is the YAML shape of a descriptor. Flags are spelled out
// so hand-written files stay readable.
type descriptorConfig struct {
	Name        string `yaml:"name"`
	Standard    bool   `yaml:"standard,omitempty"`
	Private     bool   `yaml:"private,omitempty"`
	Displayable *bool  `yaml:"displayable,omitempty"`
	Writeable   *bool  `yaml:"writeable,omitempty"`
	DisplayName string `yaml:"display_name,omitempty"`
	Extras      string `yaml:"extras,omitempty"`
	Numeric     bool   `yaml:"numeric,omitempty"`
}

func (c descriptorConfig) descriptor() *Descriptor {
	d := NewDescriptor(c.Name, c.Standard)
	d.SetFlag(Private, c.Private)
	if c.Displayable != nil {
		d.SetFlag(Displayable, *c.Displayable)
	}
	if c.Writeable != nil {
		d.SetFlag(Writeable, *c.Writeable)
	}
	d.DisplayName = c.DisplayName
	d.Extras = c.Extras
	d.Numeric = c.Numeric
	return d
}

func configFor(d *Descriptor) descriptorConfig {
	displayable := d.IsDisplayable()
	writeable := d.IsWriteable()
	return descriptorConfig{
		Name:        d.Name,
		Standard:    d.IsStandard(),
		Private:     d.Has(Private),
		Displayable: &displayable,
		Writeable:   &writeable,
		DisplayName: d.DisplayName,
		Extras:      d.Extras,
		Numeric:     d.Numeric,
	}
}
