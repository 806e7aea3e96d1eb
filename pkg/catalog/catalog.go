package catalog

import (
	"maps"
	"strings"

	"github.com/matzehuels/benchdraw/pkg/errors"
)

// SetupPrefix marks the Markup of a complex setup archetype. Setup markup
// is a sentinel, never literal document markup.
const SetupPrefix = "setup:"

// Beam style tags used by setup edges.
const (
	StyleWide      = "wide"
	StyleNarrow    = "narrow"
	StyleResizable = "resizable"
)

var validStyles = map[string]bool{StyleWide: true, StyleNarrow: true, StyleResizable: true}

// Params is a string-keyed parameter mapping (label, wavelength, ...).
type Params map[string]string

// Clone returns an independent copy. A nil mapping clones to an empty one.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// Point is a canvas placement in pixels.
type Point struct {
	X, Y float64
}

// SubComponent is one entry of a complex setup.
type SubComponent struct {
	Archetype string // display name resolved against the catalog at expansion
	Position  Point
	Params    Params
}

// SetupEdge is a declared beam between two sub-components, by index.
type SetupEdge struct {
	Source int
	Target int
	Style  string // StyleWide, StyleNarrow or StyleResizable
}

// Setup describes the sub-graph a complex setup archetype expands into.
type Setup struct {
	Components []SubComponent
	Edges      []SetupEdge
}

// Archetype is a catalog template for one component kind.
type Archetype struct {
	Name     string
	Category string
	Markup   string
	Defaults Params

	// Kind is resolved from Name when the archetype is registered.
	Kind Kind

	// Setup is non-nil for complex setup archetypes.
	Setup *Setup
}

// IsSetup reports whether the archetype expands into several components.
func (a Archetype) IsSetup() bool { return a.Setup != nil }

func (a Archetype) clone() Archetype {
	a.Defaults = a.Defaults.Clone()
	if a.Setup != nil {
		s := &Setup{
			Components: make([]SubComponent, len(a.Setup.Components)),
			Edges:      append([]SetupEdge(nil), a.Setup.Edges...),
		}
		for i, sc := range a.Setup.Components {
			sc.Params = sc.Params.Clone()
			s.Components[i] = sc
		}
		a.Setup = s
	}
	return a
}

// Category groups archetypes under a label. The label is not part of an
// archetype's identity.
type Category struct {
	Name       string
	Archetypes []Archetype
}

// Catalog is an immutable registry of archetypes. It is safe for
// concurrent readers; nothing mutates it after [New] returns.
type Catalog struct {
	categories []Category
	byName     map[string]Archetype
}

// New builds a catalog from categories in the given order. It fails with
// DUPLICATE_ARCHETYPE if two archetypes share a display name, with
// MISSING_PARAM for placeable archetypes without a default label, and with
// INVALID_INPUT for empty names, malformed labels or setups whose edges
// reference missing sub-components.
func New(categories ...Category) (*Catalog, error) {
	c := &Catalog{byName: make(map[string]Archetype)}

	for _, cat := range categories {
		stored := Category{Name: cat.Name, Archetypes: make([]Archetype, 0, len(cat.Archetypes))}
		for _, a := range cat.Archetypes {
			if err := errors.ValidateName(a.Name); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "category %q", cat.Name)
			}
			if prev, exists := c.byName[a.Name]; exists {
				return nil, errors.New(errors.ErrCodeDuplicateArchetype,
					"archetype %q defined in both %q and %q", a.Name, prev.Category, cat.Name)
			}
			if err := validateSetup(a); err != nil {
				return nil, err
			}
			if err := validateLabel(a); err != nil {
				return nil, err
			}

			a = a.clone()
			a.Category = cat.Name
			a.Kind = Classify(a.Name)
			if a.IsSetup() && !strings.HasPrefix(a.Markup, SetupPrefix) {
				a.Markup = SetupPrefix + slug(a.Name)
			}

			c.byName[a.Name] = a
			stored.Archetypes = append(stored.Archetypes, a)
		}
		c.categories = append(c.categories, stored)
	}

	return c, nil
}

// Extend returns a new catalog holding base's categories followed by extra.
// Duplicate names across base and extra are rejected as in [New].
func Extend(base *Catalog, extra ...Category) (*Catalog, error) {
	return New(append(base.Categories(), extra...)...)
}

// validateLabel requires a usable default label on every placeable
// archetype; setups take their labels from their sub-components.
func validateLabel(a Archetype) error {
	if a.IsSetup() {
		return nil
	}
	label, ok := a.Defaults["label"]
	if !ok {
		return errors.New(errors.ErrCodeMissingParam, "archetype %q has no default label", a.Name)
	}
	if err := errors.ValidateLabel(label); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "archetype %q", a.Name)
	}
	return nil
}

func validateSetup(a Archetype) error {
	if a.Setup == nil {
		return nil
	}
	n := len(a.Setup.Components)
	for i, e := range a.Setup.Edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return errors.New(errors.ErrCodeInvalidInput,
				"setup %q: edge %d (%d->%d) references a missing sub-component", a.Name, i, e.Source, e.Target)
		}
		if e.Style != "" && !validStyles[e.Style] {
			return errors.New(errors.ErrCodeInvalidInput,
				"setup %q: edge %d has unknown style %q", a.Name, i, e.Style)
		}
	}
	return nil
}

// Lookup returns the archetype with the exact display name. The second
// result is false when no archetype matches; callers must handle absence.
func (c *Catalog) Lookup(name string) (Archetype, bool) {
	a, ok := c.byName[name]
	if !ok {
		return Archetype{}, false
	}
	return a.clone(), true
}

// IsSetup reports whether name is a complex setup archetype.
func (c *Catalog) IsSetup(name string) bool {
	a, ok := c.byName[name]
	return ok && a.IsSetup()
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int { return len(c.byName) }

// Categories returns the categories in registration order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		as := make([]Archetype, len(cat.Archetypes))
		for j, a := range cat.Archetypes {
			as[j] = a.clone()
		}
		out[i] = Category{Name: cat.Name, Archetypes: as}
	}
	return out
}

// ByCategory returns archetypes keyed by category label.
func (c *Catalog) ByCategory() map[string][]Archetype {
	out := make(map[string][]Archetype, len(c.categories))
	for _, cat := range c.Categories() {
		out[cat.Name] = append(out[cat.Name], cat.Archetypes...)
	}
	return out
}

// All returns every archetype in registration order.
func (c *Catalog) All() []Archetype {
	var out []Archetype
	for _, cat := range c.Categories() {
		out = append(out, cat.Archetypes...)
	}
	return out
}

// FindByMarkup returns the first non-setup archetype, in registration
// order, whose markup equals m. It is used to recover a component name
// from hand-written document statements.
func (c *Catalog) FindByMarkup(m string) (Archetype, bool) {
	m = strings.TrimSpace(m)
	for _, cat := range c.categories {
		for _, a := range cat.Archetypes {
			if !a.IsSetup() && a.Markup == m {
				return a.clone(), true
			}
		}
	}
	return Archetype{}, false
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
