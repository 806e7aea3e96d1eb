package diagram

import (
	"slices"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

// DefaultName is used when a diagram is created or loaded without a name.
const DefaultName = "Untitled Diagram"

// Position is a canvas placement in pixels.
type Position struct {
	X, Y float64
}

// Component is one placed archetype instance.
type Component struct {
	Name     string         // archetype display name
	Markup   string         // archetype markup, copied at insertion
	Params   catalog.Params // always an independent copy
	Position Position
}

// Clone returns a copy whose Params can be mutated independently.
func (c Component) Clone() Component {
	c.Params = c.Params.Clone()
	return c
}

// Label returns the label parameter and whether it is set.
func (c Component) Label() (string, bool) {
	l, ok := c.Params["label"]
	return l, ok
}

// Edge is a declared beam between two components, by absolute index.
// Edges come from setup expansion and are used by renderers only; the
// document generator derives beams from component order.
type Edge struct {
	Source int
	Target int
	Style  string
}

// Diagram is the ordered collection of placed components. Order is the
// sole adjacency source for document generation.
//
// A Diagram has a single owner; it is not safe for concurrent mutation.
type Diagram struct {
	Name       string
	Components []Component
	Edges      []Edge

	// SourcePath is the file the diagram was loaded from or last saved to.
	SourcePath string
}

// New returns an empty diagram. An empty name becomes [DefaultName].
func New(name string) *Diagram {
	if name == "" {
		name = DefaultName
	}
	return &Diagram{Name: name}
}

// Len returns the number of components.
func (d *Diagram) Len() int { return len(d.Components) }

// Add appends c with an independent copy of its params and returns its
// index.
func (d *Diagram) Add(c Component) int {
	d.Components = append(d.Components, c.Clone())
	return len(d.Components) - 1
}

// AddArchetype instantiates the named archetype at pos. Setup archetypes
// expand into several components and must go through the setup package.
func (d *Diagram) AddArchetype(cat *catalog.Catalog, name string, pos Position) (int, error) {
	a, ok := cat.Lookup(name)
	if !ok {
		return -1, errors.New(errors.ErrCodeArchetypeNotFound, "no archetype named %q", name)
	}
	if a.IsSetup() {
		return -1, errors.New(errors.ErrCodeInvalidInput, "%q is a setup; expand it instead", name)
	}
	return d.Add(FromArchetype(a, pos)), nil
}

// FromArchetype builds a component carrying a copy of a's defaults.
func FromArchetype(a catalog.Archetype, pos Position) Component {
	return Component{
		Name:     a.Name,
		Markup:   a.Markup,
		Params:   a.Defaults.Clone(),
		Position: pos,
	}
}

// Remove deletes the component at i. Edges touching it are dropped and
// later indices shift down.
func (d *Diagram) Remove(i int) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Components = slices.Delete(d.Components, i, i+1)

	edges := d.Edges[:0]
	for _, e := range d.Edges {
		if e.Source == i || e.Target == i {
			continue
		}
		if e.Source > i {
			e.Source--
		}
		if e.Target > i {
			e.Target--
		}
		edges = append(edges, e)
	}
	d.Edges = edges
	return nil
}

// Move relocates the component at from to index to, shifting the
// components in between. Edges keep pointing at the same components.
func (d *Diagram) Move(from, to int) error {
	if err := d.check(from); err != nil {
		return err
	}
	if err := d.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	c := d.Components[from]
	d.Components = slices.Delete(d.Components, from, from+1)
	d.Components = slices.Insert(d.Components, to, c)

	remap := func(k int) int {
		switch {
		case k == from:
			return to
		case from < to && k > from && k <= to:
			return k - 1
		case to < from && k >= to && k < from:
			return k + 1
		}
		return k
	}
	for j := range d.Edges {
		d.Edges[j].Source = remap(d.Edges[j].Source)
		d.Edges[j].Target = remap(d.Edges[j].Target)
	}
	return nil
}

// SetParam sets one parameter on the component at i.
func (d *Diagram) SetParam(i int, key, value string) error {
	if err := d.check(i); err != nil {
		return err
	}
	if key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "parameter key cannot be empty")
	}
	if key == "label" {
		if err := errors.ValidateLabel(value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d", i)
		}
	}
	if d.Components[i].Params == nil {
		d.Components[i].Params = catalog.Params{}
	}
	d.Components[i].Params[key] = value
	return nil
}

// SetPosition places the component at i.
func (d *Diagram) SetPosition(i int, pos Position) error {
	if err := d.check(i); err != nil {
		return err
	}
	d.Components[i].Position = pos
	return nil
}

// Clear removes all components and edges.
func (d *Diagram) Clear() {
	d.Components = nil
	d.Edges = nil
}

// Replace swaps the component list wholesale, typically with the result
// of parsing an edited document. Declared edges no longer apply and are
// dropped.
func (d *Diagram) Replace(cs []Component) {
	d.Components = make([]Component, len(cs))
	for i, c := range cs {
		d.Components[i] = c.Clone()
	}
	d.Edges = nil
}

// AppendSetup appends components in order and records edges, whose
// indices are relative to cs, as absolute edges. Edges that point outside
// cs are ignored.
func (d *Diagram) AppendSetup(cs []Component, edges []Edge) {
	base := len(d.Components)
	for _, c := range cs {
		d.Add(c)
	}
	for _, e := range edges {
		if e.Source < 0 || e.Source >= len(cs) || e.Target < 0 || e.Target >= len(cs) {
			continue
		}
		d.Edges = append(d.Edges, Edge{Source: base + e.Source, Target: base + e.Target, Style: e.Style})
	}
}

// Snapshot returns a deep copy safe to hand to renderers.
func (d *Diagram) Snapshot() *Diagram {
	s := &Diagram{
		Name:       d.Name,
		Components: make([]Component, len(d.Components)),
		Edges:      slices.Clone(d.Edges),
		SourcePath: d.SourcePath,
	}
	for i, c := range d.Components {
		s.Components[i] = c.Clone()
	}
	return s
}

func (d *Diagram) check(i int) error {
	if i < 0 || i >= len(d.Components) {
		return errors.New(errors.ErrCodeInvalidInput, "component index %d out of range [0, %d)", i, len(d.Components))
	}
	return nil
}
