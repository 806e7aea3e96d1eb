// Package setup expands complex setup archetypes (interferometers,
// cavities, fiber links) into concrete diagram components.
//
// Expansion tolerates gaps in the catalog: a sub-component whose
// archetype cannot be resolved is skipped, the rest of the setup is still
// produced, and the skipped entries are reported in [Result.Skipped].
// Edges that touch a skipped entry are dropped; the remaining edges are
// re-indexed to the surviving components.
package setup

import (
	"strings"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

// Skipped identifies a sub-component that could not be resolved.
type Skipped struct {
	Index     int    // position in the setup's declared order
	Archetype string // unresolved archetype name
}

// Result is the outcome of expanding one setup.
type Result struct {
	Setup      string
	Components []diagram.Component
	Edges      []diagram.Edge // indices relative to Components
	Skipped    []Skipped
}

// Partial reports whether any sub-component was skipped.
func (r *Result) Partial() bool { return len(r.Skipped) > 0 }

// Err returns a SETUP_PARTIAL error naming the skipped entries, or nil
// when the expansion was complete.
func (r *Result) Err() error {
	if !r.Partial() {
		return nil
	}
	parts := make([]string, len(r.Skipped))
	for i, s := range r.Skipped {
		parts[i] = s.Archetype
	}
	return errors.New(errors.ErrCodeSetupPartial,
		"setup %q: skipped %d of %d sub-components: %s",
		r.Setup, len(r.Skipped), len(r.Skipped)+len(r.Components), strings.Join(parts, ", "))
}

// Expand materializes the named setup. It fails with SETUP_NOT_FOUND if
// name is not a setup archetype in cat; unresolved sub-components do not
// fail the call.
func Expand(cat *catalog.Catalog, name string) (*Result, error) {
	a, ok := cat.Lookup(name)
	if !ok || !a.IsSetup() {
		return nil, errors.New(errors.ErrCodeSetupNotFound, "no setup named %q", name)
	}

	res := &Result{Setup: name}
	index := make(map[int]int, len(a.Setup.Components))

	for i, sc := range a.Setup.Components {
		sub, ok := cat.Lookup(sc.Archetype)
		if !ok || sub.IsSetup() {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Archetype: sc.Archetype})
			continue
		}

		c := diagram.FromArchetype(sub, diagram.Position{X: sc.Position.X, Y: sc.Position.Y})
		for k, v := range sc.Params {
			c.Params[k] = v
		}
		index[i] = len(res.Components)
		res.Components = append(res.Components, c)
	}

	for _, e := range a.Setup.Edges {
		src, ok1 := index[e.Source]
		dst, ok2 := index[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		style := e.Style
		if style == "" {
			style = catalog.StyleWide
		}
		res.Edges = append(res.Edges, diagram.Edge{Source: src, Target: dst, Style: style})
	}

	return res, nil
}

// Apply expands the named setup and appends the result to d in declared
// order. A partial expansion is still applied; inspect [Result.Err] to
// report what was skipped.
func Apply(d *diagram.Diagram, cat *catalog.Catalog, name string) (*Result, error) {
	res, err := Expand(cat, name)
	if err != nil {
		return nil, err
	}
	d.AppendSetup(res.Components, res.Edges)
	return res, nil
}
