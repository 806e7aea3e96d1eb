package render

import (
	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
)

var familyColors = map[catalog.Family]string{
	catalog.FamilyLens:       "#cfe8ff",
	catalog.FamilyMirror:     "#d9d9d9",
	catalog.FamilySplitter:   "#ffe0a3",
	catalog.FamilyWavePlate:  "#e3d4ff",
	catalog.FamilyIsolator:   "#c8f0d8",
	catalog.FamilyModulator:  "#ffd1dc",
	catalog.FamilyFilter:     "#d6f5a3",
	catalog.FamilyGrating:    "#f5d6a3",
	catalog.FamilyFiber:      "#ffe8cc",
	catalog.FamilyCirculator: "#c9f2f2",
	catalog.FamilyAmplifier:  "#ffc9a3",
	catalog.FamilySource:     "#ffb3b3",
	catalog.FamilyDetector:   "#b3c7ff",
}

// FamilyColor returns the fill color for a family as a #rrggbb string.
func FamilyColor(f catalog.Family) string {
	if c, ok := familyColors[f]; ok {
		return c
	}
	return "#ffffff"
}

// BeamColor returns the stroke color for an edge style.
func BeamColor(style string) string {
	switch style {
	case catalog.StyleNarrow:
		return "#ff8c00"
	case catalog.StyleResizable:
		return "#e05050"
	default:
		return "#d00000"
	}
}

// Paths returns the beam paths to draw for d: its declared edges, or the
// chain of consecutive components when it has none. Edges with
// out-of-range endpoints are skipped.
func Paths(d *diagram.Diagram) []diagram.Edge {
	n := d.Len()
	if len(d.Edges) == 0 {
		var out []diagram.Edge
		for i := 0; i+1 < n; i++ {
			out = append(out, diagram.Edge{Source: i, Target: i + 1, Style: catalog.StyleWide})
		}
		return out
	}

	out := make([]diagram.Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			continue
		}
		if e.Style == "" {
			e.Style = catalog.StyleWide
		}
		out = append(out, e)
	}
	return out
}
