package document

import (
	"fmt"
	"strings"

	"github.com/matzehuels/benchdraw/pkg/catalog"
)

// Beam is a pst-optexp beam drawing command with its options.
type Beam struct {
	Command string
	Options string
}

// Beam styles emitted between adjacent components.
var (
	BeamWide     = Beam{Command: "drawwidebeam", Options: "beamwidth=0.1"}
	BeamFocused  = Beam{Command: "drawresizeabeam", Options: "beamwidth=0.15, beamendwidth=0.07"}
	BeamBandpass = Beam{Command: "drawwidebeam", Options: "beamwidth=0.1, beamcolor=green!70"}
	BeamFiltered = Beam{Command: "drawwidebeam", Options: "beamwidth=0.08, beamcolor=red!70"}
	BeamFiber    = Beam{Command: "drawnarrowbeam", Options: "beamwidth=0.05"}
)

// Draw returns the statement drawing b from node i to node j.
func (b Beam) Draw(i, j int) string {
	return fmt.Sprintf(`\%s[%s](%s)(%s)`, b.Command, b.Options, nodeName(i), nodeName(j))
}

// SegmentStyle picks the beam drawn between two adjacent components when
// the diagram has no splitters. Rules apply in order: a lens on either end
// gives a focused beam, then a filter (green for bandpass, red otherwise),
// then a fiber gives a narrow beam; anything else is wide.
func SegmentStyle(from, to string) Beam {
	either := func(f catalog.Family) bool { return f.Matches(from) || f.Matches(to) }

	switch {
	case either(catalog.FamilyLens):
		return BeamFocused
	case either(catalog.FamilyFilter):
		if strings.Contains(from, "Bandpass") || strings.Contains(to, "Bandpass") {
			return BeamBandpass
		}
		return BeamFiltered
	case either(catalog.FamilyFiber):
		return BeamFiber
	default:
		return BeamWide
	}
}

// StyleBeam maps a setup edge style tag to the beam used to draw it.
// Unknown tags draw wide.
func StyleBeam(tag string) Beam {
	switch tag {
	case catalog.StyleNarrow:
		return BeamFiber
	case catalog.StyleResizable:
		return BeamFocused
	default:
		return BeamWide
	}
}
