package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

// Scale is the number of canvas pixels per document unit.
const Scale = 50

// DefaultGratingWidth is used when a grating has no gratingwidth param.
const DefaultGratingWidth = "1.5"

const (
	preamble = "\\documentclass{standalone}\n\\usepackage{pst-optexp}\n\n\\begin{document}\n\n" +
		"% Optical Diagram Generated with benchdraw\n" +
		"\\begin{pspicture}(-2,-2)(12,6)\n" +
		"    % Node definitions\n"
	placeholderNodes = `\pnodes(0,0){Start}(5,0){Middle}(10,0){End}`
	beginOptexp      = `\begin{optexp}`
	endOptexp        = `\end{optexp}`
	beamStyle        = `\addtopsstyle{Beam}{linestyle=none, fillstyle=solid, fillcolor=red}`
	footer           = "    \\end{optexp}\n\\end{pspicture}\n\n\\end{document}"

	commentEmpty     = "Add components to your diagram"
	commentBeams     = "Beam paths"
	commentNoBeam    = "Need at least 2 components to draw a beam"
	indentNodes      = "    "
	indentComponents = "        "
)

// fragments holds the markup fragment of every kind with fixed markup.
// Gratings and generic components are handled in fragment.
var fragments = map[catalog.Kind]string{
	catalog.KindLens:                   `\lens[lensradius=1]`,
	catalog.KindThickLens:              `\lens[lensradius=1, lenstype=thick]`,
	catalog.KindObjectiveLens:          `\lens[lensradius=1.2, lenstype=objective]`,
	catalog.KindMirror:                 `\mirror[mirrortype=extended]`,
	catalog.KindCurvedMirror:           `\mirror[mirrortype=curved, mirrorradius=30]`,
	catalog.KindBeamSplitter:           `\beamsplitter[bsstyle=plate]`,
	catalog.KindPolarizingBeamSplitter: `\beamsplitter[bsstyle=cube]`,
	catalog.KindHalfWavePlate:          `\optretplate[platetype=half]`,
	catalog.KindQuarterWavePlate:       `\optretplate[platetype=quarter]`,
	catalog.KindIsolator:               `\optisolator`,
	catalog.KindAcoustoOpticModulator:  `\aom`,
	catalog.KindElectroOpticModulator:  `\eom`,
	catalog.KindBandpassFilter:         `\optfilter[filtertype=bandpass]`,
	catalog.KindNeutralDensityFilter:   `\optfilter[filtertype=nd]`,
	catalog.KindFiber:                  `\optfiber[fibertype=patch]`,
	catalog.KindCirculator:             `\optcirculator`,
	catalog.KindAmplifier:              `\optamplifier`,
	catalog.KindSource:                 `\optbox[position=start, innerlabel, optboxwidth=1.2]`,
	catalog.KindDetector:               `\optbox[position=end, innerlabel, optboxwidth=1.2]`,
	catalog.KindBeamBlock:              `\optdetector[dettype=block]`,
}

// Generate renders components as a standalone pst-optexp document.
//
// Generate is pure: the output depends only on each component's name,
// params, position and (for generic components) markup. Every component
// must carry a "label" param; a missing label fails with MISSING_PARAM.
// Labels that would break the statement, invalid names and generic
// components without markup fail with INVALID_INPUT.
func Generate(components []diagram.Component) (string, error) {
	n := len(components)
	kinds := make([]catalog.Kind, n)
	var branches []int
	for i, c := range components {
		kinds[i] = catalog.Classify(c.Name)
		if err := validate(i, c, kinds[i]); err != nil {
			return "", err
		}
		if kinds[i].IsSplitter() {
			branches = append(branches, i)
		}
	}

	var b strings.Builder
	b.WriteString(preamble)

	b.WriteString(indentNodes)
	if n == 0 {
		b.WriteString(placeholderNodes)
	} else {
		b.WriteString(`\pnodes`)
		for i, c := range components {
			fmt.Fprintf(&b, "(%.2f,%.2f){%s}", c.Position.X/Scale, c.Position.Y/Scale, nodeName(i))
		}
	}
	b.WriteString("\n\n")

	b.WriteString(indentNodes + beginOptexp + "\n")
	if n == 0 {
		line(&b, "% "+commentEmpty)
	}
	for i, c := range components {
		meta, err := metadata(c)
		if err != nil {
			return "", err
		}
		line(&b, "% "+meta)
		label, _ := c.Label()
		line(&b, fmt.Sprintf("%s(%s)(%s){%s}",
			fragment(kinds[i], c), nodeName(predecessor(i)), nodeName(successor(i, n)), label))
	}

	b.WriteString("\n")
	line(&b, "% "+commentBeams)
	if n < 2 {
		line(&b, "% "+commentNoBeam)
	} else {
		line(&b, beamStyle)
		for _, s := range segments(components, branches) {
			line(&b, s)
		}
	}

	b.WriteString(footer)
	return b.String(), nil
}

// validate checks that c can be written as a statement Parse reads back
// unchanged.
func validate(i int, c diagram.Component, k catalog.Kind) error {
	label, ok := c.Label()
	if !ok {
		return errors.New(errors.ErrCodeMissingParam, "component %d (%s) has no label", i, c.Name)
	}
	if err := errors.ValidateName(c.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d", i)
	}
	if err := errors.ValidateLabel(label); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d (%s)", i, c.Name)
	}
	if k == catalog.KindGeneric && strings.TrimSpace(c.Markup) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "component %d (%s) has no markup", i, c.Name)
	}
	return nil
}

// segments lists the beam statements. With splitters present only the
// incoming beam, each transmitted beam and a closing beam after the last
// splitter are drawn; reflected branches are not.
func segments(components []diagram.Component, branches []int) []string {
	n := len(components)
	var out []string

	if len(branches) > 0 {
		if first := branches[0]; first > 0 {
			out = append(out, BeamWide.Draw(0, first))
		}
		for _, bp := range branches {
			if bp < n-1 {
				out = append(out, BeamWide.Draw(bp, bp+1))
			}
		}
		if last := branches[len(branches)-1]; last < n-2 {
			out = append(out, BeamWide.Draw(last+1, n-1))
		}
		return out
	}

	if n == 2 {
		return []string{BeamWide.Draw(0, 1)}
	}
	for i := 0; i < n-1; i++ {
		out = append(out, SegmentStyle(components[i].Name, components[i+1].Name).Draw(i, i+1))
	}
	return out
}

func fragment(k catalog.Kind, c diagram.Component) string {
	switch k {
	case catalog.KindGrating:
		return fmt.Sprintf(`\optgrating[gratingwidth=%s]`, gratingWidth(c.Params))
	case catalog.KindGeneric:
		return strings.TrimSpace(c.Markup)
	default:
		return fragments[k]
	}
}

func gratingWidth(p catalog.Params) string {
	if w, ok := p["gratingwidth"]; ok && w != "" {
		return w
	}
	return DefaultGratingWidth
}

// metadata encodes the comment line that precedes each component
// statement: the display name followed by the params as JSON. Names with
// surrounding whitespace or a leading quote are written as JSON strings.
// When the pnodes entry cannot hold the position exactly, the exact
// position follows as " @(x,y)".
func metadata(c diagram.Component) (string, error) {
	params := c.Params
	if params == nil {
		params = catalog.Params{}
	}
	encoded, err := encodeJSON(params)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode params of %s", c.Name)
	}

	name := c.Name
	if name != strings.TrimSpace(name) || strings.HasPrefix(name, `"`) {
		if name, err = encodeJSON(name); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "encode name %q", c.Name)
		}
	}

	out := name + " " + encoded
	if p := c.Position; rounded(p.X) != p.X || rounded(p.Y) != p.Y {
		out += fmt.Sprintf(" @(%s,%s)", formatCoord(p.X), formatCoord(p.Y))
	}
	return out, nil
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// rounded is the canvas coordinate v reads back as from a pnodes entry.
func rounded(v float64) float64 {
	return coord(fmt.Sprintf("%.2f", v/Scale))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func predecessor(i int) int {
	if i == 0 {
		return 0
	}
	return i - 1
}

func successor(i, n int) int {
	return min(i+1, n-1)
}

func nodeName(i int) string { return fmt.Sprintf("Node%d", i) }

func line(b *strings.Builder, s string) {
	b.WriteString(indentComponents)
	b.WriteString(s)
	b.WriteString("\n")
}
