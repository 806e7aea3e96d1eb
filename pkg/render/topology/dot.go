package topology

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/render"
)

// Options configures topology rendering.
type Options struct {
	// Detailed adds the archetype name and parameters to node labels.
	// When false, only the label is shown.
	Detailed bool
}

// ToDOT converts a diagram to Graphviz DOT. The result can be rendered with
// [RenderSVG].
func ToDOT(d *diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", d.Name)
	buf.WriteString("\n")

	for i, c := range d.Components {
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(fmtAttrs(c, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, e := range render.Paths(d) {
		fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e.Style), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c diagram.Component, detailed bool) string {
	label, ok := c.Label()
	if !ok || label == "" {
		label = c.Name
	}
	if !detailed {
		return label
	}

	parts := []string{c.Name}
	for _, k := range slices.Sorted(maps.Keys(c.Params)) {
		if k == "label" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", k, c.Params[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(c diagram.Component, detailed bool) []string {
	kind := catalog.Classify(c.Name)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(c, detailed)),
		fmt.Sprintf("fillcolor=%q", render.FamilyColor(kind.Family())),
	}
	if kind.IsSplitter() {
		attrs = append(attrs, "shape=diamond", "style=filled")
	}
	return attrs
}

func edgeAttrs(style string) []string {
	attrs := []string{fmt.Sprintf("color=%q", render.BeamColor(style))}
	switch style {
	case catalog.StyleNarrow:
		attrs = append(attrs, "penwidth=1")
	case catalog.StyleResizable:
		attrs = append(attrs, "penwidth=2", "style=dashed")
	default:
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// from the viewBox, so the SVG scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
