// Package render provides previews of optical diagrams.
//
// # Overview
//
// The LaTeX document is the authoritative output of benchdraw, but it needs
// a TeX toolchain to look at. The renderers in this tree draw quick
// previews without one:
//
//   - [topology]: a Graphviz graph of the beam paths, as SVG
//   - [sketch]: a raster canvas preview with components at their positions,
//     as PNG
//
// Both color components by [catalog.Family] using [FamilyColor] so the two
// views read the same.
//
//	dot := topology.ToDOT(d, topology.Options{})
//	svg, err := topology.RenderSVG(ctx, dot)
//
//	png, err := sketch.RenderPNG(d, sketch.Options{})
//
// [topology]: github.com/matzehuels/benchdraw/pkg/render/topology
// [sketch]: github.com/matzehuels/benchdraw/pkg/render/sketch
package render
