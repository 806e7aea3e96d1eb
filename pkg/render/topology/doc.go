// Package topology renders a diagram's beam paths as a Graphviz graph.
//
// Nodes are components, labelled with their label parameter and (with
// [Options.Detailed]) their archetype and parameters. Edges are the
// diagram's declared beams, or the chain of consecutive components when
// none are declared. Splitters are drawn as diamonds so branch points
// stand out.
//
//	dot := topology.ToDOT(d, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
package topology
