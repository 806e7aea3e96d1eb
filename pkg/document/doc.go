// Package document converts diagrams to pst-optexp LaTeX documents and
// back.
//
// # Generation
//
// [Generate] walks the ordered component list and emits, in order: the
// preamble, one \pnodes declaration with a node per component (pixel
// coordinates divided by [Scale]), one statement per component, the beam
// paths, and the footer.
//
// Each component statement links the component to its neighbours:
//
//	<fragment>(Node<i-1>)(Node<i+1>){<label>}
//
// The predecessor of the first component is Node0 and the successor of the
// last is itself. The fragment is chosen by the component's [catalog.Kind];
// generic components emit their own markup. A comment carrying the display
// name and params as JSON precedes each statement so the document can be
// parsed back losslessly.
//
// Splitters are branch points. When present, the beam section draws the
// incoming beam to the first splitter, the transmitted beam out of every
// splitter, and a closing beam from after the last splitter to the final
// component. Reflected branches are not drawn. Without splitters each
// adjacent pair gets a segment styled by [SegmentStyle].
//
// # Parsing
//
// [Parse] is the inverse. For any document produced by [Generate],
// Generate(Parse(doc)) == doc. Hand edits to labels, node coordinates,
// grating widths and generic markup flow back into the components.
package document
