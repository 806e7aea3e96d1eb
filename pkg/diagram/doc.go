// Package diagram holds the user's working diagram: an ordered list of
// placed component instances.
//
// Component order matters. The document generator links each component to
// its neighbours in the list, so [Diagram.Move] changes the drawn beam
// path. Each component owns its own params map; adding the same archetype
// twice yields two independent instances.
//
// Setup expansion also records declared beams as [Edge] values. They are
// renderer metadata only, kept consistent by [Diagram.Remove] and
// [Diagram.Move], and saved under the optional "edges" key.
//
// # File Format
//
//	{
//	  "name": "Bench A",
//	  "components": [
//	    {"name": "Laser Source", "latex": "\\optbox[...]",
//	     "params": {"label": "Laser"}, "position": [100, 200]}
//	  ],
//	  "edges": [{"source": 0, "target": 1, "style": "wide"}]
//	}
//
// # Collaborators
//
// [Store] abstracts persistence ([FileStore] here, MongoDB in store/mongo).
// [RenderSink] receives read-only snapshots for canvas previews.
package diagram
