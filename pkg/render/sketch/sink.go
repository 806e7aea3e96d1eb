package sketch

import (
	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
)

// Sink writes a PNG preview to Path on every render.
type Sink struct {
	Path    string
	Options Options
}

var _ diagram.RenderSink = (*Sink)(nil)

// Render draws snap and replaces the file at Path.
func (s *Sink) Render(snap *diagram.Diagram, delta diagram.Delta) error {
	data, err := encode(snap, delta, s.Options)
	if err != nil {
		return err
	}
	return compiler.WriteArtifact(s.Path, data)
}
