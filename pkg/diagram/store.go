package diagram

import "context"

// Store loads and saves diagrams by path or key.
type Store interface {
	Load(ctx context.Context, path string) (*Diagram, error)
	Save(ctx context.Context, d *Diagram, path string) error
}

// FileStore stores diagrams as JSON files on the local filesystem.
type FileStore struct{}

var _ Store = FileStore{}

// Load reads the diagram at path.
func (FileStore) Load(ctx context.Context, path string) (*Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes d to path, or to d.SourcePath when path is empty.
func (FileStore) Save(ctx context.Context, d *Diagram, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return Save(d, path)
}

// Delta describes an in-progress canvas interaction: the selected
// component (or -1) and its drag offset in pixels.
type Delta struct {
	Selected int
	DX, DY   float64
}

// NoSelection is the Delta of an idle canvas.
var NoSelection = Delta{Selected: -1}

// RenderSink draws diagram snapshots. Implementations must treat the
// snapshot as read-only.
type RenderSink interface {
	Render(snap *Diagram, delta Delta) error
}
