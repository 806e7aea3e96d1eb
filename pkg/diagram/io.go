package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

type file struct {
	Name       string          `json:"name"`
	Components []componentJSON `json:"components"`
	Edges      []edgeJSON      `json:"edges,omitempty"`
}

type componentJSON struct {
	Name     string         `json:"name"`
	Latex    string         `json:"latex"`
	Params   catalog.Params `json:"params"`
	Position [2]float64     `json:"position"`
}

type edgeJSON struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Style  string `json:"style,omitempty"`
}

// WriteJSON encodes d as
//
//	{"name": ..., "components": [{"name", "latex", "params", "position": [x, y]}],
//	 "edges": [{"source", "target", "style"}]}
//
// The edges key is omitted when the diagram has no declared edges.
func WriteJSON(d *Diagram, w io.Writer) error {
	out := file{Name: d.Name, Components: make([]componentJSON, len(d.Components))}
	for i, c := range d.Components {
		params := c.Params
		if params == nil {
			params = catalog.Params{}
		}
		out.Components[i] = componentJSON{
			Name:     c.Name,
			Latex:    c.Markup,
			Params:   params,
			Position: [2]float64{c.Position.X, c.Position.Y},
		}
	}
	for _, e := range d.Edges {
		out.Edges = append(out.Edges, edgeJSON(e))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a diagram written by [WriteJSON]. A missing name
// becomes [DefaultName] and missing components an empty diagram.
//
// Invalid diagram or component names and labels that cannot be emitted
// fail with INVALID_INPUT; edges pointing outside the component list fail
// with INVALID_FORMAT.
func ReadJSON(r io.Reader) (*Diagram, error) {
	var in file
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode diagram")
	}

	if in.Name != "" {
		if err := errors.ValidateName(in.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "diagram name")
		}
	}

	d := New(in.Name)
	for i, c := range in.Components {
		if err := errors.ValidateName(c.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d", i)
		}
		if label, ok := c.Params["label"]; ok {
			if err := errors.ValidateLabel(label); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "component %d (%s)", i, c.Name)
			}
		}
		d.Add(Component{
			Name:     c.Name,
			Markup:   c.Latex,
			Params:   c.Params,
			Position: Position{X: c.Position[0], Y: c.Position[1]},
		})
	}

	n := len(in.Components)
	for i, e := range in.Edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"edge %d (%d -> %d) is out of range for %d components", i, e.Source, e.Target, n)
		}
		d.Edges = append(d.Edges, Edge(e))
	}
	return d, nil
}

// Load reads a diagram file and records path as its SourcePath.
func Load(path string) (*Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	d, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d.SourcePath = path
	return d, nil
}

// Save writes d to path. An empty path falls back to d.SourcePath; on
// success SourcePath is updated.
func Save(d *Diagram, path string) error {
	if path == "" {
		path = d.SourcePath
	}
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "no path given and diagram has no source file")
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(d, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	d.SourcePath = path
	return nil
}
