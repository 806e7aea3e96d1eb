package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// catalogFile mirrors the on-disk TOML layout of a catalog extension:
//
//	[[category]]
//	name = "Lab 7"
//
//	  [[category.archetype]]
//	  name = "Pockels Cell"
//	  markup = '\optbox[innerlabel, optboxwidth=1.0]'
//	  params = { label = "PC" }
//
//	  [[category.archetype]]
//	  name = "Double Pass AOM"
//	  params = { label = "DP-AOM" }
//	    [[category.archetype.component]]
//	    archetype = "Acoustic-Optic Modulator"
//	    position = [100, 200]
//	    params = { label = "AOM" }
//	    [[category.archetype.edge]]
//	    source = 0
//	    target = 1
//	    style = "wide"
type catalogFile struct {
	Categories []categoryFile `toml:"category"`
}

type categoryFile struct {
	Name       string          `toml:"name"`
	Archetypes []archetypeFile `toml:"archetype"`
}

type archetypeFile struct {
	Name       string            `toml:"name"`
	Markup     string            `toml:"markup"`
	Params     map[string]string `toml:"params"`
	Components []componentFile   `toml:"component"`
	Edges      []edgeFile        `toml:"edge"`
}

type componentFile struct {
	Archetype string            `toml:"archetype"`
	Position  []any             `toml:"position"`
	Params    map[string]string `toml:"params"`
}

type edgeFile struct {
	Source int    `toml:"source"`
	Target int    `toml:"target"`
	Style  string `toml:"style"`
}

// LoadTOML decodes catalog extension categories from r. The result is
// meant to be passed to [Extend]; name uniqueness is checked there.
func LoadTOML(r io.Reader) ([]Category, error) {
	var f catalogFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	out := make([]Category, 0, len(f.Categories))
	for _, cf := range f.Categories {
		cat := Category{Name: cf.Name}
		for _, af := range cf.Archetypes {
			a, err := af.archetype()
			if err != nil {
				return nil, fmt.Errorf("archetype %q: %w", af.Name, err)
			}
			cat.Archetypes = append(cat.Archetypes, a)
		}
		out = append(out, cat)
	}
	return out, nil
}

// LoadTOMLFile reads catalog extension categories from path.
func LoadTOMLFile(path string) ([]Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return LoadTOML(f)
}

func (af archetypeFile) archetype() (Archetype, error) {
	a := Archetype{
		Name:     af.Name,
		Markup:   af.Markup,
		Defaults: Params(af.Params).Clone(),
	}
	if len(af.Components) == 0 {
		if a.Markup == "" {
			return a, fmt.Errorf("markup is required for non-setup archetypes")
		}
		return a, nil
	}

	s := &Setup{}
	for i, cf := range af.Components {
		p, err := point(cf.Position)
		if err != nil {
			return a, fmt.Errorf("component %d: %w", i, err)
		}
		s.Components = append(s.Components, SubComponent{
			Archetype: cf.Archetype,
			Position:  p,
			Params:    Params(cf.Params).Clone(),
		})
	}
	for _, ef := range af.Edges {
		style := ef.Style
		if style == "" {
			style = StyleWide
		}
		s.Edges = append(s.Edges, SetupEdge{Source: ef.Source, Target: ef.Target, Style: style})
	}
	a.Setup = s
	return a, nil
}

func point(raw []any) (Point, error) {
	if len(raw) == 0 {
		return Point{}, nil
	}
	if len(raw) != 2 {
		return Point{}, fmt.Errorf("position must be [x, y], got %d values", len(raw))
	}
	var xy [2]float64
	for i, v := range raw {
		switch n := v.(type) {
		case int64:
			xy[i] = float64(n)
		case float64:
			xy[i] = n
		default:
			return Point{}, fmt.Errorf("position value %v is not a number", v)
		}
	}
	return Point{X: xy[0], Y: xy[1]}, nil
}
