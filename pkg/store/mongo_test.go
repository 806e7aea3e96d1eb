package store

import (
	"testing"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
)

func TestDocConversion(t *testing.T) {
	d := diagram.New("Bench A")
	d.Add(diagram.Component{
		Name:     "Lens",
		Markup:   `\lens[lensradius=1]`,
		Params:   catalog.Params{"label": "L1", "focal_length": "50"},
		Position: diagram.Position{X: 12.5, Y: -3},
	})
	d.Add(diagram.Component{Name: "Mirror"})

	doc := toDoc(d, "bench-a")
	if doc.Key != "bench-a" || doc.Name != "Bench A" || len(doc.Components) != 2 {
		t.Fatalf("toDoc() = %+v", doc)
	}
	if doc.Components[1].Params == nil {
		t.Error("nil params stored as null")
	}

	back := fromDoc(doc)
	if back.Name != d.Name || back.Len() != 2 {
		t.Fatalf("fromDoc() = %+v", back)
	}
	got := back.Components[0]
	if got.Name != "Lens" || got.Markup != `\lens[lensradius=1]` || got.Position != (diagram.Position{X: 12.5, Y: -3}) {
		t.Errorf("component 0 = %+v", got)
	}
	if got.Params["focal_length"] != "50" {
		t.Errorf("params = %v", got.Params)
	}
}

func TestFromDocDefaults(t *testing.T) {
	d := fromDoc(diagramDoc{Components: []componentDoc{{Name: "Lens"}}})
	if d.Name != diagram.DefaultName {
		t.Errorf("Name = %q, want %q", d.Name, diagram.DefaultName)
	}
	if d.Components[0].Position != (diagram.Position{}) {
		t.Errorf("Position = %v, want origin for malformed position", d.Components[0].Position)
	}
}

func TestDocConversionEdges(t *testing.T) {
	d := diagram.New("Bench")
	d.AppendSetup([]diagram.Component{
		{Name: "Beam Splitter", Params: catalog.Params{"label": "BS"}},
		{Name: "Mirror", Params: catalog.Params{"label": "M"}},
	}, []diagram.Edge{{Source: 0, Target: 1, Style: catalog.StyleNarrow}})

	doc := toDoc(d, "bench")
	if len(doc.Edges) != 1 || doc.Edges[0] != (edgeDoc{Source: 0, Target: 1, Style: "narrow"}) {
		t.Fatalf("toDoc() edges = %+v", doc.Edges)
	}

	doc.Edges = append(doc.Edges, edgeDoc{Source: 1, Target: 5})
	back := fromDoc(doc)
	if len(back.Edges) != 1 || back.Edges[0] != (diagram.Edge{Source: 0, Target: 1, Style: "narrow"}) {
		t.Errorf("fromDoc() edges = %+v, want the in-range edge only", back.Edges)
	}
}
