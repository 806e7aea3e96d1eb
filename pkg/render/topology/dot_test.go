package topology

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/setup"
)

func TestToDOTChain(t *testing.T) {
	d := diagram.New("Bench")
	d.Add(diagram.Component{Name: "Laser Source", Params: catalog.Params{"label": "Laser"}})
	d.Add(diagram.Component{Name: "Lens", Params: catalog.Params{"label": "L1", "focal_length": "50"}})
	d.Add(diagram.Component{Name: "Detector", Params: catalog.Params{"label": "Det"}})

	dot := ToDOT(d, Options{})
	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`label="Bench";`,
		`n0 [label="Laser"`,
		`n1 [label="L1"`,
		"n0 -> n1",
		"n1 -> n2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "focal_length") {
		t.Error("params shown without Detailed")
	}
}

func TestToDOTDetailed(t *testing.T) {
	d := diagram.New("")
	d.Add(diagram.Component{Name: "Lens", Params: catalog.Params{"label": "L1", "focal_length": "50"}})

	dot := ToDOT(d, Options{Detailed: true})
	if !strings.Contains(dot, `label="L1\nLens\nfocal_length: 50"`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTSetupEdges(t *testing.T) {
	d := diagram.New("")
	if _, err := setup.Apply(d, catalog.Default(), "Michelson Interferometer"); err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(d, Options{})
	for _, want := range []string{"n1 -> n2", "n1 -> n3", "n1 -> n4"} {
		if !strings.Contains(dot, want) {
			t.Errorf("missing setup edge %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n2 -> n3") {
		t.Error("chain edges drawn although setup edges exist")
	}
	if !strings.Contains(dot, "shape=diamond") {
		t.Error("splitter not drawn as a diamond")
	}
}

func TestToDOTFallbackLabel(t *testing.T) {
	d := diagram.New("")
	d.Add(diagram.Component{Name: "Mirror"})

	if dot := ToDOT(d, Options{}); !strings.Contains(dot, `n0 [label="Mirror"`) {
		t.Errorf("unlabelled component should use its name:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="x"><g/></svg>`)
	got := string(normalizeViewBox(in))
	if !strings.Contains(got, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", got)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox changed")
	}
}

func TestRenderSVG(t *testing.T) {
	d := diagram.New("")
	d.Add(diagram.Component{Name: "Laser Source", Params: catalog.Params{"label": "Laser"}})
	d.Add(diagram.Component{Name: "Detector", Params: catalog.Params{"label": "Det"}})

	svg, err := RenderSVG(context.Background(), ToDOT(d, Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Laser") {
		t.Errorf("RenderSVG() output lacks expected content")
	}
}
