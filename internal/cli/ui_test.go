package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/setup"
)

func TestStatsLine(t *testing.T) {
	michelson := diagram.New("")
	if _, err := setup.Apply(michelson, catalog.Default(), "Michelson Interferometer"); err != nil {
		t.Fatal(err)
	}
	chain := diagram.New("")
	for _, name := range []string{"Laser Source", "Lens", "Detector"} {
		chain.Add(diagram.Component{Name: name, Params: catalog.Params{"label": name}})
	}
	single := diagram.New("")
	single.Add(diagram.Component{Name: "Lens", Params: catalog.Params{"label": "L"}})

	tests := []struct {
		name    string
		d       *diagram.Diagram
		want    []string
		notWant string
	}{
		{"declared edges", michelson, []string{"5 components", "4 declared beams", "4 wide"}, "chained"},
		{"chained", chain, []string{"3 components", "2 chained beams", "2 wide"}, "declared"},
		{"no beams", single, []string{"1 components"}, "beams"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := statsLine(tt.d)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("statsLine() = %q, missing %q", got, want)
				}
			}
			if strings.Contains(got, tt.notWant) {
				t.Errorf("statsLine() = %q, should not mention %q", got, tt.notWant)
			}
		})
	}
}

func TestPrintComponent(t *testing.T) {
	var buf bytes.Buffer
	printComponent(&buf, 2, diagram.Component{
		Name:     "Mirror",
		Params:   catalog.Params{"label": "M1"},
		Position: diagram.Position{X: 12.5, Y: -3},
	})
	got := buf.String()
	for _, want := range []string{"  2", "Mirror", "M1", "(12.5, -3)"} {
		if !strings.Contains(got, want) {
			t.Errorf("printComponent() = %q, missing %q", got, want)
		}
	}
}
