package setup

import (
	"strings"
	"testing"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

func TestExpandBuiltins(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name       string
		components int
		edges      int
	}{
		{"Michelson Interferometer", 5, 4},
		{"Mach-Zehnder Interferometer", 6, 6},
		{"Fabry-Perot Cavity", 4, 3},
		{"Ring Cavity", 6, 6},
		{"Fiber Optic Link", 5, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Expand(cat, tt.name)
			if err != nil {
				t.Fatalf("Expand() error: %v", err)
			}
			if res.Partial() {
				t.Errorf("Expand() skipped %v", res.Skipped)
			}
			if err := res.Err(); err != nil {
				t.Errorf("Err() = %v, want nil", err)
			}
			if len(res.Components) != tt.components {
				t.Errorf("components = %d, want %d", len(res.Components), tt.components)
			}
			if len(res.Edges) != tt.edges {
				t.Errorf("edges = %d, want %d", len(res.Edges), tt.edges)
			}
		})
	}
}

func TestExpandOverridesParams(t *testing.T) {
	res, err := Expand(catalog.Default(), "Michelson Interferometer")
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}

	m2 := res.Components[3]
	if m2.Name != "Mirror" || m2.Params["label"] != "M2" {
		t.Errorf("component 3 = %s/%s, want Mirror/M2", m2.Name, m2.Params["label"])
	}
	if m2.Params["angle"] != "45" {
		t.Errorf("angle = %q, want archetype default 45", m2.Params["angle"])
	}
	if m2.Position != (diagram.Position{X: 250, Y: 350}) {
		t.Errorf("position = %v", m2.Position)
	}
	if m2.Markup != `\mirror[mirrortype=extended]` {
		t.Errorf("markup = %q", m2.Markup)
	}
}

func TestExpandNotFound(t *testing.T) {
	cat := catalog.Default()

	for _, name := range []string{"Sagnac Loop", "Lens"} {
		_, err := Expand(cat, name)
		if !errors.Is(err, errors.ErrCodeSetupNotFound) {
			t.Errorf("Expand(%q) error = %v, want SETUP_NOT_FOUND", name, err)
		}
	}
}

func TestExpandPartial(t *testing.T) {
	cat, err := catalog.New(
		catalog.Category{Name: "Parts", Archetypes: []catalog.Archetype{
			{Name: "Laser Source", Markup: `\optbox`, Defaults: catalog.Params{"label": "Laser"}},
			{Name: "Mirror", Markup: `\mirror`, Defaults: catalog.Params{"label": "M"}},
		}},
		catalog.Category{Name: "Setups", Archetypes: []catalog.Archetype{{
			Name: "Folded",
			Setup: &catalog.Setup{
				Components: []catalog.SubComponent{
					{Archetype: "Laser Source"},
					{Archetype: "Phase Conjugator"},
					{Archetype: "Mirror"},
					{Archetype: "Mirror"},
				},
				Edges: []catalog.SetupEdge{
					{Source: 0, Target: 1}, {Source: 1, Target: 2},
					{Source: 2, Target: 3, Style: catalog.StyleNarrow}, {Source: 0, Target: 3},
				},
			},
		}}},
	)
	if err != nil {
		t.Fatalf("catalog.New() error: %v", err)
	}

	res, err := Expand(cat, "Folded")
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}

	if len(res.Components) != 3 {
		t.Errorf("components = %d, want 3", len(res.Components))
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != (Skipped{Index: 1, Archetype: "Phase Conjugator"}) {
		t.Errorf("Skipped = %v", res.Skipped)
	}

	want := []diagram.Edge{
		{Source: 1, Target: 2, Style: catalog.StyleNarrow},
		{Source: 0, Target: 2, Style: catalog.StyleWide},
	}
	if len(res.Edges) != len(want) {
		t.Fatalf("edges = %v, want %v", res.Edges, want)
	}
	for i := range want {
		if res.Edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, res.Edges[i], want[i])
		}
	}

	perr := res.Err()
	if !errors.Is(perr, errors.ErrCodeSetupPartial) {
		t.Fatalf("Err() = %v, want SETUP_PARTIAL", perr)
	}
	if !strings.Contains(perr.Error(), "Phase Conjugator") {
		t.Errorf("Err() = %q, want skipped name", perr)
	}
	if !errors.Recoverable(perr) {
		t.Error("partial expansion error is not recoverable")
	}
}

func TestApplyAppends(t *testing.T) {
	cat := catalog.Default()
	d := diagram.New("")
	if _, err := d.AddArchetype(cat, "Lens", diagram.Position{}); err != nil {
		t.Fatal(err)
	}

	res, err := Apply(d, cat, "Fabry-Perot Cavity")
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if d.Len() != 1+len(res.Components) {
		t.Fatalf("Len() = %d, want %d", d.Len(), 1+len(res.Components))
	}
	if d.Components[1].Name != "Laser Source" || d.Components[4].Name != "Detector" {
		t.Errorf("appended order = %s..%s", d.Components[1].Name, d.Components[4].Name)
	}
	if want := (diagram.Edge{Source: 2, Target: 3, Style: catalog.StyleResizable}); d.Edges[1] != want {
		t.Errorf("edge 1 = %v, want %v", d.Edges[1], want)
	}

	// applying twice yields independent params
	if _, err := Apply(d, cat, "Fabry-Perot Cavity"); err != nil {
		t.Fatal(err)
	}
	d.Components[2].Params["label"] = "changed"
	if d.Components[6].Params["label"] != "M1" {
		t.Errorf("second expansion label = %q, want M1", d.Components[6].Params["label"])
	}
}
