package diagram

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

func TestJSONRoundTrip(t *testing.T) {
	d := New("Bench A")
	d.Add(Component{
		Name:     "Laser Source",
		Markup:   `\optbox[position=start, innerlabel, optboxwidth=1.2]`,
		Params:   catalog.Params{"label": "Laser", "wavelength": "1064"},
		Position: Position{X: 100, Y: 200},
	})
	d.AppendSetup([]Component{{Name: "Mirror", Params: catalog.Params{"label": "M"}}}, nil)

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"position": [`) {
		t.Errorf("position not encoded as array:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `"latex"`) {
		t.Errorf("markup not encoded under latex key:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if got.Name != "Bench A" || got.Len() != 2 {
		t.Fatalf("ReadJSON() = %q with %d components", got.Name, got.Len())
	}
	c := got.Components[0]
	if c.Position != (Position{X: 100, Y: 200}) {
		t.Errorf("position = %v", c.Position)
	}
	if c.Params["wavelength"] != "1064" || c.Markup != d.Components[0].Markup {
		t.Errorf("component = %+v", c)
	}
}

func TestReadJSONDefaults(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if d.Name != DefaultName {
		t.Errorf("Name = %q, want %q", d.Name, DefaultName)
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"components": [`))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadJSON(malformed) error = %v, want INVALID_FORMAT", err)
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.json")

	d := New("Bench")
	d.Add(Component{Name: "Lens", Params: catalog.Params{"label": "L1"}, Position: Position{X: 50, Y: 75}})

	if err := Save(d, ""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Save(no path) error = %v, want INVALID_PATH", err)
	}
	if err := Save(d, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if d.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", d.SourcePath, path)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.SourcePath != path || got.Components[0].Params["label"] != "L1" {
		t.Errorf("Load() = %+v", got)
	}

	got.Components[0].Params["label"] = "L2"
	if err := Save(got, ""); err != nil {
		t.Fatalf("Save(source path) error: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"L2"`) {
		t.Errorf("saved file missing updated label:\n%s", data)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "d.json")

	var s Store = FileStore{}
	if err := s.Save(ctx, New("Stored"), path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	d, err := s.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if d.Name != "Stored" {
		t.Errorf("Name = %q", d.Name)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Load(cancelled, path); err == nil {
		t.Error("Load() with cancelled context succeeded")
	}
}

func TestJSONRoundTripEdges(t *testing.T) {
	d := New("Interferometer")
	d.Add(Component{Name: "Laser Source", Params: catalog.Params{"label": "S"}})
	d.AppendSetup([]Component{
		{Name: "Beam Splitter", Params: catalog.Params{"label": "BS"}},
		{Name: "Mirror", Params: catalog.Params{"label": "M1"}},
		{Name: "Mirror", Params: catalog.Params{"label": "M2"}},
	}, []Edge{
		{Source: 0, Target: 1, Style: catalog.StyleWide},
		{Source: 0, Target: 2, Style: catalog.StyleNarrow},
	})

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	want := []Edge{{Source: 1, Target: 2, Style: "wide"}, {Source: 1, Target: 3, Style: "narrow"}}
	if len(got.Edges) != len(want) {
		t.Fatalf("Edges = %v, want %v", got.Edges, want)
	}
	for i := range want {
		if got.Edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, got.Edges[i], want[i])
		}
	}
}

func TestWriteJSONOmitsEmptyEdges(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(New("Bench"), &buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), `"edges"`) {
		t.Errorf("edges key written for a diagram without edges:\n%s", buf.String())
	}
}

func TestReadJSONRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"label with line break", `{"components":[{"name":"Lens","params":{"label":"L\nx"}}]}`, errors.ErrCodeInvalidInput},
		{"unbalanced label", `{"components":[{"name":"Lens","params":{"label":"{L"}}]}`, errors.ErrCodeInvalidInput},
		{"empty component name", `{"components":[{"name":"","params":{"label":"L"}}]}`, errors.ErrCodeInvalidInput},
		{"control character in name", `{"components":[{"name":"Le\u0007ns","params":{"label":"L"}}]}`, errors.ErrCodeInvalidInput},
		{"blank diagram name", `{"name":"   ","components":[]}`, errors.ErrCodeInvalidInput},
		{"edge out of range", `{"components":[{"name":"Lens","params":{"label":"L"}}],"edges":[{"source":0,"target":1}]}`, errors.ErrCodeInvalidFormat},
		{"negative edge", `{"components":[{"name":"Lens","params":{"label":"L"}}],"edges":[{"source":-1,"target":0}]}`, errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestReadJSONAllowsMissingLabel(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(`{"components":[{"name":"Lens","params":{}}]}`))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if _, ok := d.Components[0].Label(); ok {
		t.Error("label invented for a component without one")
	}
}
