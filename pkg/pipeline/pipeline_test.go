package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/benchdraw/pkg/cache"
	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/setup"
)

// fakeTeX counts invocations and returns canned artifacts.
type fakeTeX struct {
	compiles int
	converts int
	err      error
}

func (f *fakeTeX) Compile(ctx context.Context, doc string) (*compiler.Result, error) {
	f.compiles++
	if f.err != nil {
		return nil, f.err
	}
	return &compiler.Result{Job: "diagram-test", PDF: []byte("%PDF " + fmt.Sprint(len(doc)))}, nil
}

func (f *fakeTeX) ToPNG(ctx context.Context, pdf []byte, dpi int) ([]byte, error) {
	f.converts++
	return []byte(fmt.Sprintf("PNG@%d", dpi)), nil
}

func newTestRunner(t *testing.T, tex *fakeTeX) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, fc, nil)
	r.Typesetter = tex
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"pdf", false},
		{"png", false},
		{"svg", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var o Options
	if err := o.SetDefaults(); err != nil {
		t.Fatalf("SetDefaults() error: %v", err)
	}
	if o.Format != FormatPDF || o.DPI != DefaultDPI || o.Logger == nil {
		t.Errorf("SetDefaults() = %+v", o)
	}

	bad := Options{DPI: -1}
	if err := bad.SetDefaults(); err == nil {
		t.Error("negative DPI accepted")
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	if r.Catalog == nil || r.Typesetter == nil || r.Cache == nil || r.Logger == nil {
		t.Errorf("NewRunner() left nil fields: %+v", r)
	}
	if r.Engine != compiler.DefaultEngine {
		t.Errorf("Engine = %q, want %q", r.Engine, compiler.DefaultEngine)
	}

	r = NewRunner(nil, &compiler.TeX{Engine: "lualatex"}, nil, nil)
	if r.Engine != "lualatex" {
		t.Errorf("Engine = %q, want lualatex", r.Engine)
	}
}

func TestGenerateAndApply(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, &fakeTeX{})

	d := diagram.New("")
	if _, err := setup.Apply(d, r.Catalog, "Michelson Interferometer"); err != nil {
		t.Fatal(err)
	}
	doc, err := r.Generate(ctx, d)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	edited := strings.Replace(doc, "{M1}", "{Reference}", 1)
	target := diagram.New("target")
	n, err := r.Apply(ctx, target, edited)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if n != d.Len() || target.Len() != d.Len() {
		t.Fatalf("Apply() = %d components, diagram has %d, want %d", n, target.Len(), d.Len())
	}

	found := false
	for _, c := range target.Components {
		if l, _ := c.Label(); l == "Reference" {
			found = true
		}
	}
	if !found {
		t.Error("edited label did not reach the diagram")
	}
}

func TestApplyFailureKeepsDiagram(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, &fakeTeX{})

	d := diagram.New("")
	d.AddArchetype(r.Catalog, "Lens", diagram.Position{X: 10, Y: 10})
	d.AddArchetype(r.Catalog, "Mirror", diagram.Position{X: 60, Y: 10})

	_, err := r.Apply(ctx, d, "not a document")
	if !errors.Is(err, errors.ErrCodeParseFailure) {
		t.Fatalf("Apply() error = %v, want PARSE_FAILURE", err)
	}
	if d.Len() != 2 {
		t.Errorf("diagram has %d components after failed apply, want 2", d.Len())
	}
}

func TestApplyPlaceholderClears(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t, &fakeTeX{})

	empty, err := r.Generate(ctx, diagram.New(""))
	if err != nil {
		t.Fatal(err)
	}
	d := diagram.New("")
	d.AddArchetype(r.Catalog, "Lens", diagram.Position{})

	n, err := r.Apply(ctx, d, empty)
	if err != nil {
		t.Fatalf("Apply(placeholder) error: %v", err)
	}
	if n != 0 || d.Len() != 0 {
		t.Errorf("Apply(placeholder) left %d components", d.Len())
	}
}

func TestExportCaching(t *testing.T) {
	ctx := context.Background()
	tex := &fakeTeX{}
	r := newTestRunner(t, tex)

	first, err := r.Export(ctx, "doc", Options{Format: FormatPDF})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first export reported a cache hit")
	}

	second, err := r.Export(ctx, "doc", Options{Format: FormatPDF})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if !second.CacheHit || string(second.Artifact) != string(first.Artifact) {
		t.Errorf("second export = %+v, want cached artifact", second)
	}
	if tex.compiles != 1 {
		t.Errorf("compiles = %d, want 1", tex.compiles)
	}

	if _, err := r.Export(ctx, "doc", Options{Format: FormatPDF, NoCache: true}); err != nil {
		t.Fatal(err)
	}
	if tex.compiles != 2 {
		t.Errorf("compiles = %d after NoCache export, want 2", tex.compiles)
	}
}

func TestExportPNG(t *testing.T) {
	ctx := context.Background()
	tex := &fakeTeX{}
	r := newTestRunner(t, tex)

	res, err := r.Export(ctx, "doc", Options{Format: FormatPNG, DPI: 300})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if string(res.Artifact) != "PNG@300" {
		t.Errorf("Artifact = %q", res.Artifact)
	}

	// A different DPI is a different artifact.
	res, err = r.Export(ctx, "doc", Options{Format: FormatPNG, DPI: 72})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit || string(res.Artifact) != "PNG@72" {
		t.Errorf("Export(dpi=72) = %+v", res)
	}
	if tex.converts != 2 {
		t.Errorf("converts = %d, want 2", tex.converts)
	}
}

func TestExportFailureNotCached(t *testing.T) {
	ctx := context.Background()
	tex := &fakeTeX{err: errors.New(errors.ErrCodeCompilerFailure, "! Undefined control sequence.")}
	r := newTestRunner(t, tex)

	for range 2 {
		_, err := r.Export(ctx, "doc", Options{})
		if !errors.Is(err, errors.ErrCodeCompilerFailure) {
			t.Fatalf("Export() error = %v, want COMPILER_FAILURE", err)
		}
	}
	if tex.compiles != 2 {
		t.Errorf("compiles = %d, want failures to reach the engine every time", tex.compiles)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	r := newTestRunner(t, &fakeTeX{})
	_, err := r.Export(context.Background(), "doc", Options{Format: "svg"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Export(svg) error = %v, want INVALID_INPUT", err)
	}
}

func TestExportDiagramMissingLabel(t *testing.T) {
	tex := &fakeTeX{}
	r := newTestRunner(t, tex)

	d := diagram.New("")
	d.Add(diagram.Component{Name: "Lens", Params: catalog.Params{}})
	_, err := r.ExportDiagram(context.Background(), d, Options{})
	if !errors.Is(err, errors.ErrCodeMissingParam) {
		t.Fatalf("ExportDiagram() error = %v, want MISSING_PARAM", err)
	}
	if tex.compiles != 0 {
		t.Error("engine invoked for an invalid diagram")
	}
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	tex := &fakeTeX{}
	r := newTestRunner(t, tex)

	if _, err := r.Export(ctx, "doc", Options{}); err != nil {
		t.Fatal(err)
	}
	if err := r.ClearCache(ctx); err != nil {
		t.Fatalf("ClearCache() error: %v", err)
	}
	res, err := r.Export(ctx, "doc", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("export after ClearCache hit the cache")
	}
}
