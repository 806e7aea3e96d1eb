// Package pipeline orchestrates benchdraw's generate → compile flow.
//
// This package wires the pure core (catalog, diagram, document) to the
// external collaborators (TeX engine, artifact cache) and emits logging and
// observability events around each step. The CLI and the HTTP shell both
// go through a [Runner] so they share caching and error semantics.
//
// # Usage
//
//	runner := pipeline.NewRunner(cat, &compiler.TeX{}, cache, logger)
//	doc, err := runner.Generate(ctx, d)
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Export(ctx, doc, pipeline.Options{Format: pipeline.FormatPNG})
//
// [Runner.Apply] parses an edited document back into a diagram. It never
// replaces a populated diagram when the document cannot be parsed.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/benchdraw/pkg/compiler"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is the default export format.
	DefaultFormat = FormatPDF

	// DefaultDPI is the default PNG resolution.
	DefaultDPI = compiler.DefaultDPI

	// TTLArtifact is how long compiled artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Format constants for export formats.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatPDF: true,
	FormatPNG: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one export.
type Options struct {
	Format  string `json:"format,omitempty"`
	DPI     int    `json:"dpi,omitempty"`
	NoCache bool   `json:"no_cache,omitempty"`

	// Logger overrides the runner's logger for this call.
	Logger *log.Logger `json:"-"`
}

// Typesetter is the external toolchain used for export. [compiler.TeX]
// implements it.
type Typesetter interface {
	Compile(ctx context.Context, doc string) (*compiler.Result, error)
	ToPNG(ctx context.Context, pdf []byte, dpi int) ([]byte, error)
}

// Result is the outcome of an export.
type Result struct {
	Format   string
	Artifact []byte
	CacheHit bool
	Stats    Stats
}

// Stats contains export timing.
type Stats struct {
	CompileTime time.Duration
	ConvertTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: pdf, png)", format)
	}
	return nil
}

// SetDefaults fills zero fields and validates the result.
func (o *Options) SetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return fmt.Errorf("invalid dpi: %d", o.DPI)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormat(o.Format)
}
