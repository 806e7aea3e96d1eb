// Package compiler runs an external TeX engine over generated documents.
//
// The engine is a collaborator outside the core: it is blocking, it honours
// context cancellation and [TeX.Timeout], and it is never retried. Engine
// diagnostics are returned verbatim inside COMPILER_FAILURE errors so the
// user sees exactly what the toolchain reported.
//
// Requires a TeX distribution with pst-optexp (xelatex by default), and
// poppler's pdftoppm for PNG output.
package compiler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/benchdraw/pkg/errors"
)

// Defaults used when TeX fields are zero.
const (
	DefaultEngine     = "xelatex"
	DefaultRasterizer = "pdftoppm"
	DefaultTimeout    = 2 * time.Minute
	DefaultDPI        = 150
)

// Engine compiles a document to PDF.
type Engine interface {
	Compile(ctx context.Context, doc string) (*Result, error)
}

// Result is a successful compilation.
type Result struct {
	Job      string // unique job name used for the run
	PDF      []byte
	Log      string // engine stdout
	Duration time.Duration
}

// TeX invokes a LaTeX engine binary. The zero value uses xelatex with
// [DefaultTimeout].
type TeX struct {
	Engine     string
	Rasterizer string
	Timeout    time.Duration
}

var _ Engine = (*TeX)(nil)

func (t *TeX) engine() string {
	if t.Engine == "" {
		return DefaultEngine
	}
	return t.Engine
}

func (t *TeX) rasterizer() string {
	if t.Rasterizer == "" {
		return DefaultRasterizer
	}
	return t.Rasterizer
}

func (t *TeX) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

// Compile typesets doc in a scratch directory and returns the PDF bytes.
func (t *TeX) Compile(ctx context.Context, doc string) (*Result, error) {
	engine := t.engine()
	if _, err := exec.LookPath(engine); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerMissing, err,
			"%s not found; install a TeX distribution with pst-optexp (e.g. TeX Live)", engine)
	}

	dir, err := os.MkdirTemp("", "benchdraw-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	job := "diagram-" + uuid.NewString()
	src := filepath.Join(dir, job+".tex")
	if err := os.WriteFile(src, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", src, err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, engine,
		"-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", dir, "-jobname", job, src)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrap(errors.ErrCodeCompilerFailure, ctx.Err(), "%s timed out after %s", engine, t.timeout())
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s: %s", engine, diagnostics(&errBuf, &out))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, job+".pdf"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s produced no PDF: %s", engine, diagnostics(&errBuf, &out))
	}

	return &Result{Job: job, PDF: pdf, Log: out.String(), Duration: time.Since(start)}, nil
}

// ToPNG rasterizes the first page of pdf at dpi using pdftoppm.
func (t *TeX) ToPNG(ctx context.Context, pdf []byte, dpi int) ([]byte, error) {
	tool := t.rasterizer()
	if _, err := exec.LookPath(tool); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerMissing, err,
			"PNG export requires %s. Install with:\n  macOS:  brew install poppler\n  Linux:  apt install poppler-utils", tool)
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	dir, err := os.MkdirTemp("", "benchdraw-png-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "in.pdf")
	if err := os.WriteFile(in, pdf, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", in, err)
	}
	prefix := filepath.Join(dir, "out")

	ctx, cancel := context.WithTimeout(ctx, t.timeout())
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, "-png", "-r", strconv.Itoa(dpi), "-singlefile", in, prefix)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s: %s", tool, diagnostics(&errBuf, &out))
	}

	png, err := os.ReadFile(prefix + ".png")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompilerFailure, err, "%s produced no image", tool)
	}
	return png, nil
}

// WriteArtifact writes compiled output to a local path chosen by the
// user, creating parent directories as needed. Relative paths may leave
// the working directory.
func WriteArtifact(path string, data []byte) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "output path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// diagnostics prefers stderr; TeX engines usually report on stdout.
func diagnostics(stderr, stdout *bytes.Buffer) string {
	if s := strings.TrimSpace(stderr.String()); s != "" {
		return s
	}
	if s := strings.TrimSpace(stdout.String()); s != "" {
		return s
	}
	return "no diagnostics"
}
