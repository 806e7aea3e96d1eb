package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/pipeline"
)

// exportCommand compiles the diagram (or an edited document) to PDF/PNG.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		format  string
		texFile string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Compile the diagram to PDF or PNG with a TeX engine",
		Long: `Compile the diagram's document with a TeX engine (xelatex by default).
With --tex, the given (possibly hand-edited) document is compiled instead of
a freshly generated one. Compiled artifacts are cached by document content.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := pipeline.ValidateFormat(format); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "--format")
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			var doc string
			if texFile != "" {
				if doc, err = readInput(cmd.InOrStdin(), texFile); err != nil {
					return err
				}
			} else {
				d, err := c.loadDiagram(ctx)
				if err != nil {
					return err
				}
				if doc, err = runner.Generate(ctx, d); err != nil {
					return err
				}
			}

			if output == "" {
				base := c.diagramPath()
				if texFile != "" && texFile != "-" {
					base = texFile
				}
				output = siblingPath(base, "."+format)
			}

			spinner := newSpinner(ctx, fmt.Sprintf("Compiling with %s...", runner.Engine))
			spinner.Start()
			start := time.Now()
			res, err := runner.Export(ctx, doc, pipeline.Options{
				Format:  format,
				DPI:     c.config().DPI,
				NoCache: noCache,
			})
			if err != nil {
				spinner.StopWithError("Compilation failed")
				if errors.Is(err, errors.ErrCodeCompilerFailure) {
					printDetail("%s", errors.UserMessage(err))
				}
				return err
			}
			spinner.Stop()

			if err := compiler.WriteArtifact(output, res.Artifact); err != nil {
				return err
			}
			printSuccess("Exported %s (%s)", format, time.Since(start).Round(time.Millisecond))
			printFile(output)
			if res.CacheHit {
				printDetail("served from the artifact cache")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: diagram file with the format's extension)")
	cmd.Flags().StringVar(&format, "format", pipeline.DefaultFormat, "output format: pdf or png")
	cmd.Flags().StringVar(&texFile, "tex", "", "compile this document instead of generating one (- for stdin)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the artifact cache")
	cmd.Flags().String("engine", "", "TeX engine binary (default xelatex)")
	cmd.Flags().Duration("timeout", 0, "compile timeout")
	cmd.Flags().Int("dpi", 0, "PNG resolution")
	cmd.Flags().String("cache-backend", "", "artifact cache: file, redis or none")
	cmd.Flags().String("cache-dir", "", "file cache directory")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis cache")

	return cmd
}
