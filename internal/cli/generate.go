package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

// generateCommand writes the LaTeX document for the diagram.
func (c *CLI) generateCommand() *cobra.Command {
	var output string
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the pst-optexp document for the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadDiagram(ctx)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			doc, err := runner.Generate(ctx, d)
			if err != nil {
				return err
			}

			if copyOut {
				if err := clipboard.WriteAll(doc); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				printSuccess("Copied document to clipboard")
			}

			switch {
			case output != "":
				if err := compiler.WriteArtifact(output, []byte(doc)); err != nil {
					return err
				}
				printSuccess("Generated %d components", d.Len())
				printFile(output)
			case !copyOut:
				fmt.Fprintln(cmd.OutOrStdout(), doc)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .tex file (default: stdout)")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "copy the document to the clipboard")

	return cmd
}

// applyCommand parses an edited document back into the diagram.
func (c *CLI) applyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file.tex|->",
		Short: "Replace the diagram with the components of an edited document",
		Long: `Parse a document produced by "generate" (possibly edited by hand) and
replace the diagram's components with the result. Use - to read stdin.
The diagram is left untouched when the document cannot be parsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			var n int
			d, err := c.editDiagram(ctx, func(d *diagram.Diagram) error {
				var applyErr error
				n, applyErr = runner.Apply(ctx, d, text)
				return applyErr
			})
			if err != nil {
				if errors.Is(err, errors.ErrCodeParseFailure) {
					printError("Nothing applied: %s", errors.UserMessage(err))
				}
				return err
			}
			printSuccess("Applied %d components", n)
			printStats(d)
			return nil
		},
	}
}

// readInput reads a file, or r when path is "-".
func readInput(r io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
