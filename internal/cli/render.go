package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/compiler"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/render/sketch"
	"github.com/matzehuels/benchdraw/pkg/render/topology"
)

// Preview types.
const (
	previewTopology = "topology"
	previewSketch   = "sketch"
)

// renderCommand draws a preview without a TeX toolchain.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		kind     string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a quick preview (topology SVG or canvas sketch PNG)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			d, err := c.loadDiagram(ctx)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			var data []byte
			var ext string
			switch kind {
			case previewTopology:
				data, err = topology.RenderSVG(ctx, topology.ToDOT(d, topology.Options{Detailed: detailed}))
				ext = ".svg"
			case previewSketch:
				data, err = sketch.RenderPNG(d, sketch.Options{})
				ext = ".png"
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown preview type %q (must be one of: topology, sketch)", kind)
			}
			if err != nil {
				return err
			}
			prog.done("rendered " + kind + " preview")

			if output == "" {
				output = siblingPath(c.diagramPath(), "."+kind+ext)
			}
			if err := compiler.WriteArtifact(output, data); err != nil {
				return err
			}
			printSuccess("Rendered %s preview", kind)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&kind, "type", "t", previewTopology, "preview type: topology or sketch")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show archetypes and parameters in topology nodes")

	return cmd
}
