package cli

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
	"github.com/matzehuels/benchdraw/pkg/setup"
)

// newCommand creates an empty diagram file.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create an empty diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			path := c.diagramPath()
			if c.config().Store.Backend == backendFile && !force {
				if _, err := os.Stat(path); err == nil {
					return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
				}
			}

			d := diagram.New(name)
			if err := c.saveDiagram(cmd.Context(), d); err != nil {
				return err
			}
			printSuccess("Created %s", StyleHighlight.Render(d.Name))
			printFile(path)
			printNextStep("Add a component", appName+" add --pick")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing diagram")

	return cmd
}

// addCommand adds an archetype or expands a setup.
func (c *CLI) addCommand() *cobra.Command {
	var pick bool
	var x, y float64

	cmd := &cobra.Command{
		Use:   "add [archetype]",
		Short: "Add a component or complex setup to the diagram",
		Long: `Add a component to the end of the diagram. Complex setups such as
"Michelson Interferometer" are expanded into their sub-components.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: c.completeArchetypes,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			name := ""
			if len(args) == 1 {
				name = args[0]
			} else if pick {
				if name, err = pickArchetype(cat); err != nil {
					return err
				}
				if name == "" {
					printInfo("Nothing selected")
					return nil
				}
			} else {
				return errors.New(errors.ErrCodeInvalidInput, "name an archetype or use --pick")
			}

			var partial error
			d, err := c.editDiagram(cmd.Context(), func(d *diagram.Diagram) error {
				if cat.IsSetup(name) {
					res, err := setup.Apply(d, cat, name)
					if err != nil {
						return err
					}
					partial = res.Err()
					printSuccess("Added setup %s (%d components)", StyleHighlight.Render(name), len(res.Components))
					return nil
				}
				i, err := d.AddArchetype(cat, name, diagram.Position{X: x, Y: y})
				if err != nil {
					return err
				}
				printSuccess("Added %s at index %d", StyleHighlight.Render(name), i)
				return nil
			})
			if err != nil {
				return err
			}
			if partial != nil {
				printWarning("%s", errors.UserMessage(partial))
			}
			printStats(d)
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose the archetype interactively")
	cmd.Flags().Float64Var(&x, "x", 0, "canvas x position in pixels")
	cmd.Flags().Float64Var(&y, "y", 0, "canvas y position in pixels")

	return cmd
}

// removeCommand deletes a component by index.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove the component at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			var removed string
			d, err := c.editDiagram(cmd.Context(), func(d *diagram.Diagram) error {
				if i >= 0 && i < d.Len() {
					removed = d.Components[i].Name
				}
				return d.Remove(i)
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %s", removed)
			printStats(d)
			return nil
		},
	}
}

// moveCommand reorders a component.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a component to another position in the beam order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			to, err := parseIndex(args[1])
			if err != nil {
				return err
			}
			if _, err := c.editDiagram(cmd.Context(), func(d *diagram.Diagram) error {
				return d.Move(from, to)
			}); err != nil {
				return err
			}
			printSuccess("Moved component %d to %d", from, to)
			return nil
		},
	}
}

// setCommand edits a parameter or the position of a component.
func (c *CLI) setCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <index> <key> <value>",
		Short: "Set a component parameter (use key x or y to move it on the canvas)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			key, value := args[1], args[2]

			if _, err := c.editDiagram(cmd.Context(), func(d *diagram.Diagram) error {
				if key != "x" && key != "y" {
					return d.SetParam(i, key, value)
				}
				v, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number", key)
				}
				if i < 0 || i >= d.Len() {
					return errors.New(errors.ErrCodeInvalidInput, "index %d out of range [0, %d)", i, d.Len())
				}
				pos := d.Components[i].Position
				if key == "x" {
					pos.X = v
				} else {
					pos.Y = v
				}
				return d.SetPosition(i, pos)
			}); err != nil {
				return err
			}
			printSuccess("Set %s = %s on component %d", key, value, i)
			return nil
		},
	}
}

// clearCommand removes every component.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all components from the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if _, err := c.editDiagram(cmd.Context(), func(d *diagram.Diagram) error {
				n = d.Len()
				d.Clear()
				return nil
			}); err != nil {
				return err
			}
			if n == 0 {
				printInfo("Diagram was already empty")
				return nil
			}
			printSuccess("Cleared %d components", n)
			return nil
		},
	}
}

// showCommand prints the diagram's components.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the components of the diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.loadDiagram(cmd.Context())
			if err != nil {
				return err
			}

			printKeyValue("Diagram", d.Name)
			printKeyValue("File", c.diagramPath())
			printNewline()
			if d.Len() == 0 {
				printInfo("No components")
				return nil
			}
			for i, comp := range d.Components {
				printComponent(cmd.OutOrStdout(), i, comp)
			}
			printStats(d)
			return nil
		},
	}
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "index must be an integer, got %q", s)
	}
	return i, nil
}

// completeArchetypes offers catalog names for shell completion.
func (c *CLI) completeArchetypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cat, err := c.loadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, a := range cat.All() {
		if strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(toComplete)) {
			names = append(names, a.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
