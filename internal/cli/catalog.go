package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/benchdraw/pkg/catalog"
)

// catalogCommand creates the catalog listing command.
func (c *CLI) catalogCommand() *cobra.Command {
	var category string
	var setupsOnly bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the component archetypes that can be added",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := c.loadCatalog()
			if err != nil {
				return err
			}

			shown := 0
			for _, cg := range cat.Categories() {
				if category != "" && !strings.EqualFold(cg.Name, category) {
					continue
				}
				var rows []catalog.Archetype
				for _, a := range cg.Archetypes {
					if setupsOnly && !a.IsSetup() {
						continue
					}
					rows = append(rows, a)
				}
				if len(rows) == 0 {
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(cg.Name))
				fmt.Fprintln(cmd.OutOrStdout(), renderArchetypeTable(rows))
				shown += len(rows)
			}

			if shown == 0 {
				printWarning("No archetypes match")
				return nil
			}
			printDetail("%d archetypes", shown)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list this category")
	cmd.Flags().BoolVar(&setupsOnly, "setups", false, "only list complex setups")

	return cmd
}

func renderArchetypeTable(as []catalog.Archetype) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)

	rows := make([][]string, len(as))
	for i, a := range as {
		markup := a.Markup
		if a.IsSetup() {
			markup = fmt.Sprintf("setup (%d components)", len(a.Setup.Components))
		}
		rows[i] = []string{a.Name, markup, formatParams(a.Defaults)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("Name", "Markup", "Defaults").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorAccent)
			}
			return lipgloss.NewStyle().Foreground(colorLabel)
		})
	return t.Render()
}

// formatParams renders params as sorted key=value pairs.
func formatParams(p catalog.Params) string {
	parts := make([]string, 0, len(p))
	for _, k := range slices.Sorted(maps.Keys(p)) {
		parts = append(parts, k+"="+p[k])
	}
	return strings.Join(parts, ", ")
}
