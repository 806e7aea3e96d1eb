package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/render"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal: names, titles, spinner
	colorOK      = lipgloss.Color("35")  // green
	colorWarn    = lipgloss.Color("220") // amber
	colorFail    = lipgloss.Color("167") // soft red
	colorCommand = lipgloss.Color("75")  // light blue
	colorValue   = lipgloss.Color("255")
	colorLabel   = lipgloss.Color("245")
	colorMuted   = lipgloss.Color("240")
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle renders catalog category headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders diagram, archetype and label names.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim renders positions, params and other secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	// StyleValue renders component names and paths.
	StyleValue = lipgloss.NewStyle().Foreground(colorValue)

	// StyleNumber renders component indices.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorLabel)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleKey     = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + styleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written artifact.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Diagram Output
// =============================================================================

// printComponent writes one row of the component listing: index, name,
// label and canvas position, followed by the remaining params.
func printComponent(w io.Writer, i int, c diagram.Component) {
	label, _ := c.Label()
	fmt.Fprintf(w, "%s %s %s %s\n",
		StyleNumber.Render(fmt.Sprintf("%3d", i)),
		StyleValue.Render(c.Name),
		StyleHighlight.Render(label),
		StyleDim.Render(fmt.Sprintf("(%g, %g)", c.Position.X, c.Position.Y)))
	if params := formatParams(c.Params); params != "" {
		printDetail("%s", params)
	}
}

// printStats prints the component and beam counts of d on a single line.
// Beams are the paths previews draw: declared setup edges, or the chain of
// consecutive components when none are declared.
func printStats(d *diagram.Diagram) {
	fmt.Println(statsLine(d))
}

func statsLine(d *diagram.Diagram) string {
	sep := StyleDim.Render(" · ")
	parts := []string{StyleDim.Render(fmt.Sprintf("%d components", d.Len()))}

	paths := render.Paths(d)
	if len(paths) == 0 {
		return "  " + strings.Join(parts, sep)
	}
	source := "chained"
	if len(d.Edges) > 0 {
		source = "declared"
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s beams", len(paths), source)))

	counts := make(map[string]int)
	for _, p := range paths {
		counts[p.Style]++
	}
	for _, style := range []string{catalog.StyleWide, catalog.StyleNarrow, catalog.StyleResizable} {
		if n := counts[style]; n > 0 {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(render.BeamColor(style)))
			parts = append(parts, swatch.Render(fmt.Sprintf("%d %s", n, style)))
		}
	}
	return "  " + strings.Join(parts, sep)
}
