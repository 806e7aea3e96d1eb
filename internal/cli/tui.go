package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/benchdraw/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorValue)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// =============================================================================
// PickerModel - Interactive archetype selection
// =============================================================================

// pickerItem is one selectable archetype with its category.
type pickerItem struct {
	Category  string
	Archetype catalog.Archetype
}

// PickerModel is the bubbletea model for picking an archetype. Typing
// filters the list by name.
type PickerModel struct {
	Items    []pickerItem
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *catalog.Archetype
}

// NewPickerModel lists every archetype of cat in category order.
func NewPickerModel(cat *catalog.Catalog) PickerModel {
	var items []pickerItem
	for _, cg := range cat.Categories() {
		for _, a := range cg.Archetypes {
			items = append(items, pickerItem{Category: cg.Name, Archetype: a})
		}
	}
	return PickerModel{Items: items, Height: 15}
}

// visible returns the items matching the filter.
func (m PickerModel) visible() []pickerItem {
	if m.Filter == "" {
		return m.Items
	}
	f := strings.ToLower(m.Filter)
	var out []pickerItem
	for _, it := range m.Items {
		if strings.Contains(strings.ToLower(it.Archetype.Name), f) {
			out = append(out, it)
		}
	}
	return out
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1)
		case tea.KeyDown:
			m.moveCursor(1)
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyEnter:
			items := m.visible()
			if len(items) == 0 {
				return m, nil
			}
			a := items[m.Cursor].Archetype
			m.Selected = &a
			return m, tea.Quit
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m *PickerModel) moveCursor(delta int) {
	n := len(m.visible())
	if n == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), n-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m PickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Add Component"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(listHeaderStyle.Render("filter: ") + StyleValue.Render(m.Filter))
	b.WriteString("\n\n")

	items := m.visible()
	end := min(m.Offset+m.Height, len(items))
	lastCategory := ""
	for i := m.Offset; i < end; i++ {
		it := items[i]
		if it.Category != lastCategory {
			b.WriteString(listHeaderStyle.Render(it.Category))
			b.WriteString("\n")
			lastCategory = it.Category
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		kind := ""
		if it.Archetype.IsSetup() {
			kind = listDimStyle.Render(" (setup)")
		}
		line := cursor + it.Archetype.Name
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line) + kind)
		} else {
			b.WriteString(listNormalStyle.Render(line) + kind)
		}
		b.WriteString("\n")
	}

	if len(items) == 0 {
		b.WriteString(listDimStyle.Render("  no matches"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(items)), len(items))))

	return b.String()
}

// pickArchetype runs the picker and returns the chosen archetype name, or
// "" when the user quit without choosing.
func pickArchetype(cat *catalog.Catalog) (string, error) {
	final, err := tea.NewProgram(NewPickerModel(cat)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	m := final.(PickerModel)
	if m.Selected == nil {
		return "", nil
	}
	return m.Selected.Name, nil
}
