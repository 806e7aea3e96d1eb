package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/benchdraw/pkg/catalog"
)

func typeKeys(m PickerModel, s string) PickerModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(PickerModel)
	}
	return m
}

func press(m PickerModel, k tea.KeyType) (PickerModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(PickerModel), cmd
}

func TestPickerFilterAndSelect(t *testing.T) {
	m := NewPickerModel(catalog.Default())
	if len(m.Items) != catalog.Default().Len() {
		t.Fatalf("picker lists %d items, want %d", len(m.Items), catalog.Default().Len())
	}

	m = typeKeys(m, "michelson")
	if got := m.visible(); len(got) != 1 || got[0].Archetype.Name != "Michelson Interferometer" {
		t.Fatalf("visible() = %v", got)
	}

	m, cmd := press(m, tea.KeyEnter)
	if m.Selected == nil || m.Selected.Name != "Michelson Interferometer" {
		t.Errorf("Selected = %v", m.Selected)
	}
	if cmd == nil {
		t.Error("selecting should quit the program")
	}
}

func TestPickerCursorBounds(t *testing.T) {
	m := NewPickerModel(catalog.Default())
	m.Height = 3

	m, _ = press(m, tea.KeyUp)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after moving up from the top", m.Cursor)
	}
	for range 5 {
		m, _ = press(m, tea.KeyDown)
	}
	if m.Cursor != 5 || m.Offset != 3 {
		t.Errorf("Cursor, Offset = %d, %d; want 5, 3", m.Cursor, m.Offset)
	}
}

func TestPickerBackspaceAndNoMatch(t *testing.T) {
	m := typeKeys(NewPickerModel(catalog.Default()), "zzz")
	if len(m.visible()) != 0 {
		t.Fatal("filter zzz matched something")
	}
	if !strings.Contains(m.View(), "no matches") {
		t.Error("View() lacks the empty notice")
	}
	m, _ = press(m, tea.KeyEnter)
	if m.Selected != nil {
		t.Error("enter with no matches selected something")
	}

	for range 3 {
		m, _ = press(m, tea.KeyBackspace)
	}
	if m.Filter != "" || len(m.visible()) != len(m.Items) {
		t.Errorf("Filter = %q after clearing", m.Filter)
	}
}

func TestPickerQuit(t *testing.T) {
	m, cmd := press(NewPickerModel(catalog.Default()), tea.KeyEsc)
	if m.Selected != nil || cmd == nil {
		t.Error("esc should quit without selecting")
	}
}
