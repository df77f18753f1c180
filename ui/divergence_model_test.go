package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel() DivergenceModel {
	items := []DivergenceItem{
		{Index: 2, Distance: 5},
		{Index: 7, Distance: 40},
	}
	export := func() (string, error) { return "report.json", nil }
	return NewDivergenceModel("a.mp4", "b.mp4", items, 10, 64, export)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewDivergenceModel(t *testing.T) {
	m := testModel()

	if m.sourceA != "a.mp4" || m.sourceB != "b.mp4" {
		t.Errorf("sources = %q/%q, expected a.mp4/b.mp4", m.sourceA, m.sourceB)
	}
	if len(m.items) != 2 {
		t.Errorf("items = %d, expected 2", len(m.items))
	}
	if m.totalFrames != 10 || m.hashBits != 64 {
		t.Errorf("totalFrames/hashBits = %d/%d, expected 10/64", m.totalFrames, m.hashBits)
	}
	if !m.showHelp {
		t.Error("help should be shown initially")
	}
	if m.Init() != nil {
		t.Error("Init() should return no command")
	}
}

func TestDivergenceModelNavigation(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(key("j"))
	m = updated.(DivergenceModel)
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, expected 1", m.cursor)
	}

	// Cursor cannot move past the last item
	updated, _ = m.Update(key("j"))
	m = updated.(DivergenceModel)
	if m.cursor != 1 {
		t.Errorf("cursor after second j = %d, expected 1", m.cursor)
	}

	updated, _ = m.Update(key("k"))
	m = updated.(DivergenceModel)
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, expected 0", m.cursor)
	}

	// Cursor cannot move before the first item
	updated, _ = m.Update(key("k"))
	m = updated.(DivergenceModel)
	if m.cursor != 0 {
		t.Errorf("cursor after second k = %d, expected 0", m.cursor)
	}
}

func TestDivergenceModelQuit(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(key("q"))
	m = updated.(DivergenceModel)
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if !strings.Contains(m.View(), "Goodbye") {
		t.Error("quitting view should say goodbye")
	}
}

func TestDivergenceModelHelpToggle(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(key("h"))
	m = updated.(DivergenceModel)
	if m.showHelp {
		t.Error("h should hide the help")
	}
	if !strings.Contains(m.View(), "Press 'h' for help") {
		t.Error("hidden help should leave a hint in the view")
	}
}

func TestDivergenceModelExport(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(key("s"))
	m = updated.(DivergenceModel)
	if cmd == nil {
		t.Fatal("s should trigger the export command")
	}

	msg := cmd()
	result, ok := msg.(ExportCompleteMsg)
	if !ok {
		t.Fatalf("export command returned %T, expected ExportCompleteMsg", msg)
	}
	if !result.Success || result.Path != "report.json" {
		t.Errorf("export result = %+v, expected success with report.json", result)
	}

	updated, _ = m.Update(result)
	m = updated.(DivergenceModel)
	if !strings.Contains(m.View(), "report.json") {
		t.Error("view should show the saved report path")
	}
}

func TestDivergenceModelExportFailure(t *testing.T) {
	items := []DivergenceItem{{Index: 0, Distance: 1}}
	m := NewDivergenceModel("a.mp4", "b.mp4", items, 10, 64, func() (string, error) {
		return "", errors.New("disk full")
	})

	_, cmd := m.Update(key("s"))
	if cmd == nil {
		t.Fatal("s should trigger the export command")
	}

	result, ok := cmd().(ExportCompleteMsg)
	if !ok || result.Success {
		t.Fatalf("export result = %+v, expected failure", result)
	}

	updated, _ := m.Update(result)
	m = updated.(DivergenceModel)
	if !strings.Contains(m.View(), "disk full") {
		t.Error("view should show the export error")
	}
}

func TestDivergenceModelViewContents(t *testing.T) {
	view := testModel().View()

	for _, want := range []string{"a.mp4", "b.mp4", "2 of 10 frames differ", "frame  2", "frame  7"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDistanceBar(t *testing.T) {
	if got := distanceBar(0, 64); got != strings.Repeat("░", 16) {
		t.Errorf("distanceBar(0, 64) = %q, expected empty bar", got)
	}
	if got := distanceBar(64, 64); got != strings.Repeat("█", 16) {
		t.Errorf("distanceBar(64, 64) = %q, expected full bar", got)
	}
	if got := distanceBar(1, 0); got != "" {
		t.Errorf("distanceBar with zero max = %q, expected empty string", got)
	}
}
