package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DivergenceItem is one differing sampled-frame position between two videos
type DivergenceItem struct {
	Index    int
	Distance int
}

// DivergenceModel is the TUI model for reviewing frame divergences between
// two compared videos
type DivergenceModel struct {
	// Data
	sourceA     string
	sourceB     string
	items       []DivergenceItem
	totalFrames int
	hashBits    int // bits per frame hash, for rendering the distance scale

	// Export callback; writes the report somewhere and returns its path
	export func() (string, error)

	// UI state
	cursor   int
	width    int
	height   int
	showHelp bool

	// Interaction state
	lastExport *ExportCompleteMsg

	// Control state
	quitting bool
}

// NewDivergenceModel creates a new divergence review TUI model
func NewDivergenceModel(sourceA, sourceB string, items []DivergenceItem, totalFrames, hashBits int, export func() (string, error)) DivergenceModel {
	return DivergenceModel{
		sourceA:     sourceA,
		sourceB:     sourceB,
		items:       items,
		totalFrames: totalFrames,
		hashBits:    hashBits,
		export:      export,
		showHelp:    true,
	}
}

// Init implements tea.Model
func (m DivergenceModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m DivergenceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ExportCompleteMsg:
		result := msg
		m.lastExport = &result
	}

	return m, nil
}

func (m DivergenceModel) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "s": // save the report
		if m.export != nil {
			return m, m.runExport()
		}
	}

	return m, nil
}

func (m DivergenceModel) runExport() tea.Cmd {
	return func() tea.Msg {
		path, err := m.export()
		if err != nil {
			return ExportCompleteMsg{Success: false, Error: err}
		}
		return ExportCompleteMsg{Path: path, Success: true}
	}
}

// View implements tea.Model
func (m DivergenceModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content strings.Builder

	header := fmt.Sprintf("Frame Divergence Review — %d of %d frames differ", len(m.items), m.totalFrames)
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n\n")

	content.WriteString(InfoStyle.Render(fmt.Sprintf("A: %s", m.sourceA)))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("B: %s", m.sourceB)))
	content.WriteString("\n\n")

	if len(m.items) == 0 {
		content.WriteString(SuccessStyle.Render("✅ No diverging frames — videos match at every sampled position"))
		content.WriteString("\n")
	} else {
		content.WriteString(m.renderItems())
	}
	content.WriteString("\n")

	if m.lastExport != nil {
		if m.lastExport.Success {
			content.WriteString(SuccessStyle.Render(fmt.Sprintf("Report saved to %s", m.lastExport.Path)))
		} else {
			content.WriteString(ErrorStyle.Render(fmt.Sprintf("Export failed: %v", m.lastExport.Error)))
		}
		content.WriteString("\n\n")
	}

	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString("Press 'h' for help")
	}

	return content.String()
}

func (m DivergenceModel) renderItems() string {
	var content strings.Builder

	for i, item := range m.items {
		line := fmt.Sprintf("frame %2d  distance %2d/%d  %s",
			item.Index, item.Distance, m.hashBits, distanceBar(item.Distance, m.hashBits))

		if i == m.cursor {
			content.WriteString(lipgloss.NewStyle().Reverse(true).Render(line))
		} else if item.Distance*4 > m.hashBits {
			content.WriteString(ErrorStyle.Render(line))
		} else {
			content.WriteString(line)
		}
		content.WriteString("\n")
	}

	return content.String()
}

// distanceBar renders a crude 16-cell severity bar for a bit distance
func distanceBar(distance, max int) string {
	if max <= 0 {
		return ""
	}
	filled := distance * 16 / max
	return strings.Repeat("█", filled) + strings.Repeat("░", 16-filled)
}

func (m DivergenceModel) renderHelp() string {
	help := []string{
		"",
		"Navigation:",
		"  ↑/↓ or j/k   Move between diverging frames",
		"",
		"Actions:",
		"  s            Save the divergence report to disk",
		"  h/?          Toggle this help",
		"  q            Quit",
		"",
	}

	return strings.Join(help, "\n")
}
