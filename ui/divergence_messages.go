package ui

// TUI message types for frame divergence review

type ExportCompleteMsg struct {
	Path    string
	Success bool
	Error   error
}
