package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles builds the style set for a lipgloss renderer.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("245")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Key:     lr.NewStyle().Foreground(lipgloss.Color("220")),
	}
}
