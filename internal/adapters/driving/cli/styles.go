package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/almalister/internal/core/domain"
)

// Palette used for command output. Colours are dropped automatically
// when output is not a terminal.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

// outputStyles holds the styles used by the commands.
type outputStyles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newOutputStyles() *outputStyles {
	return &outputStyles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		Muted:   lipgloss.NewStyle().Foreground(colourMuted),
		Success: lipgloss.NewStyle().Foreground(colourSuccess),
		Warning: lipgloss.NewStyle().Foreground(colourWarning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colourError),
	}
}

var styles = newOutputStyles()

// status renders a variant status padded to a fixed width with its colour.
func (s *outputStyles) status(status domain.VariantStatus) string {
	text := fmt.Sprintf("%-9s", status)
	switch status {
	case domain.VariantSucceeded:
		return s.Success.Render(text)
	case domain.VariantAbandoned:
		return s.Warning.Render(text)
	default:
		return s.Error.Render(text)
	}
}
