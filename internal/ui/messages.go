package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderWidth is the width of the header divider.
const HeaderWidth = 44

// RenderHeader renders the branded banner shown before interactive flows.
func RenderHeader(version string) string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder
	output.WriteString(titleStyle.Render("docsync"))
	if version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(version))
	}
	output.WriteString("\n")
	output.WriteString(dividerStyle.Render(strings.Repeat("─", HeaderWidth)))
	output.WriteString("\n")
	return output.String()
}

// RenderSuccess formats a success line with a checkmark.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().Foreground(ColorSuccess)
	return fmt.Sprintf("%s %s\n", style.Render(SymbolSuccess), message)
}

// RenderError formats a failure line with a cross.
func RenderError(message string) string {
	style := lipgloss.NewStyle().Foreground(ColorError)
	return fmt.Sprintf("%s %s\n", style.Render(SymbolFail), message)
}

// RenderWarning formats a warning line.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().Foreground(ColorWarning)
	return fmt.Sprintf("%s %s\n", style.Render(SymbolSkipped), message)
}

// RenderDetail formats secondary information, indented under a status line.
func RenderDetail(message string) string {
	style := lipgloss.NewStyle().Foreground(ColorMuted)
	var output strings.Builder
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		output.WriteString("  ")
		output.WriteString(style.Render(line))
		output.WriteString("\n")
	}
	return output.String()
}
