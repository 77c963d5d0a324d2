package commands

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#bababa"))
)

// formTheme is the huh theme used by interactive commands
func formTheme() *huh.Theme {
	theme := huh.ThemeBase16()
	theme.FieldSeparator = lipgloss.NewStyle().SetString("\n").MarginBottom(1)
	theme.Form.Base = theme.Form.Base.MarginTop(1)
	theme.Focused.Title = theme.Focused.Title.Foreground(lipgloss.Color("#f9ca24"))
	theme.Blurred.Title = theme.Blurred.Title.Foreground(lipgloss.Color("#bababa"))
	return theme
}

// resultField is a label-value pair for printResult
type resultField struct {
	Label string
	Value string
}

// printResult prints a styled summary with checkmarks and gray labels
func printResult(out Output, fields []resultField, successMsg string) {
	check := successStyle.Render("✓")

	out.Println()
	for _, f := range fields {
		out.Printf("%s %s %s\n", check, labelStyle.Render(f.Label+":"), f.Value)
	}

	if successMsg != "" {
		out.Println(successStyle.Render(successMsg))
	}
}

func printFailure(out Output, err error) {
	out.Printf("%s %s\n", failureStyle.Render("✗"), err)
}
