package cli

import "github.com/charmbracelet/lipgloss"

type theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	OK       lipgloss.Style
	Fail     lipgloss.Style
	Planned  lipgloss.Style
	Card     lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		OK:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Fail:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Planned:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

func (t theme) status(label string, failed bool) string {
	if failed {
		return t.Fail.Render(label)
	}
	return t.OK.Render(label)
}
