package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpeakerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	PreviewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

func styleOutput(statuses []string) string {
	if len(statuses) == 0 {
		return ""
	}
	var styled []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styled = append(styled, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styled, "\n") + "\n"
}
