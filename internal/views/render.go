package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Transcript string
	TaskPane   string
	Input      string
	StatusLine string
	IsError    bool
	Help       string
	Footer     string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
)

func RenderApp(data AppData) string {
	left := panelStyle.Render(data.Transcript)
	right := panelStyle.Render(data.TaskPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		panelStyle.Render(data.Input),
	}
	if data.StatusLine != "" {
		status := statusStyle.Render(data.StatusLine)
		if data.IsError {
			status = errorStyle.Render(data.StatusLine)
		}
		lines = append(lines, status)
	}
	if data.Help != "" {
		lines = append(lines, panelStyle.Render(data.Help))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderUserLine marks a line typed by the user in the transcript.
func RenderUserLine(line string) string {
	return userStyle.Render("you> ") + line
}

func RenderReply(text string, isError bool) string {
	if isError {
		return errorStyle.Render(text)
	}
	return text
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
