package ui

import (
	"github.com/charmbracelet/lipgloss"

	"ura-xlaw/internal/domain"
)

var (
	brandPrimary = lipgloss.Color("#1F4E79")
	brandAccent  = lipgloss.Color("#2E7D32")
	brandWarning = lipgloss.Color("#ED6C02")
	brandError   = lipgloss.Color("#C62828")
	textMuted    = lipgloss.Color("#8A8F98")

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	headerStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)
)

// StatusBadge renders the validity label of a document. Unknown status has
// no badge.
func StatusBadge(status domain.DocumentStatus) string {
	label := status.Label()
	if label == "" {
		return ""
	}

	color := brandAccent
	switch status {
	case domain.StatusPartiallyExpired:
		color = brandWarning
	case domain.StatusExpired:
		color = brandError
	}
	return badgeStyle.Background(color).Render(label)
}
