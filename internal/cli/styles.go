package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/rubikscube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// stickerStyles paints facelets with their cube color.
var stickerStyles = map[rubikscube.Color]lipgloss.Style{
	rubikscube.White:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
	rubikscube.Yellow: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
	rubikscube.Green:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
	rubikscube.Blue:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27")),
	rubikscube.Red:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	rubikscube.Orange: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
}

func paintSticker(c rubikscube.Color, s string) string {
	if st, ok := stickerStyles[c]; ok {
		return st.Render(s)
	}
	return s
}

// renderNet returns the facelet net, colored when color is set.
func renderNet(c *rubikscube.Cube, color bool) string {
	if !color {
		return c.String()
	}
	return c.FaceletCube().Format(paintSticker)
}
