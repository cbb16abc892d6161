package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/dash-runner/internal/core"
)

// colorStyles maps core.Color roles to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:   lipgloss.NewStyle(),
	core.ColorTrack:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorSolid:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorBreakable: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorRunner:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorDash:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorDeath:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorHUD:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y, h := 0, s.Height(); y < h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			// Collect consecutive cells with same color
			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			// Apply style to the run
			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

var (
	cueStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerHelp  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderFooter draws the status line: the latest cue, the speed readout and
// the short key help, truncated to width.
func renderFooter(cues *Cues, h help.Model, keys KeyMap, width int) string {
	left := cues.Status()
	if cue := cues.Text(); cue != "" {
		left = cueStyle.Render(cue) + "  " + statusStyle.Render(left)
	} else {
		left = statusStyle.Render(left)
	}

	h.Width = max(width-lipgloss.Width(left)-2, 0)
	line := left + "  " + footerHelp.Render(h.View(keys))
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// drawCountdown draws the seconds left before the run starts.
func drawCountdown(s *core.Screen, secs int) {
	text := fmt.Sprintf("  %d  ", secs)
	w := len(text) + 2
	x := (s.Width() - w) / 2
	y := (s.Height() - 3) / 2
	s.DrawBox(core.NewRect(x, y, w, 3))
	s.DrawTextColored(x+1, y+1, text, core.ColorHUD)
}
