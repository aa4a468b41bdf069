package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	artistStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0A0A0"))
	albumStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F"))
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858")).Faint(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	progressFilled = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	progressEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("#585858")).Faint(true)
)

func (m Model) View() string {
	width := m.width
	height := m.height
	if width == 0 {
		width = 80
	}
	if height == 0 {
		height = 24
	}

	if m.quitting {
		return ""
	}

	if m.display.Track == nil {
		return m.renderWaitingScreen(width, height)
	}

	return m.renderMainScreen(width, height)
}

func (m Model) renderWaitingScreen(width int, height int) string {
	var lines []string

	for y := 0; y < height; y++ {
		centerY := height / 2

		if y == centerY-1 {
			waitText := "awaiting music"
			lines = append(lines, centerText(dimStyle.Italic(true).Render(waitText), len(waitText), width))
		} else if y == centerY {
			pulseChars := []string{"·", "•", "●", "•"}
			pulseIdx := (m.tickCount / 4) % len(pulseChars)
			lines = append(lines, centerText(contextStyle.Render(pulseChars[pulseIdx]), 1, width))
		} else {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderMainScreen(width int, height int) string {
	var lines []string

	headerHeight := 0

	if !m.hideHeader {
		headerLines := m.renderHeader(width)
		lines = append(lines, headerLines...)
		headerHeight = len(headerLines)
	}

	lyricsHeight := height - headerHeight

	switch {
	case m.err != nil:
		lines = append(lines, m.renderCenteredNotice(errStyle.Render(m.err.Error()), len(m.err.Error()), lyricsHeight, width)...)
	case m.display.Instrumental:
		lines = append(lines, m.renderCenteredNotice(dimStyle.Render("[instrumental]"), 14, lyricsHeight, width)...)
	case m.loadingLyrics:
		lines = append(lines, m.renderLoading(lyricsHeight, width)...)
	case m.syncLyrics && !m.display.Timeline.Empty():
		lines = append(lines, m.renderWindowedLyrics(lyricsHeight, width)...)
	default:
		lines = append(lines, m.renderStaticLyrics(lyricsHeight, width)...)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderHeader(width int) []string {
	trk := m.display.Track
	if trk == nil {
		return nil
	}

	var lines []string
	lines = append(lines, "")

	maxWidth := width - 6
	if maxWidth < 20 {
		maxWidth = 20
	}

	lines = append(lines, "  "+titleStyle.Render(truncate(trk.Title, maxWidth)))
	lines = append(lines, "  "+artistStyle.Render(truncate(trk.Artist, maxWidth)))
	if trk.Album != "" {
		lines = append(lines, "  "+albumStyle.Render(truncate(trk.Album, maxWidth)))
	}

	lines = append(lines, "")

	if trk.DurationMS > 0 {
		lines = append(lines, m.renderProgress(width))
	}

	if m.userOffsetMS != 0 {
		offset := fmt.Sprintf("sync %+d ms", m.userOffsetMS)
		lines = append(lines, "  "+dimStyle.Render(offset))
	}

	lines = append(lines, "")

	return lines
}

func (m Model) renderProgress(width int) string {
	trk := m.display.Track

	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}

	progress := float64(m.positionMS) / float64(trk.DurationMS)
	if progress > 1.0 {
		progress = 1.0
	}
	if progress < 0 {
		progress = 0
	}

	filledWidth := int(float64(barWidth) * progress)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		if i < filledWidth {
			bar.WriteString(progressFilled.Render("━"))
		} else if i == filledWidth {
			bar.WriteString(progressFilled.Render("●"))
		} else {
			bar.WriteString(progressEmpty.Render("─"))
		}
	}

	return fmt.Sprintf("  %s  %s  %s",
		dimStyle.Render(formatClock(m.positionMS)),
		bar.String(),
		dimStyle.Render(formatClock(trk.DurationMS)))
}

// renderWindowedLyrics shows the selected window, vertically centered.
// The line being sung is the last one stamped before the adjusted
// position; the synthetic header keeps the title style.
func (m Model) renderWindowedLyrics(height int, width int) []string {
	window := m.display.Window

	if len(window) == 0 {
		return m.renderCenteredNotice(dimStyle.Render("♪"), 1, height, width)
	}

	adjusted := m.positionMS + m.userOffsetMS
	activeIdx := -1
	for i := range window {
		if window[i].TimestampMS < adjusted {
			activeIdx = i
		}
	}

	spacing := 1
	blockHeight := len(window) + (len(window)-1)*spacing
	topPad := (height - blockHeight) / 2
	if topPad < 0 {
		topPad = 0
	}

	lines := make([]string, 0, height)
	for i := 0; i < topPad; i++ {
		lines = append(lines, "")
	}

	for i, line := range window {
		text := line.Text
		if text == "" {
			text = "···"
		}

		var rendered string
		switch {
		case line.TimestampMS < 0 && i == 0 && text == m.display.Timeline.Title:
			rendered = titleStyle.Render(text)
		case i == activeIdx:
			rendered = activeStyle.Render(text)
		default:
			rendered = contextStyle.Render(text)
		}

		lines = append(lines, centerText(rendered, len([]rune(text)), width))

		if i < len(window)-1 {
			for s := 0; s < spacing; s++ {
				lines = append(lines, "")
			}
		}
	}

	return lines
}

// renderStaticLyrics is the gate-off path: the full text, no timing.
func (m Model) renderStaticLyrics(height int, width int) []string {
	var raw []string

	if !m.display.Timeline.Empty() {
		for _, line := range m.display.Timeline.Lines[1:] {
			raw = append(raw, line.Text)
		}
	} else if m.display.PlainLyrics != "" {
		raw = strings.Split(m.display.PlainLyrics, "\n")
	}

	if len(raw) == 0 {
		return m.renderCenteredNotice(dimStyle.Render("no lyrics"), 9, height, width)
	}

	lines := make([]string, 0, height)
	for _, text := range raw {
		if len(lines) >= height {
			break
		}
		lines = append(lines, "  "+contextStyle.Render(truncate(text, width-4)))
	}

	return lines
}

func (m Model) renderLoading(height int, width int) []string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	idx := m.tickCount % len(frames)
	msg := contextStyle.Render(frames[idx]) + dimStyle.Render(" loading")
	return m.renderCenteredNotice(msg, 10, height, width)
}

func (m Model) renderCenteredNotice(rendered string, visualWidth int, height int, width int) []string {
	lines := make([]string, 0, height)
	for i := 0; i < height/2-1; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, centerText(rendered, visualWidth, width))
	return lines
}

func centerText(text string, visualWidth int, screenWidth int) string {
	padding := (screenWidth - visualWidth) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + text
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func formatClock(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSecs := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSecs/60, totalSecs%60)
}
