package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chronos/internal/view"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateMiddle(subtitle, width-2)
	rows := []string{HeaderStyle.Render(title)}
	if subtitle != "" {
		rows = append(rows, renderMuted(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(label, inputView string, focused bool, contentWidth int) string {
	borderColor := MutedColor
	if focused {
		borderColor = AccentColor
	}
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(contentWidth + 2).
		Render(inputView)
	return lipgloss.JoinVertical(lipgloss.Left, renderMuted(label), frame)
}

// renderButton draws the search trigger. A busy button shows the spinner
// and cannot be focused into action.
func renderButton(label string, focused, busy bool, spin string) string {
	switch {
	case busy:
		return ButtonBusyStyle.Render(spin + " " + label)
	case focused:
		return ButtonFocusedStyle.Render("› " + label)
	default:
		return ButtonStyle.Render(label)
	}
}

func renderStatsBar(s view.Summary) string {
	sep := SeparatorStyle.Render(" • ")
	return StatsStyle.Render("Scanned ") + StatsValueStyle.Render(s.Scanned) +
		StatsStyle.Render(" events") + sep +
		StatsStyle.Render("took ") + StatsValueStyle.Render(s.Duration) + sep +
		StatsValueStyle.Render(s.Matches) + StatsStyle.Render(" matches")
}

// renderColumnHeaders draws the result table's header line on its own, for
// when the body is a single spanning row.
func renderColumnHeaders(cols []table.Column) string {
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, lipgloss.NewStyle().
			Width(c.Width).
			MaxWidth(c.Width).
			Inline(true).
			Padding(0, 1).
			Foreground(SecondaryColor).
			Bold(true).
			Render(truncateEnd(c.Title, c.Width)))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return lipgloss.JoinVertical(lipgloss.Left, header, renderSeparator(lipgloss.Width(header)))
}

// renderSpanRow draws a row that covers every result column.
func renderSpanRow(row view.Row, width int) string {
	style := InfoRowStyle
	switch row.Kind {
	case view.RowPlaceholder:
		style = PlaceholderStyle
	case view.RowError:
		style = ErrorMessageStyle
	}
	return style.Width(width).Align(lipgloss.Center).Render(row.Text())
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// renderMuted renders text in muted color (utility wrapper).
func renderMuted(text string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(text)
}

// renderHelp renders help/instructional text consistently.
func renderHelp(text string) string {
	return HelpStyle.Render(text)
}

func renderSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}
