package executors

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yurifrl/budgetu/pkg/format"
	"github.com/yurifrl/budgetu/pkg/report"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	tileStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	overStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	groupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// Preview renders the summary tiles and grouped sums of a model for the
// terminal.
func Preview(m *report.Model, locale format.Locale) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Title))
	b.WriteString("\n")

	lines := m.SummaryLines()
	tiles := make([]string, 0, len(lines))
	for _, l := range lines {
		text := locale.Currency(l.Value)
		if l.Percent {
			text = locale.Percent(l.Value)
		}
		style := valueStyle
		if l.Value.IsNegative() {
			style = overStyle
		}
		tiles = append(tiles, tileStyle.Render(labelStyle.Render(l.Label)+"\n"+style.Render(text)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n")

	width := len(report.LabelCategory)
	for _, g := range m.Groups {
		if len(g.Key) > width {
			width = len(g.Key)
		}
	}
	for _, g := range m.Groups {
		line := fmt.Sprintf("%-*s | %5d | %s", width, g.Key, g.Rows, locale.Currency(g.Actual))
		b.WriteString(groupStyle.Render("  " + line))
		b.WriteString("\n")
	}
	return b.String()
}
