package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

var (
	wordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	disjunctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("114"))
)

func word(s string) string         { return wordStyle.Render(s) }
func disjunctText(s string) string { return disjunctStyle.Render(s) }
func dim(s string) string          { return dimStyle.Render(s) }
func highlight(s string) string    { return highlightStyle.Render(s) }

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int64) string {
	str := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}
	out := make([]byte, 0, len(str)+len(str)/3+1)
	if neg {
		out = append(out, '-')
	}
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}
	return string(out)
}
