package batch

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JaimeStill/dispatch/internal/company"
)

const barWidth = 30

var (
	summaryTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	summaryBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF"))
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

type row struct {
	label string
	count int
}

// Summary renders the emails-per-department table: count, share of the
// total, and a bar scaled to the largest department.
func Summary(counts map[company.Department]int, cat *company.Catalog) string {
	if len(counts) == 0 {
		return "[SUMMARY] No emails processed."
	}

	rows := make([]row, 0, len(counts))
	total, most, width := 0, 0, len("TOTAL")
	for d, c := range counts {
		label := cat.Name(d)
		rows = append(rows, row{label: label, count: c})
		total += c
		most = max(most, c)
		width = max(width, len(label))
	}

	slices.SortFunc(rows, func(a, b row) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return strings.Compare(a.label, b.label)
	})

	var b strings.Builder
	b.WriteString(summaryTitle.Render("[SUMMARY] Emails per department"))
	b.WriteString("\n")
	for _, r := range rows {
		pct := float64(r.count) / float64(total) * 100
		bar := strings.Repeat("█", r.count*barWidth/most)
		fmt.Fprintf(&b, "%-*s  %4d  (%5.1f%%)  %s\n", width, r.label, r.count, pct, summaryBar.Render(bar))
	}
	fmt.Fprintf(&b, "%-*s  %4d", width, "TOTAL", total)

	return summaryBox.Render(b.String())
}
