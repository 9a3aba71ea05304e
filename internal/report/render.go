// Package report renders the consolidated cleaning diagnostics for the
// terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fieldnotes-dev/recoder/internal/clean"
)

// Catppuccin Mocha, the subset we use.
const (
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorRed      lipgloss.Color = "#f38ba8"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	columnStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	errStyle     = lipgloss.NewStyle().Foreground(colorRed)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	detailStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	summaryStyle = lipgloss.NewStyle().Foreground(colorSubtext0).MarginTop(1)
)

// Render formats the consolidated report as styled terminal output. A nil
// or issue-free report renders as a single all-clear line.
func Render(r *clean.Report) string {
	if r.Empty() {
		return okStyle.Render("all values matched, nothing to report")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("cleaning report"))
	b.WriteString("\n")

	for _, c := range r.Columns {
		if len(c.Warnings) == 0 && len(c.Errors) == 0 {
			continue
		}
		b.WriteString(columnStyle.Render(c.Label))
		b.WriteString("\n")
		for _, w := range c.Warnings {
			line := warnStyle.Render(fmt.Sprintf("  unmatched %q (x%d)", w.Value, w.Count))
			if w.Suggestion != "" {
				line += detailStyle.Render(fmt.Sprintf("  did you mean %q?", w.Suggestion))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		for _, e := range c.Errors {
			b.WriteString(errStyle.Render("  bad wordlist: " + e))
			b.WriteString("\n")
		}
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf("%d warning(s), %d error(s) across %d column(s)",
		r.TotalWarnings(), r.TotalErrors(), len(r.Columns))))
	return b.String()
}
